package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alexiusacademia/gopanel/internal/config"
	"github.com/alexiusacademia/gopanel/internal/logging"
	"github.com/alexiusacademia/gopanel/internal/store"
	"github.com/alexiusacademia/gopanel/internal/version"
	"github.com/spf13/cobra"
)

var (
	configFile string
	storePath  string
	logLevel   string

	settings *config.Settings
	log      *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gopanel",
	Short: "Load Panel (QD) Feeder Sizing Tool",
	Long: `gopanel - Go Load Panel Sizing

A CLI tool for sizing the feeders of electrical distribution
panels (QD - Quadro de Distribuição).

From the installed power per phase, power factor, demand factor,
supply voltage and run distance it computes:
  - Average and per-phase current
  - Voltage drop (3% ceiling)
  - Phase, neutral and ground conductors, paralleled when needed
  - Molded-case breaker rating

Saved panels are kept in a spreadsheet (sheet "QD") or a SQLite
database and can be charted, summarized and exported.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap()
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gopanel v%-47s║\n", version.Version)
		fmt.Println("  ║   Go Load Panel Feeder Sizing                             ║")
		fmt.Println("  ║   Alexius S. Academia ©  2025                             ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for sizing load panel feeders and breakers.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Three-phase and two-phase average current")
		fmt.Println("    • Conductor selection by ampacity and voltage drop")
		fmt.Println("    • Parallel runs up to 5 conductors per phase")
		fmt.Println("    • Breaker selection from the standard rating ladder")
		fmt.Println("    • Spreadsheet export, charts and substation sizing")
		fmt.Println()
		fmt.Println("  Use 'gopanel --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./gopanel.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Override the store path (workbook or database)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// bootstrap loads settings and configures logging before any command runs
func bootstrap() error {
	s, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if storePath != "" {
		if s.Store.Backend == config.BackendSQLite {
			s.Store.SQLitePath = storePath
		} else {
			s.Store.Path = storePath
		}
	}
	if logLevel != "" {
		s.Log.Level = logLevel
	}

	var out io.Writer = os.Stderr
	if s.Log.File != "" {
		w, err := logging.FileWriter(s.Log.File, logging.Rotation{
			MaxSize:    s.Log.MaxSize,
			MaxBackups: s.Log.MaxBackups,
			MaxAge:     s.Log.MaxAge,
			Compress:   s.Log.Compress,
		})
		if err != nil {
			return fmt.Errorf("error opening log file: %w", err)
		}
		out = w
	}
	logging.SetDefault(logging.New(out, s.Log.Level, s.Log.Format))
	settings = s
	log = logging.Module("cmd")
	return nil
}

// openStore opens the configured store; callers must Close it
func openStore() (store.Store, error) {
	st, err := store.Open(settings, logging.Module("store"))
	if err != nil {
		return nil, err
	}
	if err := st.EnsureInitialized(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}
