package cmd

import (
	"log/slog"

	"github.com/alexiusacademia/gopanel/internal/logging"
	"github.com/alexiusacademia/gopanel/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the panel table over HTTP",
	Long: `Start an HTTP API over the configured store.

Routes:
  POST   /api/panels          compute and save a panel (?force=true keeps unresolved)
  GET    /api/panels          list saved panels
  DELETE /api/panels/:name    delete panels by description
  DELETE /api/panels          delete every panel
  GET    /api/summary         totals and recommended substation
  GET    /api/export          download the table as .xlsx
  GET    /api/charts/:kind    PNG chart (power, current, drop, substation)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := settings.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		log.Info("starting server", slog.Int("port", port), slog.String("backend", settings.Store.Backend))
		return server.New(st, settings.Sizing.Strict, logging.Module("server")).Start(port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Listen port (overrides server.port)")
}
