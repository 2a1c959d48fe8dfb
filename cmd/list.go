package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved load panels",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.List()
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println("═══════════════════════════════════════════════════════════════")
		fmt.Println("     SAVED LOAD PANELS")
		fmt.Println("═══════════════════════════════════════════════════════════════")
		fmt.Println()

		if len(records) == 0 {
			fmt.Println("  No panels saved yet. Use 'gopanel calc' to add one.")
			fmt.Println()
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  ID\tDescription\tP (W)\tD (VA)\tI (A)\tV (V)\tΔV (%%)\tFA\tNE\tTE\tDJ (A)\n")
		fmt.Fprintf(w, "  ──\t───────────\t─────\t──────\t─────\t─────\t──────\t──\t──\t──\t──────\n")
		for _, r := range records {
			fmt.Fprintf(w, "  %s\t%s\t%.2f\t%.2f\t%.2f\t%.0f\t%.2f\t%s\t%s\t%g\t%g\n",
				r.ID, r.Name, r.TotalPower, r.TotalDemand, r.AverageCurrent,
				r.PhaseVoltage, r.VoltageDrop, r.Phase, r.Neutral, r.Ground, r.Breaker)
		}
		w.Flush()
		fmt.Println()
		fmt.Printf("  %d panel(s)\n\n", len(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
