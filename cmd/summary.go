package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gopanel/internal/diagram"
	"github.com/alexiusacademia/gopanel/internal/panel"
	"github.com/spf13/cobra"
)

var summaryGraphs bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize saved panels and recommend a substation",
	Long: `Print totals for every saved panel: installed power and demand
per phase, summed currents, the worst voltage drop and the smallest
standard substation rating that covers the total demand.`,
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
		if len(records) == 0 {
			fmt.Println("  No panels saved yet. Use 'gopanel calc' to add one.")
			return nil
		}

		s := panel.Summarize(records)
		lines := []string{
			fmt.Sprintf("Panels:             %d", s.Count),
			fmt.Sprintf("Installed power:    %.2f kW", s.TotalPower/1000),
			fmt.Sprintf("Total demand:       %.2f kVA", s.DemandKVA),
			fmt.Sprintf("Mean current:       %.2f A", s.MeanCurrent),
			fmt.Sprintf("Phase current mean: %.2f A", s.PhaseCurrentMean),
			fmt.Sprintf("Worst ΔV:           %.2f %% (%s)", s.MaxVoltageDrop, s.MaxDropPanel),
			fmt.Sprintf("Substation:         %g kVA", s.Substation),
		}
		if s.UnresolvedCount > 0 {
			lines = append(lines, fmt.Sprintf("Unresolved panels:  %d", s.UnresolvedCount))
		}

		fmt.Print(diagram.DrawSummaryBox("LOAD PANEL SUMMARY", lines))

		if summaryGraphs {
			fmt.Print(diagram.DrawPowerDemandBars(s))
			fmt.Print(diagram.DrawPhaseBars("CURRENT PER PHASE", "A", s.PhaseCurrent))
			fmt.Print(diagram.DrawVoltageDropGraph(records))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVarP(&summaryGraphs, "graphs", "g", true, "Show text graphs")
}
