package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexiusacademia/gopanel/internal/diagram"
	"github.com/spf13/cobra"
)

var (
	chartKind string
	chartFile string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Export a chart of the saved panels",
	Long: `Export a chart built from the saved panels. The image format
follows the file extension (png, svg, pdf, jpg).

Kinds:
  power       installed power vs demand per phase (kW)
  current     summed current per phase (A)
  drop        voltage drop per panel against the 3% limit
  substation  total demand against the substation ratings (kVA)

Example:
  gopanel chart --kind drop -o drop.svg`,
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
			return errors.New("no panels saved; nothing to chart")
		}

		written, err := diagram.ExportChart(chartKind, records, chartFile)
		if err != nil {
			return fmt.Errorf("error exporting chart: %w", err)
		}
		fmt.Printf("  Chart exported to: %s\n", written)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartKind, "kind", "k", diagram.ChartPower,
		"Chart kind: "+strings.Join(diagram.ChartKinds, ", "))
	chartCmd.Flags().StringVarP(&chartFile, "output", "o", "chart.png", "Output image file")
}
