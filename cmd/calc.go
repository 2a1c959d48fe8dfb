package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gopanel/internal/nbr"
	"github.com/alexiusacademia/gopanel/internal/panel"
	"github.com/alexiusacademia/gopanel/internal/store"
	"github.com/spf13/cobra"
)

var (
	// Panel inputs
	calcName     string
	calcFP       float64
	calcFD       float64
	calcDistance float64
	calcPR       float64
	calcPS       float64
	calcPT       float64
	calcVoltage  float64

	// Options
	calcFile   string
	calcDryRun bool
	calcForce  bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Size the feeder and breaker of a load panel",
	Long: `Compute average current, voltage drop, conductors and breaker for a
load panel and append the result to the saved table.

Circuit type follows the loaded phases:
  - all three phases loaded:  I = P / (V·√3·fp)
  - any phase unloaded:       I = P / (V·fp)

The conductor is the smallest size, with the fewest parallel runs (up
to 5), whose ampacity exceeds the current and whose voltage drop stays
below 3%. The breaker is the first rating above the current (32 A min).

Options offered:
  fp       0.92, 0.80, 0.75, 0.70
  fd       1.0, 0.9, 0.8, 0.7, 0.6, 0.5
  voltage  220, 380

Examples:
  # Three-phase lighting panel 40 m from the main board
  gopanel calc --name "QD-ILUM" --pr 3000 --ps 3000 --pt 3000 --distance 40 --voltage 380

  # Two-phase panel with demand factor 0.8, no save
  gopanel calc -n "QD-BOMBAS" --pr 5000 --ps 5000 -d 30 --fd 0.8 --dry-run

  # Batch from a JSON array of panels
  gopanel calc --file panels.json`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().StringVarP(&calcName, "name", "n", "", "Panel description")
	calcCmd.Flags().Float64Var(&calcFP, "fp", 0.92, "Power factor")
	calcCmd.Flags().Float64Var(&calcFD, "fd", 1.0, "Demand factor")
	calcCmd.Flags().Float64VarP(&calcDistance, "distance", "d", 0, "Distance from the main board (m)")
	calcCmd.Flags().Float64Var(&calcPR, "pr", 0, "Installed power on phase R (W)")
	calcCmd.Flags().Float64Var(&calcPS, "ps", 0, "Installed power on phase S (W)")
	calcCmd.Flags().Float64Var(&calcPT, "pt", 0, "Installed power on phase T (W)")
	calcCmd.Flags().Float64VarP(&calcVoltage, "voltage", "v", 220, "Phase voltage (V)")

	calcCmd.Flags().StringVarP(&calcFile, "file", "f", "", "JSON file with an array of panels")
	calcCmd.Flags().BoolVar(&calcDryRun, "dry-run", false, "Compute and print without saving")
	calcCmd.Flags().BoolVar(&calcForce, "force", false, "Save unresolved results too")
}

func runCalc(cmd *cobra.Command, args []string) error {
	var inputs []panel.Input
	if calcFile != "" {
		loaded, err := panel.LoadInputs(calcFile, settings.Sizing.Strict)
		if err != nil {
			return fmt.Errorf("error loading panels: %w", err)
		}
		inputs = loaded
	} else {
		in := panel.Input{
			Name:         calcName,
			PowerFactor:  calcFP,
			DemandFactor: calcFD,
			Distance:     calcDistance,
			PowerR:       calcPR,
			PowerS:       calcPS,
			PowerT:       calcPT,
			PhaseVoltage: calcVoltage,
		}
		check := in.Validate
		if settings.Sizing.Strict {
			check = in.Strict
		}
		if err := check(); err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}
		inputs = []panel.Input{in}
	}

	var st store.Store
	if !calcDryRun {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		st = s
	}

	var skipped int
	for _, in := range inputs {
		result, err := panel.Compute(in)
		if err != nil {
			return err
		}

		if st != nil {
			// Show the number the panel will receive
			if id, err := st.NextID(); err != nil {
				log.Warn("panel number unavailable", slog.Any("error", err))
				result.ID = store.FormatID(1)
			} else {
				result.ID = id
			}
		}

		printCalcResult(result)

		if st == nil {
			continue
		}
		if !result.Resolved() && !calcForce {
			fmt.Println("  Not saved: sizing is unresolved (use --force to save anyway).")
			fmt.Println()
			skipped++
			continue
		}
		if err := st.Append(result); err != nil {
			return err
		}
		fmt.Printf("  Saved as %s.\n\n", result.ID)
	}

	if skipped > 0 {
		return errors.New("some panels could not be sized and were not saved")
	}
	return nil
}

func printCalcResult(r *panel.Result) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     LOAD PANEL FEEDER SIZING")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	// Input summary
	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if r.ID != "" {
		fmt.Fprintf(w, "  Panel:\t%s\n", r.ID)
	}
	fmt.Fprintf(w, "  Description:\t%s\n", r.Name)
	fmt.Fprintf(w, "  Power factor (fp):\t%.2f\n", r.PowerFactor)
	fmt.Fprintf(w, "  Demand factor (fd):\t%.2f\n", r.DemandFactor)
	fmt.Fprintf(w, "  Phase / line voltage:\t%.0f V / %.0f V\n", r.PhaseVoltage, r.LineVoltage)
	fmt.Fprintf(w, "  Distance:\t%.2f m\n", r.Distance)
	w.Flush()
	fmt.Println()

	// Per-phase loads
	fmt.Println("LOADS PER PHASE:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Phase\tInstalled (W)\tDemand (W)\tCurrent (A)\n")
	fmt.Fprintf(w, "  ─────\t─────────────\t──────────\t───────────\n")
	powers, demands, currents := r.Powers(), r.Demands(), r.Currents()
	for i, name := range []string{"R", "S", "T"} {
		fmt.Fprintf(w, "  %s\t%.2f\t%.2f\t%.2f\n", name, powers[i], demands[i], currents[i])
	}
	w.Flush()
	fmt.Println()

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Circuit:\t%s\n", r.Circuit)
	fmt.Fprintf(w, "  Total installed power:\t%.2f W\n", r.TotalPower)
	fmt.Fprintf(w, "  Total demand:\t%.2f VA\n", r.TotalDemand)
	fmt.Fprintf(w, "  Average current:\t%.2f A\n", r.AverageCurrent)
	w.Flush()
	fmt.Println()

	// Result
	fmt.Println("SIZING RESULT:")
	fmt.Println("───────────────────────────────────────────────────────────────")

	if r.Resolved() {
		fmt.Printf("  ╔═════════════════════════════════════════╗\n")
		fmt.Printf("  ║  PHASE   (FA) = %-10s mm²           \n", r.Phase)
		fmt.Printf("  ║  NEUTRAL (NE) = %-10s mm²           \n", r.Neutral)
		fmt.Printf("  ║  GROUND  (TE) = %-10g mm²           \n", r.Ground)
		fmt.Printf("  ║  BREAKER      = %-10g A             \n", r.Breaker)
		fmt.Printf("  ╚═════════════════════════════════════════╝\n")
		fmt.Println()
		fmt.Printf("  ΔV = %.2f%% < %.0f%% ✓\n", r.VoltageDrop, nbr.MaxVoltageDrop)
		fmt.Printf("  I = %.2f A < %d × %g A ✓\n", r.AverageCurrent, r.Runs,
			ratedCurrentFor(r.CrossSection))
	} else {
		fmt.Println("  ╔═════════════════════════════════════════╗")
		fmt.Println("  ║  SIZING UNRESOLVED                      ║")
		fmt.Println("  ╚═════════════════════════════════════════╝")
		fmt.Println()
		for _, reason := range r.Unresolved {
			fmt.Printf("  • %s\n", reason)
		}
	}
	fmt.Println()
}

func ratedCurrentFor(crossSection float64) float64 {
	for _, c := range nbr.Conductors() {
		if c.CrossSection == crossSection {
			return c.RatedCurrent
		}
	}
	return 0
}
