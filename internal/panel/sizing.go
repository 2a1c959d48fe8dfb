package panel

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gopanel/internal/nbr"
)

// Compute sizes the feeder, protective conductor and breaker for one panel.
// The returned result has an empty ID; the record store assigns it.
func Compute(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := in.phasePowers()
	total := p[0] + p[1] + p[2]

	result := &Result{
		Name:         in.Name,
		ActiveR:      in.PowerR,
		ActiveS:      in.PowerS,
		ActiveT:      in.PowerT,
		DemandR:      in.DemandFactor * in.PowerR,
		DemandS:      in.DemandFactor * in.PowerS,
		DemandT:      in.DemandFactor * in.PowerT,
		PowerFactor:  in.PowerFactor,
		DemandFactor: in.DemandFactor,
		PhaseVoltage: in.PhaseVoltage,
		LineVoltage:  nbr.LineVoltage(in.PhaseVoltage),
		TotalPower:   total,
		TotalDemand:  total * in.DemandFactor / in.PowerFactor,
		Distance:     in.Distance,
	}

	// Average current and per-phase redistribution
	var currents [3]float64
	switch {
	case p[0] != 0 && p[1] != 0 && p[2] != 0:
		result.Circuit = ThreePhase
		result.AverageCurrent = total / (in.PhaseVoltage * math.Sqrt(3) * in.PowerFactor)
		for i := range currents {
			currents[i] = result.AverageCurrent * (p[i] / (total / 3))
		}
	case p[0] == 0 || p[1] == 0 || p[2] == 0:
		// Also covers a single loaded phase
		result.Circuit = TwoPhase
		result.AverageCurrent = total / (in.PhaseVoltage * in.PowerFactor)
		for i := range currents {
			currents[i] = result.AverageCurrent * (p[i] / (total / 2))
		}
	default:
		result.Circuit = SinglePhase
		result.AverageCurrent = total / ((in.PhaseVoltage * in.PowerFactor) / math.Sqrt(3))
		for i := range currents {
			currents[i] = result.AverageCurrent * (p[i] / total)
		}
	}
	result.CurrentR, result.CurrentS, result.CurrentT = currents[0], currents[1], currents[2]

	selectConductor(result)

	result.Breaker = nbr.SelectBreaker(result.AverageCurrent)
	if result.Breaker == 0 {
		result.Unresolved = append(result.Unresolved,
			fmt.Sprintf("average current %.2f A exceeds the largest breaker rating", result.AverageCurrent))
	}

	return result, nil
}

// VoltageDrops returns the single-run voltage drop (%) for every conductor row
func VoltageDrops(distance, current, phaseVoltage float64) []float64 {
	rows := nbr.Conductors()
	drops := make([]float64, len(rows))
	for i, row := range rows {
		drops[i] = (distance * row.DropFactor * current) / (10 * phaseVoltage)
	}
	return drops
}

// selectConductor searches for the fewest parallel runs, then the smallest
// conductor, meeting both ampacity and the voltage-drop ceiling.
func selectConductor(r *Result) {
	rows := nbr.Conductors()
	drops := VoltageDrops(r.Distance, r.AverageCurrent, r.PhaseVoltage)

	for n := 1; n <= nbr.MaxParallelRuns; n++ {
		for i, row := range rows {
			ampacity := row.RatedCurrent * float64(n)
			drop := drops[i] / float64(n)
			if r.AverageCurrent < ampacity && drop < nbr.MaxVoltageDrop {
				r.Runs = n
				r.CrossSection = row.CrossSection
				r.Phase = Designation(n, row.CrossSection)
				r.Neutral = r.Phase
				r.Ground = row.Ground
				r.VoltageDrop = drop
				return
			}
		}
	}

	r.Unresolved = append(r.Unresolved, fmt.Sprintf(
		"no conductor up to %d parallel runs carries %.2f A within %.1f%% voltage drop",
		nbr.MaxParallelRuns, r.AverageCurrent, nbr.MaxVoltageDrop))
}

// Designation formats a conductor as "<runs>x<cross-section>"
func Designation(runs int, crossSection float64) string {
	return fmt.Sprintf("%dx%g", runs, crossSection)
}
