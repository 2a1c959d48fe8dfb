package panel

import "github.com/alexiusacademia/gopanel/internal/nbr"

// Summary aggregates a set of saved panels
type Summary struct {
	Count int `json:"count"`

	PhasePower   [3]float64 `json:"phase_power"`   // Installed power per phase (W)
	PhaseDemand  [3]float64 `json:"phase_demand"`  // Demand per phase (W)
	PhaseCurrent [3]float64 `json:"phase_current"` // Sum of per-phase currents (A)

	TotalPower       float64 `json:"total_power"`        // W
	TotalDemand      float64 `json:"total_demand"`       // VA
	MeanCurrent      float64 `json:"mean_current"`       // Mean of the panels' average currents (A)
	PhaseCurrentMean float64 `json:"phase_current_mean"` // Mean of PhaseCurrent (A)

	MaxVoltageDrop  float64 `json:"max_voltage_drop"` // %
	MaxDropPanel    string  `json:"max_drop_panel"`
	UnresolvedCount int     `json:"unresolved_count"`

	DemandKVA  float64 `json:"demand_kva"`
	Substation float64 `json:"substation_kva"` // Recommended transformer rating (kVA)
}

// Summarize computes totals and the recommended substation for records
func Summarize(records []Result) Summary {
	s := Summary{Count: len(records)}
	for i := range records {
		r := &records[i]
		p, d, c := r.Powers(), r.Demands(), r.Currents()
		for k := 0; k < 3; k++ {
			s.PhasePower[k] += p[k]
			s.PhaseDemand[k] += d[k]
			s.PhaseCurrent[k] += c[k]
		}
		s.TotalPower += r.TotalPower
		s.TotalDemand += r.TotalDemand
		s.MeanCurrent += r.AverageCurrent
		if i == 0 || r.VoltageDrop > s.MaxVoltageDrop {
			s.MaxVoltageDrop = r.VoltageDrop
			s.MaxDropPanel = r.Name
		}
		if !r.Resolved() {
			s.UnresolvedCount++
		}
	}
	if s.Count > 0 {
		s.MeanCurrent /= float64(s.Count)
	}
	s.PhaseCurrentMean = (s.PhaseCurrent[0] + s.PhaseCurrent[1] + s.PhaseCurrent[2]) / 3

	s.DemandKVA = s.TotalDemand / 1000
	s.Substation = nbr.RecommendSubstation(s.DemandKVA)
	return s
}
