package panel

import (
	"errors"
	"fmt"
	"math"

	"github.com/alexiusacademia/gopanel/internal/nbr"
)

// ErrInvalidInput is matched by every input validation failure
var ErrInvalidInput = errors.New("invalid input")

// MaxNameLength is the longest name a spreadsheet cell holds without truncation
const MaxNameLength = 32767

// Input holds the raw values collected for one load panel
type Input struct {
	Name         string  `json:"name"`
	PowerFactor  float64 `json:"power_factor"`  // fp, 0 < fp ≤ 1
	DemandFactor float64 `json:"demand_factor"` // fd, 0 < fd ≤ 1
	Distance     float64 `json:"distance"`      // Feeder length (m)
	PowerR       float64 `json:"power_r"`       // Installed active power, phase R (W)
	PowerS       float64 `json:"power_s"`       // Installed active power, phase S (W)
	PowerT       float64 `json:"power_t"`       // Installed active power, phase T (W)
	PhaseVoltage float64 `json:"phase_voltage"` // V
}

// Validate checks the numeric ranges the calculation depends on
func (in Input) Validate() error {
	if n := len([]rune(in.Name)); n > MaxNameLength {
		return &ValidationError{Field: "name", msg: fmt.Sprintf("name is %d characters long, limit is %d", n, MaxNameLength)}
	}
	for _, f := range in.numericFields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, msg: fmt.Sprintf("%s must be a finite number (got %v)", f.name, f.value)}
		}
	}
	for i, p := range in.phasePowers() {
		if p < 0 {
			return &ValidationError{Field: phaseNames[i], msg: fmt.Sprintf("power on phase %s must not be negative (got %.2f W)", phaseNames[i], p)}
		}
	}
	if in.PowerR == 0 && in.PowerS == 0 && in.PowerT == 0 {
		return &ValidationError{Field: "power", msg: "at least one phase must carry load"}
	}
	if in.Distance <= 0 {
		return &ValidationError{Field: "distance", msg: fmt.Sprintf("distance must be positive (got %.2f m)", in.Distance)}
	}
	if in.PowerFactor <= 0 || in.PowerFactor > 1 {
		return &ValidationError{Field: "power_factor", msg: fmt.Sprintf("power factor must be in (0, 1] (got %.2f)", in.PowerFactor)}
	}
	if in.DemandFactor <= 0 || in.DemandFactor > 1 {
		return &ValidationError{Field: "demand_factor", msg: fmt.Sprintf("demand factor must be in (0, 1] (got %.2f)", in.DemandFactor)}
	}
	if in.PhaseVoltage <= 0 {
		return &ValidationError{Field: "phase_voltage", msg: fmt.Sprintf("phase voltage must be positive (got %.0f V)", in.PhaseVoltage)}
	}
	return nil
}

// Strict runs Validate and also requires fp, fd and voltage to be one of the
// options offered on the input form.
func (in Input) Strict() error {
	if err := in.Validate(); err != nil {
		return err
	}
	if !nbr.IsPowerFactor(in.PowerFactor) {
		return &ValidationError{Field: "power_factor", msg: fmt.Sprintf("power factor %.2f is not one of %v", in.PowerFactor, nbr.PowerFactors())}
	}
	if !nbr.IsDemandFactor(in.DemandFactor) {
		return &ValidationError{Field: "demand_factor", msg: fmt.Sprintf("demand factor %.2f is not one of %v", in.DemandFactor, nbr.DemandFactors())}
	}
	if !nbr.IsPhaseVoltage(in.PhaseVoltage) {
		return &ValidationError{Field: "phase_voltage", msg: fmt.Sprintf("phase voltage %.0f V is not one of %v", in.PhaseVoltage, nbr.PhaseVoltages())}
	}
	return nil
}

type numericField struct {
	name  string
	value float64
}

func (in Input) numericFields() []numericField {
	return []numericField{
		{"R", in.PowerR},
		{"S", in.PowerS},
		{"T", in.PowerT},
		{"distance", in.Distance},
		{"power_factor", in.PowerFactor},
		{"demand_factor", in.DemandFactor},
		{"phase_voltage", in.PhaseVoltage},
	}
}

func (in Input) phasePowers() [3]float64 {
	return [3]float64{in.PowerR, in.PowerS, in.PowerT}
}

var phaseNames = [3]string{"R", "S", "T"}

// ValidationError represents a rejected input value
type ValidationError struct {
	Field string
	msg   string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Is lets errors.Is match ErrInvalidInput
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Circuit is the supply arrangement inferred from the loaded phases
type Circuit string

const (
	ThreePhase  Circuit = "three-phase"
	TwoPhase    Circuit = "two-phase"
	SinglePhase Circuit = "single-phase"
)

// Result holds one computed panel. Field order follows the saved table columns.
type Result struct {
	ID   string `json:"id"`   // N°
	Name string `json:"name"` // DESCRIÇÃO

	ActiveR float64 `json:"active_r"` // W
	ActiveS float64 `json:"active_s"`
	ActiveT float64 `json:"active_t"`

	DemandR float64 `json:"demand_r"` // W
	DemandS float64 `json:"demand_s"`
	DemandT float64 `json:"demand_t"`

	CurrentR float64 `json:"current_r"` // A
	CurrentS float64 `json:"current_s"`
	CurrentT float64 `json:"current_t"`

	PowerFactor  float64 `json:"power_factor"`
	DemandFactor float64 `json:"demand_factor"`
	PhaseVoltage float64 `json:"phase_voltage"` // V
	LineVoltage  float64 `json:"line_voltage"`  // V

	TotalPower     float64 `json:"total_power"`     // W
	TotalDemand    float64 `json:"total_demand"`    // VA
	AverageCurrent float64 `json:"average_current"` // A
	Distance       float64 `json:"distance"`        // m
	VoltageDrop    float64 `json:"voltage_drop"`    // %

	Phase   string  `json:"phase"`   // FA, "n×s"
	Neutral string  `json:"neutral"` // NE, same as phase
	Ground  float64 `json:"ground"`  // TE (mm²)
	Breaker float64 `json:"breaker"` // DISJUNTOR (A)

	// Not persisted
	Circuit      Circuit  `json:"circuit,omitempty"`
	Runs         int      `json:"runs,omitempty"`
	CrossSection float64  `json:"cross_section,omitempty"`
	Unresolved   []string `json:"unresolved,omitempty"`
}

// Resolved reports whether both a conductor and a breaker were found
func (r *Result) Resolved() bool {
	return r.Phase != "" && r.Breaker > 0
}

// Powers returns installed power per phase (R, S, T)
func (r *Result) Powers() [3]float64 { return [3]float64{r.ActiveR, r.ActiveS, r.ActiveT} }

// Demands returns demand per phase (R, S, T)
func (r *Result) Demands() [3]float64 { return [3]float64{r.DemandR, r.DemandS, r.DemandT} }

// Currents returns current per phase (R, S, T)
func (r *Result) Currents() [3]float64 { return [3]float64{r.CurrentR, r.CurrentS, r.CurrentT} }
