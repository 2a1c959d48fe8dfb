package nbr

import "fmt"

// Reference data for 0.6/1 kV EPR/XLPE copper cables (Voltenax family),
// installation method B1, three loaded conductors.

const (
	// MaxVoltageDrop is the voltage-drop ceiling (%) for a feeder run
	MaxVoltageDrop = 3.0

	// MaxParallelRuns is the largest number of conductors per phase tried
	MaxParallelRuns = 5

	// BreakerFloor is the minimum breaker rating (A)
	BreakerFloor = 32.0
)

// Conductor is one row of the cable table
type Conductor struct {
	DropFactor   float64 // Voltage-drop coefficient (V/A·km at cos φ 0.95)
	CrossSection float64 // Phase conductor cross-section (mm²)
	Ground       float64 // Protective (ground) conductor cross-section (mm²)
	RatedCurrent float64 // Ampacity (A)
}

// Parallel arrays, index-aligned by ascending conductor size.
var (
	dropFactors   = [...]float64{7.54, 4.5, 2.86, 1.83, 1.34, 1, 0.71, 0.53, 0.43, 0.36}
	crossSections = [...]float64{6, 10, 16, 25, 35, 50, 70, 95, 120, 150}
	groundSizes   = [...]float64{6, 10, 16, 16, 16, 25, 35, 50, 70, 95}
	ratedCurrents = [...]float64{54, 75, 100, 133, 164, 198, 253, 306, 354, 407}
)

// Molded-case breaker ratings (A), ascending
var breakerLadder = [...]float64{40, 50, 63, 100, 125, 150, 160, 200, 250, 320, 400, 500, 630, 700, 800, 1000, 1600, 2000, 2500}

// Standard distribution transformer ratings (kVA), ascending
var substationRatings = [...]float64{75, 112.5, 225, 300, 500, 750, 1000, 1250, 1500, 1750, 2000}

// Recognized form options
var (
	powerFactors  = [...]float64{0.92, 0.80, 0.75, 0.70}
	demandFactors = [...]float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5}
	phaseVoltages = [...]float64{220, 380}
)

func init() {
	if err := Validate(); err != nil {
		panic(err)
	}
}

// Validate checks that the reference tables are well formed
func Validate() error {
	n := len(dropFactors)
	if len(crossSections) != n || len(groundSizes) != n || len(ratedCurrents) != n {
		return fmt.Errorf("conductor table arrays differ in length: %d/%d/%d/%d",
			n, len(crossSections), len(groundSizes), len(ratedCurrents))
	}
	for i := 1; i < n; i++ {
		if crossSections[i] <= crossSections[i-1] {
			return fmt.Errorf("cross-section not increasing at row %d", i)
		}
		if ratedCurrents[i] <= ratedCurrents[i-1] {
			return fmt.Errorf("rated current not increasing at row %d", i)
		}
	}
	if !strictlyIncreasing(breakerLadder[:]) {
		return fmt.Errorf("breaker ladder not strictly increasing")
	}
	if !strictlyIncreasing(substationRatings[:]) {
		return fmt.Errorf("substation ratings not strictly increasing")
	}
	return nil
}

func strictlyIncreasing(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] <= v[i-1] {
			return false
		}
	}
	return true
}

// Conductors returns the cable table ordered by ascending size
func Conductors() []Conductor {
	rows := make([]Conductor, len(crossSections))
	for i := range rows {
		rows[i] = Conductor{
			DropFactor:   dropFactors[i],
			CrossSection: crossSections[i],
			Ground:       groundSizes[i],
			RatedCurrent: ratedCurrents[i],
		}
	}
	return rows
}

// Breakers returns a copy of the breaker ladder
func Breakers() []float64 { return clone(breakerLadder[:]) }

// Substations returns a copy of the substation ratings
func Substations() []float64 { return clone(substationRatings[:]) }

// PowerFactors returns the power factor options offered to the user
func PowerFactors() []float64 { return clone(powerFactors[:]) }

// DemandFactors returns the demand factor options offered to the user
func DemandFactors() []float64 { return clone(demandFactors[:]) }

// PhaseVoltages returns the supply voltage options offered to the user
func PhaseVoltages() []float64 { return clone(phaseVoltages[:]) }

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// SelectBreaker picks the breaker rating for a given current.
// Below the floor the floor is returned; above the largest rating it returns 0.
func SelectBreaker(current float64) float64 {
	if current < BreakerFloor {
		return BreakerFloor
	}
	for _, rating := range breakerLadder {
		if current < rating {
			return rating
		}
	}
	return 0
}

// LineVoltage maps a phase voltage to its complementary value
func LineVoltage(phase float64) float64 {
	if phase == 220 {
		return 127
	}
	return 220
}

// RecommendSubstation returns the smallest standard rating (kVA) that covers
// the demand, or the largest rating if none does.
func RecommendSubstation(demandKVA float64) float64 {
	for _, rating := range substationRatings {
		if rating >= demandKVA {
			return rating
		}
	}
	return substationRatings[len(substationRatings)-1]
}

// IsPowerFactor reports whether fp is one of the recognized options
func IsPowerFactor(fp float64) bool { return contains(powerFactors[:], fp) }

// IsDemandFactor reports whether fd is one of the recognized options
func IsDemandFactor(fd float64) bool { return contains(demandFactors[:], fd) }

// IsPhaseVoltage reports whether v is one of the recognized options
func IsPhaseVoltage(v float64) bool { return contains(phaseVoltages[:], v) }

func contains(set []float64, v float64) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
