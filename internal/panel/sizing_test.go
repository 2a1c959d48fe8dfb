package panel

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gopanel/internal/nbr"
)

func balancedInput() Input {
	return Input{
		Name:         "QD-LIGHTING",
		PowerFactor:  0.92,
		DemandFactor: 1.0,
		Distance:     50,
		PowerR:       3000,
		PowerS:       3000,
		PowerT:       3000,
		PhaseVoltage: 380,
	}
}

func TestComputeThreePhaseBalanced(t *testing.T) {
	r, err := Compute(balancedInput())
	require.NoError(t, err)

	want := 9000 / (380 * math.Sqrt(3) * 0.92)
	assert.InDelta(t, want, r.AverageCurrent, 1e-9)
	assert.InDelta(t, 14.86, r.AverageCurrent, 0.01)
	assert.Equal(t, ThreePhase, r.Circuit)

	// Equal split, no skew between phases
	for _, c := range r.Currents() {
		assert.InDelta(t, r.AverageCurrent, c, 1e-9)
	}

	assert.Equal(t, "1x6", r.Phase)
	assert.Equal(t, r.Phase, r.Neutral)
	assert.Equal(t, 6.0, r.Ground)
	assert.Equal(t, 1, r.Runs)
	assert.InDelta(t, 50*7.54*want/3800, r.VoltageDrop, 1e-9)
	assert.Equal(t, 32.0, r.Breaker)
	assert.Equal(t, 220.0, r.LineVoltage)
	assert.Equal(t, 9000.0, r.TotalPower)
	assert.InDelta(t, 9000/0.92, r.TotalDemand, 1e-9)
	assert.True(t, r.Resolved())
	assert.Empty(t, r.Unresolved)
	assert.Empty(t, r.ID)
}

func TestComputeThreePhaseUnbalancedRedistributes(t *testing.T) {
	in := balancedInput()
	in.PowerR, in.PowerS, in.PowerT = 6000, 3000, 1500

	r, err := Compute(in)
	require.NoError(t, err)

	third := r.TotalPower / 3
	assert.InDelta(t, r.AverageCurrent*6000/third, r.CurrentR, 1e-9)
	assert.InDelta(t, r.AverageCurrent*3000/third, r.CurrentS, 1e-9)
	assert.InDelta(t, r.AverageCurrent*1500/third, r.CurrentT, 1e-9)
}

func TestComputeTwoPhase(t *testing.T) {
	in := Input{
		Name:         "QD-PUMPS",
		PowerFactor:  0.92,
		DemandFactor: 0.8,
		Distance:     30,
		PowerR:       5000,
		PowerS:       5000,
		PhaseVoltage: 220,
	}

	r, err := Compute(in)
	require.NoError(t, err)

	avg := 10000 / (220 * 0.92)
	assert.Equal(t, TwoPhase, r.Circuit)
	assert.InDelta(t, avg, r.AverageCurrent, 1e-9)
	assert.InDelta(t, avg, r.CurrentR, 1e-9)
	assert.InDelta(t, avg, r.CurrentS, 1e-9)
	assert.Zero(t, r.CurrentT)

	// 6 and 10 mm² exceed 3 % at 30 m; 16 mm² is the first adequate size
	assert.Equal(t, "1x16", r.Phase)
	assert.Equal(t, 16.0, r.Ground)
	assert.Equal(t, 50.0, r.Breaker)
	assert.Equal(t, 127.0, r.LineVoltage)
	assert.InDelta(t, 4000.0, r.DemandR, 1e-9)
	assert.InDelta(t, 0.0, r.DemandT, 1e-9)
}

func TestComputeSingleLoadedPhaseUsesTwoPhaseBranch(t *testing.T) {
	in := Input{PowerFactor: 0.8, DemandFactor: 1, Distance: 10, PowerR: 2000, PhaseVoltage: 220}

	r, err := Compute(in)
	require.NoError(t, err)

	avg := 2000 / (220 * 0.8)
	assert.Equal(t, TwoPhase, r.Circuit)
	assert.InDelta(t, avg, r.AverageCurrent, 1e-9)
	assert.InDelta(t, avg*2, r.CurrentR, 1e-9)
}

func TestComputeParallelRuns(t *testing.T) {
	in := balancedInput()
	in.PowerR, in.PowerS, in.PowerT = 30000, 30000, 30000
	in.Distance = 300

	r, err := Compute(in)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Runs)
	assert.Equal(t, "2x120", r.Phase)
	assert.Equal(t, 70.0, r.Ground)
	assert.Less(t, r.VoltageDrop, nbr.MaxVoltageDrop)
	assert.InDelta(t, 300*0.43*r.AverageCurrent/3800/2, r.VoltageDrop, 1e-9)
	assert.Equal(t, 150.0, r.Breaker)
}

func TestComputeUnresolvedConductor(t *testing.T) {
	in := balancedInput()
	// Well above 407 A × 5 runs
	in.PowerR, in.PowerS, in.PowerT = 500000, 500000, 500000

	r, err := Compute(in)
	require.NoError(t, err)

	assert.Greater(t, r.AverageCurrent, 407.0*5)
	assert.False(t, r.Resolved())
	assert.Empty(t, r.Phase)
	assert.Empty(t, r.Neutral)
	assert.Zero(t, r.Ground)
	assert.Zero(t, r.Runs)
	assert.Zero(t, r.VoltageDrop)
	assert.Len(t, r.Unresolved, 1)
	assert.Equal(t, 2500.0, r.Breaker)
}

func TestComputeUnresolvedBreaker(t *testing.T) {
	in := balancedInput()
	in.PowerR, in.PowerS, in.PowerT = 600000, 600000, 600000

	r, err := Compute(in)
	require.NoError(t, err)

	assert.Greater(t, r.AverageCurrent, 2500.0)
	assert.Zero(t, r.Breaker)
	assert.False(t, r.Resolved())
	assert.Len(t, r.Unresolved, 2)
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Input)
		field string
	}{
		{"negative power", func(in *Input) { in.PowerS = -1 }, "S"},
		{"no load", func(in *Input) { in.PowerR, in.PowerS, in.PowerT = 0, 0, 0 }, "power"},
		{"zero distance", func(in *Input) { in.Distance = 0 }, "distance"},
		{"negative distance", func(in *Input) { in.Distance = -5 }, "distance"},
		{"zero power factor", func(in *Input) { in.PowerFactor = 0 }, "power_factor"},
		{"negative power factor", func(in *Input) { in.PowerFactor = -0.9 }, "power_factor"},
		{"power factor above one", func(in *Input) { in.PowerFactor = 1.2 }, "power_factor"},
		{"zero demand factor", func(in *Input) { in.DemandFactor = 0 }, "demand_factor"},
		{"zero voltage", func(in *Input) { in.PhaseVoltage = 0 }, "phase_voltage"},
		{"NaN distance", func(in *Input) { in.Distance = math.NaN() }, "distance"},
		{"infinite distance", func(in *Input) { in.Distance = math.Inf(1) }, "distance"},
		{"infinite power", func(in *Input) { in.PowerR = math.Inf(1) }, "R"},
		{"NaN power", func(in *Input) { in.PowerT = math.NaN() }, "T"},
		{"NaN power factor", func(in *Input) { in.PowerFactor = math.NaN() }, "power_factor"},
		{"NaN demand factor", func(in *Input) { in.DemandFactor = math.NaN() }, "demand_factor"},
		{"infinite voltage", func(in *Input) { in.PhaseVoltage = math.Inf(-1) }, "phase_voltage"},
		{"name too long", func(in *Input) { in.Name = strings.Repeat("x", MaxNameLength+1) }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := balancedInput()
			tt.mod(&in)

			r, err := Compute(in)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestStrictRejectsUnlistedOptions(t *testing.T) {
	in := balancedInput()
	require.NoError(t, in.Strict())

	in.PowerFactor = 0.85
	assert.ErrorIs(t, in.Strict(), ErrInvalidInput)
	require.NoError(t, in.Validate())

	in = balancedInput()
	in.DemandFactor = 0.65
	assert.ErrorIs(t, in.Strict(), ErrInvalidInput)

	in = balancedInput()
	in.PhaseVoltage = 127
	assert.ErrorIs(t, in.Strict(), ErrInvalidInput)
}

func TestConductorChoiceMonotonicInDistance(t *testing.T) {
	in := balancedInput()
	in.PowerR, in.PowerS, in.PowerT = 20000, 15000, 25000

	prevRuns, prevSize := 0, 0.0
	for d := 5.0; d <= 2000; d += 5 {
		in.Distance = d
		r, err := Compute(in)
		require.NoError(t, err)
		if !r.Resolved() {
			// Once unresolved, longer runs stay unresolved
			for d2 := d; d2 <= 2000; d2 += 50 {
				in.Distance = d2
				r2, err := Compute(in)
				require.NoError(t, err)
				assert.Empty(t, r2.Phase, "distance %.0f", d2)
			}
			return
		}

		require.GreaterOrEqual(t, r.Runs, prevRuns, "distance %.0f", d)
		if r.Runs == prevRuns {
			assert.GreaterOrEqual(t, r.CrossSection, prevSize, "distance %.0f", d)
		}
		prevRuns, prevSize = r.Runs, r.CrossSection
	}
}

func TestVoltageDrops(t *testing.T) {
	drops := VoltageDrops(100, 20, 220)
	rows := nbr.Conductors()
	require.Len(t, drops, len(rows))
	for i, row := range rows {
		assert.InDelta(t, 100*row.DropFactor*20/2200, drops[i], 1e-12)
	}
	for i := 1; i < len(drops); i++ {
		assert.Less(t, drops[i], drops[i-1])
	}
}

func TestDesignation(t *testing.T) {
	assert.Equal(t, "1x6", Designation(1, 6))
	assert.Equal(t, "3x150", Designation(3, 150))
}
