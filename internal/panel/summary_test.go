package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	a, err := Compute(balancedInput())
	require.NoError(t, err)
	a.Name = "A"

	in := balancedInput()
	in.Name = "B"
	in.PowerR, in.PowerS, in.PowerT = 30000, 30000, 30000
	in.Distance = 300
	in.DemandFactor = 0.7
	b, err := Compute(in)
	require.NoError(t, err)

	s := Summarize([]Result{*a, *b})

	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 99000, s.TotalPower, 1e-9)
	assert.InDelta(t, a.TotalDemand+b.TotalDemand, s.TotalDemand, 1e-9)
	assert.InDelta(t, (a.AverageCurrent+b.AverageCurrent)/2, s.MeanCurrent, 1e-9)
	assert.InDelta(t, 33000, s.PhasePower[0], 1e-9)
	assert.InDelta(t, 3000+21000, s.PhaseDemand[1], 1e-9)
	assert.InDelta(t, a.CurrentT+b.CurrentT, s.PhaseCurrent[2], 1e-9)
	assert.Equal(t, "B", s.MaxDropPanel)
	assert.InDelta(t, b.VoltageDrop, s.MaxVoltageDrop, 1e-12)
	assert.Zero(t, s.UnresolvedCount)

	// (9000/0.92 + 90000·0.7/0.92) VA ≈ 78.3 kVA
	assert.InDelta(t, 78.26, s.DemandKVA, 0.01)
	assert.Equal(t, 112.5, s.Substation)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Count)
	assert.Zero(t, s.MeanCurrent)
	assert.Equal(t, 75.0, s.Substation)
}

func TestSummarizeWorstDropOfUnnamedPanel(t *testing.T) {
	records := []Result{
		{Name: "", VoltageDrop: 2.5},
		{Name: "B", VoltageDrop: 1.0},
		{Name: "C", VoltageDrop: 0.4},
	}

	s := Summarize(records)
	assert.Equal(t, 2.5, s.MaxVoltageDrop)
	assert.Equal(t, "", s.MaxDropPanel)
}
