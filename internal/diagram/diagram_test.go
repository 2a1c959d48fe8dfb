package diagram

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gopanel/internal/panel"
)

func sampleRecords(t *testing.T) []panel.Result {
	t.Helper()
	inputs := []panel.Input{
		{Name: "QD-ILUM", PowerFactor: 0.92, DemandFactor: 1, Distance: 40, PowerR: 3000, PowerS: 3000, PowerT: 3000, PhaseVoltage: 380},
		{Name: "QD-BOMBAS", PowerFactor: 0.8, DemandFactor: 0.7, Distance: 120, PowerR: 8000, PowerS: 8000, PhaseVoltage: 220},
		{Name: "QD-AR", PowerFactor: 0.92, DemandFactor: 0.9, Distance: 250, PowerR: 25000, PowerS: 30000, PowerT: 20000, PhaseVoltage: 380},
	}
	out := make([]panel.Result, len(inputs))
	for i, in := range inputs {
		r, err := panel.Compute(in)
		require.NoError(t, err)
		out[i] = *r
	}
	return out
}

var pngMagic = []byte("\x89PNG")

func TestWriteChartAllKinds(t *testing.T) {
	records := sampleRecords(t)
	for _, kind := range ChartKinds {
		t.Run(kind, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteChart(kind, records, "png", &buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestNewChartUnknownKind(t *testing.T) {
	_, err := NewChart("pie", sampleRecords(t))
	require.Error(t, err)
}

func TestVoltageDropChartNeedsRecords(t *testing.T) {
	_, err := VoltageDropChart(nil)
	require.Error(t, err)
}

func TestExportChartByExtension(t *testing.T) {
	dir := t.TempDir()
	records := sampleRecords(t)

	svg := filepath.Join(dir, "charts", "drop.svg")
	written, err := ExportChart(ChartDrop, records, svg)
	require.NoError(t, err)
	assert.Equal(t, svg, written)
	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	// Unknown extensions fall back to png
	noExt := filepath.Join(dir, "power")
	written, err = ExportChart(ChartPower, records, noExt)
	require.NoError(t, err)
	assert.Equal(t, noExt+".png", written)
	_, err = os.Stat(written)
	require.NoError(t, err)
}

func TestDrawVoltageDropGraph(t *testing.T) {
	assert.Empty(t, DrawVoltageDropGraph(nil))

	out := DrawVoltageDropGraph(sampleRecords(t))
	assert.Contains(t, out, "Voltage drop")

	// A single panel still renders
	single := DrawVoltageDropGraph(sampleRecords(t)[:1])
	assert.NotEmpty(t, strings.TrimSpace(single))
}

func TestDrawPhaseBars(t *testing.T) {
	out := DrawPhaseBars("CURRENT PER PHASE", "A", [3]float64{10, 20, 0})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[3], strings.Repeat("█", 40))
	assert.Contains(t, lines[4], "0.00 A")

	// All zero must not divide by zero
	assert.NotPanics(t, func() { DrawPhaseBars("EMPTY", "A", [3]float64{}) })
}

func TestDrawPowerDemandBars(t *testing.T) {
	s := panel.Summarize(sampleRecords(t))
	out := DrawPowerDemandBars(s)
	assert.Contains(t, out, "Phase R")
	assert.Contains(t, out, "demand")
}

func TestDrawSummaryBoxAlignsAccents(t *testing.T) {
	out := DrawSummaryBox("RESUMO", []string{"Subestação: 112.5 kVA", "ok"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)), l)
	}
}
