package diagram

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/gopanel/internal/nbr"
	"github.com/alexiusacademia/gopanel/internal/panel"
)

var phaseLabels = [3]string{"R", "S", "T"}

// DrawPhaseBars draws one horizontal bar per phase scaled to the largest value
func DrawPhaseBars(title, unit string, values [3]float64) string {
	var sb strings.Builder

	width := 40
	maxValue := max(values[0], values[1], values[2])

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n", title))
	sb.WriteString(fmt.Sprintf("  %s\n", strings.Repeat("─", len([]rune(title)))))

	for i, v := range values {
		barLen := 0
		if maxValue > 0 {
			barLen = int(v / maxValue * float64(width))
		}
		sb.WriteString(fmt.Sprintf("  Phase %s │%s %.2f %s\n", phaseLabels[i], strings.Repeat("█", barLen), v, unit))
	}

	return sb.String()
}

// DrawPowerDemandBars draws installed power next to demand for each phase (kW)
func DrawPowerDemandBars(s panel.Summary) string {
	var sb strings.Builder

	width := 40
	maxValue := max(s.PhasePower[0], s.PhasePower[1], s.PhasePower[2])

	sb.WriteString("\n")
	sb.WriteString("  INSTALLED POWER vs DEMAND PER PHASE\n")
	sb.WriteString("  ───────────────────────────────────\n")

	scale := func(v float64) int {
		if maxValue <= 0 {
			return 0
		}
		return int(v / maxValue * float64(width))
	}

	for i := range phaseLabels {
		sb.WriteString(fmt.Sprintf("  Phase %s  installed │%s %.2f kW\n",
			phaseLabels[i], strings.Repeat("█", scale(s.PhasePower[i])), s.PhasePower[i]/1000))
		sb.WriteString(fmt.Sprintf("           demand    │%s %.2f kW\n",
			strings.Repeat("░", scale(s.PhaseDemand[i])), s.PhaseDemand[i]/1000))
	}

	return sb.String()
}

// DrawVoltageDropGraph plots the voltage drop of each panel in save order
func DrawVoltageDropGraph(records []panel.Result) string {
	if len(records) == 0 {
		return ""
	}

	drops := make([]float64, len(records))
	for i, r := range records {
		drops[i] = r.VoltageDrop
	}
	if len(drops) == 1 {
		drops = append(drops, drops[0])
	}

	graph := asciigraph.Plot(drops,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(2),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(nbr.MaxVoltageDrop),
		asciigraph.Caption(fmt.Sprintf("Voltage drop (%%) per panel, limit %.0f%%", nbr.MaxVoltageDrop)),
	)
	return "\n" + graph + "\n"
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// pad right-pads s to n runes; %-*s counts bytes and breaks on accents
func pad(s string, n int) string {
	if gap := n - len([]rune(s)); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
