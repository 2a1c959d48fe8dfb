package diagram

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/alexiusacademia/gopanel/internal/nbr"
	"github.com/alexiusacademia/gopanel/internal/panel"
)

// Chart kinds
const (
	ChartPower      = "power"
	ChartCurrent    = "current"
	ChartDrop       = "drop"
	ChartSubstation = "substation"
)

// ChartKinds lists the charts that can be rendered
var ChartKinds = []string{ChartPower, ChartCurrent, ChartDrop, ChartSubstation}

var (
	colorPower   = color.RGBA{R: 22, G: 43, B: 78, A: 255}
	colorDemand  = color.RGBA{R: 100, G: 149, B: 237, A: 255}
	colorCurrent = color.RGBA{R: 139, G: 69, B: 19, A: 255}
	colorLimit   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	colorPick    = color.RGBA{R: 0, G: 150, B: 0, A: 255}
	colorRequest = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

// NewChart builds the requested chart for records
func NewChart(kind string, records []panel.Result) (*plot.Plot, error) {
	switch kind {
	case ChartPower:
		return PowerDemandChart(panel.Summarize(records))
	case ChartCurrent:
		return CurrentChart(panel.Summarize(records))
	case ChartDrop:
		return VoltageDropChart(records)
	case ChartSubstation:
		return SubstationChart(panel.Summarize(records))
	default:
		return nil, fmt.Errorf("unknown chart %q (want one of %s)", kind, strings.Join(ChartKinds, ", "))
	}
}

// PowerDemandChart groups installed power and demand per phase (kW)
func PowerDemandChart(s panel.Summary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Installed Power vs Demand per Phase"
	p.Y.Label.Text = "kW"

	w := vg.Points(20)

	power, err := plotter.NewBarChart(toKilo(s.PhasePower), w)
	if err != nil {
		return nil, err
	}
	power.Color = colorPower
	power.Offset = -w / 2

	demand, err := plotter.NewBarChart(toKilo(s.PhaseDemand), w)
	if err != nil {
		return nil, err
	}
	demand.Color = colorDemand
	demand.Offset = w / 2

	p.Add(power, demand)
	p.Legend.Add("Installed", power)
	p.Legend.Add("Demand", demand)
	p.Legend.Top = true
	p.NominalX("Phase R", "Phase S", "Phase T")

	return p, nil
}

// CurrentChart shows the summed current of each phase
func CurrentChart(s panel.Summary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Current per Phase (mean %.2f A)", s.PhaseCurrentMean)
	p.Y.Label.Text = "A"

	bars, err := plotter.NewBarChart(plotter.Values(s.PhaseCurrent[:]), vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = colorCurrent
	p.Add(bars)
	p.NominalX("Phase R", "Phase S", "Phase T")

	return p, nil
}

// VoltageDropChart shows the voltage drop of every panel against the limit
func VoltageDropChart(records []panel.Result) (*plot.Plot, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no panels to chart")
	}

	p := plot.New()
	p.Title.Text = "Voltage Drop per Circuit"
	p.Y.Label.Text = "%"

	drops := make(plotter.Values, len(records))
	names := make([]string, len(records))
	for i, r := range records {
		drops[i] = r.VoltageDrop
		names[i] = r.Name
	}

	bars, err := plotter.NewBarChart(drops, vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = colorDemand
	p.Add(bars)

	limit, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: nbr.MaxVoltageDrop},
		{X: float64(len(records)) - 0.5, Y: nbr.MaxVoltageDrop},
	})
	if err != nil {
		return nil, err
	}
	limit.LineStyle.Width = vg.Points(1.5)
	limit.LineStyle.Color = colorLimit
	limit.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(limit)
	p.Legend.Add(fmt.Sprintf("Limit %.0f%%", nbr.MaxVoltageDrop), limit)
	p.Legend.Top = true

	p.NominalX(names...)
	p.Y.Min = 0

	return p, nil
}

// SubstationChart compares standard transformer ratings with the computed demand
func SubstationChart(s panel.Summary) (*plot.Plot, error) {
	ratings := nbr.Substations()

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Demand %.2f kVA vs Substation Ratings", s.DemandKVA)
	p.Y.Label.Text = "kVA"

	available := make(plotter.Values, len(ratings))
	picked := make(plotter.Values, len(ratings))
	names := make([]string, len(ratings))
	for i, r := range ratings {
		names[i] = fmt.Sprintf("%g", r)
		if r == s.Substation {
			picked[i] = r
		} else {
			available[i] = r
		}
	}

	w := vg.Points(18)
	availBars, err := plotter.NewBarChart(available, w)
	if err != nil {
		return nil, err
	}
	availBars.Color = colorDemand

	pickBars, err := plotter.NewBarChart(picked, w)
	if err != nil {
		return nil, err
	}
	pickBars.Color = colorPick

	demand, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: s.DemandKVA},
		{X: float64(len(ratings)) - 0.5, Y: s.DemandKVA},
	})
	if err != nil {
		return nil, err
	}
	demand.LineStyle.Width = vg.Points(1.5)
	demand.LineStyle.Color = colorRequest
	demand.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}

	p.Add(availBars, pickBars, demand)
	p.Legend.Add("Available", availBars)
	p.Legend.Add(fmt.Sprintf("Recommended %g kVA", s.Substation), pickBars)
	p.Legend.Add("Computed demand", demand)
	p.Legend.Top = true
	p.Legend.Left = true
	p.NominalX(names...)

	return p, nil
}

// ExportChart saves a chart and returns the path written. The format follows
// the file extension (png, svg, pdf, jpg); anything else gets ".png" appended.
func ExportChart(kind string, records []panel.Result, filename string) (string, error) {
	p, err := NewChart(kind, records)
	if err != nil {
		return "", err
	}

	width := 8 * vg.Inch
	height := 6 * vg.Inch

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg":
	default:
		filename += ".png"
	}
	if err := p.Save(width, height, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// WriteChart renders a chart to w in the given format
func WriteChart(kind string, records []panel.Result, format string, w io.Writer) error {
	p, err := NewChart(kind, records)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(8*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func toKilo(v [3]float64) plotter.Values {
	return plotter.Values{v[0] / 1000, v[1] / 1000, v[2] / 1000}
}
