package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/market-scout/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart file names written by WriteCensusCharts.
const (
	ChartEducationIncome  = "census_education_vs_income.png"
	ChartEmployedHousing  = "census_employed_vs_housing.png"
	ChartCorrelation      = "census_correlation_heatmap.png"
	ChartRegionalAverages = "census_regional_demand.png"
)

var (
	scatterColor = color.RGBA{R: 31, G: 119, B: 180, A: 128}
	barColors    = []color.Color{
		color.RGBA{R: 31, G: 119, B: 180, A: 255},
		color.RGBA{R: 255, G: 127, B: 14, A: 255},
		color.RGBA{R: 44, G: 160, B: 44, A: 255},
	}
)

// WriteCensusCharts renders the census charts as PNG files in dir and returns
// the paths written. Scatter plots with no complete pairs are skipped.
func WriteCensusCharts(dir string, r CensusReport) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}

	var written []string
	save := func(p *plot.Plot, name string, w, h vg.Length) error {
		path := filepath.Join(dir, name)
		if err := p.Save(w, h, path); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	scatters := []struct {
		x, y  domain.Metric
		title string
		xl    string
		yl    string
		file  string
	}{
		{domain.MetricEducation, domain.MetricMedianIncome,
			"Education Level vs Median Income by State (Skilled Side Gig Potential)",
			"Education Level", "Median Income", ChartEducationIncome},
		{domain.MetricEmployedPopulation, domain.MetricHousingUnits,
			"Employed Population vs Housing Units (Housing-based Side Gigs)",
			"Employed Population", "Housing Units", ChartEmployedHousing},
	}
	for _, s := range scatters {
		p, err := scatterPlot(r.Records, s.x, s.y, s.title, s.xl, s.yl)
		if err != nil {
			return written, err
		}
		if p == nil {
			continue
		}
		if err := save(p, s.file, 8*vg.Inch, 6*vg.Inch); err != nil {
			return written, err
		}
	}

	heat, err := correlationHeatmap(r.Correlation)
	if err != nil {
		return written, err
	}
	if err := save(heat, ChartCorrelation, 8*vg.Inch, 6*vg.Inch); err != nil {
		return written, err
	}

	if len(r.Regions) > 0 {
		bars, err := regionBarChart(r.Regions)
		if err != nil {
			return written, err
		}
		if err := save(bars, ChartRegionalAverages, 10*vg.Inch, 6*vg.Inch); err != nil {
			return written, err
		}
	}

	return written, nil
}

func scatterPlot(records []domain.StateRecord, x, y domain.Metric, title, xLabel, yLabel string) (*plot.Plot, error) {
	xs, ys := domain.Pairs(records, x, y)
	if len(xs) == 0 {
		return nil, nil
	}

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter %s/%s: %w", x.Label(), y.Label(), err)
	}
	s.GlyphStyle.Color = scatterColor
	s.GlyphStyle.Radius = vg.Points(3)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(s, plotter.NewGrid())
	return p, nil
}

// correlationGrid adapts a CorrelationMatrix to plotter.GridXYZ with the
// first metric on the top row.
type correlationGrid struct {
	m domain.CorrelationMatrix
}

func (g correlationGrid) Dims() (c, r int) { n := len(g.m.Metrics); return n, n }
func (g correlationGrid) Z(c, r int) float64 {
	return g.m.At(g.row(r), c)
}
func (g correlationGrid) X(c int) float64 { return float64(c) }
func (g correlationGrid) Y(r int) float64 { return float64(r) }
func (g correlationGrid) row(r int) int   { return len(g.m.Metrics) - 1 - r }

func correlationHeatmap(m domain.CorrelationMatrix) (*plot.Plot, error) {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	grid := correlationGrid{m: m}
	h := plotter.NewHeatMap(grid, cm.Palette(255))
	h.Min, h.Max = -1, 1
	h.NaN = color.Gray{Y: 200}

	n := len(m.Metrics)
	labels := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, n*n),
		Labels: make([]string, 0, n*n),
	}
	xTicks := make(plot.ConstantTicks, n)
	yTicks := make(plot.ConstantTicks, n)
	for c := 0; c < n; c++ {
		xTicks[c] = plot.Tick{Value: float64(c), Label: m.Metrics[c].Label()}
		yTicks[c] = plot.Tick{Value: float64(c), Label: m.Metrics[grid.row(c)].Label()}
		for r := 0; r < n; r++ {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			labels.Labels = append(labels.Labels, formatCoefficient(grid.Z(c, r)))
		}
	}

	annotations, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = -0.5
		annotations.TextStyle[i].YAlign = -0.5
	}

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"
	p.X.Tick.Marker = xTicks
	p.Y.Tick.Marker = yTicks
	p.Add(h, annotations)
	return p, nil
}

func regionBarChart(regions []domain.RegionAverages) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Regional Demand for Side Gigs"
	p.X.Label.Text = "Region"
	p.Y.Label.Text = "Value"

	width := vg.Points(18)
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = string(r.Region)
	}

	metrics := domain.RegionAverageMetrics
	for i, m := range metrics {
		vals := make(plotter.Values, len(regions))
		for j, r := range regions {
			v := r.Value(m)
			if math.IsNaN(v) {
				v = 0
			}
			vals[j] = v
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return nil, fmt.Errorf("bar chart %s: %w", m.Label(), err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = barColors[i%len(barColors)]
		bars.Offset = width * vg.Length(i-len(metrics)/2)
		p.Add(bars)
		p.Legend.Add(m.Label(), bars)
	}

	p.Legend.Top = true
	p.NominalX(names...)
	return p, nil
}
