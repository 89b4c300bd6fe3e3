package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RankedState is one row of a ranking report.
type RankedState struct {
	Name  string
	Value float64
}

// TopN returns up to n records with the highest value for m, descending.
// Records missing m are skipped; equal values keep input order.
func TopN(records []StateRecord, m Metric, n int) []RankedState {
	ranked := make([]RankedState, 0, len(records))
	for i := range records {
		if v := records[i].Value(m); v != nil {
			ranked = append(ranked, RankedState{Name: records[i].Name, Value: *v})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CorrelationMatrix is a symmetric matrix of Pearson coefficients. Cells are
// NaN when fewer than two paired observations exist or a column is constant.
type CorrelationMatrix struct {
	Metrics []Metric
	Values  [][]float64
}

// At returns the coefficient between metrics i and j.
func (c CorrelationMatrix) At(i, j int) float64 {
	return c.Values[i][j]
}

// Correlate computes pairwise Pearson correlation over metrics, using for
// each pair only the records where both values are present.
func Correlate(records []StateRecord, metrics []Metric) CorrelationMatrix {
	n := len(metrics)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pairwiseCorrelation(records, metrics[i], metrics[j])
			values[i][j] = r
			values[j][i] = r
		}
	}
	return CorrelationMatrix{Metrics: metrics, Values: values}
}

func pairwiseCorrelation(records []StateRecord, a, b Metric) float64 {
	xs := make([]float64, 0, len(records))
	ys := make([]float64, 0, len(records))
	for i := range records {
		x, y := records[i].Value(a), records[i].Value(b)
		if x == nil || y == nil {
			continue
		}
		xs = append(xs, *x)
		ys = append(ys, *y)
	}
	if len(xs) < 2 || isConstant(xs) || isConstant(ys) {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

func isConstant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// RegionAverages holds per-region means. Means are NaN when a region has no
// values for that metric.
type RegionAverages struct {
	Region             Region
	Population         float64
	MedianIncome       float64
	EmployedPopulation float64
}

// RegionAverageMetrics are the metrics averaged by AverageByRegion.
var RegionAverageMetrics = []Metric{MetricPopulation, MetricMedianIncome, MetricEmployedPopulation}

// AverageByRegion groups records by region and averages population, median
// income and employed population, ignoring missing values. Only regions
// present in records are returned, sorted by name.
func AverageByRegion(records []StateRecord) []RegionAverages {
	groups := make(map[Region][]StateRecord)
	for i := range records {
		groups[records[i].Region] = append(groups[records[i].Region], records[i])
	}

	regions := make([]Region, 0, len(groups))
	for r := range groups {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })

	out := make([]RegionAverages, 0, len(regions))
	for _, r := range regions {
		group := groups[r]
		out = append(out, RegionAverages{
			Region:             r,
			Population:         meanOf(group, MetricPopulation),
			MedianIncome:       meanOf(group, MetricMedianIncome),
			EmployedPopulation: meanOf(group, MetricEmployedPopulation),
		})
	}
	return out
}

// Value returns the average for one of RegionAverageMetrics.
func (a RegionAverages) Value(m Metric) float64 {
	switch m {
	case MetricPopulation:
		return a.Population
	case MetricMedianIncome:
		return a.MedianIncome
	case MetricEmployedPopulation:
		return a.EmployedPopulation
	default:
		return math.NaN()
	}
}

func meanOf(records []StateRecord, m Metric) float64 {
	xs := make([]float64, 0, len(records))
	for i := range records {
		if v := records[i].Value(m); v != nil {
			xs = append(xs, *v)
		}
	}
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Pairs returns the (x, y) values of records where both metrics are present,
// used for scatter plots.
func Pairs(records []StateRecord, x, y Metric) (xs, ys []float64) {
	for i := range records {
		a, b := records[i].Value(x), records[i].Value(y)
		if a == nil || b == nil {
			continue
		}
		xs = append(xs, *a)
		ys = append(ys, *b)
	}
	return xs, ys
}
