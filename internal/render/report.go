// Package render turns transformed records into console reports, PNG charts
// and the interactive amenity map.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/couchcryptid/market-scout/internal/domain"
)

// TopN is the number of rows in every ranking report.
const TopN = 5

// rankingReports are printed in this order, each with its heading.
var rankingReports = []struct {
	metric domain.Metric
	title  string
}{
	{domain.MetricPopulation, "Top 5 States by Population (Bigger market size):"},
	{domain.MetricMedianIncome, "Top 5 States by Median Income (Potential higher spend on side gigs):"},
	{domain.MetricEmployedPopulation, "Top 5 States by Employed Population (Potential for flexible side gigs):"},
	{domain.MetricHousingUnits, "Top 5 States by Housing Units (In-person side gig demand):"},
	{domain.MetricEducation, "Top 5 States by Education Level (Skilled Side Gigs Demand):"},
	{domain.MetricMarketPotential, "Top 5 States by Market Potential for Side Gigs (Composite Score):"},
}

// CensusReport is everything printed for one census run.
type CensusReport struct {
	Records     []domain.StateRecord
	Correlation domain.CorrelationMatrix
	Regions     []domain.RegionAverages
}

// WriteCensusReport prints the ranking tables, correlation matrix and regional
// averages to w.
func WriteCensusReport(w io.Writer, r CensusReport) error {
	ew := &errWriter{w: w}

	ew.printf("Side Gig Opportunity Factors (%d states)\n", len(r.Records))
	for _, rep := range rankingReports {
		ew.printf("\n%s\n", rep.title)
		writeRanking(ew, rep.metric, domain.TopN(r.Records, rep.metric, TopN))
	}

	ew.printf("\nCorrelation Matrix:\n")
	writeCorrelation(ew, r.Correlation)

	ew.printf("\nRegional Market Demand for Side Gigs:\n")
	writeRegions(ew, r.Regions)

	return ew.err
}

func writeRanking(ew *errWriter, m domain.Metric, rows []domain.RankedState) {
	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	ew.fprintf(tw, "NAME\t%s\t\n", m.Label())
	for _, row := range rows {
		ew.fprintf(tw, "%s\t%s\t\n", row.Name, formatNumber(row.Value))
	}
	ew.flush(tw)
}

func writeCorrelation(ew *errWriter, c domain.CorrelationMatrix) {
	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	ew.fprintf(tw, "\t")
	for _, m := range c.Metrics {
		ew.fprintf(tw, "%s\t", m.Label())
	}
	ew.fprintf(tw, "\n")
	for i, m := range c.Metrics {
		ew.fprintf(tw, "%s\t", m.Label())
		for j := range c.Metrics {
			ew.fprintf(tw, "%s\t", formatCoefficient(c.At(i, j)))
		}
		ew.fprintf(tw, "\n")
	}
	ew.flush(tw)
}

func writeRegions(ew *errWriter, regions []domain.RegionAverages) {
	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	ew.fprintf(tw, "Region\t")
	for _, m := range domain.RegionAverageMetrics {
		ew.fprintf(tw, "%s\t", m.Label())
	}
	ew.fprintf(tw, "\n")
	for _, r := range regions {
		ew.fprintf(tw, "%s\t", r.Region)
		for _, m := range domain.RegionAverageMetrics {
			ew.fprintf(tw, "%s\t", formatNumber(r.Value(m)))
		}
		ew.fprintf(tw, "\n")
	}
	ew.flush(tw)
}

// formatNumber prints integers without a fraction and everything else with
// two decimals.
func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatCoefficient(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// errWriter keeps the first write error so report code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	e.fprintf(e, format, args...)
}

func (e *errWriter) fprintf(w io.Writer, format string, args ...any) {
	if e.err != nil {
		return
	}
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		e.err = err
	}
}

func (e *errWriter) flush(tw *tabwriter.Writer) {
	if e.err != nil {
		return
	}
	if err := tw.Flush(); err != nil {
		e.err = err
	}
}
