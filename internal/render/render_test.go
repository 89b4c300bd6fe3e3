package render

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/market-scout/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func testReport() CensusReport {
	table := domain.CensusTable{
		{"NAME", "B01001_001E", "B19013_001E", "B23025_003E", "B25077_001E", "B15003_001E", "state"},
		{"Connecticut", "3600000", "79000", "1800000", "275000", "3200000", "09"},
		{"Texas", "29000000", "66000", "14000000", "200000", "19000000", "48"},
		{"Ohio", "11700000", "62000", "5600000", "160000", "8000000", "39"},
		{"California", "39000000", "84000", "18000000", "570000", "26000000", "06"},
		{"Puerto Rico", "3200000", "n/a", "1000000", "115000", "2200000", "72"},
		{"Vermont", "640000", "67000", "330000", "230000", "450000", "50"},
	}
	records, err := domain.BuildStateRecords(table, domain.DefaultRegions.Index())
	if err != nil {
		panic(err)
	}
	return CensusReport{
		Records:     records,
		Correlation: domain.Correlate(records, domain.Metrics),
		Regions:     domain.AverageByRegion(records),
	}
}

func TestWriteCensusReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCensusReport(&buf, testReport()))
	out := buf.String()

	assert.Contains(t, out, "Side Gig Opportunity Factors (6 states)")
	for _, title := range []string{
		"Top 5 States by Population",
		"Top 5 States by Median Income",
		"Top 5 States by Employed Population",
		"Top 5 States by Housing Units",
		"Top 5 States by Education Level",
		"Top 5 States by Market Potential",
		"Correlation Matrix:",
		"Regional Market Demand for Side Gigs:",
	} {
		assert.Contains(t, out, title)
	}

	popSection := section(out, "Top 5 States by Population", "Top 5 States by Median Income")
	assert.Less(t, strings.Index(popSection, "California"), strings.Index(popSection, "Texas"))
	assert.NotContains(t, popSection, "Vermont", "only five rows")
	assert.Contains(t, popSection, "39000000")

	incomeSection := section(out, "Top 5 States by Median Income", "Top 5 States by Employed")
	assert.NotContains(t, incomeSection, "Puerto Rico", "missing income excluded")

	regionSection := out[strings.Index(out, "Regional Market Demand"):]
	for _, r := range []string{"Midwest", "Northeast", "South", "Unknown", "West"} {
		assert.Contains(t, regionSection, r)
	}
}

func section(s, from, to string) string {
	start := strings.Index(s, from)
	end := strings.Index(s, to)
	if start < 0 || end < start {
		return ""
	}
	return s[start:end]
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCensusReport_WriteError(t *testing.T) {
	err := WriteCensusReport(failingWriter{}, testReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3600000", formatNumber(3600000))
	assert.Equal(t, "1465370.20", formatNumber(1465370.2))
	assert.Equal(t, "NaN", formatNumber(math.NaN()))
	assert.Equal(t, "0.98", formatCoefficient(0.98123))
	assert.Equal(t, "NaN", formatCoefficient(math.NaN()))
}

func TestWriteCensusCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := WriteCensusCharts(dir, testReport())
	require.NoError(t, err)

	require.Len(t, paths, 4)
	for _, name := range []string{ChartEducationIncome, ChartEmployedHousing, ChartCorrelation, ChartRegionalAverages} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestWriteCensusCharts_SkipsEmptyScatter(t *testing.T) {
	records := []domain.StateRecord{
		{Name: "A", Population: ptr(1), MedianIncome: ptr(2), EmployedPopulation: ptr(3), Region: domain.RegionWest},
		{Name: "B", Population: ptr(2), MedianIncome: ptr(1), EmployedPopulation: ptr(5), Region: domain.RegionSouth},
	}
	report := CensusReport{
		Records:     records,
		Correlation: domain.Correlate(records, domain.Metrics),
		Regions:     domain.AverageByRegion(records),
	}

	paths, err := WriteCensusCharts(t.TempDir(), report)
	require.NoError(t, err)

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	assert.Equal(t, []string{ChartCorrelation, ChartRegionalAverages}, names)
}

func TestWriteAmenityMap(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 4, 27, 6, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	dir := t.TempDir()
	view := MapView{
		City:   "New Haven",
		Center: [2]float64{41.7637, -72.6851},
		Zoom:   13,
		Points: []domain.AmenityPoint{
			{ID: "node/1", Latitude: 41.31, Longitude: -72.92, Kind: "school"},
			{ID: "node/2", Latitude: 41.30, Longitude: -72.93, Kind: "<b>clinic</b>"},
		},
	}

	path, err := WriteAmenityMap(dir, view)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "New Haven_amenities_map.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<title>New Haven amenities</title>")
	assert.Contains(t, html, "[41.7637,-72.6851]", "fixed center, not the city's location")
	assert.Contains(t, html, " 13 )")
	assert.Contains(t, html, `"popup":"school"`)
	assert.Contains(t, html, `"lat":41.31`)
	assert.NotContains(t, html, "<b>clinic</b>", "tag values are escaped")
	assert.Contains(t, html, "2024-04-27T06:00:00Z")
	assert.Contains(t, html, "leaflet.markercluster")
}

func TestWriteAmenityMap_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := WriteAmenityMap(filepath.Join(blocker, "sub"), MapView{City: "Hartford"})
	require.Error(t, err)
}

func TestMapFileName(t *testing.T) {
	assert.Equal(t, "Hartford_amenities_map.html", MapFileName("Hartford"))
}

func TestNopViewer(t *testing.T) {
	assert.NoError(t, NopViewer{}.Open("anything.html"))
}
