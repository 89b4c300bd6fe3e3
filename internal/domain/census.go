package domain

import "errors"

// ErrNoData is returned by fetchers when the API answered successfully but
// carried nothing usable. Callers skip the remaining pipeline stages.
var ErrNoData = errors.New("no data available")

// CensusTable is the raw ACS response: a header row followed by data rows.
// Cells are strings in practice, but numbers and null are tolerated.
type CensusTable [][]any

// Metric identifies one numeric ACS variable.
type Metric string

const (
	MetricPopulation         Metric = "B01001_001E"
	MetricMedianIncome       Metric = "B19013_001E"
	MetricEmployedPopulation Metric = "B23025_003E"
	MetricHousingUnits       Metric = "B25077_001E"
	MetricEducation          Metric = "B15003_001E"

	// MetricMarketPotential is derived, not requested from the API.
	MetricMarketPotential Metric = "market_potential_score"
)

// Metrics lists the requested ACS variables in request order.
var Metrics = []Metric{
	MetricPopulation,
	MetricMedianIncome,
	MetricEmployedPopulation,
	MetricHousingUnits,
	MetricEducation,
}

// Label returns the human-readable column name.
func (m Metric) Label() string {
	switch m {
	case MetricPopulation:
		return "Population"
	case MetricMedianIncome:
		return "Median_Income"
	case MetricEmployedPopulation:
		return "Employed_Population"
	case MetricHousingUnits:
		return "Housing_Units"
	case MetricEducation:
		return "Education"
	case MetricMarketPotential:
		return "Market_Potential_Score"
	default:
		return string(m)
	}
}

// Column labels in the ACS header that are not metrics.
const (
	ColumnName  = "NAME"
	ColumnState = "state"
)

// StateRecord is one row of the census table after coercion.
// Numeric fields are nil when the source value was missing or non-numeric.
type StateRecord struct {
	Name                 string   `json:"name"`
	StateFIPS            string   `json:"state_fips,omitempty"`
	Population           *float64 `json:"population"`
	MedianIncome         *float64 `json:"median_income"`
	EmployedPopulation   *float64 `json:"employed_population"`
	HousingUnits         *float64 `json:"housing_units"`
	Education            *float64 `json:"education"`
	Region               Region   `json:"region"`
	MarketPotentialScore *float64 `json:"market_potential_score"`
}

// Value returns the record's value for a metric, or nil when missing.
func (r StateRecord) Value(m Metric) *float64 {
	switch m {
	case MetricPopulation:
		return r.Population
	case MetricMedianIncome:
		return r.MedianIncome
	case MetricEmployedPopulation:
		return r.EmployedPopulation
	case MetricHousingUnits:
		return r.HousingUnits
	case MetricEducation:
		return r.Education
	case MetricMarketPotential:
		return r.MarketPotentialScore
	default:
		return nil
	}
}

func (r *StateRecord) set(m Metric, v *float64) {
	switch m {
	case MetricPopulation:
		r.Population = v
	case MetricMedianIncome:
		r.MedianIncome = v
	case MetricEmployedPopulation:
		r.EmployedPopulation = v
	case MetricHousingUnits:
		r.HousingUnits = v
	case MetricEducation:
		r.Education = v
	}
}
