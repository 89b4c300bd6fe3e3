package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Market potential weights, applied in this order.
const (
	weightPopulation   = 0.4
	weightMedianIncome = 0.3
	weightEmployed     = 0.2
	weightHousingUnits = 0.1
)

// annotationValues are ACS jam values that stand for "not available".
var annotationValues = map[float64]struct{}{
	-999999999: {},
	-888888888: {},
	-666666666: {},
	-555555555: {},
	-333333333: {},
	-222222222: {},
}

// ParseCensusTable converts the raw ACS response into one StateRecord per data
// row. Columns are located by header label; absent columns and short rows
// yield missing values. Region and score are left unset.
func ParseCensusTable(table CensusTable) ([]StateRecord, error) {
	if len(table) == 0 {
		return nil, errors.New("parse census table: missing header row")
	}

	index := make(map[string]int, len(table[0]))
	for i, cell := range table[0] {
		index[fmt.Sprint(cell)] = i
	}
	nameCol, ok := index[ColumnName]
	if !ok {
		return nil, fmt.Errorf("parse census table: header has no %q column", ColumnName)
	}

	records := make([]StateRecord, 0, len(table)-1)
	for _, row := range table[1:] {
		rec := StateRecord{
			Name:      cellString(row, nameCol),
			StateFIPS: cellString(row, columnOr(index, ColumnState)),
		}
		for _, m := range Metrics {
			rec.set(m, parseOptionalFloat(cellAt(row, columnOr(index, string(m)))))
		}
		records = append(records, rec)
	}
	return records, nil
}

func columnOr(index map[string]int, label string) int {
	if i, ok := index[label]; ok {
		return i
	}
	return -1
}

func cellAt(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

func cellString(row []any, i int) string {
	v := cellAt(row, i)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// parseOptionalFloat coerces an API cell to a number. Anything that is not a
// finite number, or is an ACS annotation value, yields nil.
func parseOptionalFloat(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if _, ok := annotationValues[f]; ok {
		return nil
	}
	return &f
}

// MarketPotential computes the composite score for one record, or nil when
// any of the four inputs is missing.
func MarketPotential(r StateRecord) *float64 {
	if r.Population == nil || r.MedianIncome == nil || r.EmployedPopulation == nil || r.HousingUnits == nil {
		return nil
	}
	score := *r.Population*weightPopulation +
		*r.MedianIncome*weightMedianIncome +
		*r.EmployedPopulation*weightEmployed +
		*r.HousingUnits*weightHousingUnits
	return &score
}

// ScoreMarketPotential fills MarketPotentialScore on every record.
func ScoreMarketPotential(records []StateRecord) []StateRecord {
	for i := range records {
		records[i].MarketPotentialScore = MarketPotential(records[i])
	}
	return records
}

// BuildStateRecords runs the full census transform: parse, assign regions,
// and score.
func BuildStateRecords(table CensusTable, regions RegionIndex) ([]StateRecord, error) {
	records, err := ParseCensusTable(table)
	if err != nil {
		return nil, err
	}
	records = AssignRegions(records, regions)
	return ScoreMarketPotential(records), nil
}
