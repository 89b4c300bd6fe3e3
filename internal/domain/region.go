package domain

import "sort"

// Region is a U.S. Census region.
type Region string

const (
	RegionNortheast Region = "Northeast"
	RegionMidwest   Region = "Midwest"
	RegionSouth     Region = "South"
	RegionWest      Region = "West"
	RegionUnknown   Region = "Unknown"
)

// RegionTable maps a region to the state names it contains.
type RegionTable map[Region][]string

// DefaultRegions is the built-in state-to-region table. The District of
// Columbia and Puerto Rico are deliberately absent and resolve to Unknown.
var DefaultRegions = RegionTable{
	RegionNortheast: {"Maine", "New Hampshire", "Vermont", "Massachusetts", "Rhode Island", "Connecticut", "New York", "New Jersey", "Pennsylvania"},
	RegionMidwest:   {"Ohio", "Indiana", "Illinois", "Michigan", "Wisconsin", "Minnesota", "Iowa", "Missouri", "North Dakota", "South Dakota", "Nebraska", "Kansas"},
	RegionSouth:     {"Delaware", "Maryland", "Virginia", "West Virginia", "North Carolina", "South Carolina", "Georgia", "Florida", "Alabama", "Kentucky", "Tennessee", "Mississippi", "Arkansas", "Louisiana", "Oklahoma", "Texas"},
	RegionWest:      {"Montana", "Idaho", "Wyoming", "Colorado", "New Mexico", "Arizona", "Utah", "Nevada", "California", "Oregon", "Washington", "Alaska", "Hawaii"},
}

// RegionIndex is a flattened state-name lookup built from a RegionTable.
type RegionIndex map[string]Region

// Index flattens the table. When a state appears under several regions the
// alphabetically first region wins, so the result does not depend on map order.
func (t RegionTable) Index() RegionIndex {
	regions := make([]Region, 0, len(t))
	for r := range t {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })

	idx := make(RegionIndex)
	for _, r := range regions {
		for _, state := range t[r] {
			if _, seen := idx[state]; !seen {
				idx[state] = r
			}
		}
	}
	return idx
}

// Lookup returns the region of a state name, or RegionUnknown.
func (idx RegionIndex) Lookup(name string) Region {
	if r, ok := idx[name]; ok {
		return r
	}
	return RegionUnknown
}

var defaultIndex = DefaultRegions.Index()

// RegionFor resolves a state name against the built-in table.
func RegionFor(name string) Region {
	return defaultIndex.Lookup(name)
}

// AssignRegions sets Region on every record using idx.
func AssignRegions(records []StateRecord, idx RegionIndex) []StateRecord {
	for i := range records {
		records[i].Region = idx.Lookup(records[i].Name)
	}
	return records
}
