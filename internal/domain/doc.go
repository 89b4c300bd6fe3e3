// Package domain models the two public datasets the market-scout commands
// consume and the pure transforms applied to them.
//
// # ACS 5-Year Data
//
// The census command queries the American Community Survey 5-year estimates
// at https://api.census.gov/data/2021/acs/acs5. The response is a JSON array
// of arrays: the first row holds column labels, every following row holds one
// state's values as strings, e.g.
//
//	[["NAME","B01001_001E","B19013_001E",...,"state"],
//	 ["Connecticut","3600000","79000",...,"09"]]
//
// Variables requested (see [Metrics]):
//
//	B01001_001E  total population
//	B19013_001E  median household income
//	B23025_003E  civilian labor force, employed
//	B25077_001E  median value, owner-occupied housing units (reported as "housing units")
//	B15003_001E  population 25 years and over (educational attainment universe)
//
// Missing values:
//
//	Non-numeric strings and JSON null become missing (nil), never an error.
//	The Census Bureau also encodes annotations as large negative numbers
//	(-999999999, -888888888, -666666666, -555555555, -333333333, -222222222);
//	these are treated as missing as well.
//
// # Market Potential Score
//
// A weighted linear composite used only as a ranking heuristic:
//
//	0.4*population + 0.3*median_income + 0.2*employed + 0.1*housing_units
//
// The score is nil unless all four inputs are present.
//
// # Overpass Elements
//
// The amenities command queries the Overpass API for OpenStreetMap nodes
// tagged amenity=school|hospital|clinic|restaurant inside a named area.
// Each element carries optional lat/lon and a free-form tag map. Elements
// without both coordinates are dropped; a missing amenity tag is labelled
// "Unknown".
package domain
