package domain

import "fmt"

// AmenityKinds are the OSM amenity tag values requested from Overpass.
var AmenityKinds = []string{"school", "hospital", "clinic", "restaurant"}

// UnknownAmenity labels elements that carry no amenity tag.
const UnknownAmenity = "Unknown"

// OverpassResponse is the subset of the Overpass JSON output we read.
type OverpassResponse struct {
	Elements []OverpassElement `json:"elements"`
}

// OverpassElement is one node, way or relation. Lat and Lon are pointers so a
// missing coordinate can be told apart from zero.
type OverpassElement struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  *float64          `json:"lat,omitempty"`
	Lon  *float64          `json:"lon,omitempty"`
	Tags map[string]string `json:"tags,omitempty"`
}

// AmenityPoint is a located amenity ready for rendering.
type AmenityPoint struct {
	ID        string            `json:"id"`
	Latitude  float64           `json:"lat"`
	Longitude float64           `json:"lon"`
	Kind      string            `json:"amenity"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// ToAmenityPoints converts elements to points, dropping any element without
// both coordinates. It also returns how many were dropped.
func ToAmenityPoints(elements []OverpassElement) ([]AmenityPoint, int) {
	points := make([]AmenityPoint, 0, len(elements))
	dropped := 0
	for _, el := range elements {
		if el.Lat == nil || el.Lon == nil {
			dropped++
			continue
		}
		kind := el.Tags["amenity"]
		if kind == "" {
			kind = UnknownAmenity
		}
		points = append(points, AmenityPoint{
			ID:        elementID(el),
			Latitude:  *el.Lat,
			Longitude: *el.Lon,
			Kind:      kind,
			Tags:      el.Tags,
		})
	}
	return points, dropped
}

func elementID(el OverpassElement) string {
	typ := el.Type
	if typ == "" {
		typ = "node"
	}
	return fmt.Sprintf("%s/%d", typ, el.ID)
}

// CountByKind tallies points per amenity kind.
func CountByKind(points []AmenityPoint) map[string]int {
	counts := make(map[string]int)
	for _, p := range points {
		counts[p.Kind]++
	}
	return counts
}
