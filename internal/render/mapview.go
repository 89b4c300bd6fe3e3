package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/market-scout/internal/domain"
)

// MapView describes one amenity map page.
type MapView struct {
	City   string
	Center [2]float64 // lat, lon
	Zoom   int
	Points []domain.AmenityPoint
}

type mapMarker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

type mapPage struct {
	Title       string
	Center      [2]float64
	Zoom        int
	Markers     []mapMarker
	GeneratedAt string
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css">
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
<script>
var map = L.map("map").setView({{.Center}}, {{.Zoom}});
L.tileLayer("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", {
  maxZoom: 19,
  attribution: "&copy; OpenStreetMap contributors | generated {{.GeneratedAt}}"
}).addTo(map);
var cluster = L.markerClusterGroup();
{{.Markers}}.forEach(function (m) {
  L.marker([m.lat, m.lon]).bindPopup(document.createTextNode(m.popup)).addTo(cluster);
});
map.addLayer(cluster);
</script>
</body>
</html>
`))

// MapFileName returns the HTML file name for a city's amenity map.
func MapFileName(city string) string {
	return city + "_amenities_map.html"
}

// WriteAmenityMap renders v as a Leaflet page in dir and returns its path.
// The map is centered on v.Center regardless of the city queried.
func WriteAmenityMap(dir string, v MapView) (string, error) {
	page := mapPage{
		Title:       fmt.Sprintf("%s amenities", v.City),
		Center:      v.Center,
		Zoom:        v.Zoom,
		Markers:     make([]mapMarker, 0, len(v.Points)),
		GeneratedAt: domain.Now().Format(time.RFC3339),
	}
	for _, p := range v.Points {
		page.Markers = append(page.Markers, mapMarker{Lat: p.Latitude, Lon: p.Longitude, Popup: p.Kind})
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create map dir: %w", err)
	}
	path := filepath.Join(dir, MapFileName(v.City))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create map file: %w", err)
	}
	if err := mapTemplate.Execute(f, page); err != nil {
		f.Close()
		return "", fmt.Errorf("render map: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close map file: %w", err)
	}
	return path, nil
}
