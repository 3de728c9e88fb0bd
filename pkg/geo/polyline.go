package geo

import "github.com/twpayne/go-polyline"

// PolylineFromCoords encodes coords with the google polyline algorithm (precision 1e-5).
func PolylineFromCoords(coords []Coordinate) string {
	latLngs := make([][]float64, 0, len(coords))
	for _, c := range coords {
		latLngs = append(latLngs, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(latLngs))
}
