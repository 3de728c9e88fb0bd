package geo

import (
	"github.com/golang/geo/s2"
)

// BoundingBox returns the smallest lat/lng rectangle containing all coords.
// empty input gives s2.EmptyRect().
func BoundingBox(coords []Coordinate) s2.Rect {
	rect := s2.EmptyRect()
	for _, c := range coords {
		rect = rect.AddPoint(s2.LatLngFromDegrees(c.Lat, c.Lon))
	}
	return rect
}

// ContainsCoordinate reports whether c lies inside rect (boundary included).
func ContainsCoordinate(rect s2.Rect, c Coordinate) bool {
	return rect.ContainsLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}
