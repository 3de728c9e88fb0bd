package datastructure

import (
	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/phaeton/pkg/geo"
)

type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) BoundingBox {
	return BoundingBox{MinLat: minLat,
		MinLon: minLon,
		MaxLat: maxLat,
		MaxLon: maxLon}
}

func newBoundingBoxFromRect(rect s2.Rect) BoundingBox {
	if rect.IsEmpty() {
		return BoundingBox{}
	}
	lo, hi := rect.Lo(), rect.Hi()
	return NewBoundingBox(lo.Lat.Degrees(), lo.Lng.Degrees(), hi.Lat.Degrees(), hi.Lng.Degrees())
}

// toCoordinates converts vertices to float64 coordinates.
func toCoordinates(vertices []Vertex) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(vertices))
	for _, v := range vertices {
		coords = append(coords, geo.NewCoordinate(v.GetLat(), v.GetLon()))
	}
	return coords
}
