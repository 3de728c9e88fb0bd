package datastructure

import (
	"github.com/lintang-b-s/phaeton/pkg/geo"
)

type GraphSummary struct {
	NumberOfVertices    int         `json:"number_of_vertices"`
	NumberOfEdges       int         `json:"number_of_edges"`
	NumberOfTaggedEdges int         `json:"number_of_tagged_edges"`
	TotalLengthKm       float64     `json:"total_length_km"`
	BoundingBox         BoundingBox `json:"bounding_box"`
}

// EdgeLength returns the length of the edge in km, over the vertices present in the graph.
func (g *Graph) EdgeLength(edgeID int64) float64 {
	return geo.PathLength(toCoordinates(g.EdgeCoordinates(edgeID)))
}

func (g *Graph) Summary() GraphSummary {
	coords := make([]geo.Coordinate, 0, len(g.vertices))
	g.ForVertices(func(v Vertex) {
		coords = append(coords, geo.NewCoordinate(v.GetLat(), v.GetLon()))
	})

	totalLength := 0.0
	for _, e := range g.edges {
		totalLength += g.EdgeLength(e.ID)
	}

	return GraphSummary{
		NumberOfVertices:    g.NumberOfVertices(),
		NumberOfEdges:       g.NumberOfEdges(),
		NumberOfTaggedEdges: g.NumberOfTaggedEdges(),
		TotalLengthKm:       totalLength,
		BoundingBox:         newBoundingBoxFromRect(geo.BoundingBox(coords)),
	}
}
