package spatialindex

import (
	"math"

	"github.com/lintang-b-s/phaeton/pkg/datastructure"
	"github.com/lintang-b-s/phaeton/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr *rtree.RTreeG[datastructure.Vertex]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Vertex]
	return &Rtree{
		tr: &tr,
	}
}

// Build. insert every graph vertex as a point entry
func (rt *Rtree) Build(graph *datastructure.Graph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	graph.ForVertices(func(v datastructure.Vertex) {
		p := [2]float64{v.GetLon(), v.GetLat()}
		rt.tr.Insert(p, p, v)
	})
	log.Info("R-tree spatial index built.", zap.Int("vertices", rt.tr.Len()))
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius search for all vertices within radius (in km) from the query point (qLat, qLon)
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Vertex {
	// corners of the square circumscribing the search circle
	cornerDist := radius * math.Sqrt2
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, cornerDist)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, cornerDist)

	results := make([]datastructure.Vertex, 0, 10)
	collect := func(min, max [2]float64, data datastructure.Vertex) bool {
		if geo.CalculateHaversineDistance(qLat, qLon, data.GetLat(), data.GetLon()) <= radius {
			results = append(results, data)
		}
		return true
	}

	if lowerLon <= upperLon {
		rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat}, collect)
		return results
	}

	// box wraps around the antimeridian
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{180, upperLat}, collect)
	rt.tr.Search([2]float64{-180, lowerLat}, [2]float64{upperLon, upperLat}, collect)
	return results
}

// Nearest returns the closest vertex within radius km of (qLat, qLon). ties go to the smaller id.
func (rt *Rtree) Nearest(qLat, qLon, radius float64) (datastructure.Vertex, float64, bool) {
	var (
		best     datastructure.Vertex
		bestDist float64
		found    bool
	)
	for _, v := range rt.SearchWithinRadius(qLat, qLon, radius) {
		dist := geo.CalculateHaversineDistance(qLat, qLon, v.GetLat(), v.GetLon())
		if !found || dist < bestDist || (dist == bestDist && v.ID < best.ID) {
			best, bestDist, found = v, dist, true
		}
	}
	return best, bestDist, found
}
