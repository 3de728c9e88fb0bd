package usecases

import (
	"github.com/lintang-b-s/phaeton/pkg/datastructure"
	"github.com/lintang-b-s/phaeton/pkg/geo"
	"github.com/lintang-b-s/phaeton/pkg/util"
	"go.uber.org/zap"
)

// GraphService answers read only queries over a loaded graph.
// the graph must not be mutated while the service is in use.
type GraphService struct {
	log          *zap.Logger
	graph        *datastructure.Graph
	spatialIndex SpatialIndex
	summary      datastructure.GraphSummary
}

func NewGraphService(log *zap.Logger, graph *datastructure.Graph, spatialIndex SpatialIndex) *GraphService {
	return &GraphService{
		log:          log,
		graph:        graph,
		spatialIndex: spatialIndex,
		summary:      graph.Summary(),
	}
}

func (gs *GraphService) Summary() datastructure.GraphSummary {
	return gs.summary
}

func (gs *GraphService) GetVertex(id int64) (datastructure.Vertex, error) {
	v, ok := gs.graph.GetVertex(id)
	if !ok {
		return datastructure.Vertex{}, util.WrapErrorf(nil, util.ErrNotFound, "vertex %d not found", id)
	}
	return v, nil
}

type EdgeDetail struct {
	Edge     datastructure.Edge
	Tags     []datastructure.Tag
	Polyline string
	LengthKm float64
	Bearing  float64
}

func (gs *GraphService) GetEdge(id int64) (EdgeDetail, error) {
	e, ok := gs.graph.GetEdge(id)
	if !ok {
		return EdgeDetail{}, util.WrapErrorf(nil, util.ErrNotFound, "edge %d not found", id)
	}
	tags, _ := gs.graph.GetTags(id)

	coords := make([]geo.Coordinate, 0, len(e.Vertices))
	for _, v := range gs.graph.EdgeCoordinates(id) {
		coords = append(coords, geo.NewCoordinate(v.GetLat(), v.GetLon()))
	}

	bearing := 0.0
	if len(coords) > 1 {
		bearing = geo.BearingTo(coords[0].Lat, coords[0].Lon, coords[1].Lat, coords[1].Lon)
	}

	return EdgeDetail{
		Edge:     e,
		Tags:     tags,
		Polyline: geo.PolylineFromCoords(coords),
		LengthKm: geo.PathLength(coords),
		Bearing:  bearing,
	}, nil
}

// NearestVertex snaps (lat, lon) to the closest vertex within radius km.
func (gs *GraphService) NearestVertex(lat, lon, radius float64) (datastructure.Vertex, float64, error) {
	v, dist, ok := gs.spatialIndex.Nearest(lat, lon, radius)
	if !ok {
		return datastructure.Vertex{}, 0, util.WrapErrorf(nil, util.ErrNotFound,
			"no vertex within %.3f km of %f,%f", radius, lat, lon)
	}
	return v, dist, nil
}
