package usecases

import (
	"github.com/lintang-b-s/phaeton/pkg/datastructure"
)

type SpatialIndex interface {
	Nearest(qLat, qLon, radius float64) (datastructure.Vertex, float64, bool)
}
