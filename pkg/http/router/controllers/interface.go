package controllers

import (
	"github.com/lintang-b-s/phaeton/pkg/datastructure"
	"github.com/lintang-b-s/phaeton/pkg/http/usecases"
)

type GraphService interface {
	Summary() datastructure.GraphSummary
	GetVertex(id int64) (datastructure.Vertex, error)
	GetEdge(id int64) (usecases.EdgeDetail, error)
	NearestVertex(lat, lon, radius float64) (datastructure.Vertex, float64, error)
}
