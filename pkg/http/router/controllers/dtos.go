package controllers

import (
	"github.com/lintang-b-s/phaeton/pkg/datastructure"
	"github.com/lintang-b-s/phaeton/pkg/http/usecases"
)

type nearestVertexRequest struct {
	Lat    float64 `json:"lat" validate:"min=-90,max=90"`
	Lon    float64 `json:"lon" validate:"min=-180,max=180"`
	Radius float64 `json:"radius" validate:"gt=0,lte=50"`
}

type vertexResponse struct {
	ID  int64   `json:"id"`
	Lat float32 `json:"lat"`
	Lon float32 `json:"lon"`
}

func NewVertexResponse(v datastructure.Vertex) vertexResponse {
	return vertexResponse{
		ID:  v.ID,
		Lat: v.Lat,
		Lon: v.Lon,
	}
}

type nearestVertexResponse struct {
	Vertex   vertexResponse `json:"vertex"`
	Distance float64        `json:"distance"`
}

func NewNearestVertexResponse(v datastructure.Vertex, distKm float64) nearestVertexResponse {
	return nearestVertexResponse{
		Vertex:   NewVertexResponse(v),
		Distance: distKm * 1000,
	}
}

type tagResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type edgeResponse struct {
	ID       int64         `json:"id"`
	Vertices []int64       `json:"vertices"`
	Tags     []tagResponse `json:"tags"`
	Path     string        `json:"path"`
	Dist     float64       `json:"distance"`
	Bearing  float64       `json:"bearing"`
}

func NewEdgeResponse(detail usecases.EdgeDetail) edgeResponse {
	tags := make([]tagResponse, 0, len(detail.Tags))
	for _, tag := range detail.Tags {
		tags = append(tags, tagResponse{Key: tag.Key, Value: tag.Value})
	}
	return edgeResponse{
		ID:       detail.Edge.ID,
		Vertices: detail.Edge.Vertices,
		Tags:     tags,
		Path:     detail.Polyline,
		Dist:     detail.LengthKm * 1000,
		Bearing:  detail.Bearing,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
