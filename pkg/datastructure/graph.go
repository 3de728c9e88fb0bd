package datastructure

import (
	"slices"
)

// Vertex is a geometric point of the road network (an osm node).
// lon/lat are WGS 84 degrees narrowed to float32.
type Vertex struct {
	ID  int64   `json:"id"`
	Lon float32 `json:"lon"`
	Lat float32 `json:"lat"`
}

func NewVertex(id int64, lon, lat float32) Vertex {
	return Vertex{
		ID:  id,
		Lon: lon,
		Lat: lat,
	}
}

func (v Vertex) GetLat() float64 {
	return float64(v.Lat)
}

func (v Vertex) GetLon() float64 {
	return float64(v.Lon)
}

// Edge is one continuous way segment. vertices are the referenced vertex ids in traversal order.
type Edge struct {
	ID       int64   `json:"id" cbor:"id"`
	Vertices []int64 `json:"vertices" cbor:"vertices"`
}

func NewEdge(id int64, vertices []int64) Edge {
	return Edge{
		ID:       id,
		Vertices: vertices,
	}
}

type Tag struct {
	Key   string `json:"key" cbor:"key"`
	Value string `json:"value" cbor:"value"`
}

func NewTag(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// Junction links two or more edges.
// reserved for the routing graph construction, ingestion never fills it.
type Junction struct {
	ID    int64   `json:"id"`
	Edges []int64 `json:"edges"`
}

// Graph holds the road network loaded from an extract.
// not safe for concurrent use, the caller must serialize mutating calls.
type Graph struct {
	vertices map[int64]Vertex
	edges    []Edge
	metadata map[int64][]Tag

	edgeIndex map[int64]int // edge id -> position in edges
}

func NewGraph() *Graph {
	return &Graph{
		vertices:  make(map[int64]Vertex),
		edges:     make([]Edge, 0),
		metadata:  make(map[int64][]Tag),
		edgeIndex: make(map[int64]int),
	}
}

// AddVertex inserts v. a vertex with the same id is overwritten.
func (g *Graph) AddVertex(v Vertex) {
	g.vertices[v.ID] = v
}

// AddEdge appends e, or replaces in place the edge already stored with the same id.
func (g *Graph) AddEdge(e Edge) {
	if pos, ok := g.edgeIndex[e.ID]; ok {
		g.edges[pos] = e
		return
	}
	g.edgeIndex[e.ID] = len(g.edges)
	g.edges = append(g.edges, e)
}

// SetTags stores the tags of edge edgeID, overwriting previous ones.
func (g *Graph) SetTags(edgeID int64, tags []Tag) {
	g.metadata[edgeID] = tags
}

func (g *Graph) GetVertex(id int64) (Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

func (g *Graph) GetEdge(id int64) (Edge, bool) {
	pos, ok := g.edgeIndex[id]
	if !ok {
		return Edge{}, false
	}
	return g.edges[pos], true
}

// GetEdges returns the edges in insertion order. the slice is owned by the graph.
func (g *Graph) GetEdges() []Edge {
	return g.edges
}

func (g *Graph) GetTags(edgeID int64) ([]Tag, bool) {
	tags, ok := g.metadata[edgeID]
	return tags, ok
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) NumberOfTaggedEdges() int {
	return len(g.metadata)
}

// ForVertices calls handle for every vertex, in no particular order.
func (g *Graph) ForVertices(handle func(v Vertex)) {
	for _, v := range g.vertices {
		handle(v)
	}
}

// VertexIDs returns all vertex ids in ascending order.
func (g *Graph) VertexIDs() []int64 {
	ids := make([]int64, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EdgeCoordinates returns the coordinates of the edge vertices in traversal order.
// vertex ids missing from the graph are skipped.
func (g *Graph) EdgeCoordinates(edgeID int64) []Vertex {
	e, ok := g.GetEdge(edgeID)
	if !ok {
		return nil
	}
	coords := make([]Vertex, 0, len(e.Vertices))
	for _, vID := range e.Vertices {
		if v, ok := g.vertices[vID]; ok {
			coords = append(coords, v)
		}
	}
	return coords
}

// replace swaps the graph content with the given fields and rebuilds the edge index.
func (g *Graph) replace(vertices map[int64]Vertex, edges []Edge, metadata map[int64][]Tag) {
	if vertices == nil {
		vertices = make(map[int64]Vertex)
	}
	if edges == nil {
		edges = make([]Edge, 0)
	}
	if metadata == nil {
		metadata = make(map[int64][]Tag)
	}
	g.vertices = vertices
	g.edges = edges
	g.metadata = metadata
	g.edgeIndex = make(map[int64]int, len(edges))
	for i, e := range edges {
		g.edgeIndex[e.ID] = i
	}
}

// sameVertex compares coordinates by value, any two NaN coordinates are equal.
func sameVertex(a, b Vertex) bool {
	return a.ID == b.ID && sameCoordinate(a.Lon, b.Lon) && sameCoordinate(a.Lat, b.Lat)
}

func sameCoordinate(a, b float32) bool {
	return a == b || (a != a && b != b)
}

// ContentEqual reports whether both graphs hold the same vertices, the same edge sequence
// and the same tags. nil and empty sequences compare equal.
func (g *Graph) ContentEqual(other *Graph) bool {
	if len(g.vertices) != len(other.vertices) || len(g.edges) != len(other.edges) ||
		len(g.metadata) != len(other.metadata) {
		return false
	}

	for id, v := range g.vertices {
		ov, ok := other.vertices[id]
		if !ok || !sameVertex(ov, v) {
			return false
		}
	}

	for i := range g.edges {
		if g.edges[i].ID != other.edges[i].ID || !slices.Equal(g.edges[i].Vertices, other.edges[i].Vertices) {
			return false
		}
	}

	for id, tags := range g.metadata {
		otherTags, ok := other.metadata[id]
		if !ok || !slices.Equal(tags, otherTags) {
			return false
		}
	}
	return true
}
