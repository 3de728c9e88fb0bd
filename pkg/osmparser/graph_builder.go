package osmparser

import (
	"github.com/lintang-b-s/phaeton/pkg/datastructure"
	"github.com/paulmach/osm"
)

// GraphBuilder applies visited primitives to a graph it does not own beyond the ingestion call.
type GraphBuilder struct {
	graph *datastructure.Graph
}

func NewGraphBuilder(graph *datastructure.Graph) *GraphBuilder {
	return &GraphBuilder{graph: graph}
}

// Visit applies one element. relations and unknown kinds are ignored.
func (b *GraphBuilder) Visit(el Element) error {
	switch el.Kind {
	case WayElement:
		b.addWay(el.Way)
	case NodeElement:
		b.addNode(el.Node)
	case DenseNodeElement:
		for _, node := range el.Nodes {
			b.addNode(node)
		}
	case RelationElement:
	}
	return nil
}

func (b *GraphBuilder) addWay(way *osm.Way) {
	if way == nil {
		return
	}
	id := int64(way.ID)

	vertices := make([]int64, 0, len(way.Nodes))
	for _, node := range way.Nodes {
		vertices = append(vertices, int64(node.ID))
	}
	b.graph.AddEdge(datastructure.NewEdge(id, vertices))

	tags := make([]datastructure.Tag, 0, len(way.Tags))
	for _, tag := range way.Tags {
		tags = append(tags, datastructure.NewTag(tag.Key, tag.Value))
	}
	b.graph.SetTags(id, tags)
}

// addNode narrows the float64 coordinates to float32 (round to nearest).
func (b *GraphBuilder) addNode(node *osm.Node) {
	if node == nil {
		return
	}
	b.graph.AddVertex(datastructure.NewVertex(int64(node.ID), float32(node.Lon), float32(node.Lat)))
}
