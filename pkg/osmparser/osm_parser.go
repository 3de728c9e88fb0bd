package osmparser

import (
	"github.com/lintang-b-s/phaeton/pkg/datastructure"
	"go.uber.org/zap"
)

type OsmParser struct {
	logger *zap.Logger
	filter WayFilter
}

func NewOSMParser(logger *zap.Logger) *OsmParser {
	return &OsmParser{
		logger: logger,
		filter: AcceptWay,
	}
}

// Parse reads the road network of the openstreetmap extract mapFile into graph.
// repeated calls accumulate into the same graph. on error graph keeps what was added
// before the failure.
func (p *OsmParser) Parse(mapFile string, graph *datastructure.Graph) error {
	src, err := Open(mapFile)
	if err != nil {
		return err
	}
	defer src.Close()

	p.logger.Info("reading openstreetmap extract", zap.String("file", mapFile))
	if err := p.ParseSource(src, graph); err != nil {
		return err
	}

	stats := src.Stats()
	p.logger.Sugar().Infof("accepted openstreetmap ways: %d, referenced nodes: %d", stats.AcceptedWays, stats.ReferencedNodes)
	return nil
}

// ParseSource runs the graph builder over any two pass source.
func (p *OsmParser) ParseSource(src Source, graph *datastructure.Graph) error {
	builder := NewGraphBuilder(graph)

	countWays := 0
	countNodes := 0
	err := src.ReadWaysAndDeps(p.filter, func(el Element) error {
		switch el.Kind {
		case WayElement:
			if (countWays+1)%100000 == 0 {
				p.logger.Sugar().Infof("processing openstreetmap ways: %d...", countWays+1)
			}
			countWays++
		case NodeElement:
			if (countNodes+1)%500000 == 0 {
				p.logger.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++
		case DenseNodeElement:
			before := countNodes / 500000
			countNodes += len(el.Nodes)
			if countNodes/500000 > before {
				p.logger.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes)
			}
		}
		return builder.Visit(el)
	})
	if err != nil {
		p.logger.Error("openstreetmap ingestion aborted", zap.Error(err),
			zap.Int("ways", countWays), zap.Int("nodes", countNodes))
		return err
	}

	p.logger.Sugar().Infof("number of vertices: %v", graph.NumberOfVertices())
	p.logger.Sugar().Infof("number of edges: %v", graph.NumberOfEdges())
	return nil
}
