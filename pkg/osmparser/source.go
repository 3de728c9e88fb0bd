package osmparser

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/phaeton/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

type ElementKind uint8

const (
	WayElement ElementKind = iota
	NodeElement
	DenseNodeElement // batch of nodes from one dense block
	RelationElement
)

func (k ElementKind) String() string {
	switch k {
	case WayElement:
		return "way"
	case NodeElement:
		return "node"
	case DenseNodeElement:
		return "dense_nodes"
	case RelationElement:
		return "relation"
	default:
		return "unknown"
	}
}

// Element is one primitive visited in the replay pass. only the field matching Kind is set.
type Element struct {
	Kind     ElementKind
	Way      *osm.Way
	Node     *osm.Node
	Nodes    osm.Nodes
	Relation *osm.Relation
}

type Visitor func(el Element) error

// Source enumerates an extract in two passes: the first collects the ways accepted by the
// filter and the node ids they reference, the second visits the accepted ways, those nodes
// and the relations.
type Source interface {
	ReadWaysAndDeps(filter WayFilter, visit Visitor) error
	Close() error
}

type extractFormat uint8

const (
	formatPBF extractFormat = iota
	formatXML
	formatXMLBzip2
)

// same size as the dense node groups written by osmium/osmosis
const denseBlockSize = 8000

type ScanStats struct {
	AcceptedWays    int
	ReferencedNodes int
}

type FileSource struct {
	filename string
	f        *os.File
	format   extractFormat
	stats    ScanStats
}

func detectFormat(filename string) (extractFormat, bool) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".pbf"):
		return formatPBF, true
	case strings.HasSuffix(name, ".osm.bz2"), strings.HasSuffix(name, ".xml.bz2"):
		return formatXMLBzip2, true
	case strings.HasSuffix(name, ".osm"), strings.HasSuffix(name, ".xml"):
		return formatXML, true
	}
	return 0, false
}

// Open opens an openstreetmap extract: .osm.pbf, .osm (xml) or .osm.bz2.
func Open(filename string) (*FileSource, error) {
	format, ok := detectFormat(filename)
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrSource, "unsupported openstreetmap extract format: %s", filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrSource, "open openstreetmap extract %s", filename)
	}
	return &FileSource{
		filename: filename,
		f:        f,
		format:   format,
	}, nil
}

func (s *FileSource) Stats() ScanStats {
	return s.stats
}

func (s *FileSource) Close() error {
	return s.f.Close()
}

// newScanner rewinds the file and returns a scanner over it. waysOnly lets the pbf decoder
// skip node and relation blocks.
func (s *FileSource) newScanner(waysOnly bool) (osm.Scanner, func(), error) {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrSource, "rewind openstreetmap extract %s", s.filename)
	}

	ctx := context.Background()
	switch s.format {
	case formatPBF:
		// must not be parallel
		scanner := osmpbf.New(ctx, s.f, 1)
		scanner.SkipNodes = waysOnly
		scanner.SkipRelations = waysOnly
		return scanner, func() { scanner.Close() }, nil
	case formatXMLBzip2:
		bz, err := bzip2.NewReader(s.f, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, nil, util.WrapErrorf(err, util.ErrSource, "open bzip2 stream of %s", s.filename)
		}
		scanner := osmxml.New(ctx, bz)
		return scanner, func() {
			scanner.Close()
			bz.Close()
		}, nil
	default:
		scanner := osmxml.New(ctx, s.f)
		return scanner, func() { scanner.Close() }, nil
	}
}

func (s *FileSource) ReadWaysAndDeps(filter WayFilter, visit Visitor) error {
	wayNodes, err := s.collectWayNodes(filter)
	if err != nil {
		return err
	}
	return s.replay(filter, wayNodes, visit)
}

// collectWayNodes is the first pass. it must scan the whole file before the replay starts.
func (s *FileSource) collectWayNodes(filter WayFilter) (map[osm.NodeID]struct{}, error) {
	scanner, closeScanner, err := s.newScanner(true)
	if err != nil {
		return nil, err
	}
	defer closeScanner()

	wayNodes := make(map[osm.NodeID]struct{})
	acceptedWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if !filter(way.Tags) {
			continue
		}
		acceptedWays++
		for _, node := range way.Nodes {
			wayNodes[node.ID] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrSource, "scan ways of %s", s.filename)
	}

	s.stats = ScanStats{
		AcceptedWays:    acceptedWays,
		ReferencedNodes: len(wayNodes),
	}
	return wayNodes, nil
}

func (s *FileSource) replay(filter WayFilter, wayNodes map[osm.NodeID]struct{}, visit Visitor) error {
	scanner, closeScanner, err := s.newScanner(false)
	if err != nil {
		return err
	}
	defer closeScanner()

	batchDense := s.format == formatPBF
	batch := make(osm.Nodes, 0, denseBlockSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		nodes := batch
		batch = make(osm.Nodes, 0, denseBlockSize)
		return visit(Element{Kind: DenseNodeElement, Nodes: nodes})
	}

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if _, ok := wayNodes[o.ID]; !ok {
				continue
			}
			if !batchDense {
				if err := visit(Element{Kind: NodeElement, Node: o}); err != nil {
					return err
				}
				continue
			}
			batch = append(batch, o)
			if len(batch) == denseBlockSize {
				if err := flush(); err != nil {
					return err
				}
			}
		case *osm.Way:
			if err := flush(); err != nil {
				return err
			}
			if !filter(o.Tags) {
				continue
			}
			if err := visit(Element{Kind: WayElement, Way: o}); err != nil {
				return err
			}
		case *osm.Relation:
			if err := flush(); err != nil {
				return err
			}
			if err := visit(Element{Kind: RelationElement, Relation: o}); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return util.WrapErrorf(err, util.ErrSource, "scan %s", s.filename)
	}
	return flush()
}
