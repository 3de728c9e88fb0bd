package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/fxamacker/cbor/v2"
	"github.com/lintang-b-s/phaeton/pkg/util"
)

// snapshot layout: {vertices: {id: {lon, lat}}, edges: [{id, vertices}], metadata: {edge id: [{key, value}]}}
type vertexRecord struct {
	Lon float32 `cbor:"lon"`
	Lat float32 `cbor:"lat"`
}

type graphSnapshot struct {
	Vertices map[int64]vertexRecord `cbor:"vertices"`
	Edges    []Edge                 `cbor:"edges"`
	Metadata map[int64][]Tag        `cbor:"metadata"`
}

var (
	snapshotEncMode cbor.EncMode
	snapshotDecMode cbor.DecMode
)

func init() {
	var err error
	// deterministic encoding (sorted map keys), so equal graphs produce equal files.
	snapshotEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor snapshot encoder: %v", err))
	}

	snapshotDecMode, err = cbor.DecOptions{
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor snapshot decoder: %v", err))
	}
}

func isCompressed(filename string) bool {
	return strings.HasSuffix(filename, ".bz2")
}

// WriteGraph writes the graph as a cbor document. filenames ending in .bz2 are bzip2 compressed.
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return util.WrapErrorf(err, util.ErrIO, "create graph file %s", filename)
	}

	if err := g.writeSnapshot(f, isCompressed(filename)); err != nil {
		f.Close()
		return util.WrapErrorf(err, util.ErrIO, "write graph file %s", filename)
	}

	if err := f.Close(); err != nil {
		return util.WrapErrorf(err, util.ErrIO, "close graph file %s", filename)
	}
	return nil
}

func (g *Graph) writeSnapshot(f io.Writer, compressed bool) error {
	var (
		bz *bzip2.Writer
		w  *bufio.Writer
	)
	if compressed {
		var err error
		bz, err = bzip2.NewWriter(f, &bzip2.WriterConfig{Level: bzip2.BestCompression})
		if err != nil {
			return err
		}
		w = bufio.NewWriter(bz)
	} else {
		w = bufio.NewWriter(f)
	}

	snap := graphSnapshot{
		Vertices: make(map[int64]vertexRecord, len(g.vertices)),
		Edges:    g.edges,
		Metadata: g.metadata,
	}
	for id, v := range g.vertices {
		snap.Vertices[id] = vertexRecord{Lon: v.Lon, Lat: v.Lat}
	}

	if err := snapshotEncMode.NewEncoder(w).Encode(snap); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if bz != nil {
		return bz.Close()
	}
	return nil
}

// ReadGraph reads a graph written by WriteGraph.
func ReadGraph(filename string) (*Graph, error) {
	g := NewGraph()
	if err := g.LoadGraph(filename); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadGraph replaces the vertices, edges and tags of g with the content of the graph file.
// g is left untouched when reading fails.
func (g *Graph) LoadGraph(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return util.WrapErrorf(err, util.ErrIO, "open graph file %s", filename)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if isCompressed(filename) {
		bz, err := bzip2.NewReader(r, &bzip2.ReaderConfig{})
		if err != nil {
			return util.WrapErrorf(err, util.ErrDecode, "read compressed graph file %s", filename)
		}
		defer bz.Close()
		r = bz
	}

	var snap graphSnapshot
	if err := snapshotDecMode.NewDecoder(r).Decode(&snap); err != nil {
		return util.WrapErrorf(err, util.ErrDecode, "decode graph file %s", filename)
	}

	vertices := make(map[int64]Vertex, len(snap.Vertices))
	for id, rec := range snap.Vertices {
		vertices[id] = NewVertex(id, rec.Lon, rec.Lat)
	}
	g.replace(vertices, snap.Edges, snap.Metadata)
	return nil
}
