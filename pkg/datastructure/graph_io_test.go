package datastructure

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/lintang-b-s/phaeton/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *Graph {
	g := NewGraph()
	g.AddVertex(NewVertex(1, 110.3653492, -7.7828937))
	g.AddVertex(NewVertex(2, 110.3660013, -7.7831001))
	g.AddVertex(NewVertex(-5, float32(math.SmallestNonzeroFloat32), math.MaxFloat32))
	g.AddVertex(NewVertex(math.MaxInt64, -180, 90))

	g.AddEdge(NewEdge(200, []int64{2, 1}))
	g.AddEdge(NewEdge(100, []int64{1, 2, 99, 1}))
	g.AddEdge(NewEdge(math.MinInt64, []int64{math.MaxInt64}))

	g.SetTags(200, []Tag{NewTag("highway", "residential"), NewTag("name", "Jalan Colombo")})
	g.SetTags(100, []Tag{NewTag("highway", "construction"), NewTag("name:ja", "ジャラン"), NewTag("", "")})
	return g
}

func TestGraphRoundTrip(t *testing.T) {
	testCases := []struct {
		name     string
		filename string
		graph    func() *Graph
	}{
		{name: "empty graph", filename: "empty.cbor", graph: NewGraph},
		{name: "sample graph", filename: "sample.cbor", graph: sampleGraph},
		{name: "empty graph bzip2", filename: "empty.cbor.bz2", graph: NewGraph},
		{name: "sample graph bzip2", filename: "sample.cbor.bz2", graph: sampleGraph},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			g := tt.graph()

			require.NoError(t, g.WriteGraph(path))

			loaded, err := ReadGraph(path)
			require.NoError(t, err)
			assert.True(t, g.ContentEqual(loaded))
			assert.Equal(t, g.VertexIDs(), loaded.VertexIDs())
			assert.Equal(t, len(g.GetEdges()), len(loaded.GetEdges()))
			for i, e := range g.GetEdges() {
				assert.Equal(t, e.ID, loaded.GetEdges()[i].ID)
			}

			// the edge index is rebuilt on load
			for _, e := range g.GetEdges() {
				got, ok := loaded.GetEdge(e.ID)
				require.True(t, ok)
				assert.Equal(t, e.Vertices, got.Vertices)
			}
		})
	}
}

func TestGraphWriteIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.cbor")
	second := filepath.Join(dir, "second.cbor")

	require.NoError(t, sampleGraph().WriteGraph(first))
	require.NoError(t, sampleGraph().WriteGraph(second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoadGraphReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.cbor")
	require.NoError(t, sampleGraph().WriteGraph(path))

	g := NewGraph()
	g.AddVertex(NewVertex(1000, 1, 1))
	g.AddEdge(NewEdge(1000, []int64{1000}))
	g.SetTags(1000, []Tag{NewTag("highway", "path")})

	require.NoError(t, g.LoadGraph(path))

	assert.True(t, sampleGraph().ContentEqual(g))
	_, ok := g.GetVertex(1000)
	assert.False(t, ok)
	_, ok = g.GetEdge(1000)
	assert.False(t, ok)

	// edges added after a load still follow the replace by id policy
	g.AddEdge(NewEdge(100, []int64{1, 2}))
	assert.Equal(t, 3, g.NumberOfEdges())
}

func TestLoadGraphErrors(t *testing.T) {
	dir := t.TempDir()

	validPath := filepath.Join(dir, "valid.cbor")
	require.NoError(t, sampleGraph().WriteGraph(validPath))
	valid, err := os.ReadFile(validPath)
	require.NoError(t, err)

	writeFile := func(name string, content []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, content, 0o644))
		return path
	}

	testCases := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.cbor"), wantErr: util.ErrIO},
		{name: "empty file", path: writeFile("empty.cbor", nil), wantErr: util.ErrDecode},
		{name: "truncated", path: writeFile("truncated.cbor", valid[:len(valid)/2]), wantErr: util.ErrDecode},
		{name: "type mismatch", path: writeFile("array.cbor", []byte{0x83, 0x01, 0x02, 0x03}), wantErr: util.ErrDecode},
		{name: "not bzip2", path: writeFile("plain.cbor.bz2", valid), wantErr: util.ErrDecode},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			g := sampleGraph()

			err := g.LoadGraph(tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			// failed loads leave the graph as it was
			assert.True(t, sampleGraph().ContentEqual(g))
		})
	}
}

func TestWriteGraphError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "graph.cbor")
	err := sampleGraph().WriteGraph(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrIO))
}

func TestGraphRoundTripNonFiniteCoordinates(t *testing.T) {
	g := NewGraph()
	g.AddVertex(NewVertex(1, float32(math.NaN()), 0))
	g.AddVertex(NewVertex(2, float32(math.Inf(1)), float32(math.Inf(-1))))
	g.AddEdge(NewEdge(10, []int64{1, 2}))

	path := filepath.Join(t.TempDir(), "nonfinite.cbor")
	require.NoError(t, g.WriteGraph(path))

	loaded, err := ReadGraph(path)
	require.NoError(t, err)
	assert.True(t, g.ContentEqual(loaded))

	v, ok := loaded.GetVertex(1)
	require.True(t, ok)
	assert.True(t, math.IsNaN(v.GetLon()))
}

func TestSnapshotModes(t *testing.T) {
	require.NotNil(t, snapshotEncMode)
	require.NotNil(t, snapshotDecMode)

	// sorted map keys
	assert.Equal(t, cbor.SortCoreDeterministic, snapshotEncMode.EncOptions().Sort)
	assert.Equal(t, 2147483647, snapshotDecMode.DecOptions().MaxMapPairs)
}
