package osmparser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/phaeton/pkg/datastructure"
	"github.com/lintang-b-s/phaeton/pkg/util"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const scenarioExtract = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="phaeton-test">
  <node id="1" lat="-7.7828937" lon="110.3653492"/>
  <node id="2" lat="-7.7831001" lon="110.3660013"/>
  <node id="3" lat="-7.7900000" lon="110.3700000"/>
  <node id="4" lat="-7.7910000" lon="110.3710000"/>
  <node id="5" lat="-7.8000000" lon="110.4000000"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="200">
    <nd ref="3"/>
    <nd ref="4"/>
    <tag k="building" v="yes"/>
  </way>
  <relation id="300">
    <member type="way" ref="100" role="outer"/>
    <member type="node" ref="5" role="via"/>
    <tag k="type" v="restriction"/>
    <tag k="highway" v="residential"/>
  </relation>
</osm>
`

const noWaysExtract = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
  <node id="1" lat="1.0" lon="2.0"/>
  <node id="2" lat="3.0" lon="4.0"/>
</osm>
`

func writeExtract(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeBzip2Extract(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	require.NoError(t, err)
	_, err = bz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, bz.Close())
	return path
}

func assertScenarioGraph(t *testing.T, g *datastructure.Graph) {
	t.Helper()
	assert.Equal(t, []datastructure.Edge{{ID: 100, Vertices: []int64{1, 2}}}, g.GetEdges())

	assert.Equal(t, 1, g.NumberOfTaggedEdges())
	tags, ok := g.GetTags(100)
	require.True(t, ok)
	assert.Equal(t, []datastructure.Tag{{Key: "highway", Value: "residential"}}, tags)

	assert.Equal(t, []int64{1, 2}, g.VertexIDs())
	v, ok := g.GetVertex(1)
	require.True(t, ok)
	assert.Equal(t, float32(110.3653492), v.Lon)
	assert.Equal(t, float32(-7.7828937), v.Lat)

	// ways filtered out and relations never reach the graph
	_, ok = g.GetTags(200)
	assert.False(t, ok)
	_, ok = g.GetTags(300)
	assert.False(t, ok)
	_, ok = g.GetVertex(5)
	assert.False(t, ok)
}

func TestParseScenario(t *testing.T) {
	testCases := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "osm xml",
			path: func(t *testing.T) string { return writeExtract(t, "scenario.osm", scenarioExtract) },
		},
		{
			name: "bzip2 compressed osm xml",
			path: func(t *testing.T) string { return writeBzip2Extract(t, "scenario.osm.bz2", scenarioExtract) },
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			g := datastructure.NewGraph()
			p := NewOSMParser(zaptest.NewLogger(t))

			require.NoError(t, p.Parse(tt.path(t), g))
			assertScenarioGraph(t, g)
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	g := datastructure.NewGraph()
	p := NewOSMParser(zaptest.NewLogger(t))

	require.NoError(t, p.Parse(writeExtract(t, "noways.osm", noWaysExtract), g))

	assert.Empty(t, g.GetEdges())
	assert.Equal(t, 0, g.NumberOfTaggedEdges())
	assert.Equal(t, 0, g.NumberOfVertices())
}

func TestParseAccumulates(t *testing.T) {
	g := datastructure.NewGraph()
	p := NewOSMParser(zaptest.NewLogger(t))
	path := writeExtract(t, "scenario.osm", scenarioExtract)

	require.NoError(t, p.Parse(path, g))
	require.NoError(t, p.Parse(path, g))

	// same way twice: replaced by id, not appended
	assertScenarioGraph(t, g)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.osm.pbf") },
		},
		{
			name: "unsupported format",
			path: func(t *testing.T) string { return writeExtract(t, "extract.csv", "id,lat,lon\n") },
		},
		{
			name: "truncated osm xml",
			path: func(t *testing.T) string {
				return writeExtract(t, "truncated.osm", scenarioExtract[:len(scenarioExtract)/2])
			},
		},
		{
			name: "garbage pbf",
			path: func(t *testing.T) string { return writeExtract(t, "garbage.osm.pbf", "this is not a pbf file") },
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			g := datastructure.NewGraph()
			p := NewOSMParser(zaptest.NewLogger(t))

			err := p.Parse(tt.path(t), g)
			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrSource), "got %v", err)
		})
	}
}

// sliceSource replays a fixed element list, then fails with err if set.
type sliceSource struct {
	ways     []*osm.Way
	elements []Element
	err      error
}

func (s *sliceSource) ReadWaysAndDeps(filter WayFilter, visit Visitor) error {
	accepted := make(map[osm.WayID]bool)
	for _, w := range s.ways {
		accepted[w.ID] = filter(w.Tags)
	}
	for _, el := range s.elements {
		if el.Kind == WayElement && !accepted[el.Way.ID] {
			continue
		}
		if err := visit(el); err != nil {
			return err
		}
	}
	return s.err
}

func (s *sliceSource) Close() error {
	return nil
}

func TestParseSourceKeepsPartialGraphOnFailure(t *testing.T) {
	errTruncated := errors.New("unexpected end of block")
	way := &osm.Way{
		ID:    100,
		Nodes: osm.WayNodes{{ID: 1}, {ID: 2}},
		Tags:  osm.Tags{{Key: "highway", Value: "residential"}},
	}
	src := &sliceSource{
		ways: []*osm.Way{way},
		elements: []Element{
			{Kind: DenseNodeElement, Nodes: osm.Nodes{{ID: 1, Lon: 1, Lat: 2}, {ID: 2, Lon: 3, Lat: 4}}},
			{Kind: WayElement, Way: way},
		},
		err: errTruncated,
	}

	g := datastructure.NewGraph()
	p := NewOSMParser(zaptest.NewLogger(t))

	err := p.ParseSource(src, g)
	require.ErrorIs(t, err, errTruncated)

	assert.Equal(t, 2, g.NumberOfVertices())
	assert.Equal(t, 1, g.NumberOfEdges())
}

func TestParseSourceFilterCorrectness(t *testing.T) {
	ways := []*osm.Way{
		{ID: 1, Nodes: osm.WayNodes{{ID: 1}, {ID: 2}}, Tags: osm.Tags{{Key: "highway", Value: "motorway"}}},
		{ID: 2, Nodes: osm.WayNodes{{ID: 2}, {ID: 3}}, Tags: osm.Tags{{Key: "waterway", Value: "river"}}},
		{ID: 3, Nodes: osm.WayNodes{{ID: 3}, {ID: 4}}, Tags: osm.Tags{{Key: "highway", Value: "construction"}}},
		{ID: 4, Nodes: osm.WayNodes{{ID: 4}, {ID: 5}}},
	}
	src := &sliceSource{ways: ways}
	for _, w := range ways {
		src.elements = append(src.elements, Element{Kind: WayElement, Way: w})
	}

	g := datastructure.NewGraph()
	p := NewOSMParser(zaptest.NewLogger(t))
	require.NoError(t, p.ParseSource(src, g))

	edgeIDs := make([]int64, 0)
	for _, e := range g.GetEdges() {
		edgeIDs = append(edgeIDs, e.ID)
		tags, ok := g.GetTags(e.ID)
		require.True(t, ok)
		assert.True(t, AcceptWay(toOsmTags(tags)))
	}
	assert.Equal(t, []int64{1, 3}, edgeIDs)
}

func toOsmTags(tags []datastructure.Tag) osm.Tags {
	osmTags := make(osm.Tags, 0, len(tags))
	for _, tag := range tags {
		osmTags = append(osmTags, osm.Tag{Key: tag.Key, Value: tag.Value})
	}
	return osmTags
}
