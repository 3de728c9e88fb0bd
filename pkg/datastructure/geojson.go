package datastructure

import (
	"os"

	"github.com/lintang-b-s/phaeton/pkg/util"
	geojson "github.com/paulmach/go.geojson"
)

// ToGeoJSON returns one LineString feature per edge, in edge order.
// edges with less than two known vertices are left out.
func (g *Graph) ToGeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, e := range g.edges {
		coords := g.EdgeCoordinates(e.ID)
		if len(coords) < 2 {
			continue
		}
		pts := make([][]float64, len(coords))
		for i, v := range coords {
			pts[i] = []float64{v.GetLon(), v.GetLat()}
		}

		feature := geojson.NewLineStringFeature(pts)
		feature.ID = e.ID
		feature.SetProperty("id", e.ID)
		tags, _ := g.GetTags(e.ID)
		for _, tag := range tags {
			feature.SetProperty(tag.Key, tag.Value)
		}
		fc.AddFeature(feature)
	}
	return fc
}

func (g *Graph) WriteGeoJSON(filename string) error {
	b, err := g.ToGeoJSON().MarshalJSON()
	if err != nil {
		return util.WrapErrorf(err, util.ErrIO, "encode geojson")
	}
	if err := os.WriteFile(filename, b, 0o644); err != nil {
		return util.WrapErrorf(err, util.ErrIO, "write geojson file %s", filename)
	}
	return nil
}
