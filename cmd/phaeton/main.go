package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lintang-b-s/phaeton/pkg/datastructure"
	"github.com/lintang-b-s/phaeton/pkg/logger"
	"github.com/lintang-b-s/phaeton/pkg/osmparser"
	"github.com/lintang-b-s/phaeton/pkg/util"
	"go.uber.org/zap"
)

var (
	snapshotFile = flag.String("snapshot", "", "write the graph snapshot (cbor, .bz2 suffix for bzip2) to this file")
	geojsonFile  = flag.String("geojson", "", "write the graph edges as geojson to this file")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file.osm.pbf>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "need a *.osm.pbf file as argument")
		flag.Usage()
		os.Exit(2)
	}
	mapFile := flag.Arg(0)

	util.SetConfigDefaults()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	graph := datastructure.NewGraph()
	osmParser := osmparser.NewOSMParser(logger)
	if err := osmParser.Parse(mapFile, graph); err != nil {
		logger.Fatal("failed to read openstreetmap extract", zap.Error(err))
	}

	summary := graph.Summary()
	logger.Info("road network loaded",
		zap.Int("vertices", summary.NumberOfVertices),
		zap.Int("edges", summary.NumberOfEdges),
		zap.Float64("total_length_km", summary.TotalLengthKm))

	if *snapshotFile != "" {
		if err := graph.WriteGraph(*snapshotFile); err != nil {
			logger.Fatal("failed to write graph snapshot", zap.Error(err))
		}
		logger.Info("graph snapshot written", zap.String("file", *snapshotFile))
	}

	if *geojsonFile != "" {
		if err := graph.WriteGeoJSON(*geojsonFile); err != nil {
			logger.Fatal("failed to write geojson", zap.Error(err))
		}
		logger.Info("geojson written", zap.String("file", *geojsonFile))
	}
}
