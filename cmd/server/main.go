package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/phaeton/pkg/datastructure"
	"github.com/lintang-b-s/phaeton/pkg/http"
	"github.com/lintang-b-s/phaeton/pkg/http/usecases"
	"github.com/lintang-b-s/phaeton/pkg/logger"
	"github.com/lintang-b-s/phaeton/pkg/spatialindex"
	"github.com/lintang-b-s/phaeton/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	snapshotFile = flag.String("snapshot", "", "graph snapshot written by phaeton -snapshot (default SNAPSHOT_PATH)")
	useRateLimit = flag.Bool("rate_limit", true, "enable the global request rate limiter")
)

func main() {
	flag.Parse()

	configErr := util.ReadConfig()

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if configErr != nil {
		logger.Warn("config file not loaded, using defaults", zap.Error(configErr))
	}

	path := *snapshotFile
	if path == "" {
		path = viper.GetString("SNAPSHOT_PATH")
	}

	graph, err := datastructure.ReadGraph(path)
	if err != nil {
		logger.Fatal("failed to load graph snapshot", zap.Error(err))
	}
	logger.Info("graph snapshot loaded", zap.String("file", path),
		zap.Int("vertices", graph.NumberOfVertices()), zap.Int("edges", graph.NumberOfEdges()))

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, logger)

	graphService := usecases.NewGraphService(logger, graph, rtree)

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	api, err := http.NewServer(logger).Use(ctx, logger, *useRateLimit, graphService)
	if err != nil {
		logger.Fatal("failed to start graph server", zap.Error(err))
	}

	signal := http.GracefulShutdown(api.Done())
	if signal == nil {
		cleanup()
		if err := api.Wait(); err != nil {
			logger.Fatal("graph server stopped with error", zap.Error(err))
		}
		return
	}

	logger.Info("phaeton graph server stopping", zap.String("signal", signal.String()))
	cleanup()
	if err := api.Wait(); err != nil {
		logger.Error("graph server stopped with error", zap.Error(err))
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
