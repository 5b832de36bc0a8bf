package main

import (
	"context"
	"flag"
	"time"

	roadnet "github.com/roadnet-go/roadnet/pkg"
	"github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/engine/routing"
	"github.com/roadnet-go/roadnet/pkg/http"
	"github.com/roadnet-go/roadnet/pkg/http/usecases"
	"github.com/roadnet-go/roadnet/pkg/logger"
	"github.com/roadnet-go/roadnet/pkg/spatialindex"
	"github.com/roadnet-go/roadnet/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	graphFile    = flag.String("graph", "./data/roadnet.graph.bz2", "graph file written by the builder")
	useRateLimit = flag.Bool("rate_limit", false, "enable per-server rate limiting")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		logger.Warn("no config file, using defaults", zap.Error(err))
	}
	viper.SetDefault("SEARCH_RADIUS", roadnet.DEFAULT_SEARCH_RADIUS)
	viper.SetDefault("RESAMPLE_INTERVAL", roadnet.DEFAULT_RESAMPLE_INTERVAL)
	viper.SetDefault("DEFAULT_SPEED_KPH", roadnet.DEFAULT_SPEED_KPH)
	viper.SetDefault("QUERY_TIMEOUT", "30s")

	graph, err := datastructure.ReadGraphFile(*graphFile)
	if err != nil {
		panic(err)
	}
	logger.Info("graph loaded",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("nodes", graph.NumberOfNodes()),
		zap.Int("edges", graph.NumberOfEdges()))

	nodeIndex := spatialindex.BuildNodeIndex(graph, logger)

	engines := map[string]routing.Engine{
		"dijkstra":  routing.NewDijkstra(graph),
		"astar":     routing.NewAStar(graph),
		"bestfirst": routing.NewBestFirst(graph),
	}

	routingService := usecases.NewRoutingService(logger, graph, nodeIndex, engines,
		viper.GetFloat64("SEARCH_RADIUS"),
		viper.GetFloat64("RESAMPLE_INTERVAL"),
		viper.GetFloat64("DEFAULT_SPEED_KPH"),
		viper.GetDuration("QUERY_TIMEOUT"))

	api := http.NewServer(logger)
	ctx, cancel := context.WithCancel(context.Background())
	if _, err := api.Use(ctx, logger, *useRateLimit, routingService); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()
	logger.Info("roadnet server stopped", zap.String("signal", signal.String()))
	cancel()
	time.Sleep(100 * time.Millisecond)
}
