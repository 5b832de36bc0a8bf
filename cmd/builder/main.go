package main

import (
	"context"
	"flag"
	"strings"

	"github.com/roadnet-go/roadnet/pkg/builder"
	"github.com/roadnet-go/roadnet/pkg/logger"
	"github.com/roadnet-go/roadnet/pkg/osmloader"
	"go.uber.org/zap"
)

var (
	inputFiles = flag.String("input", "./data/map.osm.pbf", "comma separated list of .osm.pbf/.osm/.xml files")
	outputFile = flag.String("output", "./data/roadnet.graph.bz2", "output graph file")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	loader := osmloader.NewLoader(logger)
	polylines, err := loader.Load(ctx, strings.Split(*inputFiles, ",")...)
	if err != nil {
		panic(err)
	}

	b := builder.NewBuilder(logger, builder.WithProgress(func(frac float64) {
		if int(frac*100)%10 == 0 {
			logger.Info("topology extraction", zap.Int("percent", int(frac*100)))
		}
	}))
	b.AddBatch(polylines)

	graph, err := b.Build(ctx)
	if err != nil {
		panic(err)
	}

	if err := graph.WriteGraphFile(*outputFile); err != nil {
		panic(err)
	}

	logger.Sugar().Infof("wrote %s: %d vertices, %d nodes, %d edges",
		*outputFile, graph.NumberOfVertices(), graph.NumberOfNodes(), graph.NumberOfEdges())
}
