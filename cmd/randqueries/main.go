package main

import (
	"context"
	"errors"
	"flag"
	"math"
	"math/rand"
	"runtime"

	"github.com/roadnet-go/roadnet/pkg/concurrent"
	"github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/engine/routing"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/roadnet-go/roadnet/pkg/logger"
	"github.com/roadnet-go/roadnet/pkg/util"
	"go.uber.org/zap"
)

// randqueries runs random shortest-path queries against a built graph and
// cross-checks Dijkstra against A*. Both are exact, so any length mismatch
// beyond float tolerance points at a relaxation bug.

var (
	graphFile  = flag.String("graph", "./data/roadnet.graph.bz2", "graph file written by the builder")
	numQueries = flag.Int("n", 1000, "number of random origin/destination pairs")
	seed       = flag.Int64("seed", 42, "rng seed for query generation")
)

type queryJob struct {
	id   int
	s, g datastructure.Index
}

type queryResult struct {
	id       int
	dijkstra float64
	astar    float64
	noPath   bool
	err      error
}

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	graph, err := datastructure.ReadGraphFile(*graphFile)
	if err != nil {
		panic(err)
	}
	logger.Info("graph loaded",
		zap.Int("nodes", graph.NumberOfNodes()),
		zap.Int("edges", graph.NumberOfEdges()))

	rng := rand.New(rand.NewSource(*seed))
	jobs := make([]queryJob, *numQueries)
	for i := range jobs {
		jobs[i] = queryJob{id: i, s: graph.RandomNode(rng), g: graph.RandomNode(rng)}
	}

	workers := util.MinInt(runtime.GOMAXPROCS(0), *numQueries)
	if workers < 1 {
		workers = 1
	}
	wp := concurrent.NewWorkerPool[queryJob, queryResult](workers, *numQueries)

	wp.Start(context.Background(), func(ctx context.Context, job queryJob) queryResult {
		// engines memoize per source, so each worker keeps its own pair
		dijkstra := routing.NewDijkstra(graph)
		astar := routing.NewAStar(graph)

		dPath, err := dijkstra.ShortestPath(ctx, job.s, job.g)
		if err != nil {
			if errors.Is(err, routing.ErrNoPath) {
				return queryResult{id: job.id, noPath: true}
			}
			return queryResult{id: job.id, err: err}
		}
		aPath, err := astar.ShortestPath(ctx, job.s, job.g)
		if err != nil {
			return queryResult{id: job.id, err: err}
		}
		dLen, err := dPath.Length()
		if err != nil {
			return queryResult{id: job.id, err: err}
		}
		aLen, err := aPath.Length()
		if err != nil {
			return queryResult{id: job.id, err: err}
		}
		return queryResult{id: job.id, dijkstra: dLen, astar: aLen}
	})

	for _, job := range jobs {
		wp.AddJob(job)
	}
	wp.Close()
	wp.Wait()

	var mismatches, noPath, failures int
	for res := range wp.CollectResults() {
		switch {
		case res.noPath:
			noPath++
		case res.err != nil:
			failures++
			logger.Error("query failed", zap.Int("id", res.id), zap.Error(res.err))
		case !geo.Eq(res.dijkstra, res.astar) && math.Abs(res.dijkstra-res.astar) > 1e-6*res.dijkstra:
			mismatches++
			logger.Error("length mismatch",
				zap.Int("id", res.id),
				zap.Float64("dijkstra", res.dijkstra),
				zap.Float64("astar", res.astar))
		}
	}

	logger.Sugar().Infof("%d queries: %d no-path, %d failures, %d mismatches",
		*numQueries, noPath, failures, mismatches)
}
