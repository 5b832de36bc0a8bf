package controllers

import (
	"context"

	"github.com/roadnet-go/roadnet/pkg/http/usecases"
)

type RoutingService interface {
	ShortestPath(ctx context.Context, engine string, origX, origY, dstX, dstY float64) (*usecases.RouteResult, error)
	Nearest(x, y float64) (*usecases.NearestResult, error)
	GraphInfo() usecases.GraphInfo
}
