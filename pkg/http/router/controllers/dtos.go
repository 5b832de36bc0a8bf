package controllers

import (
	da "github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/http/usecases"
)

type shortestPathRequest struct {
	OriginX      float64 `json:"origin_x"`
	OriginY      float64 `json:"origin_y"`
	DestinationX float64 `json:"destination_x"`
	DestinationY float64 `json:"destination_y"`
	Engine       string  `json:"engine" validate:"oneof=dijkstra astar bestfirst"`
}

type shortestPathResponse struct {
	Dist         float64    `json:"distance"`
	Path         string     `json:"path"`
	Nodes        []da.Index `json:"nodes"`
	ArrivalTimes []float64  `json:"arrival_times"`
}

func NewShortestPathResponse(route *usecases.RouteResult) shortestPathResponse {
	return shortestPathResponse{
		Dist:         route.Distance,
		Path:         route.Polyline,
		Nodes:        route.Nodes,
		ArrivalTimes: route.ArrivalTimes,
	}
}

type nearestNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type nearestNodeResponse struct {
	Node da.Index `json:"node"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Dist float64  `json:"distance"`
}

func NewNearestNodeResponse(res *usecases.NearestResult) nearestNodeResponse {
	return nearestNodeResponse{
		Node: res.Node,
		X:    res.X,
		Y:    res.Y,
		Dist: res.Distance,
	}
}

type graphInfoResponse struct {
	Vertices   int    `json:"vertices"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	RingNodes  int    `json:"ring_nodes"`
	Generation uint64 `json:"generation"`
}

func NewGraphInfoResponse(info usecases.GraphInfo) graphInfoResponse {
	return graphInfoResponse{
		Vertices:   info.Vertices,
		Nodes:      info.Nodes,
		Edges:      info.Edges,
		RingNodes:  info.RingNodes,
		Generation: info.Generation,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
