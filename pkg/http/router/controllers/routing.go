package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/roadnet-go/roadnet/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/shortestPath", api.shortestPath)
	group.GET("/nearestNode", api.nearestNode)
	group.GET("/graphInfo", api.graphInfo)
}

func (api *routingAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request shortestPathRequest
		err     error
	)

	query := r.URL.Query()

	request.OriginX, err = strconv.ParseFloat(query.Get("origin_x"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_x is required and must be a valid float"))
		return
	}
	request.OriginY, err = strconv.ParseFloat(query.Get("origin_y"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_y is required and must be a valid float"))
		return
	}
	request.DestinationX, err = strconv.ParseFloat(query.Get("destination_x"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_x is required and must be a valid float"))
		return
	}
	request.DestinationY, err = strconv.ParseFloat(query.Get("destination_y"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_y is required and must be a valid float"))
		return
	}
	request.Engine = query.Get("engine")
	if request.Engine == "" {
		request.Engine = "dijkstra"
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	route, err := api.routingService.ShortestPath(r.Context(), request.Engine,
		request.OriginX, request.OriginY, request.DestinationX, request.DestinationY)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewShortestPathResponse(route)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) nearestNode(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestNodeRequest
		err     error
	)

	query := r.URL.Query()

	request.X, err = strconv.ParseFloat(query.Get("x"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("x is required and must be a valid float"))
		return
	}
	request.Y, err = strconv.ParseFloat(query.Get("y"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("y is required and must be a valid float"))
		return
	}

	res, err := api.routingService.Nearest(request.X, request.Y)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNearestNodeResponse(res)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) graphInfo(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	info := api.routingService.GraphInfo()

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewGraphInfoResponse(info)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
