package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/roadnet-go/roadnet/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]interface{}

func (api *routingAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

func (api *routingAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message

	if err := api.writeJSON(w, status, envelope{"error": resp.Error}, nil); err != nil {
		api.log.Error("write error response", zap.Error(err),
			zap.String("method", r.Method), zap.String("uri", r.URL.RequestURI()))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *routingAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, "bad_request", err.Error())
}

func (api *routingAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, "not_found", err.Error())
}

func (api *routingAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("server error", zap.Error(err),
		zap.String("method", r.Method), zap.String("uri", r.URL.RequestURI()))
	api.errorResponse(w, r, http.StatusInternalServerError, "internal_server_error",
		"the server encountered a problem and could not process your request")
}

func (api *routingAPI) GatewayTimeoutResponse(w http.ResponseWriter, r *http.Request) {
	api.errorResponse(w, r, http.StatusGatewayTimeout, "gateway_timeout",
		"the query took too long to complete")
}

// getStatusCode maps service errors onto HTTP responses.
func (api *routingAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		api.GatewayTimeoutResponse(w, r)
		return
	}

	var serviceErr *util.Error
	if errors.As(err, &serviceErr) {
		switch serviceErr.Code() {
		case util.ErrBadParamInput:
			api.BadRequestResponse(w, r, err)
			return
		case util.ErrNotFound:
			api.NotFoundResponse(w, r, err)
			return
		}
	}
	api.ServerErrorResponse(w, r, err)
}

func translateError(err error, trans ut.Translator) []error {
	if err == nil {
		return nil
	}
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}
	var errs []error
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}
