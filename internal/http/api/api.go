package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// APIError is an error response. Err keeps the internal cause of 5xx errors
// for the server log and is never sent to clients.
type APIError struct {
	Code    int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

// Created makes a handler answer 201 with a Location header.
type Created struct {
	Location string
	Body     any
}

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

const internalErrorMessage = "internal server error"

// BadRequest reports malformed input.
func BadRequest(message string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message}
}

// FromError maps domain errors to their status. Anything else is an internal
// error whose details stay on the server.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		return &APIError{Code: StatusFor(domainErr.Kind), Message: domainErr.Message}
	}

	return &APIError{Code: http.StatusInternalServerError, Message: internalErrorMessage, Err: err}
}

func StatusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindArchived:
		return http.StatusForbidden
	case model.KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case model.KindInvalid:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// LogIfInternal writes 5xx errors to the server log with their cause.
func LogIfInternal(ctx *gin.Context, apiErr *APIError) {
	if apiErr == nil || apiErr.Code < http.StatusInternalServerError {
		return
	}
	log.Error().Err(apiErr.Err).
		Str("method", ctx.Request.Method).
		Str("path", ctx.Request.URL.Path).
		Str("request_id", middleware.GetRequestID(ctx)).
		Int("status", apiErr.Code).
		Msg("request failed")
}

func respond(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr != nil {
		LogIfInternal(ctx, apiErr)
		ctx.AbortWithStatusJSON(apiErr.Code, ErrorResponse{Msg: apiErr.Message})
		return
	}

	switch r := result.(type) {
	case nil:
		ctx.Status(http.StatusNoContent)
	case Created:
		ctx.Header("Location", r.Location)
		ctx.JSON(http.StatusCreated, r.Body)
	default:
		ctx.JSON(http.StatusOK, r)
	}
}

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Msg: "unauthorized"})
			return
		}

		result, apiErr := h(ctx, user)
		respond(ctx, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		respond(ctx, result, apiErr)
	}
}
