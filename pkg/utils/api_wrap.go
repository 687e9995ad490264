package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// RespondErrorWithData is used where the client expects a payload even on
// failure, e.g. an empty suggestion list.
func RespondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

// StatusFor maps a service error to its HTTP status and client message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, ErrRouteEndpointsRequired):
		return http.StatusBadRequest, "Start and end points are required"
	case errors.Is(err, ErrNotEnoughPlaces):
		return http.StatusBadRequest, "Select at least two places to optimize the day"
	case errors.Is(err, ErrInvalidSession):
		return http.StatusUnauthorized, "Invalid or expired session"
	case errors.Is(err, ErrPlaceNotFound):
		return http.StatusNotFound, "Place not found"
	case errors.Is(err, ErrStaleResponse):
		return http.StatusConflict, "Request was superseded by a newer one"
	case errors.Is(err, ErrGeocodeFailed):
		return http.StatusUnprocessableEntity, "Could not find coordinates for this place"
	case errors.Is(err, ErrRouteUnavailable):
		return http.StatusBadGateway, "Directions request failed"
	case errors.Is(err, ErrMapsUnavailable):
		return http.StatusBadGateway, "Mapping provider request failed"
	case errors.Is(err, ErrProviderNotConfigured):
		return http.StatusServiceUnavailable, "Provider is not configured"
	case errors.Is(err, ErrUpstreamLLM):
		return http.StatusInternalServerError, "Failed to fetch suggestions"
	case errors.Is(err, ErrMalformedSuggestions):
		return http.StatusInternalServerError, "Suggestions were not in the expected format"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func HandleServiceError(c *gin.Context, err error) {
	code, message := StatusFor(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("trace_id", traceID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	RespondError(c, code, message)
}

// HandleServiceErrorWithData is HandleServiceError for endpoints whose clients
// expect a payload on failure.
func HandleServiceErrorWithData(c *gin.Context, err error, data interface{}) {
	code, message := StatusFor(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("trace_id", traceID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	RespondErrorWithData(c, code, message, data)
}
