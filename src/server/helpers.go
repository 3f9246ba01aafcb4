package server

import (
	"net/http"
	"time"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/models"

	"github.com/gin-gonic/gin"
)

// Event types and commands exchanged over the WebSocket.
const (
	EventReport    = "REPORT"
	EventError     = "ERROR"
	CommandRefresh = "refresh"
)

// -----------------------------------------------------------------------------

// statusForError maps the pipeline's error kinds to HTTP status codes.
func statusForError(err error) int {
	switch helpers.Kind(err) {
	case helpers.KindValidation:
		return http.StatusBadRequest
	case helpers.KindDataUnavailable:
		return http.StatusServiceUnavailable
	case helpers.KindReportIncomplete:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------

func errorBody(err error) gin.H {
	return gin.H{
		"error_kind": helpers.Kind(err),
		"message":    err.Error(),
	}
}

// -----------------------------------------------------------------------------

func errorEvent(err error) models.MRefreshEvent {
	return models.MRefreshEvent{
		Type:      EventError,
		ErrorKind: helpers.Kind(err),
		Message:   err.Error(),
		Timestamp: time.Now().Unix(),
	}
}
