package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventmaster/internal/report"
	"eventmaster/internal/repository"
	"eventmaster/internal/services"
)

// statusFor maps a domain error onto its HTTP status.
func statusFor(err error) int {
	var verr *services.ValidationError
	var mis *repository.MisconfiguredBackendError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPrecondition), errors.Is(err, report.ErrNoProductionItems):
		return http.StatusConflict
	case errors.As(err, &mis):
		return http.StatusServiceUnavailable
	case repository.IsStorageError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *APIHandler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "order_id", c.Param("id"), "error", err)
	}

	body := gin.H{"error": err.Error()}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	c.JSON(status, body)
}
