package api

import (
	"errors"
	"net/http"

	"fitmarket/internal/capacity"
	"fitmarket/internal/data"
	"fitmarket/internal/pkg/response"
	"fitmarket/internal/plan"
	"fitmarket/internal/store/local"
	"fitmarket/internal/store/remote"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors onto the JSON error envelope.
func writeError(c *gin.Context, err error) {
	var limitErr *data.LimitError
	switch {
	case errors.As(err, &limitErr):
		response.ErrorWithDetails(c, http.StatusForbidden, "PLAN_LIMIT_REACHED", err.Error(), gin.H{
			"current":   limitErr.Current,
			"limit":     limitErr.Limit,
			"plan_name": limitErr.PlanName,
		})
	case errors.Is(err, capacity.ErrCapacityExceeded):
		response.Error(c, http.StatusConflict, "CAPACITY_EXCEEDED", err.Error())
	case errors.Is(err, capacity.ErrDuplicateBooking):
		response.Error(c, http.StatusConflict, "DUPLICATE_BOOKING", err.Error())
	case errors.Is(err, capacity.ErrSlotClosed):
		response.Error(c, http.StatusConflict, "SLOT_CLOSED", err.Error())
	case errors.Is(err, data.ErrCapacityImmutable):
		response.Error(c, http.StatusConflict, "CAPACITY_IMMUTABLE", err.Error())
	case errors.Is(err, plan.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_PLAN_TRANSITION", err.Error())
	case errors.Is(err, plan.ErrPlanStillActive):
		response.Error(c, http.StatusConflict, "PLAN_STILL_ACTIVE", err.Error())
	case errors.Is(err, plan.ErrNoExpiry):
		response.Error(c, http.StatusConflict, "NO_PLAN_EXPIRY", err.Error())
	case errors.Is(err, data.ErrValidation), errors.Is(err, plan.ErrInvalidDuration):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, data.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, local.ErrQuotaExceeded):
		response.Error(c, http.StatusInsufficientStorage, "STORAGE_FULL", err.Error())
	case errors.Is(err, remote.ErrTransient), errors.Is(err, remote.ErrRejected):
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, "REMOTE_UNAVAILABLE", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error")
	}
}

func badRequest(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}

func forbidden(c *gin.Context, message string) {
	response.Error(c, http.StatusForbidden, "FORBIDDEN", message)
}
