package handlers

import (
	"errors"
	"net/http"

	"github.com/campustransit/campus-bus-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer errors onto HTTP responses
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var seatErr *services.SeatConflictError
	var transitionErr *services.TransitionError
	var repoErr *services.RepositoryError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": validationErr.Message,
		})
	case errors.As(err, &seatErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "seat_taken",
			"message": seatErr.Error(),
			"seat":    seatErr.SeatNumber,
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "invalid_transition",
			"message": transitionErr.Error(),
			"from":    transitionErr.From,
			"to":      transitionErr.To,
		})
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrBusNotFound),
		errors.Is(err, services.ErrRouteNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
	case errors.As(err, &repoErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "storage_unavailable",
			"message":   "Temporary storage failure, please retry",
			"retryable": true,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Something went wrong",
		})
	}
}
