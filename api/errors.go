package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// conflictStatus lets an endpoint override how ErrConflict kinds map.
type conflictStatus func(err error) int

func orderConflict(error) int {
	return http.StatusBadRequest
}

func verifyConflict(err error) int {
	if errors.Is(err, domain.ErrSlotFull) {
		return http.StatusBadRequest
	}
	return http.StatusConflict
}

func defaultConflict(error) int {
	return http.StatusConflict
}

// writeError maps a domain error to a status code and JSON body.
func writeError(c *gin.Context, err error, conflict conflictStatus) {
	var recErr *domain.ReconciliationError
	if errors.As(err, &recErr) {
		status := http.StatusBadRequest
		if errors.Is(recErr.Cause, domain.ErrAlreadyBooked) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error":      err.Error(),
			"code":       "reconciliation_required",
			"order_id":   recErr.OrderID,
			"payment_id": recErr.PaymentID,
			"slot_id":    recErr.SlotID,
		})
		return
	}

	var status int
	switch {
	case errors.Is(err, domain.ErrCompensationFailure):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "booking could not be completed, support has been notified"})
		return
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrSignatureMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		status = conflict(err)
	case errors.Is(err, domain.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		logrus.WithField("path", c.Request.URL.Path).Errorf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
