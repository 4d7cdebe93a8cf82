package kafka

import (
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewBookingEvent(t *testing.T) {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	b := &domain.Booking{
		ID:             "b-1",
		SlotID:         "slot-1",
		CallerID:       "caller-1",
		CallerEmail:    "ann@example.com",
		SpecialistName: "Dr. Rao",
		Status:         domain.BookingStatusConfirmed,
		PaymentID:      "pay-1",
		AmountPaid:     5000,
	}

	event := NewBookingEvent(EventBookingConfirmed, b, "INR", at)

	assert.Equal(t, EventBookingConfirmed, event.Type)
	assert.Equal(t, "b-1", event.BookingID)
	assert.Equal(t, "confirmed", event.Status)
	assert.Equal(t, int64(5000), event.Amount)
	assert.Equal(t, "INR", event.Currency)
	assert.Equal(t, at, event.OccurredAt)
}

func TestNewReconciliationEvent(t *testing.T) {
	recErr := &domain.ReconciliationError{
		OrderID:   "order_1",
		PaymentID: "pay-1",
		SlotID:    "slot-1",
		CallerID:  "caller-1",
		Cause:     errors.New("slot is fully booked"),
	}

	event := NewReconciliationEvent(recErr, domain.Caller{ID: "caller-1", Email: "ann@example.com"}, 5000, "INR", time.Now())

	assert.Equal(t, EventReconciliationRequired, event.Type)
	assert.Equal(t, "order_1", event.OrderID)
	assert.Equal(t, "pay-1", event.PaymentID)
	assert.Equal(t, "slot is fully booked", event.Reason)
	assert.Empty(t, event.BookingID)
}

func TestNewProducer(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"})
	assert.NotNil(t, p)
	assert.NoError(t, p.Close())
}
