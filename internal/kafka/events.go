package kafka

import (
	"time"

	"github.com/Domenick1991/slotbooking/internal/domain"
)

const (
	EventBookingConfirmed       = "booking_confirmed"
	EventBookingCancelled       = "booking_cancelled"
	EventReconciliationRequired = "reconciliation_required"
)

// ReservationEvent is the message published for every reservation outcome.
type ReservationEvent struct {
	Type           string    `json:"type"`
	BookingID      string    `json:"booking_id,omitempty"`
	SlotID         string    `json:"slot_id"`
	CallerID       string    `json:"caller_id"`
	CallerName     string    `json:"caller_name,omitempty"`
	CallerEmail    string    `json:"caller_email,omitempty"`
	SpecialistName string    `json:"specialist_name,omitempty"`
	Subject        string    `json:"subject,omitempty"`
	Date           string    `json:"date,omitempty"`
	StartTime      string    `json:"start_time,omitempty"`
	EndTime        string    `json:"end_time,omitempty"`
	Status         string    `json:"status,omitempty"`
	OrderID        string    `json:"order_id,omitempty"`
	PaymentID      string    `json:"payment_id,omitempty"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *domain.Booking, currency string, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:           eventType,
		BookingID:      b.ID,
		SlotID:         b.SlotID,
		CallerID:       b.CallerID,
		CallerName:     b.CallerName,
		CallerEmail:    b.CallerEmail,
		SpecialistName: b.SpecialistName,
		Subject:        b.Subject,
		Date:           b.Date,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
		PaymentID:      b.PaymentID,
		Amount:         b.AmountPaid,
		Currency:       currency,
		OccurredAt:     at,
	}
}

func NewReconciliationEvent(e *domain.ReconciliationError, caller domain.Caller, amount int64, currency string, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:        EventReconciliationRequired,
		SlotID:      e.SlotID,
		CallerID:    e.CallerID,
		CallerName:  caller.Name,
		CallerEmail: caller.Email,
		OrderID:     e.OrderID,
		PaymentID:   e.PaymentID,
		Amount:      amount,
		Currency:    currency,
		Reason:      e.Cause.Error(),
		OccurredAt:  at,
	}
}
