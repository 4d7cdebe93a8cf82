package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is one caller's claim on one seat of a slot. Specialist and
// schedule fields are copied from the slot when the booking is created and
// are never refreshed afterwards.
type Booking struct {
	ID             string        `json:"id"`
	CallerID       string        `json:"caller_id"`
	CallerName     string        `json:"caller_name"`
	CallerEmail    string        `json:"caller_email"`
	SlotID         string        `json:"slot_id"`
	SpecialistID   string        `json:"specialist_id"`
	SpecialistName string        `json:"specialist_name"`
	Subject        string        `json:"subject"`
	Date           string        `json:"date"`
	StartTime      string        `json:"start_time"`
	EndTime        string        `json:"end_time"`
	Status         BookingStatus `json:"status"`
	PaymentID      string        `json:"payment_id,omitempty"`
	AmountPaid     int64         `json:"amount_paid"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// BookingWithSlot is a booking joined with the current state of its slot.
// Slot is nil when the slot no longer exists.
type BookingWithSlot struct {
	Booking
	Slot *Slot `json:"slot"`
}

// NewConfirmedBooking snapshots slot and caller into a confirmed booking.
func NewConfirmedBooking(id string, slot *Slot, caller Caller, paymentID string, amount int64, now time.Time) *Booking {
	return &Booking{
		ID:             id,
		CallerID:       caller.ID,
		CallerName:     caller.Name,
		CallerEmail:    caller.Email,
		SlotID:         slot.ID,
		SpecialistID:   slot.SpecialistID,
		SpecialistName: slot.SpecialistName,
		Subject:        slot.Subject,
		Date:           slot.Date,
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
		Status:         BookingStatusConfirmed,
		PaymentID:      paymentID,
		AmountPaid:     amount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
