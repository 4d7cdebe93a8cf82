package domain

import (
	"slices"
	"time"
)

// Slot is a bookable time window offered by a specialist.
type Slot struct {
	ID             string    `json:"id"`
	SpecialistID   string    `json:"specialist_id"`
	SpecialistName string    `json:"specialist_name"`
	Subject        string    `json:"subject"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	Capacity       int       `json:"capacity"`
	AvailableSeats int       `json:"available_seats"`
	BookedBy       []string  `json:"booked_by"`
	PriceMinor     int64     `json:"price_minor"`
	Description    string    `json:"description,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SlotDetails holds the administratively editable fields of a slot.
// Empty strings and nil pointers leave the current value untouched.
type SlotDetails struct {
	SpecialistName string
	Subject        string
	Date           string
	StartTime      string
	EndTime        string
	Description    string
	PriceMinor     *int64
}

func (s *Slot) HasCaller(callerID string) bool {
	return slices.Contains(s.BookedBy, callerID)
}

// CanReserve reports why callerID could not take a seat right now, or nil.
func (s *Slot) CanReserve(callerID string) error {
	if s.HasCaller(callerID) {
		return ErrAlreadyBooked
	}
	if s.AvailableSeats <= 0 {
		return ErrSlotFull
	}
	return nil
}

// Consistent reports whether the seat accounting of the slot holds.
func (s *Slot) Consistent() bool {
	if s.AvailableSeats < 0 || s.AvailableSeats > s.Capacity {
		return false
	}
	if s.AvailableSeats+len(s.BookedBy) != s.Capacity {
		return false
	}
	seen := make(map[string]struct{}, len(s.BookedBy))
	for _, id := range s.BookedBy {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

// Apply copies the non-empty fields of d onto s.
func (d SlotDetails) Apply(s *Slot) {
	if d.SpecialistName != "" {
		s.SpecialistName = d.SpecialistName
	}
	if d.Subject != "" {
		s.Subject = d.Subject
	}
	if d.Date != "" {
		s.Date = d.Date
	}
	if d.StartTime != "" {
		s.StartTime = d.StartTime
	}
	if d.EndTime != "" {
		s.EndTime = d.EndTime
	}
	if d.Description != "" {
		s.Description = d.Description
	}
	if d.PriceMinor != nil {
		s.PriceMinor = *d.PriceMinor
	}
}

// Clone returns a deep copy, so stored slots can be treated as immutable.
func (s *Slot) Clone() *Slot {
	c := *s
	c.BookedBy = slices.Clone(s.BookedBy)
	if c.BookedBy == nil {
		c.BookedBy = []string{}
	}
	return &c
}
