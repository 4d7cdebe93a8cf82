// Package audit cross-checks the slot ledger against the booking records.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/slotbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

const (
	KindSeatAccounting     = "seat_accounting"
	KindSeatWithoutBooking = "seat_without_booking"
	KindBookingWithoutSeat = "booking_without_seat"
	KindOrphanBooking      = "orphan_booking"
)

type Discrepancy struct {
	Kind      string `json:"kind"`
	SlotID    string `json:"slot_id"`
	CallerID  string `json:"caller_id,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
	Detail    string `json:"detail"`
}

type Report struct {
	CheckedSlots    int
	CheckedBookings int
	Discrepancies   []Discrepancy
}

type Auditor struct {
	slots    repository.SlotRepository
	bookings repository.BookingRepository
}

func NewAuditor(slots repository.SlotRepository, bookings repository.BookingRepository) *Auditor {
	return &Auditor{slots: slots, bookings: bookings}
}

// Audit reads without locking, so a reservation in flight may show up as a
// transient seat_without_booking.
func (a *Auditor) Audit(ctx context.Context) (*Report, error) {
	slots, err := a.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	confirmed, err := a.bookings.ListConfirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	report := &Report{CheckedSlots: len(slots), CheckedBookings: len(confirmed)}

	held := make(map[string]map[string]string, len(slots))
	for _, b := range confirmed {
		if b.Slot == nil {
			report.add(Discrepancy{
				Kind:      KindOrphanBooking,
				SlotID:    b.SlotID,
				CallerID:  b.CallerID,
				BookingID: b.ID,
				Detail:    "confirmed booking references a missing slot",
			})
			continue
		}
		if held[b.SlotID] == nil {
			held[b.SlotID] = make(map[string]string)
		}
		held[b.SlotID][b.CallerID] = b.ID
	}

	for i := range slots {
		slot := &slots[i]
		if !slot.Consistent() {
			report.add(Discrepancy{
				Kind:   KindSeatAccounting,
				SlotID: slot.ID,
				Detail: fmt.Sprintf("capacity %d, available %d, booked %d", slot.Capacity, slot.AvailableSeats, len(slot.BookedBy)),
			})
		}
		for _, callerID := range slot.BookedBy {
			if _, ok := held[slot.ID][callerID]; !ok {
				report.add(Discrepancy{
					Kind:     KindSeatWithoutBooking,
					SlotID:   slot.ID,
					CallerID: callerID,
					Detail:   "seat held without a confirmed booking",
				})
			}
		}
		for callerID, bookingID := range held[slot.ID] {
			if !slot.HasCaller(callerID) {
				report.add(Discrepancy{
					Kind:      KindBookingWithoutSeat,
					SlotID:    slot.ID,
					CallerID:  callerID,
					BookingID: bookingID,
					Detail:    "confirmed booking without a held seat",
				})
			}
		}
	}
	return report, nil
}

func (r *Report) add(d Discrepancy) {
	r.Discrepancies = append(r.Discrepancies, d)
}

// Run audits every interval until ctx is done.
func (a *Auditor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runOnce(ctx)
		}
	}
}

func (a *Auditor) runOnce(ctx context.Context) {
	report, err := a.Audit(ctx)
	if err != nil {
		logrus.Errorf("ledger audit failed: %v", err)
		return
	}
	for _, d := range report.Discrepancies {
		logrus.WithFields(logrus.Fields{
			"kind":       d.Kind,
			"slot_id":    d.SlotID,
			"caller_id":  d.CallerID,
			"booking_id": d.BookingID,
		}).Error(d.Detail)
	}
	logrus.WithFields(logrus.Fields{
		"slots":         report.CheckedSlots,
		"bookings":      report.CheckedBookings,
		"discrepancies": len(report.Discrepancies),
	}).Info("ledger audit finished")
}
