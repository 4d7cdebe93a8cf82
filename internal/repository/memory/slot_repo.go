package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/Domenick1991/slotbooking/internal/repository"
	"github.com/hashicorp/go-memdb"
)

type SlotRepository struct {
	db  *memdb.MemDB
	now func() time.Time
}

func NewSlotRepository(db *memdb.MemDB) *SlotRepository {
	return &SlotRepository{db: db, now: time.Now}
}

func getSlot(txn *memdb.Txn, id string) (*domain.Slot, error) {
	raw, err := txn.First(slotsTable, "id", id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, domain.ErrSlotNotFound
	}
	return raw.(*domain.Slot).Clone(), nil
}

func (r *SlotRepository) Create(_ context.Context, slot *domain.Slot) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(slotsTable, "id", slot.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: slot %s already exists", domain.ErrConflict, slot.ID)
	}

	now := r.now()
	slot.CreatedAt, slot.UpdatedAt = now, now
	if err := txn.Insert(slotsTable, slot.Clone()); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *SlotRepository) GetByID(_ context.Context, id string) (*domain.Slot, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()
	return getSlot(txn, id)
}

func (r *SlotRepository) List(_ context.Context) ([]domain.Slot, error) {
	return r.list("id")
}

func (r *SlotRepository) ListBySpecialist(_ context.Context, specialistID string) ([]domain.Slot, error) {
	return r.list("specialist", specialistID)
}

func (r *SlotRepository) list(index string, args ...any) ([]domain.Slot, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(slotsTable, index, args...)
	if err != nil {
		return nil, err
	}
	slots := make([]domain.Slot, 0)
	for raw := it.Next(); raw != nil; raw = it.Next() {
		slots = append(slots, *raw.(*domain.Slot).Clone())
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots, nil
}

// update applies fn to a copy of the slot inside one write transaction and
// stores the result only if fn succeeds.
func (r *SlotRepository) update(id string, fn func(s *domain.Slot) error) (*domain.Slot, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	slot, err := getSlot(txn, id)
	if err != nil {
		return nil, err
	}
	if err := fn(slot); err != nil {
		return nil, err
	}
	slot.UpdatedAt = r.now()
	if err := txn.Insert(slotsTable, slot); err != nil {
		return nil, err
	}
	txn.Commit()
	return slot.Clone(), nil
}

func (r *SlotRepository) ReserveSeat(_ context.Context, slotID, callerID string) (*domain.Slot, error) {
	return r.update(slotID, func(s *domain.Slot) error {
		if err := s.CanReserve(callerID); err != nil {
			return err
		}
		s.BookedBy = append(s.BookedBy, callerID)
		s.AvailableSeats--
		return nil
	})
}

func releaseCaller(s *domain.Slot, callerID string) bool {
	if !s.HasCaller(callerID) {
		return false
	}
	s.BookedBy = slices.DeleteFunc(s.BookedBy, func(id string) bool { return id == callerID })
	s.AvailableSeats = min(s.AvailableSeats+1, s.Capacity)
	return true
}

func (r *SlotRepository) ReleaseSeat(_ context.Context, slotID, callerID string) (bool, error) {
	released := false
	_, err := r.update(slotID, func(s *domain.Slot) error {
		released = releaseCaller(s, callerID)
		return nil
	})
	if err != nil {
		return false, err
	}
	return released, nil
}

// ReleaseBookedSeat reads the booking and updates the slot in one write
// transaction, so the status check and the release cannot interleave with a
// cancellation or a new reservation.
func (r *SlotRepository) ReleaseBookedSeat(_ context.Context, bookingID string) (bool, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(bookingsTable, "id", bookingID)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, domain.ErrBookingNotFound
	}
	booking := raw.(*domain.Booking)
	if booking.Status != domain.BookingStatusConfirmed {
		return false, nil
	}

	slot, err := getSlot(txn, booking.SlotID)
	if err != nil {
		return false, err
	}
	if !releaseCaller(slot, booking.CallerID) {
		return false, nil
	}
	slot.UpdatedAt = r.now()
	if err := txn.Insert(slotsTable, slot); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

func (r *SlotRepository) ResizeCapacity(_ context.Context, slotID string, capacity int) (*domain.Slot, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	return r.update(slotID, func(s *domain.Slot) error {
		if capacity < len(s.BookedBy) {
			return domain.ErrCapacityBelowBooked
		}
		s.Capacity = capacity
		s.AvailableSeats = capacity - len(s.BookedBy)
		return nil
	})
}

func (r *SlotRepository) UpdateDetails(_ context.Context, slotID string, details domain.SlotDetails) (*domain.Slot, error) {
	return r.update(slotID, func(s *domain.Slot) error {
		details.Apply(s)
		return nil
	})
}

func (r *SlotRepository) Delete(_ context.Context, slotID string) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	slot, err := getSlot(txn, slotID)
	if err != nil {
		return err
	}
	if len(slot.BookedBy) > 0 {
		return domain.ErrSlotHasBookings
	}
	if err := txn.Delete(slotsTable, slot); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

var _ repository.SlotRepository = (*SlotRepository)(nil)
