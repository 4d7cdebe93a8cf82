package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/Domenick1991/slotbooking/internal/repository"
	"github.com/hashicorp/go-memdb"
)

type BookingRepository struct {
	db  *memdb.MemDB
	now func() time.Time
}

func NewBookingRepository(db *memdb.MemDB) *BookingRepository {
	return &BookingRepository{db: db, now: time.Now}
}

func cloneBooking(raw any) *domain.Booking {
	b := *raw.(*domain.Booking)
	return &b
}

func (r *BookingRepository) Create(_ context.Context, b *domain.Booking) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	if existing, err := txn.First(bookingsTable, "id", b.ID); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("%w: booking %s already exists", domain.ErrConflict, b.ID)
	}
	if b.PaymentID != "" {
		existing, err := txn.First(bookingsTable, "payment", b.PaymentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyBooked
		}
	}
	if b.Status == domain.BookingStatusConfirmed {
		it, err := txn.Get(bookingsTable, "caller", b.CallerID)
		if err != nil {
			return err
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			other := raw.(*domain.Booking)
			if other.SlotID == b.SlotID && other.Status == domain.BookingStatusConfirmed {
				return domain.ErrAlreadyBooked
			}
		}
	}

	now := r.now()
	b.CreatedAt, b.UpdatedAt = now, now
	stored := *b
	if err := txn.Insert(bookingsTable, &stored); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *BookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	return r.first("id", id)
}

func (r *BookingRepository) GetByPaymentID(_ context.Context, paymentID string) (*domain.Booking, error) {
	if paymentID == "" {
		return nil, domain.ErrBookingNotFound
	}
	return r.first("payment", paymentID)
}

func (r *BookingRepository) first(index, value string) (*domain.Booking, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(bookingsTable, index, value)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, domain.ErrBookingNotFound
	}
	return cloneBooking(raw), nil
}

func (r *BookingRepository) MarkCancelled(_ context.Context, id string) (*domain.Booking, bool, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(bookingsTable, "id", id)
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, domain.ErrBookingNotFound
	}
	b := cloneBooking(raw)
	if b.Status == domain.BookingStatusCancelled {
		return b, false, nil
	}
	b.Status = domain.BookingStatusCancelled
	b.UpdatedAt = r.now()
	if err := txn.Insert(bookingsTable, b); err != nil {
		return nil, false, err
	}
	txn.Commit()
	return cloneBooking(b), true, nil
}

func (r *BookingRepository) ListConfirmed(_ context.Context) ([]domain.BookingWithSlot, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(bookingsTable, "status", string(domain.BookingStatusConfirmed))
	if err != nil {
		return nil, err
	}
	result := make([]domain.BookingWithSlot, 0)
	for raw := it.Next(); raw != nil; raw = it.Next() {
		item := domain.BookingWithSlot{Booking: *cloneBooking(raw)}
		slot, err := getSlot(txn, item.SlotID)
		switch {
		case err == nil:
			item.Slot = slot
		case !errors.Is(err, domain.ErrSlotNotFound):
			return nil, err
		}
		result = append(result, item)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *BookingRepository) ListActiveByCaller(_ context.Context, callerID string) ([]domain.Booking, error) {
	return r.list("caller", callerID, func(b *domain.Booking) bool {
		return b.Status != domain.BookingStatusCancelled
	})
}

func (r *BookingRepository) ListBySlot(_ context.Context, slotID string) ([]domain.Booking, error) {
	return r.list("slot", slotID, func(*domain.Booking) bool { return true })
}

func (r *BookingRepository) list(index, value string, keep func(*domain.Booking) bool) ([]domain.Booking, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(bookingsTable, index, value)
	if err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0)
	for raw := it.Next(); raw != nil; raw = it.Next() {
		b := cloneBooking(raw)
		if keep(b) {
			bookings = append(bookings, *b)
		}
	}
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings, nil
}

var _ repository.BookingRepository = (*BookingRepository)(nil)
