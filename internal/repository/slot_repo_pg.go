package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SlotRepository is the slot ledger. Every seat mutation is a single
// conditional statement, so concurrent callers cannot over-book a slot.
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) error
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
	List(ctx context.Context) ([]domain.Slot, error)
	ListBySpecialist(ctx context.Context, specialistID string) ([]domain.Slot, error)
	ReserveSeat(ctx context.Context, slotID, callerID string) (*domain.Slot, error)
	ReleaseSeat(ctx context.Context, slotID, callerID string) (bool, error)
	// ReleaseBookedSeat frees the seat of a booking only while the booking is
	// still confirmed, so a stale cancellation cannot free a seat the caller
	// has since taken again under a newer booking.
	ReleaseBookedSeat(ctx context.Context, bookingID string) (bool, error)
	ResizeCapacity(ctx context.Context, slotID string, capacity int) (*domain.Slot, error)
	UpdateDetails(ctx context.Context, slotID string, details domain.SlotDetails) (*domain.Slot, error)
	Delete(ctx context.Context, slotID string) error
}

type PGSlotRepository struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &PGSlotRepository{db: db}
}

const slotColumns = `id, specialist_id, specialist_name, subject, date, start_time, end_time, capacity, available_seats, booked_by, price_minor, description, created_by, created_at, updated_at`

func scanSlot(row pgx.Row) (*domain.Slot, error) {
	var s domain.Slot
	if err := row.Scan(&s.ID, &s.SpecialistID, &s.SpecialistName, &s.Subject, &s.Date, &s.StartTime, &s.EndTime,
		&s.Capacity, &s.AvailableSeats, &s.BookedBy, &s.PriceMinor, &s.Description, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if s.BookedBy == nil {
		s.BookedBy = []string{}
	}
	return &s, nil
}

func (r *PGSlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	if slot.BookedBy == nil {
		slot.BookedBy = []string{}
	}
	return r.db.QueryRow(ctx, `INSERT INTO slots (id, specialist_id, specialist_name, subject, date, start_time, end_time, capacity, available_seats, booked_by, price_minor, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		slot.ID, slot.SpecialistID, slot.SpecialistName, slot.Subject, slot.Date, slot.StartTime, slot.EndTime,
		slot.Capacity, slot.AvailableSeats, slot.BookedBy, slot.PriceMinor, slot.Description, slot.CreatedBy).
		Scan(&slot.CreatedAt, &slot.UpdatedAt)
}

func (r *PGSlotRepository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	slot, err := scanSlot(r.db.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSlotNotFound
	}
	return slot, err
}

func (r *PGSlotRepository) List(ctx context.Context) ([]domain.Slot, error) {
	return r.query(ctx, `SELECT `+slotColumns+` FROM slots ORDER BY date, start_time`)
}

func (r *PGSlotRepository) ListBySpecialist(ctx context.Context, specialistID string) ([]domain.Slot, error) {
	return r.query(ctx, `SELECT `+slotColumns+` FROM slots WHERE specialist_id=$1 ORDER BY date, start_time`, specialistID)
}

func (r *PGSlotRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Slot, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

func (r *PGSlotRepository) ReserveSeat(ctx context.Context, slotID, callerID string) (*domain.Slot, error) {
	slot, err := scanSlot(r.db.QueryRow(ctx, `UPDATE slots
		SET booked_by = array_append(booked_by, $2), available_seats = available_seats - 1, updated_at = now()
		WHERE id=$1 AND available_seats > 0 AND NOT ($2 = ANY(booked_by))
		RETURNING `+slotColumns, slotID, callerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.reserveFailure(ctx, slotID, callerID)
	}
	return slot, err
}

// reserveFailure explains a conditional update that matched no row.
func (r *PGSlotRepository) reserveFailure(ctx context.Context, slotID, callerID string) error {
	current, err := r.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if reason := current.CanReserve(callerID); reason != nil {
		return reason
	}
	// The seat was taken and released between the update and this read.
	return domain.ErrSlotFull
}

func (r *PGSlotRepository) ReleaseSeat(ctx context.Context, slotID, callerID string) (bool, error) {
	res, err := r.db.Exec(ctx, `UPDATE slots
		SET booked_by = array_remove(booked_by, $2), available_seats = LEAST(available_seats + 1, capacity), updated_at = now()
		WHERE id=$1 AND $2 = ANY(booked_by)`, slotID, callerID)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() > 0 {
		return true, nil
	}
	if _, err := r.GetByID(ctx, slotID); err != nil {
		return false, err
	}
	return false, nil
}

func (r *PGSlotRepository) ReleaseBookedSeat(ctx context.Context, bookingID string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var slotID, callerID string
	var status domain.BookingStatus
	err = tx.QueryRow(ctx, `SELECT slot_id, caller_id, status FROM bookings WHERE id=$1 FOR UPDATE`, bookingID).
		Scan(&slotID, &callerID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrBookingNotFound
	}
	if err != nil {
		return false, err
	}
	if status != domain.BookingStatusConfirmed {
		return false, nil
	}

	res, err := tx.Exec(ctx, `UPDATE slots
		SET booked_by = array_remove(booked_by, $2), available_seats = LEAST(available_seats + 1, capacity), updated_at = now()
		WHERE id=$1 AND $2 = ANY(booked_by)`, slotID, callerID)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM slots WHERE id=$1)`, slotID).Scan(&exists); err != nil {
			return false, err
		}
		if !exists {
			return false, domain.ErrSlotNotFound
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *PGSlotRepository) ResizeCapacity(ctx context.Context, slotID string, capacity int) (*domain.Slot, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	slot, err := scanSlot(r.db.QueryRow(ctx, `UPDATE slots
		SET capacity = $2, available_seats = $2 - cardinality(booked_by), updated_at = now()
		WHERE id=$1 AND cardinality(booked_by) <= $2
		RETURNING `+slotColumns, slotID, capacity))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := r.GetByID(ctx, slotID); err != nil {
			return nil, err
		}
		return nil, domain.ErrCapacityBelowBooked
	}
	return slot, err
}

func (r *PGSlotRepository) UpdateDetails(ctx context.Context, slotID string, details domain.SlotDetails) (*domain.Slot, error) {
	slot, err := scanSlot(r.db.QueryRow(ctx, `UPDATE slots SET
			specialist_name = COALESCE(NULLIF($2, ''), specialist_name),
			subject = COALESCE(NULLIF($3, ''), subject),
			date = COALESCE(NULLIF($4, ''), date),
			start_time = COALESCE(NULLIF($5, ''), start_time),
			end_time = COALESCE(NULLIF($6, ''), end_time),
			description = COALESCE(NULLIF($7, ''), description),
			price_minor = COALESCE($8, price_minor),
			updated_at = now()
		WHERE id=$1
		RETURNING `+slotColumns,
		slotID, details.SpecialistName, details.Subject, details.Date, details.StartTime, details.EndTime, details.Description, details.PriceMinor))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSlotNotFound
	}
	return slot, err
}

func (r *PGSlotRepository) Delete(ctx context.Context, slotID string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM slots WHERE id=$1 AND cardinality(booked_by) = 0`, slotID)
	if err != nil {
		return err
	}
	if res.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, slotID); err != nil {
		return err
	}
	return domain.ErrSlotHasBookings
}

var _ SlotRepository = (*PGSlotRepository)(nil)
