package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository is the booking record store. Besides inserts, the only
// mutation it offers is the confirmed -> cancelled status flip.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error)
	MarkCancelled(ctx context.Context, id string) (*domain.Booking, bool, error)
	ListConfirmed(ctx context.Context) ([]domain.BookingWithSlot, error)
	ListActiveByCaller(ctx context.Context, callerID string) ([]domain.Booking, error)
	ListBySlot(ctx context.Context, slotID string) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, caller_id, caller_name, caller_email, slot_id, specialist_id, specialist_name, subject, date, start_time, end_time, status, COALESCE(payment_id, ''), amount_paid, created_at, updated_at`

const uniqueViolation = "23505"

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.CallerID, &b.CallerName, &b.CallerEmail, &b.SlotID, &b.SpecialistID, &b.SpecialistName,
		&b.Subject, &b.Date, &b.StartTime, &b.EndTime, &b.Status, &b.PaymentID, &b.AmountPaid, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	err := r.db.QueryRow(ctx, `INSERT INTO bookings (id, caller_id, caller_name, caller_email, slot_id, specialist_id, specialist_name, subject, date, start_time, end_time, status, payment_id, amount_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14)
		RETURNING created_at, updated_at`,
		b.ID, b.CallerID, b.CallerName, b.CallerEmail, b.SlotID, b.SpecialistID, b.SpecialistName,
		b.Subject, b.Date, b.StartTime, b.EndTime, b.Status, b.PaymentID, b.AmountPaid).
		Scan(&b.CreatedAt, &b.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrAlreadyBooked
	}
	return err
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *PGBookingRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE payment_id=$1`, paymentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

// MarkCancelled flips a confirmed booking to cancelled. The boolean is false
// when the booking was already cancelled.
func (r *PGBookingRepository) MarkCancelled(ctx context.Context, id string) (*domain.Booking, bool, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status=$2, updated_at=now()
		WHERE id=$1 AND status=$3
		RETURNING `+bookingColumns, id, domain.BookingStatusCancelled, domain.BookingStatusConfirmed))
	if errors.Is(err, pgx.ErrNoRows) {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, false, err
		}
		return current, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *PGBookingRepository) ListConfirmed(ctx context.Context) ([]domain.BookingWithSlot, error) {
	rows, err := r.db.Query(ctx, `SELECT `+joinedBookingColumns+`, s.id IS NOT NULL, `+nullableSlotColumns+`
		FROM bookings b LEFT JOIN slots s ON s.id = b.slot_id
		WHERE b.status=$1
		ORDER BY b.created_at DESC`, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.BookingWithSlot, 0)
	for rows.Next() {
		var (
			item    domain.BookingWithSlot
			hasSlot bool
			s       domain.Slot
		)
		b := &item.Booking
		if err := rows.Scan(&b.ID, &b.CallerID, &b.CallerName, &b.CallerEmail, &b.SlotID, &b.SpecialistID, &b.SpecialistName,
			&b.Subject, &b.Date, &b.StartTime, &b.EndTime, &b.Status, &b.PaymentID, &b.AmountPaid, &b.CreatedAt, &b.UpdatedAt,
			&hasSlot, &s.ID, &s.SpecialistID, &s.SpecialistName, &s.Subject, &s.Date, &s.StartTime, &s.EndTime,
			&s.Capacity, &s.AvailableSeats, &s.BookedBy, &s.PriceMinor, &s.Description, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if hasSlot {
			item.Slot = &s
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *PGBookingRepository) ListActiveByCaller(ctx context.Context, callerID string) ([]domain.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE caller_id=$1 AND status<>$2 ORDER BY created_at DESC`,
		callerID, domain.BookingStatusCancelled)
}

func (r *PGBookingRepository) ListBySlot(ctx context.Context, slotID string) ([]domain.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE slot_id=$1 ORDER BY created_at DESC`, slotID)
}

func (r *PGBookingRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

const joinedBookingColumns = `b.id, b.caller_id, b.caller_name, b.caller_email, b.slot_id, b.specialist_id, b.specialist_name, b.subject, b.date,
	b.start_time, b.end_time, b.status, COALESCE(b.payment_id, ''), b.amount_paid, b.created_at, b.updated_at`

// Slot columns of a LEFT JOIN; zero values stand in for a deleted slot.
const nullableSlotColumns = `COALESCE(s.id, ''), COALESCE(s.specialist_id, ''), COALESCE(s.specialist_name, ''), COALESCE(s.subject, ''),
	COALESCE(s.date, ''), COALESCE(s.start_time, ''), COALESCE(s.end_time, ''), COALESCE(s.capacity, 0), COALESCE(s.available_seats, 0),
	COALESCE(s.booked_by, '{}'), COALESCE(s.price_minor, 0), COALESCE(s.description, ''), COALESCE(s.created_by, ''),
	COALESCE(s.created_at, b.created_at), COALESCE(s.updated_at, b.updated_at)`

var _ BookingRepository = (*PGBookingRepository)(nil)
