package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/Domenick1991/slotbooking/internal/kafka"
	"github.com/Domenick1991/slotbooking/internal/payment"
	"github.com/Domenick1991/slotbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ReservationUseCase interface {
	CreateOrder(ctx context.Context, caller domain.Caller, slotID string) (*payment.Order, error)
	VerifyPayment(ctx context.Context, caller domain.Caller, input VerifyPaymentInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, caller domain.Caller, bookingID string) (*CancelResult, error)
	CallerBookings(ctx context.Context, requester domain.Caller, callerID string) ([]domain.Booking, error)
	ConfirmedBookings(ctx context.Context) ([]domain.BookingWithSlot, error)
	SlotBookings(ctx context.Context, slotID string) ([]domain.Booking, error)
	BookingForCaller(ctx context.Context, caller domain.Caller, bookingID string) (*domain.Booking, error)
	BookingByPayment(ctx context.Context, caller domain.Caller, paymentID string) (*domain.Booking, error)
}

type PaymentGate interface {
	CreateOrder(slot *domain.Slot, callerID string) (*payment.Order, error)
	DecodeOrder(orderID string) (*payment.Order, error)
	Verify(orderID, paymentID, signature string) error
	Currency() string
}

// Cache is the part of the slot cache the engine keeps fresh.
type Cache interface {
	InvalidateSlots(ctx context.Context) error
}

// ClaimLocker serializes verifications of the same payment id across instances.
type ClaimLocker interface {
	AcquirePaymentClaim(ctx context.Context, paymentID string, ttl time.Duration) (token string, ok bool, err error)
	ReleasePaymentClaim(ctx context.Context, paymentID, token string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type ReservationService struct {
	slots               repository.SlotRepository
	bookings            repository.BookingRepository
	gate                PaymentGate
	cache               Cache
	locker              ClaimLocker
	producer            Producer
	reservationTopic    string
	notificationsTopic  string
	reconciliationTopic string
	claimTTL            time.Duration
	now                 func() time.Time
	newID               func() string
}

type VerifyPaymentInput struct {
	SlotID    string `json:"slot_id"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type CancelResult struct {
	Booking          *domain.Booking
	AlreadyCancelled bool
}

type ReservationServiceOption func(*ReservationService)

func WithCache(cache Cache) ReservationServiceOption {
	return func(s *ReservationService) {
		s.cache = cache
	}
}

func WithClaimLocker(locker ClaimLocker, ttl time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		s.locker = locker
		if ttl > 0 {
			s.claimTTL = ttl
		}
	}
}

func WithProducer(producer Producer, reservationTopic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.producer = producer
		s.reservationTopic = reservationTopic
	}
}

func WithNotificationsTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.notificationsTopic = topic
	}
}

func WithReconciliationTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.reconciliationTopic = topic
	}
}

func NewReservationService(
	slots repository.SlotRepository,
	bookings repository.BookingRepository,
	gate PaymentGate,
	opts ...ReservationServiceOption,
) *ReservationService {
	service := &ReservationService{
		slots:    slots,
		bookings: bookings,
		gate:     gate,
		claimTTL: 30 * time.Second,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateOrder issues a payment order for one seat. The availability checks
// here are advisory; VerifyPayment checks again before committing.
func (s *ReservationService) CreateOrder(ctx context.Context, caller domain.Caller, slotID string) (*payment.Order, error) {
	if slotID == "" {
		return nil, fmt.Errorf("%w: slot id is required", domain.ErrInvalidInput)
	}
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if err := slot.CanReserve(caller.ID); err != nil {
		return nil, err
	}

	order, err := s.gate.CreateOrder(slot, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	logrus.WithFields(logrus.Fields{"slot_id": slot.ID, "caller_id": caller.ID, "amount": order.Amount}).Info("payment order created")
	return order, nil
}

// VerifyPayment authenticates a payment assertion and, only then, reserves the
// seat and records the booking as one unit.
func (s *ReservationService) VerifyPayment(ctx context.Context, caller domain.Caller, input VerifyPaymentInput) (*domain.Booking, error) {
	log := logrus.WithFields(logrus.Fields{
		"slot_id":    input.SlotID,
		"caller_id":  caller.ID,
		"order_id":   input.OrderID,
		"payment_id": input.PaymentID,
	})
	if input.SlotID == "" {
		return nil, fmt.Errorf("%w: slot id is required", domain.ErrInvalidInput)
	}

	if err := s.gate.Verify(input.OrderID, input.PaymentID, input.Signature); err != nil {
		log.Warn("payment signature mismatch, flagged for fraud review")
		return nil, err
	}
	order, err := s.gate.DecodeOrder(input.OrderID)
	if err != nil || order.SlotID != input.SlotID || order.CallerID != caller.ID {
		log.Warn("authentic payment presented for a foreign order, flagged for fraud review")
		return nil, domain.ErrOrderMismatch
	}

	if s.locker != nil {
		token, ok, err := s.locker.AcquirePaymentClaim(ctx, input.PaymentID, s.claimTTL)
		if err != nil {
			return nil, fmt.Errorf("claim payment: %w", err)
		}
		if !ok {
			return nil, domain.ErrVerificationInProgress
		}
		defer func() {
			if err := s.locker.ReleasePaymentClaim(context.WithoutCancel(ctx), input.PaymentID, token); err != nil {
				log.Warnf("release payment claim: %v", err)
			}
		}()
	}

	if existing, err := s.replayed(ctx, caller, order, input.PaymentID); err != nil || existing != nil {
		return existing, err
	}

	booking, err := s.commit(ctx, caller, order, input.PaymentID)
	if err != nil {
		var recErr *domain.ReconciliationError
		if errors.As(err, &recErr) && errors.Is(recErr.Cause, domain.ErrAlreadyBooked) {
			// A concurrent verification of the same payment may have won.
			if existing, rerr := s.replayed(ctx, caller, order, input.PaymentID); rerr == nil && existing != nil {
				return existing, nil
			}
		}
		if errors.As(err, &recErr) {
			s.flagReconciliation(ctx, recErr, caller, order)
		}
		return nil, err
	}

	log.WithField("booking_id", booking.ID).Info("payment verified, booking confirmed")
	s.invalidateSlots(ctx)
	s.publish(ctx, kafka.EventBookingConfirmed, booking)
	return booking, nil
}

// replayed returns the booking a payment id already produced, if any.
func (s *ReservationService) replayed(ctx context.Context, caller domain.Caller, order *payment.Order, paymentID string) (*domain.Booking, error) {
	existing, err := s.bookings.GetByPaymentID(ctx, paymentID)
	if errors.Is(err, domain.ErrBookingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup payment: %w", err)
	}
	if existing.CallerID != caller.ID || existing.SlotID != order.SlotID {
		return nil, domain.ErrOrderMismatch
	}
	return existing, nil
}

func (s *ReservationService) commit(ctx context.Context, caller domain.Caller, order *payment.Order, paymentID string) (*domain.Booking, error) {
	reconcile := func(cause error) error {
		return &domain.ReconciliationError{
			OrderID:   order.ID,
			PaymentID: paymentID,
			SlotID:    order.SlotID,
			CallerID:  caller.ID,
			Cause:     cause,
		}
	}

	slot, err := s.slots.GetByID(ctx, order.SlotID)
	if errors.Is(err, domain.ErrSlotNotFound) {
		return nil, reconcile(err)
	}
	if err != nil {
		return nil, fmt.Errorf("load slot: %w", err)
	}
	if reason := slot.CanReserve(caller.ID); reason != nil {
		return nil, reconcile(reason)
	}

	reserved, err := s.slots.ReserveSeat(ctx, slot.ID, caller.ID)
	if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
		return nil, reconcile(err)
	}
	if err != nil {
		return nil, fmt.Errorf("reserve seat: %w", err)
	}

	booking := domain.NewConfirmedBooking(s.newID(), reserved, caller, paymentID, order.Amount, s.now())
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, s.compensate(ctx, reserved.ID, caller, paymentID, err, reconcile)
	}
	return booking, nil
}

// compensate gives the seat back after the booking record failed to persist.
func (s *ReservationService) compensate(ctx context.Context, slotID string, caller domain.Caller, paymentID string, persistErr error, reconcile func(error) error) error {
	_, releaseErr := s.slots.ReleaseSeat(context.WithoutCancel(ctx), slotID, caller.ID)
	if releaseErr != nil && !errors.Is(releaseErr, domain.ErrSlotNotFound) {
		logrus.WithFields(logrus.Fields{
			"slot_id":       slotID,
			"caller_id":     caller.ID,
			"payment_id":    paymentID,
			"persist_error": persistErr.Error(),
			"manual_repair": true,
		}).Errorf("seat left reserved without a booking record: %v", releaseErr)
		return &domain.CompensationError{
			SlotID:     slotID,
			CallerID:   caller.ID,
			PaymentID:  paymentID,
			PersistErr: persistErr,
			ReleaseErr: releaseErr,
		}
	}
	return reconcile(fmt.Errorf("persist booking: %w", persistErr))
}

func (s *ReservationService) flagReconciliation(ctx context.Context, recErr *domain.ReconciliationError, caller domain.Caller, order *payment.Order) {
	logrus.WithFields(logrus.Fields{
		"slot_id":    recErr.SlotID,
		"caller_id":  recErr.CallerID,
		"order_id":   recErr.OrderID,
		"payment_id": recErr.PaymentID,
		"amount":     order.Amount,
	}).Errorf("authentic payment without a granted seat: %v", recErr.Cause)

	if s.producer == nil || s.reconciliationTopic == "" {
		return
	}
	event := kafka.NewReconciliationEvent(recErr, caller, order.Amount, order.Currency, s.now())
	if err := s.producer.Publish(ctx, s.reconciliationTopic, recErr.PaymentID, event); err != nil {
		logrus.WithField("payment_id", recErr.PaymentID).Errorf("publish reconciliation event: %v", err)
	}
}

// CancelBooking releases the seat first and only then marks the booking
// cancelled, so a cancelled booking never still holds a seat.
func (s *ReservationService) CancelBooking(ctx context.Context, caller domain.Caller, bookingID string) (*CancelResult, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.CallerID != caller.ID {
		return nil, domain.ErrNotBookingOwner
	}
	if current.Status == domain.BookingStatusCancelled {
		return &CancelResult{Booking: current, AlreadyCancelled: true}, nil
	}

	if _, err := s.slots.ReleaseBookedSeat(ctx, current.ID); err != nil && !errors.Is(err, domain.ErrSlotNotFound) {
		return nil, fmt.Errorf("release seat: %w", err)
	}

	updated, changed, err := s.bookings.MarkCancelled(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	if !changed {
		return &CancelResult{Booking: updated, AlreadyCancelled: true}, nil
	}

	logrus.WithFields(logrus.Fields{"booking_id": updated.ID, "slot_id": updated.SlotID, "caller_id": caller.ID}).Info("booking cancelled")
	s.invalidateSlots(ctx)
	s.publish(ctx, kafka.EventBookingCancelled, updated)
	return &CancelResult{Booking: updated}, nil
}

func (s *ReservationService) CallerBookings(ctx context.Context, requester domain.Caller, callerID string) ([]domain.Booking, error) {
	if callerID == "" {
		callerID = requester.ID
	}
	if callerID != requester.ID && !requester.IsAdmin() {
		return nil, fmt.Errorf("%w: bookings of another caller", domain.ErrForbidden)
	}
	return s.bookings.ListActiveByCaller(ctx, callerID)
}

func (s *ReservationService) ConfirmedBookings(ctx context.Context) ([]domain.BookingWithSlot, error) {
	return s.bookings.ListConfirmed(ctx)
}

func (s *ReservationService) SlotBookings(ctx context.Context, slotID string) ([]domain.Booking, error) {
	return s.bookings.ListBySlot(ctx, slotID)
}

func (s *ReservationService) BookingForCaller(ctx context.Context, caller domain.Caller, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CallerID != caller.ID {
		return nil, domain.ErrNotBookingOwner
	}
	return booking, nil
}

func (s *ReservationService) BookingByPayment(ctx context.Context, caller domain.Caller, paymentID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if booking.CallerID != caller.ID {
		return nil, domain.ErrNotBookingOwner
	}
	return booking, nil
}

func (s *ReservationService) invalidateSlots(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSlots(ctx); err != nil {
		logrus.Warnf("invalidate slots cache: %v", err)
	}
}

func (s *ReservationService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.reservationTopic == "" {
		return
	}
	event := kafka.NewBookingEvent(eventType, booking, s.gate.Currency(), s.now())
	if err := s.producer.Publish(ctx, s.reservationTopic, booking.SlotID, event); err != nil {
		logrus.WithField("booking_id", booking.ID).Warnf("publish %s event: %v", eventType, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			logrus.WithField("booking_id", booking.ID).Warnf("publish %s notification: %v", eventType, err)
		}
	}
}

var _ ReservationUseCase = (*ReservationService)(nil)
