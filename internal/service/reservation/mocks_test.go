package reservation

import (
	"context"
	"time"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) List(ctx context.Context) ([]domain.Slot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) ListBySpecialist(ctx context.Context, specialistID string) ([]domain.Slot, error) {
	args := m.Called(ctx, specialistID)
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) ReserveSeat(ctx context.Context, slotID, callerID string) (*domain.Slot, error) {
	args := m.Called(ctx, slotID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) ReleaseSeat(ctx context.Context, slotID, callerID string) (bool, error) {
	args := m.Called(ctx, slotID, callerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotRepository) ReleaseBookedSeat(ctx context.Context, bookingID string) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotRepository) ResizeCapacity(ctx context.Context, slotID string, capacity int) (*domain.Slot, error) {
	args := m.Called(ctx, slotID, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) UpdateDetails(ctx context.Context, slotID string, details domain.SlotDetails) (*domain.Slot, error) {
	args := m.Called(ctx, slotID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) Delete(ctx context.Context, slotID string) error {
	args := m.Called(ctx, slotID)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkCancelled(ctx context.Context, id string) (*domain.Booking, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Booking), args.Bool(1), args.Error(2)
}

func (m *MockBookingRepository) ListConfirmed(ctx context.Context) ([]domain.BookingWithSlot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BookingWithSlot), args.Error(1)
}

func (m *MockBookingRepository) ListActiveByCaller(ctx context.Context, callerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, callerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListBySlot(ctx context.Context, slotID string) ([]domain.Booking, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateSlots(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockClaimLocker struct {
	mock.Mock
}

func (m *MockClaimLocker) AcquirePaymentClaim(ctx context.Context, paymentID string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, paymentID, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockClaimLocker) ReleasePaymentClaim(ctx context.Context, paymentID, token string) error {
	args := m.Called(ctx, paymentID, token)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value any) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}
