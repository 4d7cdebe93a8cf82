package api

import (
	"context"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/Domenick1991/slotbooking/internal/payment"
	"github.com/Domenick1991/slotbooking/internal/service/reservation"
	"github.com/Domenick1991/slotbooking/internal/service/slots"
	"github.com/stretchr/testify/mock"
)

type MockReservationUseCase struct {
	mock.Mock
}

func (m *MockReservationUseCase) CreateOrder(ctx context.Context, caller domain.Caller, slotID string) (*payment.Order, error) {
	args := m.Called(ctx, caller, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockReservationUseCase) VerifyPayment(ctx context.Context, caller domain.Caller, input reservation.VerifyPaymentInput) (*domain.Booking, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockReservationUseCase) CancelBooking(ctx context.Context, caller domain.Caller, bookingID string) (*reservation.CancelResult, error) {
	args := m.Called(ctx, caller, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.CancelResult), args.Error(1)
}

func (m *MockReservationUseCase) CallerBookings(ctx context.Context, requester domain.Caller, callerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, requester, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockReservationUseCase) ConfirmedBookings(ctx context.Context) ([]domain.BookingWithSlot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BookingWithSlot), args.Error(1)
}

func (m *MockReservationUseCase) SlotBookings(ctx context.Context, slotID string) ([]domain.Booking, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockReservationUseCase) BookingForCaller(ctx context.Context, caller domain.Caller, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, caller, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockReservationUseCase) BookingByPayment(ctx context.Context, caller domain.Caller, paymentID string) (*domain.Booking, error) {
	args := m.Called(ctx, caller, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockSlotUseCase struct {
	mock.Mock
}

func (m *MockSlotUseCase) List(ctx context.Context) ([]domain.Slot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotUseCase) Get(ctx context.Context, id string) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotUseCase) ListBySpecialist(ctx context.Context, specialistID string) ([]domain.Slot, error) {
	args := m.Called(ctx, specialistID)
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotUseCase) Create(ctx context.Context, admin domain.Caller, input slots.CreateSlotInput) (*domain.Slot, error) {
	args := m.Called(ctx, admin, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotUseCase) Update(ctx context.Context, slotID string, input slots.UpdateSlotInput) (*domain.Slot, error) {
	args := m.Called(ctx, slotID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotUseCase) Delete(ctx context.Context, slotID string) error {
	args := m.Called(ctx, slotID)
	return args.Error(0)
}
