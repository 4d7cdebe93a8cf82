package slots

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

type MockSlotCache struct {
	mock.Mock
}

func (m *MockSlotCache) GetSlots(ctx context.Context) ([]domain.Slot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotCache) SetSlots(ctx context.Context, slots []domain.Slot) error {
	args := m.Called(ctx, slots)
	return args.Error(0)
}

func (m *MockSlotCache) InvalidateSlots(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func validCreateInput() CreateSlotInput {
	return CreateSlotInput{
		SpecialistID:   "sp1",
		SpecialistName: "Dr. Rao",
		Subject:        "Physics",
		Date:           "2026-03-10",
		StartTime:      "10:00",
		EndTime:        "11:00",
		Capacity:       5,
		PriceMinor:     50000,
	}
}

func TestSlotService_List_CacheMiss(t *testing.T) {
	repo := &MockSlotRepository{}
	cache := &MockSlotCache{}
	service := NewSlotService(repo, cache)
	ctx := context.Background()
	slots := []domain.Slot{{ID: "s1", Capacity: 2, AvailableSeats: 2, BookedBy: []string{}}}

	cache.On("GetSlots", ctx).Return(nil, nil).Once()
	repo.On("List", ctx).Return(slots, nil).Once()
	cache.On("SetSlots", ctx, slots).Return(nil).Once()

	result, err := service.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, slots, result)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSlotService_List_CacheHit(t *testing.T) {
	repo := &MockSlotRepository{}
	cache := &MockSlotCache{}
	service := NewSlotService(repo, cache)
	ctx := context.Background()
	slots := []domain.Slot{{ID: "s1"}}

	cache.On("GetSlots", ctx).Return(slots, nil).Once()

	result, err := service.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, slots, result)
	repo.AssertNotCalled(t, "List")
}

func TestSlotService_List_CacheErrorFallsBackToRepository(t *testing.T) {
	repo := &MockSlotRepository{}
	cache := &MockSlotCache{}
	service := NewSlotService(repo, cache)
	ctx := context.Background()
	slots := []domain.Slot{{ID: "s1"}}

	cache.On("GetSlots", ctx).Return(nil, errors.New("redis down")).Once()
	repo.On("List", ctx).Return(slots, nil).Once()
	cache.On("SetSlots", ctx, slots).Return(errors.New("redis down")).Once()
	hook := logtest.NewGlobal()
	defer hook.Reset()

	result, err := service.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, slots, result)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "fill slots cache")
}

func TestSlotService_List_WithoutCache(t *testing.T) {
	repo := &MockSlotRepository{}
	service := NewSlotService(repo, nil)
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.Slot{}, nil).Once()

	result, err := service.List(ctx)

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSlotService_Create(t *testing.T) {
	repo := &MockSlotRepository{}
	cache := &MockSlotCache{}
	service := NewSlotService(repo, cache)
	service.newID = func() string { return "s1" }
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(s *domain.Slot) bool {
		return s.ID == "s1" && s.AvailableSeats == 5 && s.Capacity == 5 && len(s.BookedBy) == 0 && s.CreatedBy == "root"
	})).Return(nil).Once()
	cache.On("InvalidateSlots", ctx).Return(nil).Once()

	slot, err := service.Create(ctx, domain.Caller{ID: "root", Role: domain.RoleAdmin}, validCreateInput())

	require.NoError(t, err)
	assert.True(t, slot.Consistent())
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSlotService_Create_ValidationErrors(t *testing.T) {
	service := NewSlotService(&MockSlotRepository{}, nil)

	testCases := []struct {
		name   string
		modify func(*CreateSlotInput)
	}{
		{name: "zero capacity", modify: func(in *CreateSlotInput) { in.Capacity = 0 }},
		{name: "negative price", modify: func(in *CreateSlotInput) { in.PriceMinor = -1 }},
		{name: "missing subject", modify: func(in *CreateSlotInput) { in.Subject = "" }},
		{name: "missing specialist", modify: func(in *CreateSlotInput) { in.SpecialistID = "" }},
		{name: "bad date", modify: func(in *CreateSlotInput) { in.Date = "10/03/2026" }},
		{name: "end before start", modify: func(in *CreateSlotInput) { in.EndTime = "09:00" }},
		{name: "missing end", modify: func(in *CreateSlotInput) { in.EndTime = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.modify(&input)

			slot, err := service.Create(context.Background(), domain.Caller{ID: "root"}, input)

			assert.Nil(t, slot)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSlotService_Update_ResizeRejected(t *testing.T) {
	repo := &MockSlotRepository{}
	cache := &MockSlotCache{}
	service := NewSlotService(repo, cache)
	ctx := context.Background()
	capacity := 1

	repo.On("ResizeCapacity", ctx, "s1", 1).Return(nil, domain.ErrCapacityBelowBooked).Once()

	slot, err := service.Update(ctx, "s1", UpdateSlotInput{Subject: "Maths", Capacity: &capacity})

	assert.Nil(t, slot)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	repo.AssertNotCalled(t, "UpdateDetails")
	cache.AssertNotCalled(t, "InvalidateSlots")
}

func TestSlotService_Update_CapacityAndDetails(t *testing.T) {
	repo := &MockSlotRepository{}
	cache := &MockSlotCache{}
	service := NewSlotService(repo, cache)
	ctx := context.Background()
	capacity := 8
	resized := &domain.Slot{ID: "s1", Capacity: 8, AvailableSeats: 6, BookedBy: []string{"u1", "u2"}}
	updated := &domain.Slot{ID: "s1", Capacity: 8, AvailableSeats: 6, BookedBy: []string{"u1", "u2"}, Subject: "Maths"}

	repo.On("ResizeCapacity", ctx, "s1", 8).Return(resized, nil).Once()
	repo.On("UpdateDetails", ctx, "s1", domain.SlotDetails{Subject: "Maths"}).Return(updated, nil).Once()
	cache.On("InvalidateSlots", ctx).Return(nil).Once()

	slot, err := service.Update(ctx, "s1", UpdateSlotInput{Subject: "Maths", Capacity: &capacity})

	require.NoError(t, err)
	assert.Equal(t, "Maths", slot.Subject)
	assert.Equal(t, 6, slot.AvailableSeats)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSlotService_Update_CapacityOnly(t *testing.T) {
	repo := &MockSlotRepository{}
	service := NewSlotService(repo, nil)
	ctx := context.Background()
	capacity := 3

	repo.On("ResizeCapacity", ctx, "s1", 3).Return(&domain.Slot{ID: "s1", Capacity: 3, AvailableSeats: 3, BookedBy: []string{}}, nil).Once()

	slot, err := service.Update(ctx, "s1", UpdateSlotInput{Capacity: &capacity})

	require.NoError(t, err)
	assert.Equal(t, 3, slot.Capacity)
	repo.AssertNotCalled(t, "UpdateDetails")
}

func TestSlotService_Update_Validation(t *testing.T) {
	service := NewSlotService(&MockSlotRepository{}, nil)
	zero := 0

	_, err := service.Update(context.Background(), "s1", UpdateSlotInput{Capacity: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Update(context.Background(), "s1", UpdateSlotInput{StartTime: "25:00"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSlotService_Delete(t *testing.T) {
	repo := &MockSlotRepository{}
	cache := &MockSlotCache{}
	service := NewSlotService(repo, cache)
	ctx := context.Background()

	repo.On("Delete", ctx, "s1").Return(domain.ErrSlotHasBookings).Once()
	repo.On("Delete", ctx, "s2").Return(nil).Once()
	cache.On("InvalidateSlots", ctx).Return(nil).Once()

	assert.ErrorIs(t, service.Delete(ctx, "s1"), domain.ErrInvalidState)
	assert.NoError(t, service.Delete(ctx, "s2"))
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
