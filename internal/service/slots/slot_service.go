package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/Domenick1991/slotbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type SlotUseCase interface {
	List(ctx context.Context) ([]domain.Slot, error)
	Get(ctx context.Context, id string) (*domain.Slot, error)
	ListBySpecialist(ctx context.Context, specialistID string) ([]domain.Slot, error)
	Create(ctx context.Context, admin domain.Caller, input CreateSlotInput) (*domain.Slot, error)
	Update(ctx context.Context, slotID string, input UpdateSlotInput) (*domain.Slot, error)
	Delete(ctx context.Context, slotID string) error
}

type SlotCache interface {
	GetSlots(ctx context.Context) ([]domain.Slot, error)
	SetSlots(ctx context.Context, slots []domain.Slot) error
	InvalidateSlots(ctx context.Context) error
}

type SlotService struct {
	repo  repository.SlotRepository
	cache SlotCache
	newID func() string
}

type CreateSlotInput struct {
	SpecialistID   string `json:"specialist_id"`
	SpecialistName string `json:"specialist_name"`
	Subject        string `json:"subject"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Capacity       int    `json:"capacity"`
	PriceMinor     int64  `json:"price_minor"`
	Description    string `json:"description"`
}

// UpdateSlotInput changes only the fields that are set.
type UpdateSlotInput struct {
	SpecialistName string `json:"specialist_name"`
	Subject        string `json:"subject"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Description    string `json:"description"`
	PriceMinor     *int64 `json:"price_minor"`
	Capacity       *int   `json:"capacity"`
}

func NewSlotService(repo repository.SlotRepository, cache SlotCache) *SlotService {
	return &SlotService{repo: repo, cache: cache, newID: uuid.NewString}
}

func (s *SlotService) List(ctx context.Context) ([]domain.Slot, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSlots(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	slots, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetSlots(ctx, slots); err != nil {
			logrus.Warnf("fill slots cache: %v", err)
		}
	}
	return slots, nil
}

func (s *SlotService) Get(ctx context.Context, id string) (*domain.Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SlotService) ListBySpecialist(ctx context.Context, specialistID string) ([]domain.Slot, error) {
	return s.repo.ListBySpecialist(ctx, specialistID)
}

func (s *SlotService) Create(ctx context.Context, admin domain.Caller, input CreateSlotInput) (*domain.Slot, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	slot := &domain.Slot{
		ID:             s.newID(),
		SpecialistID:   input.SpecialistID,
		SpecialistName: input.SpecialistName,
		Subject:        input.Subject,
		Date:           input.Date,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		Capacity:       input.Capacity,
		AvailableSeats: input.Capacity,
		BookedBy:       []string{},
		PriceMinor:     input.PriceMinor,
		Description:    input.Description,
		CreatedBy:      admin.ID,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	logrus.WithFields(logrus.Fields{"slot_id": slot.ID, "specialist_id": slot.SpecialistID, "capacity": slot.Capacity}).Info("slot created")
	s.invalidate(ctx)
	return slot, nil
}

// Update resizes capacity first so a rejected resize leaves the slot untouched.
func (s *SlotService) Update(ctx context.Context, slotID string, input UpdateSlotInput) (*domain.Slot, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var (
		slot *domain.Slot
		err  error
	)
	if input.Capacity != nil {
		slot, err = s.repo.ResizeCapacity(ctx, slotID, *input.Capacity)
		if err != nil {
			return nil, err
		}
	}
	if details := input.details(); details != (domain.SlotDetails{}) || slot == nil {
		slot, err = s.repo.UpdateDetails(ctx, slotID, details)
		if err != nil {
			return nil, err
		}
	}

	logrus.WithField("slot_id", slotID).Info("slot updated")
	s.invalidate(ctx)
	return slot, nil
}

func (s *SlotService) Delete(ctx context.Context, slotID string) error {
	if err := s.repo.Delete(ctx, slotID); err != nil {
		return err
	}
	logrus.WithField("slot_id", slotID).Info("slot deleted")
	s.invalidate(ctx)
	return nil
}

func (s *SlotService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSlots(ctx); err != nil {
		logrus.Warnf("invalidate slots cache: %v", err)
	}
}

func (in CreateSlotInput) validate() error {
	if in.SpecialistID == "" || in.SpecialistName == "" {
		return fmt.Errorf("%w: specialist is required", domain.ErrInvalidInput)
	}
	if in.Subject == "" {
		return fmt.Errorf("%w: subject is required", domain.ErrInvalidInput)
	}
	if in.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	if in.PriceMinor < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	return validateSchedule(in.Date, in.StartTime, in.EndTime, true)
}

func (in UpdateSlotInput) validate() error {
	if in.Capacity != nil && *in.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	if in.PriceMinor != nil && *in.PriceMinor < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	return validateSchedule(in.Date, in.StartTime, in.EndTime, false)
}

func (in UpdateSlotInput) details() domain.SlotDetails {
	return domain.SlotDetails{
		SpecialistName: in.SpecialistName,
		Subject:        in.Subject,
		Date:           in.Date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Description:    in.Description,
		PriceMinor:     in.PriceMinor,
	}
}

// validateSchedule checks the layout of whichever fields are present. The
// start/end order is only checked when both times are given.
func validateSchedule(date, start, end string, required bool) error {
	if required && (date == "" || start == "" || end == "") {
		return fmt.Errorf("%w: date, start_time and end_time are required", domain.ErrInvalidInput)
	}
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
	}
	var from, to time.Time
	var err error
	if start != "" {
		if from, err = time.Parse(timeLayout, start); err != nil {
			return fmt.Errorf("%w: start_time must be HH:MM", domain.ErrInvalidInput)
		}
	}
	if end != "" {
		if to, err = time.Parse(timeLayout, end); err != nil {
			return fmt.Errorf("%w: end_time must be HH:MM", domain.ErrInvalidInput)
		}
	}
	if start != "" && end != "" && !to.After(from) {
		return fmt.Errorf("%w: end_time must be after start_time", domain.ErrInvalidInput)
	}
	return nil
}

var _ SlotUseCase = (*SlotService)(nil)
