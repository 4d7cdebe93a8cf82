package reservation_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/Domenick1991/slotbooking/internal/payment"
	"github.com/Domenick1991/slotbooking/internal/repository/memory"
	"github.com/Domenick1991/slotbooking/internal/service/reservation"
	"github.com/cucumber/godog"
)

type reservationTestContext struct {
	secret   string
	slots    *memory.SlotRepository
	bookings *memory.BookingRepository
	service  *reservation.ReservationService
	orders   map[string]*payment.Order
	booking  *domain.Booking
	previous *domain.Booking
	cancel   *reservation.CancelResult
	err      error
}

func (c *reservationTestContext) reset() error {
	db, err := memory.NewDB()
	if err != nil {
		return err
	}
	c.slots = memory.NewSlotRepository(db)
	c.bookings = memory.NewBookingRepository(db)
	c.orders = make(map[string]*payment.Order)
	c.booking, c.previous, c.cancel, c.err = nil, nil, nil, nil
	return nil
}

func caller(id string) domain.Caller {
	return domain.Caller{ID: id, Name: id, Email: id + "@example.com"}
}

func (c *reservationTestContext) aPaymentGateWithSecret(secret string) error {
	c.secret = secret
	c.service = reservation.NewReservationService(c.slots, c.bookings, payment.NewGate("key_test", secret, "INR"))
	return nil
}

func (c *reservationTestContext) aSlotWithCapacityPriced(id string, capacity int, price int64) error {
	return c.slots.Create(context.Background(), &domain.Slot{
		ID:             id,
		SpecialistID:   "sp1",
		SpecialistName: "Dr. Rao",
		Subject:        "Physics",
		Date:           "2026-03-10",
		StartTime:      "10:00",
		EndTime:        "11:00",
		Capacity:       capacity,
		AvailableSeats: capacity,
		BookedBy:       []string{},
		PriceMinor:     price,
	})
}

func (c *reservationTestContext) aSlotWithCapacityBookedBy(id string, capacity int, callers string) error {
	bookedBy := strings.Split(callers, ",")
	return c.slots.Create(context.Background(), &domain.Slot{
		ID:             id,
		Capacity:       capacity,
		AvailableSeats: capacity - len(bookedBy),
		BookedBy:       bookedBy,
	})
}

func (c *reservationTestContext) callerCreatesAnOrder(callerID, slotID string) error {
	order, err := c.service.CreateOrder(context.Background(), caller(callerID), slotID)
	c.err = err
	if err == nil {
		c.orders[callerID] = order
	}
	return nil
}

func (c *reservationTestContext) verify(callerID, paymentID, slotID, signature string) error {
	order, ok := c.orders[callerID]
	if !ok {
		return fmt.Errorf("caller %s has no order", callerID)
	}
	if signature == "" {
		signature = payment.Sign([]byte(c.secret), order.ID, paymentID)
	}
	booking, err := c.service.VerifyPayment(context.Background(), caller(callerID), reservation.VerifyPaymentInput{
		SlotID:    slotID,
		OrderID:   order.ID,
		PaymentID: paymentID,
		Signature: signature,
	})
	c.err = err
	if err == nil {
		c.previous, c.booking = c.booking, booking
	}
	return nil
}

func (c *reservationTestContext) callerVerifiesPayment(callerID, paymentID, slotID string) error {
	return c.verify(callerID, paymentID, slotID, "")
}

func (c *reservationTestContext) callerPresentsAForgedSignature(callerID, paymentID, slotID string) error {
	return c.verify(callerID, paymentID, slotID, payment.Sign([]byte("not_"+c.secret), c.orders[callerID].ID, paymentID))
}

func (c *reservationTestContext) callerHoldsAVerifiedBooking(callerID, slotID, paymentID string) error {
	if err := c.callerCreatesAnOrder(callerID, slotID); err != nil {
		return err
	}
	if c.err != nil {
		return c.err
	}
	if err := c.callerVerifiesPayment(callerID, paymentID, slotID); err != nil {
		return err
	}
	return c.err
}

func (c *reservationTestContext) callerCancelsTheBooking(callerID string) error {
	if c.booking == nil {
		return errors.New("no booking to cancel")
	}
	result, err := c.service.CancelBooking(context.Background(), caller(callerID), c.booking.ID)
	c.err = err
	if err == nil {
		c.cancel = result
		c.booking = result.Booking
	}
	return nil
}

func (c *reservationTestContext) theCapacityIsSetTo(slotID string, capacity int) error {
	_, c.err = c.slots.ResizeCapacity(context.Background(), slotID, capacity)
	return nil
}

func (c *reservationTestContext) theBookingIs(status string) error {
	if c.err != nil {
		return fmt.Errorf("unexpected error: %w", c.err)
	}
	if c.booking == nil || string(c.booking.Status) != status {
		return fmt.Errorf("expected booking %s, got %+v", status, c.booking)
	}
	stored, err := c.bookings.GetByID(context.Background(), c.booking.ID)
	if err != nil {
		return err
	}
	if string(stored.Status) != status {
		return fmt.Errorf("stored booking is %s, want %s", stored.Status, status)
	}
	return nil
}

func (c *reservationTestContext) theRequestFailsWith(kind string) error {
	want := map[string]error{
		"conflict":           domain.ErrConflict,
		"reconciliation":     domain.ErrReconciliationRequired,
		"signature mismatch": domain.ErrSignatureMismatch,
		"invalid state":      domain.ErrInvalidState,
	}[kind]
	if want == nil {
		return fmt.Errorf("unknown failure kind %q", kind)
	}
	if !errors.Is(c.err, want) {
		return fmt.Errorf("expected %s, got %v", kind, c.err)
	}
	return nil
}

func (c *reservationTestContext) slot(id string) (*domain.Slot, error) {
	slot, err := c.slots.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if !slot.Consistent() {
		return nil, fmt.Errorf("slot %s is inconsistent: %+v", id, slot)
	}
	return slot, nil
}

func (c *reservationTestContext) slotHasAvailableSeats(id string, seats int) error {
	slot, err := c.slot(id)
	if err != nil {
		return err
	}
	if slot.AvailableSeats != seats {
		return fmt.Errorf("expected %d available seats, got %d", seats, slot.AvailableSeats)
	}
	return nil
}

func (c *reservationTestContext) slotHasCapacity(id string, capacity int) error {
	slot, err := c.slot(id)
	if err != nil {
		return err
	}
	if slot.Capacity != capacity {
		return fmt.Errorf("expected capacity %d, got %d", capacity, slot.Capacity)
	}
	return nil
}

func (c *reservationTestContext) slotIsBookedBy(id, callers string) error {
	slot, err := c.slot(id)
	if err != nil {
		return err
	}
	want := strings.Split(callers, ",")
	if !slices.Equal(slot.BookedBy, want) {
		return fmt.Errorf("expected booked by %v, got %v", want, slot.BookedBy)
	}
	return nil
}

func (c *reservationTestContext) slotIsBookedByNobody(id string) error {
	slot, err := c.slot(id)
	if err != nil {
		return err
	}
	if len(slot.BookedBy) != 0 {
		return fmt.Errorf("expected no bookings, got %v", slot.BookedBy)
	}
	return nil
}

func (c *reservationTestContext) noBookingExistsForPayment(paymentID string) error {
	if _, err := c.bookings.GetByPaymentID(context.Background(), paymentID); !errors.Is(err, domain.ErrBookingNotFound) {
		return fmt.Errorf("expected no booking for %s, got %v", paymentID, err)
	}
	return nil
}

func (c *reservationTestContext) bothVerificationsReturnedTheSameBooking() error {
	if c.previous == nil || c.booking == nil || c.previous.ID != c.booking.ID {
		return fmt.Errorf("expected one booking, got %+v and %+v", c.previous, c.booking)
	}
	return nil
}

func (c *reservationTestContext) theLastCancellationReportedAlreadyCancelled() error {
	if c.cancel == nil || !c.cancel.AlreadyCancelled {
		return fmt.Errorf("expected an already-cancelled result, got %+v", c.cancel)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &reservationTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	// Given steps
	ctx.Step(`^a payment gate with secret "([^"]*)"$`, tc.aPaymentGateWithSecret)
	ctx.Step(`^a slot "([^"]*)" with capacity (\d+) priced (\d+)$`, tc.aSlotWithCapacityPriced)
	ctx.Step(`^a slot "([^"]*)" with capacity (\d+) booked by "([^"]*)"$`, tc.aSlotWithCapacityBookedBy)
	ctx.Step(`^caller "([^"]*)" holds a verified booking on slot "([^"]*)" with payment "([^"]*)"$`, tc.callerHoldsAVerifiedBooking)

	// When steps
	ctx.Step(`^caller "([^"]*)" creates an order for slot "([^"]*)"$`, tc.callerCreatesAnOrder)
	ctx.Step(`^caller "([^"]*)" verifies payment "([^"]*)" for slot "([^"]*)"(?: again)?$`, tc.callerVerifiesPayment)
	ctx.Step(`^caller "([^"]*)" presents a forged signature for payment "([^"]*)" on slot "([^"]*)"$`, tc.callerPresentsAForgedSignature)
	ctx.Step(`^caller "([^"]*)" cancels the booking$`, tc.callerCancelsTheBooking)
	ctx.Step(`^the capacity of slot "([^"]*)" is set to (\d+)$`, tc.theCapacityIsSetTo)

	// Then steps
	ctx.Step(`^the booking is "([^"]*)"$`, tc.theBookingIs)
	ctx.Step(`^the request fails with "([^"]*)"$`, tc.theRequestFailsWith)
	ctx.Step(`^slot "([^"]*)" has (\d+) available seats$`, tc.slotHasAvailableSeats)
	ctx.Step(`^slot "([^"]*)" has capacity (\d+)$`, tc.slotHasCapacity)
	ctx.Step(`^slot "([^"]*)" is booked by "([^"]*)"$`, tc.slotIsBookedBy)
	ctx.Step(`^slot "([^"]*)" is booked by nobody$`, tc.slotIsBookedByNobody)
	ctx.Step(`^no booking exists for payment "([^"]*)"$`, tc.noBookingExistsForPayment)
	ctx.Step(`^both verifications returned the same booking$`, tc.bothVerificationsReturnedTheSameBooking)
	ctx.Step(`^the last cancellation reported it was already cancelled$`, tc.theLastCancellationReportedAlreadyCancelled)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/reservation.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
