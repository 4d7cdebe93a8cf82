package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
	ErrSignatureMismatch      = errors.New("payment signature mismatch")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidState           = errors.New("invalid state")
	ErrInvalidInput           = errors.New("invalid input")
	ErrReconciliationRequired = errors.New("payment requires reconciliation")
	ErrCompensationFailure    = errors.New("compensation failed")
)

var (
	ErrSlotNotFound    = fmt.Errorf("slot %w", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)

	ErrSlotFull               = fmt.Errorf("%w: slot is fully booked", ErrConflict)
	ErrAlreadyBooked          = fmt.Errorf("%w: slot already booked by caller", ErrConflict)
	ErrVerificationInProgress = fmt.Errorf("%w: payment verification already in progress", ErrConflict)

	ErrOrderMismatch = fmt.Errorf("%w: order was issued for another slot or caller", ErrSignatureMismatch)

	ErrNotBookingOwner = fmt.Errorf("%w: not authorized to act on this booking", ErrForbidden)

	ErrCapacityBelowBooked = fmt.Errorf("%w: capacity is below the booked seat count", ErrInvalidState)
	ErrSlotHasBookings     = fmt.Errorf("%w: slot has booked seats", ErrInvalidState)
)

// ReconciliationError reports an authentic payment that did not result in a
// granted seat. Money may have moved; an operator has to settle it.
type ReconciliationError struct {
	OrderID   string
	PaymentID string
	SlotID    string
	CallerID  string
	Cause     error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("payment %s for order %s requires reconciliation: %v", e.PaymentID, e.OrderID, e.Cause)
}

func (e *ReconciliationError) Unwrap() []error {
	return []error{ErrReconciliationRequired, e.Cause}
}

// CompensationError reports a reserved seat that could not be released after
// the booking record failed to persist. The ledger needs manual repair.
type CompensationError struct {
	SlotID     string
	CallerID   string
	PaymentID  string
	PersistErr error
	ReleaseErr error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("seat on slot %s for caller %s left reserved: persist booking: %v; release seat: %v",
		e.SlotID, e.CallerID, e.PersistErr, e.ReleaseErr)
}

func (e *CompensationError) Unwrap() []error {
	return []error{ErrCompensationFailure, e.PersistErr, e.ReleaseErr}
}
