package services

import (
	"errors"
	"fmt"

	"github.com/campustransit/campus-bus-backend/internal/models"
)

// Sentinel errors for missing entities
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrBusNotFound     = errors.New("bus not found")
	ErrRouteNotFound   = errors.New("route not found")
)

// ValidationError reports a missing or malformed request field. It is
// returned before any reservation attempt, so it never has side effects.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// SeatConflictError reports that a seat could not be reserved: it is taken,
// outside the bus's seat layout, or the bus is at capacity.
type SeatConflictError struct {
	Scope      Scope
	SeatNumber string
	Reason     string
}

func (e *SeatConflictError) Error() string {
	if e.SeatNumber == "" {
		return fmt.Sprintf("no seat available on bus %s for %s %s: %s",
			e.Scope.BusID, e.Scope.TripDate, e.Scope.TripTime, e.Reason)
	}
	return fmt.Sprintf("seat %s on bus %s for %s %s: %s",
		e.SeatNumber, e.Scope.BusID, e.Scope.TripDate, e.Scope.TripTime, e.Reason)
}

// TransitionError reports a booking status change the state machine does
// not permit.
type TransitionError struct {
	BookingID string
	From      models.BookingStatus
	To        models.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking %s: invalid transition from %s to %s", e.BookingID, e.From, e.To)
}

// RepositoryError wraps a persistence failure that happened after the seat
// reservation already succeeded. The reservation has been compensated, so
// the caller may safely retry.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
