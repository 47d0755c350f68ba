package models

import (
	"errors"
	"fmt"
	"time"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents a passenger seat reservation for one trip slot.
// Bookings are never deleted; cancellation is a status change so the
// audit trail survives.
type Booking struct {
	ID            string        `json:"id" db:"id"`
	BusID         string        `json:"bus_id" db:"bus_id"`
	RouteID       string        `json:"route_id" db:"route_id"`
	PassengerID   string        `json:"passenger_id" db:"passenger_id"`
	SeatNumber    string        `json:"seat_number" db:"seat_number"`
	TripDate      string        `json:"trip_date" db:"trip_date"` // YYYY-MM-DD
	TripTime      string        `json:"trip_time" db:"trip_time"` // HH:MM
	Status        BookingStatus `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// CreateBookingRequest represents the request to create a booking.
// SeatNumber is optional; when omitted the first available seat is assigned.
type CreateBookingRequest struct {
	BusID      string  `json:"bus_id" binding:"required"`
	RouteID    string  `json:"route_id" binding:"required"`
	TripDate   string  `json:"trip_date" binding:"required"`
	TripTime   string  `json:"trip_time" binding:"required"`
	SeatNumber *string `json:"seat_number,omitempty"`
}

// UpdateBookingStatusRequest represents the request to change a booking's status
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if r.BusID == "" {
		return errors.New("bus_id is required")
	}
	if r.RouteID == "" {
		return errors.New("route_id is required")
	}
	if _, err := time.Parse("2006-01-02", r.TripDate); err != nil {
		return fmt.Errorf("trip_date must be in YYYY-MM-DD format: %w", err)
	}
	if _, err := time.Parse("15:04", r.TripTime); err != nil {
		return fmt.Errorf("trip_time must be in HH:MM format: %w", err)
	}
	return nil
}

// IsValidBookingStatus checks whether the given string is a known booking status
func IsValidBookingStatus(s string) bool {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from this status
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// CanTransitionTo reports whether the state machine permits moving from s to next.
// Allowed: pending→confirmed, pending→cancelled, confirmed→completed,
// confirmed→cancelled.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	}
	return false
}

// IsActive checks if the booking still holds its seat
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}
