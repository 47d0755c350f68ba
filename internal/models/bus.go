package models

import (
	"errors"
	"time"
)

// BusStatus represents the current operational status of a bus
type BusStatus string

const (
	BusStatusAvailable   BusStatus = "available"
	BusStatusInService   BusStatus = "in-service"
	BusStatusMaintenance BusStatus = "maintenance"
	BusStatusRetired     BusStatus = "retired"
)

// Bus represents a bus in the campus fleet
type Bus struct {
	ID          string    `json:"id" db:"id"`
	PlateNumber string    `json:"plate_number" db:"plate_number"`
	Capacity    int       `json:"capacity" db:"capacity"`
	Status      BusStatus `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateBusRequest represents the request to register a new bus
type CreateBusRequest struct {
	PlateNumber string  `json:"plate_number" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required,gt=0"`
	Status      *string `json:"status,omitempty"`
}

// UpdateBusRequest represents the request to update bus information
type UpdateBusRequest struct {
	PlateNumber *string `json:"plate_number,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// IsValidBusStatus checks whether the given string is a known bus status
func IsValidBusStatus(s string) bool {
	switch BusStatus(s) {
	case BusStatusAvailable, BusStatusInService, BusStatusMaintenance, BusStatusRetired:
		return true
	}
	return false
}

// Validate validates the create bus request
func (r *CreateBusRequest) Validate() error {
	if r.PlateNumber == "" {
		return errors.New("plate_number is required")
	}
	if r.Capacity <= 0 {
		return errors.New("capacity must be greater than 0")
	}
	if r.Status != nil && !IsValidBusStatus(*r.Status) {
		return errors.New("invalid bus status")
	}
	return nil
}

// IsBookable checks if the bus can accept new bookings
func (b *Bus) IsBookable() bool {
	return b.Status == BusStatusAvailable || b.Status == BusStatusInService
}
