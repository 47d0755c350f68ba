package models

import (
	"time"
)

// UpdateKind identifies the type of a SystemUpdate. The set is closed;
// updates are built through the New* constructors so an unknown kind or a
// payload of the wrong shape cannot be published.
type UpdateKind string

const (
	UpdateBookingCreated  UpdateKind = "booking_created"
	UpdateBookingUpdated  UpdateKind = "booking_updated"
	UpdateBusCreated      UpdateKind = "bus_created"
	UpdateBusUpdated      UpdateKind = "bus_updated"
	UpdateBusDeleted      UpdateKind = "bus_deleted"
	UpdateRouteCreated    UpdateKind = "route_created"
	UpdateRouteUpdated    UpdateKind = "route_updated"
	UpdateUserCreated     UpdateKind = "user_created"
	UpdateSettingsUpdated UpdateKind = "settings_updated"
)

// IsValidUpdateKind checks whether the given string is a known update kind
func IsValidUpdateKind(s string) bool {
	switch UpdateKind(s) {
	case UpdateBookingCreated, UpdateBookingUpdated,
		UpdateBusCreated, UpdateBusUpdated, UpdateBusDeleted,
		UpdateRouteCreated, UpdateRouteUpdated,
		UpdateUserCreated, UpdateSettingsUpdated:
		return true
	}
	return false
}

// SystemUpdate is a broadcast notification that some entity changed.
// It carries the affected entity's full state at the time of the change
// and is immutable once published.
type SystemUpdate struct {
	Kind      UpdateKind  `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserAccount is the payload for user_created updates. Accounts are managed
// by the external auth service; only the broadcast passes through here.
type UserAccount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SystemSettings is the payload for settings_updated updates
type SystemSettings struct {
	BookingWindowDays int  `json:"booking_window_days"`
	MaintenanceMode   bool `json:"maintenance_mode"`
}

func newUpdate(kind UpdateKind, payload interface{}) SystemUpdate {
	return SystemUpdate{Kind: kind, Timestamp: time.Now(), Payload: payload}
}

// NewBookingCreated builds a booking_created update
func NewBookingCreated(b Booking) SystemUpdate {
	return newUpdate(UpdateBookingCreated, b)
}

// NewBookingUpdated builds a booking_updated update
func NewBookingUpdated(b Booking) SystemUpdate {
	return newUpdate(UpdateBookingUpdated, b)
}

// NewBusCreated builds a bus_created update
func NewBusCreated(b Bus) SystemUpdate {
	return newUpdate(UpdateBusCreated, b)
}

// NewBusUpdated builds a bus_updated update
func NewBusUpdated(b Bus) SystemUpdate {
	return newUpdate(UpdateBusUpdated, b)
}

// NewBusDeleted builds a bus_deleted update carrying the bus's last state
func NewBusDeleted(b Bus) SystemUpdate {
	return newUpdate(UpdateBusDeleted, b)
}

// NewRouteCreated builds a route_created update
func NewRouteCreated(r Route) SystemUpdate {
	return newUpdate(UpdateRouteCreated, r)
}

// NewRouteUpdated builds a route_updated update
func NewRouteUpdated(r Route) SystemUpdate {
	return newUpdate(UpdateRouteUpdated, r)
}

// NewUserCreated builds a user_created update
func NewUserCreated(u UserAccount) SystemUpdate {
	return newUpdate(UpdateUserCreated, u)
}

// NewSettingsUpdated builds a settings_updated update
func NewSettingsUpdated(s SystemSettings) SystemUpdate {
	return newUpdate(UpdateSettingsUpdated, s)
}
