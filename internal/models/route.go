package models

import (
	"errors"
	"time"
)

// RouteStatus represents whether a route is currently operating
type RouteStatus string

const (
	RouteStatusActive   RouteStatus = "active"
	RouteStatusInactive RouteStatus = "inactive"
)

// Route represents a campus bus route
type Route struct {
	ID         string      `json:"id" db:"id"`
	Name       string      `json:"name" db:"name"`
	StartPoint string      `json:"start_point" db:"start_point"`
	EndPoint   string      `json:"end_point" db:"end_point"`
	Status     RouteStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateRouteRequest represents the request to create a route
type CreateRouteRequest struct {
	Name       string `json:"name" binding:"required"`
	StartPoint string `json:"start_point" binding:"required"`
	EndPoint   string `json:"end_point" binding:"required"`
}

// UpdateRouteRequest represents the request to update a route
type UpdateRouteRequest struct {
	Name       *string `json:"name,omitempty"`
	StartPoint *string `json:"start_point,omitempty"`
	EndPoint   *string `json:"end_point,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// Validate validates the create route request
func (r *CreateRouteRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.StartPoint == "" || r.EndPoint == "" {
		return errors.New("start_point and end_point are required")
	}
	return nil
}

// IsActive checks if the route is accepting bookings
func (r *Route) IsActive() bool {
	return r.Status == RouteStatusActive
}
