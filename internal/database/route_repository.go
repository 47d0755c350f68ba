package database

import (
	"database/sql"
	"fmt"

	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/google/uuid"
)

// RouteRepository handles database operations for the routes table
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create persists a new route
func (r *RouteRepository) Create(route *models.Route) error {
	query := `
		INSERT INTO routes (id, name, start_point, end_point, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	if route.ID == "" {
		route.ID = uuid.New().String()
	}

	return r.db.QueryRow(
		query,
		route.ID, route.Name, route.StartPoint, route.EndPoint, route.Status,
	).Scan(&route.CreatedAt, &route.UpdatedAt)
}

// GetByID retrieves a route by ID
func (r *RouteRepository) GetByID(routeID string) (*models.Route, error) {
	query := `
		SELECT id, name, start_point, end_point, status, created_at, updated_at
		FROM routes
		WHERE id = $1
	`

	var rt models.Route
	err := r.db.QueryRow(query, routeID).Scan(
		&rt.ID, &rt.Name, &rt.StartPoint, &rt.EndPoint, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rt, nil
}

// GetAll retrieves all routes
func (r *RouteRepository) GetAll() ([]models.Route, error) {
	query := `
		SELECT id, name, start_point, end_point, status, created_at, updated_at
		FROM routes
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []models.Route
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.StartPoint, &rt.EndPoint, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}

	return routes, rows.Err()
}

// Update updates a route's details
func (r *RouteRepository) Update(route *models.Route) error {
	query := `
		UPDATE routes
		SET name = $2, start_point = $3, end_point = $4, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		route.ID, route.Name, route.StartPoint, route.EndPoint, route.Status,
	).Scan(&route.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("route %s not found", route.ID)
	}

	return err
}
