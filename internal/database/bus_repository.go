package database

import (
	"database/sql"
	"fmt"

	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/google/uuid"
)

// BusRepository handles database operations for the buses table
type BusRepository struct {
	db DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create persists a new bus
func (r *BusRepository) Create(bus *models.Bus) error {
	query := `
		INSERT INTO buses (id, plate_number, capacity, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	if bus.ID == "" {
		bus.ID = uuid.New().String()
	}

	return r.db.QueryRow(
		query,
		bus.ID, bus.PlateNumber, bus.Capacity, bus.Status,
	).Scan(&bus.CreatedAt, &bus.UpdatedAt)
}

// GetByID retrieves a bus by ID
func (r *BusRepository) GetByID(busID string) (*models.Bus, error) {
	query := `
		SELECT id, plate_number, capacity, status, created_at, updated_at
		FROM buses
		WHERE id = $1
	`

	var b models.Bus
	err := r.db.QueryRow(query, busID).Scan(
		&b.ID, &b.PlateNumber, &b.Capacity, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// GetAll retrieves all buses
func (r *BusRepository) GetAll() ([]models.Bus, error) {
	query := `
		SELECT id, plate_number, capacity, status, created_at, updated_at
		FROM buses
		ORDER BY plate_number
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []models.Bus
	for rows.Next() {
		var b models.Bus
		if err := rows.Scan(&b.ID, &b.PlateNumber, &b.Capacity, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		buses = append(buses, b)
	}

	return buses, rows.Err()
}

// Update updates a bus's details
func (r *BusRepository) Update(bus *models.Bus) error {
	query := `
		UPDATE buses
		SET plate_number = $2, capacity = $3, status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		bus.ID, bus.PlateNumber, bus.Capacity, bus.Status,
	).Scan(&bus.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("bus %s not found", bus.ID)
	}

	return err
}

// Delete removes a bus from the fleet
func (r *BusRepository) Delete(busID string) error {
	result, err := r.db.Exec(`DELETE FROM buses WHERE id = $1`, busID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("bus %s not found", busID)
	}

	return nil
}
