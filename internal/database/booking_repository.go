package database

import (
	"database/sql"
	"fmt"

	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/google/uuid"
)

// Bookings table. Cancelled rows keep their seat_number; the partial unique
// index below is a backstop for the allocator's in-memory invariant:
//
//	CREATE UNIQUE INDEX bookings_seat_per_trip
//	ON bookings (bus_id, trip_date, trip_time, seat_number)
//	WHERE status != 'cancelled';

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create persists a new booking
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, bus_id, route_id, passenger_id, seat_number,
			trip_date, trip_time, status, payment_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING created_at, updated_at
	`

	// Generate ID if not provided
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.BusID, booking.RouteID, booking.PassengerID,
		booking.SeatNumber, booking.TripDate, booking.TripTime,
		booking.Status, booking.PaymentStatus,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	return err
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `
		SELECT id, bus_id, route_id, passenger_id, seat_number,
			   trip_date, trip_time, status, payment_status,
			   created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	return r.scanBooking(r.db.QueryRow(query, bookingID))
}

// GetByScope retrieves all non-cancelled bookings for a trip slot
func (r *BookingRepository) GetByScope(busID, tripDate, tripTime string) ([]models.Booking, error) {
	query := `
		SELECT id, bus_id, route_id, passenger_id, seat_number,
			   trip_date, trip_time, status, payment_status,
			   created_at, updated_at
		FROM bookings
		WHERE bus_id = $1
		  AND trip_date = $2
		  AND trip_time = $3
		  AND status != 'cancelled'
		ORDER BY created_at
	`

	rows, err := r.db.Query(query, busID, tripDate, tripTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByPassengerID retrieves all bookings for a passenger, newest first
func (r *BookingRepository) GetByPassengerID(passengerID string) ([]models.Booking, error) {
	query := `
		SELECT id, bus_id, route_id, passenger_id, seat_number,
			   trip_date, trip_time, status, payment_status,
			   created_at, updated_at
		FROM bookings
		WHERE passenger_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, passengerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus updates a booking's status
func (r *BookingRepository) UpdateStatus(bookingID string, status models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, status)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking %s not found", bookingID)
	}

	return nil
}

// UpdatePaymentStatus updates a booking's payment status
func (r *BookingRepository) UpdatePaymentStatus(bookingID string, status models.PaymentStatus) error {
	query := `
		UPDATE bookings
		SET payment_status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, status)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking %s not found", bookingID)
	}

	return nil
}

// scanBooking scans a single booking from a row
func (r *BookingRepository) scanBooking(row *sql.Row) (*models.Booking, error) {
	var b models.Booking

	err := row.Scan(
		&b.ID, &b.BusID, &b.RouteID, &b.PassengerID, &b.SeatNumber,
		&b.TripDate, &b.TripTime, &b.Status, &b.PaymentStatus,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// scanBookings scans multiple bookings from rows
func (r *BookingRepository) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking

	for rows.Next() {
		var b models.Booking
		err := rows.Scan(
			&b.ID, &b.BusID, &b.RouteID, &b.PassengerID, &b.SeatNumber,
			&b.TripDate, &b.TripTime, &b.Status, &b.PaymentStatus,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
