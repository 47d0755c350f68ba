package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBookingRepoTest(t *testing.T) (*BookingRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewBookingRepository(&PostgresDB{DB: sqlxDB})

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestBookingRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	booking := &models.Booking{
		BusID:         "bus-1",
		RouteID:       "route-1",
		PassengerID:   "p1",
		SeatNumber:    "A1",
		TripDate:      "2026-09-01",
		TripTime:      "08:00",
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusPaid,
	}

	err := repo.Create(booking)
	require.NoError(t, err)

	// An ID is generated when the caller didn't set one.
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, now, booking.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs("bk-missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "bus_id", "route_id", "passenger_id", "seat_number",
			"trip_date", "trip_time", "status", "payment_status",
			"created_at", "updated_at",
		}))

	booking, err := repo.GetByID("bk-missing")
	require.NoError(t, err)
	assert.Nil(t, booking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetByScope(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "bus_id", "route_id", "passenger_id", "seat_number",
		"trip_date", "trip_time", "status", "payment_status",
		"created_at", "updated_at",
	}).
		AddRow("bk-1", "bus-1", "route-1", "p1", "A1", "2026-09-01", "08:00", "confirmed", "paid", now, now).
		AddRow("bk-2", "bus-1", "route-1", "p2", "A2", "2026-09-01", "08:00", "confirmed", "paid", now, now)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs("bus-1", "2026-09-01", "08:00").
		WillReturnRows(rows)

	bookings, err := repo.GetByScope("bus-1", "2026-09-01", "08:00")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "A1", bookings[0].SeatNumber)
	assert.Equal(t, "A2", bookings[1].SeatNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	mock.ExpectExec("UPDATE bookings").
		WithArgs("bk-1", models.BookingStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus("bk-1", models.BookingStatusCancelled)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	mock.ExpectExec("UPDATE bookings").
		WithArgs("bk-missing", models.BookingStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus("bk-missing", models.BookingStatusCancelled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_CreateFailure(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(fmt.Errorf("connection reset"))

	err := repo.Create(&models.Booking{
		BusID: "bus-1", RouteID: "route-1", PassengerID: "p1",
		SeatNumber: "A1", TripDate: "2026-09-01", TripTime: "08:00",
		Status: models.BookingStatusConfirmed, PaymentStatus: models.PaymentStatusPaid,
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
