package services

import (
	"time"

	"github.com/campustransit/campus-bus-backend/internal/events"
	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// BookingStore is the persistence contract the booking service depends on
type BookingStore interface {
	Create(booking *models.Booking) error
	GetByID(bookingID string) (*models.Booking, error)
	GetByScope(busID, tripDate, tripTime string) ([]models.Booking, error)
	GetByPassengerID(passengerID string) ([]models.Booking, error)
	UpdateStatus(bookingID string, status models.BookingStatus) error
}

// BusStore supplies read-only bus lookups
type BusStore interface {
	GetByID(busID string) (*models.Bus, error)
}

// RouteStore supplies read-only route lookups
type RouteStore interface {
	GetByID(routeID string) (*models.Route, error)
}

// BookingService owns the booking lifecycle: it reserves seats through the
// allocator, persists bookings, and broadcasts every change on the event
// bus so open dashboards stay current.
type BookingService struct {
	bookingRepo BookingStore
	busRepo     BusStore
	routeRepo   RouteStore
	allocator   *SeatAllocator
	bus         *events.Bus
	logger      *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo BookingStore,
	busRepo BusStore,
	routeRepo RouteStore,
	allocator *SeatAllocator,
	bus *events.Bus,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		busRepo:     busRepo,
		routeRepo:   routeRepo,
		allocator:   allocator,
		bus:         bus,
		logger:      logger,
	}
}

// CreateBooking reserves a seat and persists a confirmed booking. Bookings
// are pay-now, so there is no pending-payment hold step. If persistence
// fails after the seat was reserved, the reservation is released again
// before the error is returned.
func (s *BookingService) CreateBooking(passengerID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	// 1. Validate request fields before any side effect
	if passengerID == "" {
		return nil, NewValidationError("passenger identity is required")
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	// 2. Resolve the bus and route this trip runs on
	bus, err := s.busRepo.GetByID(req.BusID)
	if err != nil {
		return nil, &RepositoryError{Op: "failed to load bus", Err: err}
	}
	if bus == nil {
		return nil, ErrBusNotFound
	}
	if !bus.IsBookable() {
		return nil, NewValidationError("bus %s is not accepting bookings (status: %s)", bus.PlateNumber, bus.Status)
	}

	route, err := s.routeRepo.GetByID(req.RouteID)
	if err != nil {
		return nil, &RepositoryError{Op: "failed to load route", Err: err}
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}
	if !route.IsActive() {
		return nil, NewValidationError("route %s is inactive", route.Name)
	}

	scope := Scope{BusID: req.BusID, TripDate: req.TripDate, TripTime: req.TripTime}

	// 3. Seed the scope's occupied set from persisted bookings (first
	// reservation on this trip only)
	if err := s.warmScope(scope); err != nil {
		return nil, &RepositoryError{Op: "failed to load current occupancy", Err: err}
	}

	// 4. Reserve the requested seat, or the first free one when the request
	// leaves the choice to us
	var seatNumber string
	if req.SeatNumber != nil && *req.SeatNumber != "" {
		seatNumber = *req.SeatNumber
		if err := s.allocator.Reserve(scope, seatNumber, bus.Capacity); err != nil {
			return nil, err
		}
	} else {
		seatNumber, err = s.allocator.ReserveFirst(scope, bus.Capacity)
		if err != nil {
			return nil, err
		}
	}

	// 5. Persist the booking; compensate the reservation if that fails
	booking := &models.Booking{
		BusID:         req.BusID,
		RouteID:       req.RouteID,
		PassengerID:   passengerID,
		SeatNumber:    seatNumber,
		TripDate:      req.TripDate,
		TripTime:      req.TripTime,
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusPaid,
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		s.allocator.Release(scope, seatNumber)
		s.logger.WithFields(logrus.Fields{
			"scope": scope.String(),
			"seat":  seatNumber,
		}).WithError(err).Error("Booking persistence failed, seat reservation released")
		return nil, &RepositoryError{Op: "failed to persist booking", Err: err}
	}

	// 6. Broadcast. Delivery problems are the bus's concern, never the
	// caller's.
	s.bus.Publish(models.NewBookingCreated(*booking))

	s.logger.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"passenger_id": passengerID,
		"scope":        scope.String(),
		"seat":         seatNumber,
	}).Info("Booking created")

	return booking, nil
}

// UpdateStatus applies a state-machine transition to a booking. Cancelling
// releases the booking's seat before the change is persisted. Publishes
// booking_updated with the full updated record.
func (s *BookingService) UpdateStatus(bookingID string, newStatus models.BookingStatus) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, &RepositoryError{Op: "failed to load booking", Err: err}
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if !booking.Status.CanTransitionTo(newStatus) {
		return nil, &TransitionError{BookingID: bookingID, From: booking.Status, To: newStatus}
	}

	scope := Scope{BusID: booking.BusID, TripDate: booking.TripDate, TripTime: booking.TripTime}

	released := false
	if newStatus == models.BookingStatusCancelled {
		if err := s.warmScope(scope); err != nil {
			return nil, &RepositoryError{Op: "failed to load current occupancy", Err: err}
		}
		s.allocator.Release(scope, booking.SeatNumber)
		released = true
	}

	if err := s.bookingRepo.UpdateStatus(bookingID, newStatus); err != nil {
		if released {
			// Take the seat back so occupancy and the stored record agree.
			s.allocator.Occupy(scope, booking.SeatNumber)
			s.logger.WithFields(logrus.Fields{
				"booking_id": bookingID,
				"seat":       booking.SeatNumber,
			}).Warn("Cancellation persist failed, seat re-occupied")
		}
		return nil, &RepositoryError{Op: "failed to persist status change", Err: err}
	}

	booking.Status = newStatus
	booking.UpdatedAt = time.Now()

	s.bus.Publish(models.NewBookingUpdated(*booking))

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"status":     newStatus,
	}).Info("Booking status updated")

	return booking, nil
}

// ListAvailableSeats returns the free seat labels for a trip slot, derived
// from non-cancelled persisted bookings. Read path: no allocator lock.
func (s *BookingService) ListAvailableSeats(busID, tripDate, tripTime string) ([]string, error) {
	bus, err := s.busRepo.GetByID(busID)
	if err != nil {
		return nil, &RepositoryError{Op: "failed to load bus", Err: err}
	}
	if bus == nil {
		return nil, ErrBusNotFound
	}

	bookings, err := s.bookingRepo.GetByScope(busID, tripDate, tripTime)
	if err != nil {
		return nil, &RepositoryError{Op: "failed to load bookings", Err: err}
	}

	occupied := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		occupied[b.SeatNumber] = struct{}{}
	}

	return s.allocator.AvailableSeats(bus.Capacity, occupied), nil
}

// GetPassengerBookings returns all bookings for a passenger, newest first
func (s *BookingService) GetPassengerBookings(passengerID string) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.GetByPassengerID(passengerID)
	if err != nil {
		return nil, &RepositoryError{Op: "failed to load bookings", Err: err}
	}
	return bookings, nil
}

// warmScope seeds the allocator for a scope from non-cancelled bookings
func (s *BookingService) warmScope(scope Scope) error {
	return s.allocator.Warm(scope, func() ([]string, error) {
		bookings, err := s.bookingRepo.GetByScope(scope.BusID, scope.TripDate, scope.TripTime)
		if err != nil {
			return nil, err
		}
		seats := make([]string, 0, len(bookings))
		for _, b := range bookings {
			seats = append(seats, b.SeatNumber)
		}
		return seats, nil
	})
}
