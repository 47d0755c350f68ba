package handlers

import (
	"net/http"

	"github.com/campustransit/campus-bus-backend/internal/middleware"
	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/campustransit/campus-bus-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// BookingHandler handles booking API endpoints
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBooking reserves a seat and creates a booking
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	booking, err := h.bookingService.CreateBooking(user.UserID.String(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// UpdateBookingStatus applies a booking status transition
// PATCH /api/v1/bookings/:id/status
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	bookingID := c.Param("id")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID is required"})
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	if !models.IsValidBookingStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "unknown booking status: " + req.Status,
		})
		return
	}

	booking, err := h.bookingService.UpdateStatus(bookingID, models.BookingStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// ListAvailableSeats returns free seat labels for a trip slot
// GET /api/v1/trips/seats?bus_id=&trip_date=&trip_time=
func (h *BookingHandler) ListAvailableSeats(c *gin.Context) {
	busID := c.Query("bus_id")
	tripDate := c.Query("trip_date")
	tripTime := c.Query("trip_time")

	if busID == "" || tripDate == "" || tripTime == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "bus_id, trip_date and trip_time are required",
		})
		return
	}

	seats, err := h.bookingService.ListAvailableSeats(busID, tripDate, tripTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bus_id":          busID,
		"trip_date":       tripDate,
		"trip_time":       tripTime,
		"available_seats": seats,
	})
}

// GetMyBookings returns the caller's bookings, newest first
// GET /api/v1/bookings/my
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookings, err := h.bookingService.GetPassengerBookings(user.UserID.String())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
