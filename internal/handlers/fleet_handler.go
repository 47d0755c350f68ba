package handlers

import (
	"net/http"

	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/campustransit/campus-bus-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// FleetHandler handles bus and route management endpoints
type FleetHandler struct {
	fleetService *services.FleetService
}

// NewFleetHandler creates a new FleetHandler
func NewFleetHandler(fleetService *services.FleetService) *FleetHandler {
	return &FleetHandler{fleetService: fleetService}
}

// CreateBus registers a new bus
// POST /api/v1/buses
func (h *FleetHandler) CreateBus(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	bus, err := h.fleetService.CreateBus(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bus": bus})
}

// ListBuses returns all buses
// GET /api/v1/buses
func (h *FleetHandler) ListBuses(c *gin.Context) {
	buses, err := h.fleetService.ListBuses()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"buses": buses})
}

// UpdateBus updates a bus
// PUT /api/v1/buses/:id
func (h *FleetHandler) UpdateBus(c *gin.Context) {
	busID := c.Param("id")

	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	bus, err := h.fleetService.UpdateBus(busID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bus": bus})
}

// DeleteBus removes a bus from the fleet
// DELETE /api/v1/buses/:id
func (h *FleetHandler) DeleteBus(c *gin.Context) {
	if err := h.fleetService.DeleteBus(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted"})
}

// CreateRoute creates a new route
// POST /api/v1/routes
func (h *FleetHandler) CreateRoute(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	route, err := h.fleetService.CreateRoute(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"route": route})
}

// ListRoutes returns all routes
// GET /api/v1/routes
func (h *FleetHandler) ListRoutes(c *gin.Context) {
	routes, err := h.fleetService.ListRoutes()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// UpdateRoute updates a route
// PUT /api/v1/routes/:id
func (h *FleetHandler) UpdateRoute(c *gin.Context) {
	routeID := c.Param("id")

	var req models.UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	route, err := h.fleetService.UpdateRoute(routeID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": route})
}
