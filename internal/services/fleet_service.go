package services

import (
	"github.com/campustransit/campus-bus-backend/internal/events"
	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// FleetBusStore is the persistence contract for fleet bus management
type FleetBusStore interface {
	Create(bus *models.Bus) error
	GetByID(busID string) (*models.Bus, error)
	GetAll() ([]models.Bus, error)
	Update(bus *models.Bus) error
	Delete(busID string) error
}

// FleetRouteStore is the persistence contract for route management
type FleetRouteStore interface {
	Create(route *models.Route) error
	GetByID(routeID string) (*models.Route, error)
	GetAll() ([]models.Route, error)
	Update(route *models.Route) error
}

// FleetService handles bus and route management. Every mutation is
// broadcast on the event bus so dashboards pick up fleet changes without a
// reload.
type FleetService struct {
	busRepo   FleetBusStore
	routeRepo FleetRouteStore
	bus       *events.Bus
	logger    *logrus.Logger
}

// NewFleetService creates a new fleet service
func NewFleetService(busRepo FleetBusStore, routeRepo FleetRouteStore, bus *events.Bus, logger *logrus.Logger) *FleetService {
	return &FleetService{
		busRepo:   busRepo,
		routeRepo: routeRepo,
		bus:       bus,
		logger:    logger,
	}
}

// CreateBus registers a new bus and publishes bus_created
func (s *FleetService) CreateBus(req *models.CreateBusRequest) (*models.Bus, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	bus := &models.Bus{
		PlateNumber: req.PlateNumber,
		Capacity:    req.Capacity,
		Status:      models.BusStatusAvailable,
	}
	if req.Status != nil {
		bus.Status = models.BusStatus(*req.Status)
	}

	if err := s.busRepo.Create(bus); err != nil {
		return nil, &RepositoryError{Op: "failed to create bus", Err: err}
	}

	s.bus.Publish(models.NewBusCreated(*bus))

	s.logger.WithFields(logrus.Fields{
		"bus_id":       bus.ID,
		"plate_number": bus.PlateNumber,
		"capacity":     bus.Capacity,
	}).Info("Bus registered")

	return bus, nil
}

// UpdateBus updates a bus and publishes bus_updated
func (s *FleetService) UpdateBus(busID string, req *models.UpdateBusRequest) (*models.Bus, error) {
	bus, err := s.busRepo.GetByID(busID)
	if err != nil {
		return nil, &RepositoryError{Op: "failed to load bus", Err: err}
	}
	if bus == nil {
		return nil, ErrBusNotFound
	}

	if req.PlateNumber != nil {
		bus.PlateNumber = *req.PlateNumber
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, NewValidationError("capacity must be greater than 0")
		}
		bus.Capacity = *req.Capacity
	}
	if req.Status != nil {
		if !models.IsValidBusStatus(*req.Status) {
			return nil, NewValidationError("invalid bus status: %s", *req.Status)
		}
		bus.Status = models.BusStatus(*req.Status)
	}

	if err := s.busRepo.Update(bus); err != nil {
		return nil, &RepositoryError{Op: "failed to update bus", Err: err}
	}

	s.bus.Publish(models.NewBusUpdated(*bus))

	s.logger.WithFields(logrus.Fields{
		"bus_id": bus.ID,
		"status": bus.Status,
	}).Info("Bus updated")

	return bus, nil
}

// DeleteBus removes a bus from the fleet and publishes bus_deleted carrying
// the bus's last state
func (s *FleetService) DeleteBus(busID string) error {
	bus, err := s.busRepo.GetByID(busID)
	if err != nil {
		return &RepositoryError{Op: "failed to load bus", Err: err}
	}
	if bus == nil {
		return ErrBusNotFound
	}

	if err := s.busRepo.Delete(busID); err != nil {
		return &RepositoryError{Op: "failed to delete bus", Err: err}
	}

	s.bus.Publish(models.NewBusDeleted(*bus))

	s.logger.WithField("bus_id", busID).Info("Bus removed from fleet")

	return nil
}

// ListBuses returns all buses in the fleet
func (s *FleetService) ListBuses() ([]models.Bus, error) {
	buses, err := s.busRepo.GetAll()
	if err != nil {
		return nil, &RepositoryError{Op: "failed to list buses", Err: err}
	}
	return buses, nil
}

// CreateRoute creates a new route and publishes route_created
func (s *FleetService) CreateRoute(req *models.CreateRouteRequest) (*models.Route, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	route := &models.Route{
		Name:       req.Name,
		StartPoint: req.StartPoint,
		EndPoint:   req.EndPoint,
		Status:     models.RouteStatusActive,
	}

	if err := s.routeRepo.Create(route); err != nil {
		return nil, &RepositoryError{Op: "failed to create route", Err: err}
	}

	s.bus.Publish(models.NewRouteCreated(*route))

	s.logger.WithFields(logrus.Fields{
		"route_id": route.ID,
		"name":     route.Name,
	}).Info("Route created")

	return route, nil
}

// UpdateRoute updates a route and publishes route_updated
func (s *FleetService) UpdateRoute(routeID string, req *models.UpdateRouteRequest) (*models.Route, error) {
	route, err := s.routeRepo.GetByID(routeID)
	if err != nil {
		return nil, &RepositoryError{Op: "failed to load route", Err: err}
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}

	if req.Name != nil {
		route.Name = *req.Name
	}
	if req.StartPoint != nil {
		route.StartPoint = *req.StartPoint
	}
	if req.EndPoint != nil {
		route.EndPoint = *req.EndPoint
	}
	if req.Status != nil {
		status := models.RouteStatus(*req.Status)
		if status != models.RouteStatusActive && status != models.RouteStatusInactive {
			return nil, NewValidationError("invalid route status: %s", *req.Status)
		}
		route.Status = status
	}

	if err := s.routeRepo.Update(route); err != nil {
		return nil, &RepositoryError{Op: "failed to update route", Err: err}
	}

	s.bus.Publish(models.NewRouteUpdated(*route))

	s.logger.WithFields(logrus.Fields{
		"route_id": route.ID,
		"status":   route.Status,
	}).Info("Route updated")

	return route, nil
}

// ListRoutes returns all routes
func (s *FleetService) ListRoutes() ([]models.Route, error) {
	routes, err := s.routeRepo.GetAll()
	if err != nil {
		return nil, &RepositoryError{Op: "failed to list routes", Err: err}
	}
	return routes, nil
}
