package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/campustransit/campus-bus-backend/internal/config"
	"github.com/campustransit/campus-bus-backend/internal/database"
	"github.com/campustransit/campus-bus-backend/internal/events"
	"github.com/campustransit/campus-bus-backend/internal/handlers"
	"github.com/campustransit/campus-bus-backend/internal/middleware"
	"github.com/campustransit/campus-bus-backend/internal/services"
	"github.com/campustransit/campus-bus-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Campus Bus Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	bookingRepository := database.NewBookingRepository(db)
	busRepository := database.NewBusRepository(db)
	routeRepository := database.NewRouteRepository(db)

	// Initialize the event bus and activity feed
	eventBus := events.NewBus(cfg.Events.SubscriberBuffer, logger)
	activityFeed := events.NewActivityFeed(eventBus, cfg.Events.FeedCapacity, logger)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	seatAllocator := services.NewSeatAllocator(cfg.Booking.SeatsPerRow)
	bookingService := services.NewBookingService(
		bookingRepository,
		busRepository,
		routeRepository,
		seatAllocator,
		eventBus,
		logger,
	)
	fleetService := services.NewFleetService(busRepository, routeRepository, eventBus, logger)

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingService)
	fleetHandler := handlers.NewFleetHandler(fleetService)
	eventsHandler := handlers.NewEventsHandler(eventBus, activityFeed)

	// Set up router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": version})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	{
		// Bookings
		api.POST("/bookings", bookingHandler.CreateBooking)
		api.PATCH("/bookings/:id/status", bookingHandler.UpdateBookingStatus)
		api.GET("/bookings/my", bookingHandler.GetMyBookings)
		api.GET("/trips/seats", bookingHandler.ListAvailableSeats)

		// Real-time feeds
		api.GET("/activity", eventsHandler.GetActivity)
		api.GET("/events/stream", eventsHandler.Stream)

		// Fleet management (admin only)
		admin := api.Group("")
		admin.Use(middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.POST("/buses", fleetHandler.CreateBus)
			admin.PUT("/buses/:id", fleetHandler.UpdateBus)
			admin.DELETE("/buses/:id", fleetHandler.DeleteBus)
			admin.POST("/routes", fleetHandler.CreateRoute)
			admin.PUT("/routes/:id", fleetHandler.UpdateRoute)
		}

		// Read-only fleet views for all authenticated users
		api.GET("/buses", fleetHandler.ListBuses)
		api.GET("/routes", fleetHandler.ListRoutes)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	// Drain the event pipeline after the last request finished
	activityFeed.Stop()
	eventBus.Close()

	logger.Info("Server stopped")
}
