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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/config"
	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/handlers"
	"github.com/roadlink/booking-backend/internal/middleware"
	"github.com/roadlink/booking-backend/internal/services"
	"github.com/roadlink/booking-backend/pkg/token"
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

	logger.Info("Starting RoadLink Booking Backend")
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
	tripRepo := database.NewTripRepository(db)
	routeRepo := database.NewRouteRepository(db)
	busRepo := database.NewBusRepository(db)
	driverRepo := database.NewDriverRepository(db)
	occurrenceRepo := database.NewOccurrenceRepository(db)
	passengerRepo := database.NewPassengerRepository(db)
	cancellationRepo := database.NewCancellationRepository(db)

	// The booking repository runs multi-statement transactions and needs the
	// underlying sqlx handle.
	pgDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}
	bookingRepo := database.NewBookingRepository(pgDB.DB)

	// Initialize services
	logger.Info("Initializing services...")
	verifier := token.NewVerifier(cfg.Auth.TokenSecret, cfg.Auth.Issuer)
	seatInventorySvc := services.NewSeatInventoryService(tripRepo, busRepo, occurrenceRepo)
	bookingSvc := services.NewBookingService(bookingRepo, tripRepo, busRepo, occurrenceRepo, cfg.Booking, logger)
	fleetStatusSvc := services.NewFleetStatusService(tripRepo, routeRepo, busRepo, driverRepo, logger)
	paystackSvc := services.NewPaystackService(cfg.Paystack, logger)

	// Initialize and start cron service
	cronSvc := services.NewCronService(fleetStatusSvc, bookingSvc, cfg.Jobs, logger)
	if err := cronSvc.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	logger.Info("Cron service started")

	// Optional Redis client for the idempotency cache
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, idempotency replay disabled")
		} else {
			logger.Info("Redis connection established")
		}
	} else {
		logger.Info("REDIS_ADDR not set, idempotency replay disabled")
	}

	logger.Info("Services initialized")

	// Initialize handlers
	availabilityHandler := handlers.NewAvailabilityHandler(seatInventorySvc, logger)
	bookingHandler := handlers.NewBookingHandler(bookingSvc, passengerRepo, logger)
	paymentHandler := handlers.NewPaymentHandler(paystackSvc, bookingSvc, logger)
	tripHandler := handlers.NewTripHandler(tripRepo, busRepo, routeRepo, driverRepo, logger)
	busHandler := handlers.NewBusHandler(busRepo, logger)
	routeHandler := handlers.NewRouteHandler(routeRepo, logger)
	driverHandler := handlers.NewDriverHandler(driverRepo, logger)
	adminHandler := handlers.NewAdminHandler(cronSvc, cancellationRepo, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Trip catalog and availability (public reads)
		trips := v1.Group("/trips")
		{
			trips.GET("", tripHandler.GetTrips)
			trips.GET("/:id", tripHandler.GetTrip)
			trips.GET("/:id/availability", availabilityHandler.GetAvailability)

			// Mutations require an operator role
			tripsProtected := trips.Group("")
			tripsProtected.Use(middleware.AuthMiddleware(verifier, logger), middleware.RequireRole("operator", "admin"))
			{
				tripsProtected.POST("", tripHandler.CreateTrip)
				tripsProtected.PUT("/:id", tripHandler.UpdateTrip)
				tripsProtected.DELETE("/:id", tripHandler.DeleteTrip)
			}
		}

		// Booking routes (all protected)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(verifier, logger))
		if redisClient != nil {
			bookings.Use(middleware.Idempotency(redisClient, logger))
		}
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.GetMyBookings)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			// Webhook authenticates by signature, not bearer token
			payments.POST("/webhook", paymentHandler.Webhook)

			paymentsProtected := payments.Group("")
			paymentsProtected.Use(middleware.AuthMiddleware(verifier, logger))
			{
				paymentsProtected.POST("/initialize", paymentHandler.InitializePayment)
				paymentsProtected.GET("/verify/:reference", paymentHandler.VerifyPayment)
			}
		}

		// Fleet management routes (operator only)
		operator := v1.Group("")
		operator.Use(middleware.AuthMiddleware(verifier, logger), middleware.RequireRole("operator", "admin"))
		{
			buses := operator.Group("/buses")
			{
				buses.POST("", busHandler.CreateBus)
				buses.GET("", busHandler.GetBuses)
				buses.GET("/:id", busHandler.GetBus)
				buses.PUT("/:id", busHandler.UpdateBus)
				buses.DELETE("/:id", busHandler.DeleteBus)
			}

			routes := operator.Group("/routes")
			{
				routes.POST("", routeHandler.CreateRoute)
				routes.GET("", routeHandler.GetRoutes)
				routes.GET("/:id", routeHandler.GetRoute)
				routes.PUT("/:id", routeHandler.UpdateRoute)
				routes.DELETE("/:id", routeHandler.DeleteRoute)
			}

			drivers := operator.Group("/drivers")
			{
				drivers.POST("", driverHandler.CreateDriver)
				drivers.GET("", driverHandler.GetDrivers)
				drivers.GET("/:id", driverHandler.GetDriver)
				drivers.PUT("/:id", driverHandler.UpdateDriver)
				drivers.DELETE("/:id", driverHandler.DeleteDriver)
			}
		}

		// Admin job management routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(verifier, logger), middleware.RequireRole("admin"))
		{
			admin.GET("/jobs", adminHandler.GetJobStatus)
			admin.POST("/jobs/status-sweep/run", adminHandler.RunStatusSweep)
			admin.GET("/trips/:id/bookings", bookingHandler.GetTripBookings)
			admin.GET("/cancellations", adminHandler.GetPendingCancellations)
			admin.POST("/cancellations/:id/refund", adminHandler.MarkCancellationRefunded)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop cron service
	logger.Info("Stopping cron service...")
	cronSvc.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
