package routes

import (
	"MediBook/cache"
	"MediBook/config"
	"MediBook/controllers"
	"MediBook/handlers"
	"MediBook/middlewares"
	"MediBook/repositories"
	"MediBook/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.medibook.example.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories, services, and handlers
	userRepo := repositories.NewUserRepository(db, cache)
	doctorRepo := repositories.NewDoctorRepository(db, cache)
	appointmentRepo := repositories.NewAppointmentRepository(db, cache)

	authService := services.NewAuthService(userRepo)
	doctorService := services.NewDoctorService(doctorRepo)
	bookingService := services.NewBookingService(userRepo, doctorRepo, appointmentRepo)
	appointmentService := services.NewAppointmentService(userRepo, appointmentRepo)

	authHandler := handlers.NewAuthHandler(authService, doctorService)
	doctorHandler := handlers.NewDoctorHandler(doctorService)
	appointmentHandler := handlers.NewAppointmentHandler(bookingService, appointmentService, authService, doctorService)

	// Register routes
	controllers.SetupBookingRoutes(router, doctorHandler, appointmentHandler)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
