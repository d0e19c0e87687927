package controllers

import (
	"MediBook/handlers"
	"MediBook/middlewares"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes initializes all authentication routes directly on the router
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/auth/register/patient", ac.Handler.RegisterPatient)
	router.POST("/auth/register/doctor", ac.Handler.RegisterDoctor)
	router.POST("/auth/login", ac.Handler.Login)
	router.POST("/send-reset-code", ac.Handler.SendResetCode)
	router.POST("/change-password", ac.Handler.ChangePassword)

	// Protected routes: Requires a valid token
	authGroup := router.Group("/auth").Use(middlewares.TokenAuthMiddleware())
	{
		authGroup.POST("/logoff", ac.Handler.Logoff)
		authGroup.GET("/user/profile", ac.Handler.GetProfile)
		authGroup.PUT("/user/update-profile", ac.Handler.UpdateProfile)
		authGroup.POST("/refresh-token", ac.Handler.RefreshToken)
	}
}
