// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dispatch-hub/backend/internal/integration/entrypoint/controller"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine            *gin.Engine
	healthController  *controller.HealthController
	authController    *controller.AuthController
	userController    *controller.UserController
	loginRateLimiter  *middleware.RateLimiter
	sessionMiddleware *middleware.SessionMiddleware
}

// NewRouter creates a new router instance with all dependencies.
// A nil rate limiter leaves login unthrottled.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	loginRateLimiter *middleware.RateLimiter,
	sessionMiddleware *middleware.SessionMiddleware,
) *Router {
	return &Router{
		healthController:  healthController,
		authController:    authController,
		userController:    userController,
		loginRateLimiter:  loginRateLimiter,
		sessionMiddleware: sessionMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	switch environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	// Request logging goes through slog instead of gin's logger
	r.engine = gin.New()
	r.engine.Use(gin.Recovery(), middleware.RequestID())

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		if r.authController != nil {
			auth := v1.Group("/auth")
			{
				auth.POST("/register", r.authController.Register)
				if r.loginRateLimiter != nil {
					auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
				} else {
					auth.POST("/login", r.authController.Login)
				}
				auth.POST("/logout", r.authController.Logout)
				auth.GET("/session", r.authController.ValidateSession)
			}
		}

		// User routes (require a valid session)
		if r.userController != nil && r.sessionMiddleware != nil {
			users := v1.Group("/users")
			users.Use(r.sessionMiddleware.Authenticate())
			{
				users.GET("/me", r.userController.Me)
				users.GET("/:id/profile-image", r.userController.ProfileImage)
			}
		}
	}
}
