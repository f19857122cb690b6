// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/dispatch-hub/backend/config"
	"github.com/dispatch-hub/backend/internal/application/adapter"
	"github.com/dispatch-hub/backend/internal/application/usecase/auth"
	"github.com/dispatch-hub/backend/internal/domain/entity"
	"github.com/dispatch-hub/backend/internal/infra/db"
	"github.com/dispatch-hub/backend/internal/infra/server/router"
	"github.com/dispatch-hub/backend/internal/infra/workerpool"
	"github.com/dispatch-hub/backend/internal/integration/adapters"
	"github.com/dispatch-hub/backend/internal/integration/cache"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/controller"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/middleware"
	"github.com/dispatch-hub/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config           *config.Config
	DB               *gorm.DB
	Router           *router.Router
	LoginRateLimiter *middleware.RateLimiter
}

// NewInjector wires the application. redisClient may be nil, in which case
// sessions are read straight from the database.
func NewInjector(cfg *config.Config, gormDB *gorm.DB, redisClient *redis.Client, pool *workerpool.Pool) *Injector {
	// Create repositories
	authRepo := persistence.NewAuthRepository(gormDB)
	var sessionRepo adapter.SessionRepository = authRepo
	if redisClient != nil {
		sessionRepo = cache.NewSessionCache(authRepo, redisClient, cfg.Redis.SessionTTL)
	}
	repo := &sessionOverride{AuthRepository: authRepo, sessions: sessionRepo}

	// Create adapters/services
	passwordService := adapters.NewPasswordService(cfg.Auth.BcryptCost)
	tokenService := adapters.NewSessionTokenService()
	imageProcessor := adapters.NewImageProcessor(cfg.Images.MaxSourcePixels)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(repo, passwordService, tokenService, pool)
	loginUseCase := auth.NewLoginUserUseCase(repo, passwordService, tokenService, pool)
	logoutUseCase := auth.NewLogoutUserUseCase(repo)
	validateSessionUseCase := auth.NewValidateSessionUseCase(repo)
	currentUserUseCase := auth.NewGetCurrentUserUseCase(repo)
	profileImageUseCase := auth.NewGetProfileImageUseCase(repo, imageProcessor, pool, cfg.Images.Root, cfg.Images.MaxDimension)

	// Create controllers
	database := db.FromGorm(gormDB)
	var redisChecker controller.HealthChecker
	if redisClient != nil {
		redisChecker = func(ctx context.Context) bool {
			return db.RedisHealthCheck(ctx, redisClient)
		}
	}
	healthController := controller.NewHealthController(database.HealthCheck, redisChecker)
	authController := controller.NewAuthController(registerUseCase, loginUseCase, logoutUseCase, validateSessionUseCase)
	userController := controller.NewUserController(currentUserUseCase, profileImageUseCase)

	// Create middleware
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Auth.RateLimitEnabled {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	}
	sessionMiddleware := middleware.NewSessionMiddleware(validateSessionUseCase)

	r := router.NewRouter(healthController, authController, userController, loginRateLimiter, sessionMiddleware)

	return &Injector{
		Config:           cfg,
		DB:               gormDB,
		Router:           r,
		LoginRateLimiter: loginRateLimiter,
	}
}

// sessionOverride routes session calls through an alternate SessionRepository,
// typically the Redis cache, while everything else hits the database.
type sessionOverride struct {
	adapter.AuthRepository
	sessions adapter.SessionRepository
}

func (s *sessionOverride) CreateSession(ctx context.Context, userID int, token string) error {
	return s.sessions.CreateSession(ctx, userID, token)
}

func (s *sessionOverride) DeleteSession(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

func (s *sessionOverride) FindSessionByToken(ctx context.Context, token string) (*entity.Session, error) {
	return s.sessions.FindSessionByToken(ctx, token)
}
