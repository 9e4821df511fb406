package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/compliancehub/identity-service/docs"
	"github.com/compliancehub/identity-service/internal/api/handler"
	"github.com/compliancehub/identity-service/internal/api/middleware"
	"github.com/compliancehub/identity-service/internal/core/ports"
	"github.com/compliancehub/identity-service/internal/core/service"
	"github.com/compliancehub/identity-service/internal/infrastructure/config"
	mongodb "github.com/compliancehub/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/compliancehub/identity-service/internal/infrastructure/db/redis"
	"github.com/compliancehub/identity-service/internal/infrastructure/hash"
	"github.com/compliancehub/identity-service/internal/infrastructure/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	revoked := redisdb.NewRevocationList(rdb)
	hasher := hash.NewBcryptHasher(cfg.BcryptCost)
	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	policy := service.NewPasswordPolicy(cfg.PasswordMinLength)

	authService := service.NewAuthService(users, hasher, issuer, revoked, audit, policy, log)
	userService := service.NewUserService(users, hasher, revoked, audit, policy, cfg.RefreshTokenTTL, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, userService)
	requireAuth := middleware.Auth(issuer)

	// --- Public routes ---
	e.POST("/users/", userHandler.Register)
	e.POST("/auth/login/", authHandler.Login)
	e.POST("/auth/token/refresh/", authHandler.Refresh)

	// --- Authenticated routes ---
	e.GET("/users/me/", userHandler.Me, requireAuth)
	e.GET("/users/", userHandler.List, requireAuth, middleware.RequireStaff())
	e.PATCH("/users/:id/", userHandler.Update, requireAuth)
	e.DELETE("/users/:id/", userHandler.Delete, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
