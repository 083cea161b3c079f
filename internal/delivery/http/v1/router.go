package v1

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/security"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	AccountUC     domain.AccountUsecase
	AdminUC       domain.AdminUsecase
	PostingUC     domain.PostingUsecase
	ApplicationUC domain.ApplicationUsecase
	MessageUC     domain.MessageUsecase
	HealthUC      usecase.HealthUsecase
	Guard         *usecase.Guard
	// Redis is nil when rate limiting is disabled
	Redis  goredis.Scripter
	Audit  *security.SecurityLogger
	Logger *slog.Logger
	Config *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.IsProduction())) // CORS must be first
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.AccessLog(deps.Logger))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimit(deps.Redis, middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window), deps.Audit))

	api := r.Group("/api/v1")

	NewHealthHandler(api, deps.HealthUC)

	if cfg.SwaggerEnabled {
		api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authLimit := middleware.RateLimit(deps.Redis, middleware.AuthRateLimitConfig(cfg.RateLimitLoginThreshold, window), deps.Audit)
	NewAuthHandler(api, deps.AuthUC, authLimit)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.Authenticate(deps.Guard))

	routes := Routes{
		Public:    api,
		Authed:    protected,
		Students:  protected.Group("", middleware.Require(deps.Guard, usecase.RequireRole(domain.RoleStudent))),
		Employers: protected.Group("", middleware.Require(deps.Guard, usecase.RequireRole(domain.RoleEmployer))),
		Admins:    protected.Group("", middleware.Require(deps.Guard, usecase.RequireRole(domain.RoleAdministrator))),
	}

	NewAccountHandler(routes, deps.AccountUC)
	NewPostingHandler(routes, deps.PostingUC)
	NewApplicationHandler(routes, deps.ApplicationUC)
	NewMessageHandler(routes.Authed, deps.MessageUC)
	NewAdminHandler(routes.Admins, deps.AdminUC)

	return r
}

// Routes splits the tree by who may reach it. Role groups reject the caller
// before any handler binds a body.
type Routes struct {
	Public    *gin.RouterGroup
	Authed    *gin.RouterGroup
	Students  *gin.RouterGroup
	Employers *gin.RouterGroup
	Admins    *gin.RouterGroup
}
