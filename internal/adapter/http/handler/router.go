package handler

import (
	"mobile-wallet-service/internal/adapter/http/middleware"
	redisStore "mobile-wallet-service/internal/adapter/storage/redis"
	"mobile-wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	RegistrationSvc  ports.RegistrationService
	TransferSvc      ports.TransferService
	QuerySvc         ports.QueryService
	AdminSvc         ports.AdminService
	TokenSvc         ports.TokenService
	RateLimitStore   *redisStore.RateLimitStore // nil = rate limiting disabled
	IdempotencyCache ports.IdempotencyCache     // nil = replay guard disabled
	AuditSvc         ports.AuditService         // nil = audit trail disabled
	HealthCheckers   []ports.HealthChecker
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
// The transfer endpoints are deliberately unauthenticated beyond their
// per-operation PIN rules; only the /admin group requires a session.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditTrail(deps.AuditSvc))
	}

	// Health check (deep, verifies PostgreSQL and Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	accountHandler := NewAccountHandler(deps.RegistrationSvc, deps.QuerySvc)
	transferHandler := NewTransferHandler(deps.TransferSvc, deps.QuerySvc)
	adminHandler := NewAdminHandler(deps.AdminSvc, deps.QuerySvc)

	// --- Auth routes ---
	auth := r.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), accountHandler.Register)
		auth.POST("/login", rl("auth_login"), accountHandler.Login)
	}

	// Replay guard for the money-moving POSTs. Noop when no cache is wired.
	idem := func(c *gin.Context) { c.Next() }
	if deps.IdempotencyCache != nil {
		idem = middleware.Idempotency(deps.IdempotencyCache, middleware.DefaultIdempotencyTTL, deps.Logger)
	}

	// --- Transfer routes ---
	transactions := r.Group("/transactions")
	{
		transactions.POST("/send-money", rl("transfers"), idem, transferHandler.SendMoney)
		transactions.POST("/cash-in", rl("transfers"), idem, transferHandler.CashIn)
		transactions.POST("/cash-out", rl("transfers"), idem, transferHandler.CashOut)
		transactions.GET("", rl("queries"), transferHandler.ListTransactions)
	}

	// --- Lookup routes ---
	r.GET("/agents/approved", rl("queries"), accountHandler.ListApprovedAgents)
	users := r.Group("/users")
	{
		users.GET("/approved", rl("queries"), accountHandler.ListApprovedUsers)
		users.GET("/get-mobile", rl("queries"), accountHandler.GetMobileByEmail)
		users.GET("/get-agent", rl("queries"), accountHandler.GetAgentMobileByEmail)
	}

	// --- Admin routes (JWT session with admin role claim) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	admin := r.Group("/admin", jwtAuth, middleware.AdminOnly())
	{
		admin.GET("/pending-agents", rl("queries"), adminHandler.ListPendingAgents)
		admin.PUT("/approve-agent", rl("queries"), adminHandler.ApproveAgent)
		admin.GET("/system-balance", rl("queries"), adminHandler.SystemBalance)
	}

	return r
}
