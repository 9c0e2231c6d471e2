package handler

import (
	"batched-savings-ledger/internal/adapter/http/middleware"
	redisStore "batched-savings-ledger/internal/adapter/storage/redis"
	"batched-savings-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	LedgerSvc      ports.LedgerService
	TreasurySvc    ports.TreasuryService
	ReportingSvc   ports.ReportingService
	OperatorRepo   ports.OperatorRepository
	EncSvc         ports.EncryptionService
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep — verifies PostgreSQL + Redis)
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

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- HMAC-authenticated routes (operator API) ---
	hmacAuth := middleware.HMACAuth(deps.OperatorRepo, deps.EncSvc, deps.SigSvc, deps.NonceStore, deps.Logger)
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	treasuryHandler := NewTreasuryHandler(deps.TreasurySvc)

	deposits := v1.Group("/deposits", hmacAuth)
	{
		deposits.POST("/batch", rl("deposits_batch"), ledgerHandler.CreateBatch)
		deposits.POST("/redeem", rl("deposits_redeem"), ledgerHandler.RedeemBatch)
	}

	treasury := v1.Group("/treasury", hmacAuth)
	{
		treasury.POST("/add-funds", rl("treasury"), treasuryHandler.AddFunds)
		treasury.POST("/move-funds", rl("treasury"), treasuryHandler.MoveFunds)
		treasury.POST("/rescue", rl("treasury"), treasuryHandler.RescueTokens)
	}

	// --- JWT-authenticated routes (dashboard) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	dashboardHandler := NewDashboardHandler(deps.ReportingSvc)

	reads := v1.Group("/deposits", jwtAuth)
	{
		reads.GET("/:id", rl("dashboard"), ledgerHandler.GetDeposit)
		reads.GET("/:id/history", rl("dashboard"), dashboardHandler.DepositHistory)
	}

	dashboard := v1.Group("/dashboard", jwtAuth)
	{
		dashboard.GET("/summary", rl("dashboard"), dashboardHandler.GetSummary)
	}

	events := v1.Group("/events", jwtAuth)
	{
		events.GET("", rl("dashboard"), dashboardHandler.ListEvents)
	}

	return r
}
