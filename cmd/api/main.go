package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"batched-savings-ledger/config"
	"batched-savings-ledger/internal/adapter/client"
	httpHandler "batched-savings-ledger/internal/adapter/http/handler"
	pgStorage "batched-savings-ledger/internal/adapter/storage/postgres"
	redisStorage "batched-savings-ledger/internal/adapter/storage/redis"
	"batched-savings-ledger/internal/core/ports"
	"batched-savings-ledger/internal/service"
	"batched-savings-ledger/pkg/logger"
)

const mutationLockKey = "ledger:mutation"

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("batched-savings-ledger", cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Batched Savings Ledger")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	depositRepo := pgStorage.NewDepositRepo(pool)
	eventRepo := pgStorage.NewEventRepo(pool)
	operatorRepo := pgStorage.NewOperatorRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	nonceStore := redisStorage.NewNonceStore(rdb)
	mutationLock := redisStorage.NewMutationLock(rdb, mutationLockKey, cfg.Ledger.LockTTL, cfg.Ledger.LockWait, log)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// External collaborators
	authority := client.NewAuthorityClient(cfg.Authority, log)
	assets := client.NewAssetsClient(cfg.Assets, log)
	reserve := client.NewReserveClient(cfg.Reserve, log)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	params := service.LedgerParams{
		FeeAnnualPPM:    cfg.Ledger.FeeAnnualPPM,
		SettlementToken: cfg.Ledger.SettlementToken,
		CustodyAddress:  cfg.Ledger.CustodyAddress,
	}
	notifier := service.NewEventNotifier(
		cfg.Events.SinkURL,
		cfg.Events.Secret,
		sigSvc,
		&http.Client{Timeout: cfg.Events.Timeout},
		log,
	)
	authSvc := service.NewAuthService(operatorRepo, hashSvc, encSvc, tokenSvc)
	ledgerSvc := service.NewLedgerService(
		depositRepo,
		eventRepo,
		authority,
		assets,
		reserve,
		transactor,
		mutationLock,
		notifier,
		params,
		log,
	)
	treasurySvc := service.NewTreasuryService(authority, assets, reserve, mutationLock, params, log)
	reportingSvc := service.NewReportingService(depositRepo, eventRepo, reserve, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		LedgerSvc:      ledgerSvc,
		TreasurySvc:    treasurySvc,
		ReportingSvc:   reportingSvc,
		OperatorRepo:   operatorRepo,
		EncSvc:         encSvc,
		SigSvc:         sigSvc,
		NonceStore:     nonceStore,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
