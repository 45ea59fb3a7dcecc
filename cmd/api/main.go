package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mobile-wallet-service/config"
	httpHandler "mobile-wallet-service/internal/adapter/http/handler"
	pgStorage "mobile-wallet-service/internal/adapter/storage/postgres"
	redisStorage "mobile-wallet-service/internal/adapter/storage/redis"
	"mobile-wallet-service/internal/core/ports"
	"mobile-wallet-service/internal/service"
	"mobile-wallet-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Mobile Wallet Service")

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
	accountRepo := pgStorage.NewAccountRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Resolve the admin fee-sink account. Config takes precedence; otherwise
	// find the seeded admin row. Without an admin no fee can be routed, so
	// refuse to start.
	adminMobile := cfg.Admin.Mobile
	if adminMobile == "" {
		admin, err := accountRepo.GetAdmin(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to look up admin account")
		}
		if admin == nil {
			log.Fatal().Msg("No admin account found; seed one or set MWS_ADMIN_MOBILE")
		}
		adminMobile = admin.Mobile
	}
	log.Info().Str("admin_mobile", adminMobile).Msg("Admin fee sink resolved")

	// Initialize core services
	hashSvc := service.NewBcryptHashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	registrationSvc := service.NewRegistrationService(accountRepo, hashSvc, tokenSvc, log)
	transferSvc := service.NewTransferService(accountRepo, ledgerRepo, hashSvc, transactor, adminMobile, log)
	querySvc := service.NewQueryService(accountRepo, ledgerRepo)
	adminSvc := service.NewAdminService(accountRepo, log)

	auditRepo := pgStorage.NewAuditRepo(pool)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize Redis stores
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		RegistrationSvc:  registrationSvc,
		TransferSvc:      transferSvc,
		QuerySvc:         querySvc,
		AdminSvc:         adminSvc,
		TokenSvc:         tokenSvc,
		RateLimitStore:   rateLimitStore,
		IdempotencyCache: idempotencyCache,
		AuditSvc:         auditSvc,
		HealthCheckers:   []ports.HealthChecker{pgHealth, redisHealth},
		Logger:           log,
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
