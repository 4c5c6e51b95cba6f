// Package main initializes and starts the ledger API server, setting up
// configuration, logging, the database connection, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/rmanoharan/ledgerdesk/internal/config"
	"github.com/rmanoharan/ledgerdesk/internal/db"
	"github.com/rmanoharan/ledgerdesk/internal/logger"
	"github.com/rmanoharan/ledgerdesk/internal/models"
	"github.com/rmanoharan/ledgerdesk/internal/repository"
	"github.com/rmanoharan/ledgerdesk/internal/server/handler/http"
	"github.com/rmanoharan/ledgerdesk/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT_SECRET is required")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	loanRepo := repository.NewPostgresLoanRepository(postgresDB)
	cropRepo := repository.NewPostgresCropRepository(postgresDB)

	// Initialize business-logic services.
	tokens := service.NewTokenIssuer(options.JWTSecret)
	authService := service.NewAuthService(userRepo, tokens)
	loanService := service.NewLoanService(loanRepo, options.StrictTransitions)
	cropService := service.NewCropService(cropRepo, options.StrictTransitions)

	// Seed the initial admin account when configured.
	if options.AdminUsername != "" {
		_, _, err := authService.Register(context.Background(),
			options.AdminUsername, options.AdminPassword, models.RoleAdmin)
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			// Already seeded on a previous start.
		case err != nil:
			zapLogger.Fatal("failed to seed admin account", zap.Error(err))
		default:
			zapLogger.Info("seeded admin account", zap.String("username", options.AdminUsername))
		}
	}

	// Create HTTP handlers for the auth and ledger endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	pawnHandler := &http.PawnHandler{LoanService: loanService}
	cropHandler := &http.CropHandler{CropService: cropService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, pawnHandler, cropHandler, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:         options.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	zapLogger.Info("starting server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
}
