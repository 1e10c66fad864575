package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtline/league-system/config"
	"github.com/courtline/league-system/db"
	"github.com/courtline/league-system/fixtures"
	"github.com/courtline/league-system/handlers"
	"github.com/courtline/league-system/live"
	"github.com/courtline/league-system/repositories"
	"github.com/courtline/league-system/routes"
	"github.com/courtline/league-system/services"
	"github.com/courtline/league-system/storage"
)

const (
	statusSyncInterval    = 1 * time.Minute
	inviteCleanupInterval = 1 * time.Hour
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	reportRepo := repositories.NewPostgresScoreReportRepository(dbConn)
	inviteRepo := repositories.NewPostgresInviteRepository(dbConn)

	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, emailService, cfg.PublicURL, logger)
	userService := services.NewUserService(userRepo, uploader)
	teamService := services.NewTeamService(dbConn, teamRepo, userRepo, uploader)
	inviteService := services.NewInviteService(dbConn, inviteRepo, teamRepo, userRepo, emailService, cfg.PublicURL, logger)
	leagueService := services.NewLeagueService(dbConn, leagueRepo, participantRepo, matchRepo, userRepo, uploader, logger)
	participantService := services.NewParticipantService(participantRepo, leagueRepo, userRepo, teamRepo, uploader)
	scheduleService := services.NewScheduleService(dbConn, leagueRepo, participantRepo, matchRepo, userRepo,
		fixtures.NewRoundRobinGenerator(), hub)
	scoreService := services.NewScoreService(dbConn, matchRepo, reportRepo, participantRepo, leagueRepo,
		userRepo, teamRepo, hub, emailService, cfg.PublicURL, logger)
	standingsService := services.NewStandingsService(leagueRepo, participantRepo, matchRepo, uploader)
	exportService := services.NewExportService(leagueRepo, participantRepo, matchRepo, standingsService)
	logger.Info("services initialized")

	// Date-driven league lifecycle and invite expiry run in the background.
	go runPeriodically(logger, "league status sync", statusSyncInterval, func(ctx context.Context) error {
		return leagueService.SyncStatusesByDates(ctx)
	})
	go runPeriodically(logger, "invite cleanup", inviteCleanupInterval, func(ctx context.Context) error {
		deleted, err := inviteService.CleanupExpired(ctx)
		if err == nil && deleted > 0 {
			logger.Info("expired invites removed", slog.Int64("count", deleted))
		}
		return err
	})

	router := routes.Setup(routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		User:      handlers.NewUserHandler(userService),
		Team:      handlers.NewTeamHandler(teamService),
		League:    handlers.NewLeagueHandler(leagueService, participantService, scheduleService, standingsService, exportService),
		Match:     handlers.NewMatchHandler(scoreService),
		Invite:    handlers.NewInviteHandler(inviteService),
		WebSocket: handlers.NewWebSocketHandler(hub, logger),
	}, authService)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}

func runPeriodically(logger *slog.Logger, name string, interval time.Duration, fn func(ctx context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("background task started", slog.String("task", name), slog.Duration("interval", interval))

	if err := fn(context.Background()); err != nil {
		logger.Error("background task failed", slog.String("task", name), slog.Any("error", err))
	}
	for range ticker.C {
		if err := fn(context.Background()); err != nil {
			logger.Error("background task failed", slog.String("task", name), slog.Any("error", err))
		}
	}
}
