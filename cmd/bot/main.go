package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/r-lysenko/excursion_bot/internal/app"
	"github.com/r-lysenko/excursion_bot/internal/config"
	"github.com/r-lysenko/excursion_bot/internal/controller"
	"github.com/r-lysenko/excursion_bot/internal/repository"
	"github.com/r-lysenko/excursion_bot/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	logger.Info("Applying database migrations")
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	version, err := migrator.Version(ctx)
	if err == nil {
		logger.Info("Database ready", zap.Int64("migration_version", version))
	}
	migrator.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	bookingService := service.NewBookingService(bookingRepo, logger)
	userService := service.NewUserService(userRepo, logger)
	adminService := service.NewAdminService(adminRepo, logger)

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		botInstance,
		cfg,
		userService,
		bookingService,
		adminService,
		logger,
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	logger.Info("Starting excursion bot",
		zap.String("environment", cfg.Environment),
		zap.Int("working_days", len(cfg.WorkingDays)))

	botController.Start(ctx)

	logger.Info("Bot stopped")
}
