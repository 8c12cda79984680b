package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvlasov/cottage-booking/internal/app"
	"github.com/nvlasov/cottage-booking/internal/config"
	"github.com/nvlasov/cottage-booking/internal/controller/httpapi"
	"github.com/nvlasov/cottage-booking/internal/repository"
	"github.com/nvlasov/cottage-booking/internal/service"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	userRepo := repository.NewUserRepository(pool)
	propertyRepo := repository.NewPropertyRepository(pool)
	cottageRepo := repository.NewCottageRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	maintenanceRepo := repository.NewMaintenanceRepository(pool)
	calendarRepo := repository.NewCalendarRepository(pool)
	seasonRepo := repository.NewPeakSeasonRepository(pool)
	txRepo := repository.NewTransactionRepository(pool)

	notifier := app.NewNotifier(logger, nil)
	notifier.Start(ctx)
	defer notifier.Stop()

	calendarService := service.NewCalendarService(calendarRepo, logger)
	pricingService := service.NewPricingService(calendarService, logger)
	availabilityService := service.NewAvailabilityService(bookingRepo, maintenanceRepo, calendarRepo, logger)
	ledger := service.NewQuotaLedger(userRepo, bookingRepo, txRepo, logger)
	bookingService := service.NewBookingService(pool, bookingRepo, cottageRepo, userRepo, maintenanceRepo, pricingService, ledger, notifier, logger)
	maintenanceService := service.NewMaintenanceService(pool, maintenanceRepo, bookingRepo, ledger, notifier, logger)
	memberService := service.NewMemberService(pool, userRepo, bookingRepo, propertyRepo, txRepo, ledger, logger)
	seasonService := service.NewSeasonService(calendarRepo, seasonRepo, logger)

	handler := httpapi.NewHandler(
		bookingService,
		maintenanceService,
		memberService,
		seasonService,
		availabilityService,
		pricingService,
		userRepo,
		cottageRepo,
		logger,
	)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Router(cfg.Environment),
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
