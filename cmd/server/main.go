package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autocare-service/internal/infrastructure/config"
	"autocare-service/internal/infrastructure/oauth"
	"autocare-service/internal/infrastructure/persistence"
	"autocare-service/internal/interface/mailer"
	repo "autocare-service/internal/interface/repository"
	"autocare-service/internal/interface/rest"
	"autocare-service/internal/usecase"
	"autocare-service/pkg/logger"
	"autocare-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Autocare Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Reference data lives in the dealership's PostgreSQL
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	vehicleRepo := repo.NewMongoVehicleRepository(db)
	bookingRepo := repo.NewMongoBookingRepository(db)
	batchRepo := repo.NewMongoScheduleBatchRepository(db)
	reminderRepo := repo.NewMongoReminderRepository(db)
	catalogRepo := repo.NewGormCatalogRepository(gormDB)
	centerRepo := repo.NewGormServiceCenterRepository(gormDB)
	txRunner := repo.NewMongoTxRunner(mongoClient)

	// Set up Gmail OAuth and the outbound mailer
	gmailOAuth := oauth.NewGmailOAuth(
		cfg.GmailClientID,
		cfg.GmailClientSecret,
		cfg.GmailRefreshToken,
		log,
	)
	tokenSource := gmailOAuth.GetTokenSource(ctx)

	notifier, err := mailer.NewGmailMailer(ctx, tokenSource, cfg.NotifyFrom, log)
	if err != nil {
		log.Fatal("Failed to create Gmail mailer", "error", err)
	}

	m := metrics.NewMetrics("autocare")

	// Set up usecases
	vehicleService := usecase.NewVehicleService(vehicleRepo, catalogRepo, log)
	bookingService := usecase.NewBookingService(bookingRepo, vehicleRepo, centerRepo, catalogRepo, notifier, txRunner, m, log)
	batchScheduler := usecase.NewBatchScheduler(batchRepo, bookingRepo, notifier, vehicleRepo, m, log)
	availability := usecase.NewAvailabilityService(bookingRepo, cfg.BusinessOpenHour, cfg.BusinessCloseHour)
	sweep := usecase.NewReminderSweep(bookingRepo, batchRepo, reminderRepo, vehicleRepo, notifier, m, log)

	// Run the reminder sweep on a fixed interval
	go func() {
		sweepTicker := time.NewTicker(cfg.SweepInterval)
		defer sweepTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Reminder sweep stopped")
				return
			case <-sweepTicker.C:
				sweep.Run(ctx, time.Now())
			}
		}
	}()

	// API server
	router := rest.SetupRouter(vehicleService, bookingService, batchScheduler, availability, sweep, centerRepo)
	apiServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("Starting API server", "port", cfg.Port)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("API server error", "error", err)
		}
	}()

	// Metrics server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	metricsServer := &http.Server{
		Addr:         ":" + cfg.MetricsPort,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("Starting metrics server", "port", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Metrics server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("API server shutdown error", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Autocare Service stopped")
}
