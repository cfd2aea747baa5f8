package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/homequest/realty-api/internal/api"
	"github.com/homequest/realty-api/internal/core/service"
	"github.com/homequest/realty-api/internal/infrastructure/config"
	mongodb "github.com/homequest/realty-api/internal/infrastructure/db/mongo"
	redisdb "github.com/homequest/realty-api/internal/infrastructure/db/redis"
	"github.com/homequest/realty-api/internal/infrastructure/storage"
	"github.com/homequest/realty-api/internal/infrastructure/tasks"
	"github.com/homequest/realty-api/internal/infrastructure/ws"
	"github.com/homequest/realty-api/pkg/logger"

	"github.com/homequest/realty-api/internal/api/metrics"
)

// @title        Realty API
// @version      1.0
// @description  Real-estate marketplace backend: listings, inquiries, bookings and wallet payments.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	// --- Datastores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	propertyRepo := mongodb.NewPropertyRepository(db)
	pgRepo := mongodb.NewPgRepository(db)
	inquiryRepo := mongodb.NewInquiryRepository(db)
	chatRepo := mongodb.NewChatRepository(db)
	rentBookingRepo := mongodb.NewRentBookingRepository(db)
	pgBookingRepo := mongodb.NewPgBookingRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	walletRepo := mongodb.NewWalletRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)
	bookingNotificationRepo := mongodb.NewBookingNotificationRepository(db)

	type indexer interface {
		EnsureIndexes(ctx context.Context) error
	}
	for _, r := range []indexer{
		userRepo, propertyRepo, pgRepo, inquiryRepo, chatRepo,
		rentBookingRepo, pgBookingRepo, paymentRepo, walletRepo,
		notificationRepo, bookingNotificationRepo,
	} {
		if err := r.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	txRunner := mongodb.NewTxRunner(mongoClient)
	dedup := redisdb.NewDedupChecker(rdb)

	// --- Background tasks ---
	asynqClient := tasks.NewClient(rdb)
	defer asynqClient.Close()
	emailEnqueuer := tasks.NewEmailEnqueuer(asynqClient)

	// --- Live channel ---
	hub := ws.NewHub(log, metrics.HubGauge{})

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	propertyService := service.NewPropertyService(propertyRepo, log)
	walletService := service.NewWalletService(walletRepo, txRunner, log)
	notificationService := service.NewNotificationService(notificationRepo, bookingNotificationRepo, hub, emailEnqueuer, log)
	inquiryService := service.NewInquiryService(inquiryRepo, chatRepo, propertyRepo, walletService, notificationService, hub, txRunner, dedup, log)
	bookingService := service.NewBookingService(rentBookingRepo, pgBookingRepo, paymentRepo, propertyRepo, pgRepo, inquiryRepo, walletService, notificationService, txRunner, log)

	docStorage, err := storage.NewS3Storage(ctx, storage.Config{
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("document storage init failed")
	}

	wsHandler := ws.NewHandler(hub, inquiryService, cfg.JWTSecret, log)

	// --- Task worker and scheduler ---
	processor := tasks.NewTaskProcessor(paymentRepo, rentBookingRepo, pgBookingRepo, userRepo, notificationService, tasks.LogSender{Logger: log}, log)
	srv, mux := tasks.NewServer(rdb, processor, log)
	go func() {
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("task server stopped")
		}
	}()

	scheduler, err := tasks.NewScheduler(rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler init failed")
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatal().Err(err).Msg("scheduler stopped")
		}
	}()

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Logger:        log,
		DB:            db,
		Redis:         rdb,
		JWTSecret:     cfg.JWTSecret,
		Auth:          authService,
		Users:         userRepo,
		Properties:    propertyService,
		Inquiries:     inquiryService,
		Bookings:      bookingService,
		Wallet:        walletService,
		Notifications: notificationService,
		Documents:     docStorage,
		WS:            wsHandler,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("realty api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Shutdown()
	srv.Shutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
