package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelbooking/internal/api"
	"hotelbooking/internal/auth"
	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/events"
	"hotelbooking/internal/google"
	"hotelbooking/internal/logging"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/notify"
	"hotelbooking/internal/repository"
	"hotelbooking/internal/seed"
	"hotelbooking/internal/service"
	"hotelbooking/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBWithMigrationTable(cfg.Database.Path, cfg.Database.MigrationTable, logging.Component(&logger, "database"))
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	if _, err := seed.Employees(ctx, db, cfg.Seed.Users, &logger); err != nil {
		return fmt.Errorf("seed employees: %w", err)
	}

	redisClient := initRedis(ctx, cfg, &logger)
	if redisClient != nil {
		defer (func() { _ = repository.Close(redisClient) })()
	}

	locker, err := repository.NewRoomLocker(cfg.Locking, redisClient, logging.Component(&logger, "locker"))
	if err != nil {
		return fmt.Errorf("init room locker: %w", err)
	}
	limiter := repository.NewAttemptLimiter(cfg.Locking, redisClient, logging.Component(&logger, "limiter"))

	bus := events.NewEventBus(logging.Component(&logger, "events"))
	initTelegram(cfg, bus, &logger)

	var syncWorker *worker.SheetsWorker
	if sheets := initGoogleSheets(ctx, cfg, db, &logger); sheets != nil {
		syncWorker = worker.NewSheetsWorker(db, sheets, redisClient, worker.RetryPolicy{}, logging.Component(&logger, "sheets-worker"))
		go syncWorker.Start(ctx)
	}

	deps := service.Deps{
		Repo:    db,
		Locker:  locker,
		Events:  bus,
		Booking: cfg.Booking,
		Logger:  logging.Component(&logger, "booking"),
	}
	if syncWorker != nil {
		deps.Sync = syncWorker
	}

	svc := api.Services{
		Auth:           service.NewAuthService(db, auth.NewTokenManager(cfg.Auth), limiter, logging.Component(&logger, "auth")),
		Bookings:       service.NewBookingService(deps),
		ChangeRequests: service.NewChangeRequestService(deps),
		Statistics:     service.NewStatisticsService(db, logging.Component(&logger, "statistics")),
		Rooms:          service.NewRoomService(db, cfg.Booking, logging.Component(&logger, "rooms")),
		Customers:      service.NewCustomerService(db, cfg.Booking, logging.Component(&logger, "customers")),
		Employees:      service.NewEmployeeService(db, logging.Component(&logger, "employees")),
	}

	go database.NewBackupService(db, cfg.Backup, logging.Component(&logger, "backup")).Start(ctx)

	startMetrics(ctx, cfg, &logger)

	httpServer := api.NewHTTPServer(cfg.API, svc, logging.Component(&logger, "http"))

	var grpcServer *api.GRPCServer
	if cfg.API.GRPC.Enabled {
		grpcServer, err = api.NewGRPCServer(cfg.API.GRPC, &logger)
		if err != nil {
			logger.Error().Err(err).Msg("create grpc server")
			return err
		}
	}

	return startServers(ctx, grpcServer, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initRedis returns nil when redis is not configured or unreachable.
// An unreachable redis downgrades the failover locking backend to memory.
func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		_ = redisClient.Close()
		if cfg.Locking.Backend == "failover" {
			cfg.Locking.Backend = "memory"
		}
		logger.Warn().Err(err).Str("locking_backend", cfg.Locking.Backend).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initTelegram(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if cfg.Telegram.BotToken == "" || len(cfg.Telegram.StaffChatIDs) == 0 {
		return
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, staff notifications disabled")
		return
	}
	bot.Debug = cfg.Telegram.Debug

	notify.NewTelegramNotifier(bot, cfg.Telegram.StaffChatIDs, logging.Component(logger, "telegram")).Subscribe(bus)
	logger.Info().Str("bot", bot.Self.UserName).Int("chats", len(cfg.Telegram.StaffChatIDs)).Msg("telegram notifications enabled")
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, db *database.DB, logger *zerolog.Logger) *google.SheetsService {
	if !cfg.Google.Enabled() {
		return nil
	}

	sheetsService, err := google.NewSheetsService(ctx, cfg.Google.GoogleCredentialsFile, cfg.Google.BookingSpreadSheetID, logging.Component(logger, "sheets"))
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}
	if err := sheetsService.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("google sheets unreachable, continuing without sheets")
		return nil
	}

	if cfg.Google.ResyncOnStart {
		bookings, err := db.AllBookings(ctx)
		if err == nil {
			err = sheetsService.ReplaceBookingsSheet(ctx, bookings)
		}
		if err != nil {
			logger.Error().Err(err).Msg("bookings sheet resync failed")
		}
	}

	go sheetsService.StartCacheRefresh(ctx, cfg.Google.CacheRefreshInterval)

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	metrics.Register()
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startServers(
	ctx context.Context,
	grpcServer *api.GRPCServer,
	httpServer *api.HTTPServer,
	cfg *config.Config,
	logger *zerolog.Logger,
) error {
	if grpcServer != nil {
		go func() {
			if err := grpcServer.Serve(); err != nil {
				logger.Error().Err(err).Msg("grpc server stopped")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Bool("grpc", grpcServer != nil).Msg("API server started")

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error().Err(serveErr).Msg("http server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Shutdown(shutdownCtx)
	}
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return serveErr
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
