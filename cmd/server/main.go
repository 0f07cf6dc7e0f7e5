package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/events"
	"peerprep/interview/internal/handlers"
	authmw "peerprep/interview/internal/middleware"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/routers"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

var (
	gormOpen         = defaultGormOpen
	httpListenServe  = defaultListenServe
	dbConnectTimeout = 30 * time.Second
	dbRetryInterval  = 500 * time.Millisecond
	runAutoMigrate   = func(db *gorm.DB, dst ...interface{}) error { return db.AutoMigrate(dst...) }
	newLogger        = zap.NewProduction
	exitFunc         = os.Exit
	logFatalFn       = defaultLogFatal
	newDialector     = defaultDialector
)

func main() {
	if err := run(); err != nil {
		logFatalFn(err)
	}
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	utils.Logger = logger

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := connectWithRetry(dataSource(cfg), dbConnectTimeout, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	if err := runAutoMigrate(db, models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("database ready", zap.String("driver", cfg.DBDriver))

	var publisher events.Publisher = events.NopPublisher{}
	var eventsPinger handlers.Pinger
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		redisPublisher := events.NewRedisPublisher(rdb, logger)
		publisher, eventsPinger = redisPublisher, redisPublisher
		logger.Info("publishing domain events", zap.String("redis", cfg.RedisAddr))

		if !cfg.SkipSubscriber {
			subCtx, stopSubscriber := context.WithCancel(context.Background())
			defer stopSubscriber()
			events.LogEvents(subCtx, rdb, logger)
		}
	}

	deps := services.Deps{
		Store:     repositories.NewStore(db),
		Publisher: publisher,
		Logger:    logger,
	}
	authService := services.NewAuthService(deps, cfg.JWTSecret, cfg.TokenTTL)
	userAdminService := services.NewUserAdminService(deps)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)
	router.Use(authmw.Authenticate(authService, cfg.JWTSecret))

	routers.HealthRoutes(router, handlers.NewHealthHandler(sqlDB, eventsPinger))
	routers.AuthRoutes(router, handlers.NewAuthHandler(authService, userAdminService))
	routers.QuestionRoutes(router, handlers.NewQuestionHandler(services.NewQuestionService(deps)))
	routers.CategoryRoutes(router, handlers.NewCategoryHandler(services.NewCategoryService(deps)))
	routers.ReactionRoutes(router, handlers.NewReactionHandler(services.NewReactionService(deps)))
	adminHandler := handlers.NewAdminHandler(userAdminService, services.NewModerationService(deps))
	routers.AdminRoutes(router, adminHandler)
	routers.SuperAdminRoutes(router, adminHandler)
	routers.MockInterviewRoutes(router, handlers.NewMockInterviewHandler(
		services.NewMockInterviewService(deps, nil, cfg.MaxMockQuestions, nil)))

	addr := ":" + cfg.Port
	logger.Info("Interview service starting", zap.String("addr", addr))
	if err := httpListenServe(addr, router); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("Interview service exited")
	return nil
}

// dataSource tags sqlite paths so the dialector can tell them apart from
// postgres DSNs.
func dataSource(cfg *config.Config) string {
	if cfg.DBDriver == "sqlite" {
		return sqlitePrefix + cfg.SQLitePath
	}
	return cfg.Postgres.DSN()
}

func defaultDialector(dsn string) gorm.Dialector {
	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		return sqlite.Open(path)
	}
	return postgres.Open(dsn)
}

func defaultGormOpen(dsn string) (*gorm.DB, error) {
	return gorm.Open(newDialector(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn), TranslateError: true})
}

// connectWithRetry keeps opening and pinging the database until it answers
// or timeout elapses.
func connectWithRetry(dsn string, timeout time.Duration, logger *zap.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	attempt := 0
	for {
		attempt++
		db, err := gormOpen(dsn)
		if err == nil {
			if err = ping(db); err == nil {
				return db, nil
			}
		}
		if time.Now().Add(dbRetryInterval).After(deadline) {
			return nil, fmt.Errorf("database not reachable after %d attempts: %w", attempt, err)
		}
		logger.Warn("database not ready, retrying", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(dbRetryInterval)
	}
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func defaultListenServe(addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownChan)

	select {
	case err := <-serveErr:
		return err
	case <-shutdownChan:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func defaultLogFatal(err error) {
	utils.GetLogger().Error("interview service failed", zap.Error(err))
	exitFunc(1)
}
