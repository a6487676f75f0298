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

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shenikar/traffic_incidents_system/internal/config"
	"github.com/shenikar/traffic_incidents_system/internal/connector"
	"github.com/shenikar/traffic_incidents_system/internal/facets"
	v1 "github.com/shenikar/traffic_incidents_system/internal/handler/http/v1"
	"github.com/shenikar/traffic_incidents_system/internal/observability"
	"github.com/shenikar/traffic_incidents_system/internal/repository"
	"github.com/shenikar/traffic_incidents_system/internal/scheduler"
	"github.com/shenikar/traffic_incidents_system/internal/service"
	"github.com/shenikar/traffic_incidents_system/pkg/logger"
	"github.com/shenikar/traffic_incidents_system/pkg/postgres"
	redisclient "github.com/shenikar/traffic_incidents_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/traffic_incidents_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Traffic Incidents System API
// @version 1.0
// @description Canonical store and query API for road incidents ingested from state DOT feeds.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisPoolSize)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	clock := clockwork.NewRealClock()

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient, cfg.WriteConflictRetries, cfg.ActiveCountCacheTTL)
	roadRepo := repository.NewRoadRepository(dbpool)

	// Фасетный индекс и сервисы
	facetIndex := facets.New()
	incidentService := service.NewIncidentService(incidentRepo, roadRepo, facetIndex, log)
	if err := incidentService.WarmFacets(ctx); err != nil {
		log.WithError(err).Warn("Failed to warm facet index, starting empty")
	}

	ingestService := service.NewIngestService(incidentRepo, roadRepo, facetIndex, metrics, clock, log)
	ohgo := connector.NewOHGOConnector(cfg, log)
	ingestService.Register(ohgo, ohgo)
	ingestService.Register(connector.NewDriveTexasConnector(cfg, clock, log), nil)

	// Планировщик циклов инжеста
	sched := scheduler.NewScheduler(ingestService, clock, log, map[string]time.Duration{
		connector.SourceOHGO:       cfg.OHGOIngestInterval,
		connector.SourceDriveTexas: cfg.DriveTexasIngestInterval,
	}, cfg.IngestCycleTimeout)
	sched.Start(ctx)

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, ingestService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Маршруты метрик и Swagger UI
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	cancel()
	sched.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
