package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inference-service/internal/adapters/primary/http/handlers"
	"inference-service/internal/adapters/primary/http/middleware"
	"inference-service/internal/adapters/secondary/fsstore"
	"inference-service/internal/adapters/secondary/postgres"
	"inference-service/internal/config"
	ports "inference-service/internal/core/ports/output"
	"inference-service/internal/core/services"
	"inference-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Prediction log sink (optional - based on config)
	var logRepo ports.PredictionLogRepository
	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			log.Fatalf("parse db config: %v", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

		pool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
		if err != nil {
			log.Fatalf("create db pool: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			log.Warnf("db ping failed (continuing, prediction log writes will retry): %v", err)
		}
		logRepo = postgres.NewPredictionLogRepository(pool)
		log.Info("prediction log database connected")
	} else {
		log.Info("prediction log database disabled")
	}

	// Metrics
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	// Secondary adapters
	store := fsstore.New(cfg.Models.Dir)

	// Core services
	licenseSvc := services.NewLicenseService(services.LicensePolicy{
		FallbackKey:  cfg.License.Key,
		MinKeyLength: cfg.License.MinKeyLength,
		GrantPeriod:  cfg.License.GrantPeriod,
		CacheTTL:     cfg.License.CacheTTL,
		Features:     cfg.License.Features,
	})
	registry := services.NewModelRegistry(store, m)
	predictSvc := services.NewPredictionService(licenseSvc, registry, m)
	statusSvc := services.NewStatusService(licenseSvc, store)
	logSvc := services.NewPredictionLogService(logRepo, m)
	defer logSvc.Close()

	// Primary adapter
	h := handlers.New(predictSvc, statusSvc, logSvc, licenseSvc, registry, cfg.Server.RequestTimeout)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	h.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))
	}

	// The daemon binds to loopback; the license key is the only access
	// control, so remote exposure is unsafe by design.
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting inference service on %s (models dir %s)", addr, cfg.Models.Dir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
