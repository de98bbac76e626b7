package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakesight-dashboard/internal/central"
	"bakesight-dashboard/internal/config"
	httpapi "bakesight-dashboard/internal/http"
	"bakesight-dashboard/internal/logger"
	"bakesight-dashboard/internal/metrics"
	"bakesight-dashboard/internal/normalizer"
	"bakesight-dashboard/internal/service"
	"bakesight-dashboard/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "bakesight-dashboard"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// metrics
	var (
		collector      *metrics.Collector
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector = metrics.NewCollector(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// store / device 列表缓存
	var (
		kv          store.KV
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		c := store.NewRedisClient(store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := store.Ping(context.Background(), c, 2*time.Second); err == nil {
			redisClient = c
			kv = store.NewRedisKV(c)
			log.Info("Using Redis cache", zap.String("addr", cfg.Redis.Addr))
		} else {
			log.Warn("Redis enabled but connection failed, falling back to in-memory cache", zap.Error(err))
			_ = c.Close()
		}
	}
	if kv == nil {
		kv = store.NewMemoryKV(time.Minute)
	}

	client := central.NewClient(cfg.Central, log, collector)

	alertService := service.NewAlertService(client, client, service.AlertServiceOptions{
		ResolverID:      cfg.Dashboard.ResolverID,
		ClipPublicHost:  cfg.Dashboard.ClipPublicHost,
		Location:        normalizer.KST,
		BulkConcurrency: cfg.Dashboard.BulkConcurrency,
	}, collector, log)
	paymentService := service.NewPaymentService(client, client, normalizer.KST, log)
	storeService := service.NewStoreService(client, kv, service.StoreServiceOptions{
		DefaultStoreCode: cfg.Dashboard.DefaultStoreCode,
		CacheTTL:         cfg.Cache.TTL,
		Location:         normalizer.KST,
	}, log)

	router := httpapi.NewRouter(log)
	router.RegisterAlertRoutes(httpapi.NewAlertHandler(alertService, log))
	router.RegisterPaymentRoutes(httpapi.NewPaymentHandler(paymentService, log))
	router.RegisterStoreRoutes(httpapi.NewStoreHandler(storeService, log))
	router.RegisterOpsRoutes(metricsHandler)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Warn("Graceful shutdown failed", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
