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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alexjj/wen-goat/internal/api"
	"github.com/alexjj/wen-goat/internal/cache"
	"github.com/alexjj/wen-goat/internal/config"
	"github.com/alexjj/wen-goat/internal/domain"
	"github.com/alexjj/wen-goat/internal/events"
	"github.com/alexjj/wen-goat/internal/logging"
	"github.com/alexjj/wen-goat/internal/sota"
	httptransport "github.com/alexjj/wen-goat/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	var store cache.Store = cache.NewMemoryStore()
	if cfg.Cache.Redis.Addr != "" {
		client := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		defer client.Close()
		store = cache.NewRedisStore(client, cfg.Cache.Redis.Prefix)
		logger.Info("using redis cache", zap.String("addr", cfg.Cache.Redis.Addr))
	}

	upstream := sota.NewCachingClient(sota.NewClient(sota.Config{
		ActivatorsBaseURL: cfg.Upstream.ActivatorsBaseURL,
		SOTAAPIBaseURL:    cfg.Upstream.SOTAAPIBaseURL,
		Timeout:           cfg.Upstream.Timeout,
	}), store, logger)

	opts := []domain.ServiceOption{domain.WithLogger(logger)}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		opts = append(opts, domain.WithPublisher(events.NewPublisher(producer, cfg.Kafka.PublishTimeout)))
		logger.Info("publishing evaluations", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", producer.Topic()))
	}
	service := domain.NewService(upstream, upstream, opts...)

	handler := api.NewHandler(service, cfg.Projection.DefaultWeeklyRate, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTP.Address,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, httptransport.Chain(mux,
		httptransport.RequestID(),
		httptransport.Logging(logger),
		httptransport.CORS(cfg.CORS.AllowedOrigin),
	))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("wen-goat api listening", zap.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
