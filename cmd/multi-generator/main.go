package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/cache"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/config"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/hub"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/multi"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/pipeline"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/poller"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/providers/theoddsapi"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/registry"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/report"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/weighting"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config (optional)")
	once := flag.Bool("once", false, "generate multis once, print them and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logs, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to configure logging: %v\n", err)
		os.Exit(1)
	}
	log := logs.WithComponent("main")

	if err := run(cfg, logs, *once); err != nil {
		log.WithError(err).Fatal("multi-generator stopped")
	}
}

func run(cfg *config.Config, logs *logger.Log, once bool) error {
	log := logs.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sports := registry.NewDefault()
	if len(cfg.Sports) > 0 {
		custom, err := registry.FromSports(cfg.Sports)
		if err != nil {
			return fmt.Errorf("sports registry: %w", err)
		}
		sports = custom
	}

	weights, err := weighting.New(cfg.Weighting.Method, cfg.Weighting.Temperature, cfg.Weighting.Floor,
		cfg.Weighting.Ceiling, cfg.Weighting.MinSamples, cfg.Weighting.Performance)
	if err != nil {
		return fmt.Errorf("weighting: %w", err)
	}

	if cfg.OddsAPI.APIKey == "" {
		log.Warn("ODDS_API_KEY is not set, upstream requests will be rejected")
	}
	source := theoddsapi.New(theoddsapi.Options{
		BaseURL:    cfg.OddsAPI.BaseURL,
		APIKey:     cfg.OddsAPI.APIKey,
		Regions:    cfg.OddsAPI.Regions,
		Markets:    cfg.OddsAPI.Markets,
		OddsFormat: cfg.OddsAPI.OddsFormat,
		RatePerSec: cfg.OddsAPI.RatePerSec,
		Burst:      cfg.OddsAPI.Burst,
		Timeout:    cfg.OddsAPI.Timeout,
		MaxRetries: cfg.OddsAPI.MaxRetries,
	}, logs.WithComponent("odds"))

	svc := pipeline.New(sports, source, weights,
		multi.NewGenerator(multi.Config{OneLegPerEvent: cfg.Multi.LegPerEvent()}),
		pipeline.Options{
			MinProbability: cfg.Multi.MinProbability,
			Window:         cfg.Multi.Window(),
			EnabledSports:  cfg.EnabledSports,
			Concurrency:    cfg.OddsAPI.Concurrency,
			MaxQuoteAge:    cfg.Multi.MaxQuoteAge,
		}, logs.WithComponent("service"))

	log.WithFields(logger.Fields{
		"registered":      sports.Count(),
		"sports":          len(svc.Leagues()),
		"min_probability": svc.MinProbability(),
		"weighting":       cfg.Weighting.Method,
	}).Info("pipeline ready")

	if once {
		report.NewConsole(os.Stdout).PrintGeneration(svc.Multis(ctx, time.Now().UTC()))
		return nil
	}

	broadcaster := hub.NewHub(logs.WithComponent("ws"))
	go broadcaster.Run(ctx)

	pollerOpts := poller.Options{
		Interval:    cfg.Poller.Interval,
		CacheTTL:    cfg.Cache.Multis,
		Broadcaster: broadcaster,
	}
	handlerOpts := []handlers.Option{handlers.WithHealthCheck("odds_api", source)}

	if cfg.Redis.Enabled() {
		redisClient, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		log.Info("connected to redis")

		responses := cache.NewRedisCache(redisClient)
		// responses cached by a previous run may reflect other settings
		if err := responses.Invalidate(ctx); err != nil {
			log.WithError(err).Warn("failed to clear cached responses")
		}
		pollerOpts.Store = responses
		pollerOpts.Publisher = publisher.NewStreamPublisher(redisClient)
		handlerOpts = append(handlerOpts, handlers.WithCache(responses), handlers.WithHealthCheck("redis", responses))
	} else {
		log.Info("redis disabled, serving uncached responses")
	}

	if cfg.Poller.IsEnabled() {
		p := poller.New(svc, pollerOpts, logs.WithComponent("poller"))
		handlerOpts = append(handlerOpts, handlers.WithLatest(p))
		go p.Run(ctx)
	}

	handler := handlers.NewHandler(svc, cfg.Cache, logs.WithComponent("api"), handlerOpts...)
	ws := handlers.NewWSHandler(ctx, broadcaster, cfg.Server.CORSOrigins, logs.WithComponent("ws"))

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handlers.NewRouter(handler, ws, handlers.RouterOptions{
			CORSOrigins:    cfg.Server.CORSOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		}, logs.WithComponent("api")),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("multi-generator listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}

	case <-ctx.Done():
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("graceful shutdown failed")
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
	}

	log.Info("shutdown complete")
	return nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return client, nil
}
