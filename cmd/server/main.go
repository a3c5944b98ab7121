package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/brastec/rep-locator/internal/adapter/httpapi"
	kafkaadapter "github.com/brastec/rep-locator/internal/adapter/kafka"
	"github.com/brastec/rep-locator/internal/adapter/opencage"
	"github.com/brastec/rep-locator/internal/adapter/viacep"
	"github.com/brastec/rep-locator/internal/config"
	"github.com/brastec/rep-locator/internal/domain"
	"github.com/brastec/rep-locator/internal/observability"
	"github.com/brastec/rep-locator/internal/reply"
	"github.com/brastec/rep-locator/internal/resolve"
	"github.com/brastec/rep-locator/internal/roster"
	"github.com/brastec/rep-locator/internal/rules"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	lookup := viacep.NewClient(cfg.ViaCEPBaseURL, cfg.ViaCEPTimeout, metrics, logger)

	geocoder := opencage.NewCachedGeocoder(
		opencage.NewClient(cfg.OpenCageKey, cfg.OpenCageBaseURL, cfg.OpenCageTimeout, metrics, logger),
		cfg.GeocodeCacheSize,
		metrics,
	)

	ruleTable, err := rules.Load(cfg.RulesPath)
	if err != nil {
		logger.Error("failed to load rule table", "path", cfg.RulesPath, "error", err)
		os.Exit(1)
	}

	source, err := roster.NewSource(cfg.RosterPath, cfg.RosterFormat)
	if err != nil {
		logger.Error("invalid roster source", "path", cfg.RosterPath, "error", err)
		os.Exit(1)
	}
	store, err := roster.NewStore(source, metrics, logger)
	if err != nil {
		logger.Error("failed to load roster", "path", cfg.RosterPath, "error", err)
		os.Exit(1)
	}

	resolver := resolve.New(lookup, geocoder, ruleTable, store, resolve.Options{
		NearestCutoffKm: cfg.NearestCutoffKm,
		FallbackAll:     cfg.NearestFallbackAllStates,
	}, logger, metrics)

	var apiResolver httpapi.Resolver = resolver

	// Optional decision publisher (feature-flagged via KAFKA_ENABLED).
	var publisher *kafkaadapter.DecisionPublisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewDecisionPublisher(cfg.KafkaBrokers, cfg.KafkaDecisionsTopic, metrics, logger)
		apiResolver = &publishingResolver{next: resolver, publisher: publisher}
		logger.Info("decision publishing enabled", "topic", cfg.KafkaDecisionsTopic)
	}

	formatter := reply.Formatter{
		SupportName:  cfg.SupportName,
		SupportPhone: cfg.SupportPhone,
		CutoffKm:     cfg.NearestCutoffKm,
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, apiResolver, formatter, resolver, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SIGHUP reloads the roster without a restart.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			if err := store.Reload(); err != nil {
				logger.Error("roster reload failed", "error", err)
				continue
			}
			logger.Info("roster reloaded", "size", len(store.Current()))
		}
	}()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// publishingResolver emits each resolution to Kafka after resolving. The
// publish happens off the request path so a slow broker never delays the
// webhook reply.
type publishingResolver struct {
	next      *resolve.Resolver
	publisher *kafkaadapter.DecisionPublisher
}

func (p *publishingResolver) Resolve(ctx context.Context, rawCEP string) domain.Resolution {
	res := p.next.Resolve(ctx, rawCEP)
	go func() {
		publishCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = p.publisher.Publish(publishCtx, res)
	}()
	return res
}
