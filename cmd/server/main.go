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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/parkpilot/location-core/internal/api"
	"github.com/parkpilot/location-core/internal/catalog"
	"github.com/parkpilot/location-core/internal/config"
	"github.com/parkpilot/location-core/internal/dispatch"
	"github.com/parkpilot/location-core/internal/engine"
	"github.com/parkpilot/location-core/internal/recommend"
	"github.com/parkpilot/location-core/internal/registry"
	"github.com/parkpilot/location-core/internal/store"
	"github.com/parkpilot/location-core/internal/stream"
	"github.com/parkpilot/location-core/internal/tracing"
	"github.com/parkpilot/location-core/internal/track"
	"github.com/parkpilot/location-core/internal/weather"
)

func main() {
	// Initialize structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting location-core service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set log level
	setLogLevel(cfg.LogLevel)

	log.Info().
		Str("service_name", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("http_port", cfg.HTTPPort).
		Str("vacation_api", cfg.VacationAPIURL).
		Strs("kafka_brokers", cfg.KafkaBrokers).
		Str("kafka_topic", cfg.KafkaTopic).
		Str("catalog_path", cfg.CatalogPath).
		Msg("Configuration loaded")

	// Initialize tracing
	shutdownTracing, err := tracing.InitTracer(tracing.Config{
		ServiceName:      cfg.ServiceName,
		ServiceNamespace: "parkpilot",
		ServiceVersion:   "1.0.0",
		Environment:      cfg.Environment,
		OTLPEndpoint:     cfg.OTELEndpoint,
		Enabled:          cfg.OTELEndpoint != "",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	// Load the POI catalog
	poiCatalog, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load POI catalog")
	}
	log.Info().
		Int("attractions", len(poiCatalog.Attractions())).
		Int("dining", len(poiCatalog.Dining())).
		Int("shows", len(poiCatalog.Shows())).
		Msg("POI catalog loaded")

	// Vacation store client for geofence definitions
	vacationStore := store.NewHTTPStore(cfg.VacationAPIURL, cfg.VacationAPIKey, 10*time.Second)

	// Alert persistence: prefer the local database, fall back to posting
	// alerts through the vacation store API
	var alertStore store.AlertStore = vacationStore
	var alertReader api.AlertReader
	var pinger api.Pinger

	pgStore, err := store.NewPostgresAlertStore(cfg.DatabaseDSN())
	if err != nil {
		log.Warn().Err(err).Msg("Alert database unavailable, persisting alerts via vacation store API")
	} else {
		defer func() { _ = pgStore.Close() }()
		alertStore = pgStore
		alertReader = pgStore
		pinger = pgStore
		log.Info().Msg("Alert database connection established")
	}

	// Kafka event stream
	publisher := stream.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka publisher")
		}
	}()

	// Assemble the geofencing pipeline
	dispatcher := dispatch.New(alertStore, nil, nil, publisher)
	tracker := track.NewTracker()
	reg := registry.New(vacationStore)
	geofencing := engine.New(reg, tracker, dispatcher)

	// Recommendation engine over the catalog and the live weather feed
	weatherClient := weather.NewClient(cfg.WeatherURL, cfg.WeatherTimeout)
	recommender := recommend.NewEngine(poiCatalog, weatherClient, tracker)

	// HTTP server
	apiServer := api.NewServer(geofencing, recommender, alertReader, pinger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           apiServer.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutdown signal received, gracefully stopping...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP shutdown did not complete cleanly")
	} else {
		log.Info().Msg("HTTP server stopped")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown tracing")
	}

	log.Info().Msg("Service shutdown complete")
}

// setLogLevel configures the global log level
func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Str("level", level).Msg("Log level set")
}
