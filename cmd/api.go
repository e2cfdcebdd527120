package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"example.com/galleria/services/exhibition/config"
	"example.com/galleria/services/exhibition/internal/api"
	"example.com/galleria/services/exhibition/internal/cache"
	"example.com/galleria/services/exhibition/internal/database"
	"example.com/galleria/services/exhibition/internal/messaging"
	"example.com/galleria/services/exhibition/internal/metrics"
	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/search"
	"example.com/galleria/services/exhibition/internal/services"
	"example.com/galleria/services/exhibition/internal/tracing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for exhibition lifecycle and placement management`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	// Configure logging
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize database connections
	db, readOnlyDB, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}

	if err := models.SetupModels(db); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	// Initialize cache
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	// Initialize tracer
	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	}

	// Initialize Elasticsearch client
	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search functionality")
	}

	// Initialize transition event publisher
	var publisher messaging.TransitionPublisher
	if cfg.ServiceBus.ConnectionString != "" {
		publisher, err = messaging.NewTransitionPublisher(cfg.ServiceBus)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize transition publisher, continuing without events")
		}
	} else {
		log.Warn().Msg("Service Bus connection string not provided, transition events disabled")
	}

	// Initialize metrics
	metricsCollector := metrics.NewMetrics()

	// Initialize services
	exhibitionService := services.NewExhibitionService(db, readOnlyDB, redisCache, elasticClient, publisher, metricsCollector, tracer)
	compositionService := services.NewCompositionService(db, readOnlyDB, cfg.Availability, metricsCollector)
	statisticsService := services.NewStatisticsService(db, readOnlyDB, redisCache)

	// Initialize and start the server
	server := api.NewServer(cfg, exhibitionService, compositionService, statisticsService, metricsCollector, tracer)

	// Start the server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	// Shutdown the server
	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Publisher shutdown error")
		}
	}

	log.Info().Msg("Shutting down API server")
	return nil
}
