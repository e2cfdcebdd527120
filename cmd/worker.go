package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"example.com/galleria/services/exhibition/config"
	"example.com/galleria/services/exhibition/internal/cache"
	"example.com/galleria/services/exhibition/internal/database"
	"example.com/galleria/services/exhibition/internal/metrics"
	"example.com/galleria/services/exhibition/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that refreshes programme statistics and sweeps placements for availability conflicts`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
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

	// Create an error group to manage goroutines
	g, ctx := errgroup.WithContext(ctx)

	// Initialize database connections
	db, readOnlyDB, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}

	// Initialize cache
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	// Initialize metrics
	metricsCollector := metrics.NewMetrics()

	// Initialize services
	statisticsService := services.NewStatisticsService(db, readOnlyDB, redisCache)
	compositionService := services.NewCompositionService(db, readOnlyDB, cfg.Availability, metricsCollector)

	// Run the scheduled jobs
	g.Go(func() error {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		// Keep the platform statistics cache warm so dashboard reads never
		// pay the aggregate cost
		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.StatsRefreshInterval),
			gocron.NewTask(func() {
				if _, err := statisticsService.RefreshPlatformStatistics(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to refresh platform statistics")
				}
			}),
		)
		if err != nil {
			return err
		}

		// Re-check placements for conflicts that appeared after placement
		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.ConflictSweepInterval),
			gocron.NewTask(func() {
				conflicted, err := compositionService.SweepConflicts(ctx)
				if err != nil {
					log.Error().Err(err).Msg("Conflict sweep failed")
					return
				}
				log.Info().Int("conflicted_placements", conflicted).Msg("Conflict sweep finished")
			}),
		)
		if err != nil {
			return err
		}

		log.Info().
			Dur("stats_refresh_interval", cfg.Worker.StatsRefreshInterval).
			Dur("conflict_sweep_interval", cfg.Worker.ConflictSweepInterval).
			Msg("Starting scheduled jobs")
		scheduler.Start()

		// Wait for context cancellation
		<-ctx.Done()

		return scheduler.Shutdown()
	})

	// Wait for any goroutine to exit
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
