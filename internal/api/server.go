package api

import (
	"context"
	"net/http"
	"time"

	"example.com/galleria/services/exhibition/config"
	"example.com/galleria/services/exhibition/internal/api/handlers"
	"example.com/galleria/services/exhibition/internal/api/middleware"
	"example.com/galleria/services/exhibition/internal/metrics"
	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/services"
	"example.com/galleria/services/exhibition/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Server represents the HTTP server
type Server struct {
	config      config.Config
	router      *gin.Engine
	httpServer  *http.Server
	exhibitions *services.ExhibitionService
	composition *services.CompositionService
	statistics  *services.StatisticsService
	metrics     *metrics.Metrics
	tracer      tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	exhibitions *services.ExhibitionService,
	composition *services.CompositionService,
	statistics *services.StatisticsService,
	metricsCollector *metrics.Metrics,
	tracer tracing.Tracer,
) *Server {
	server := &Server{
		config:      cfg,
		exhibitions: exhibitions,
		composition: composition,
		statistics:  statistics,
		metrics:     metricsCollector,
		tracer:      tracer,
	}

	registerValidations()
	server.router = server.setupRouter()

	server.httpServer = &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: server.router,
	}

	return server
}

// registerValidations adds the domain enum validations used in binding tags
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("exhibition_status", func(fl validator.FieldLevel) bool {
		return services.IsValidStatus(models.ExhibitionStatus(fl.Field().String()))
	})
	_ = v.RegisterValidation("exhibition_type", func(fl validator.FieldLevel) bool {
		switch models.ExhibitionType(fl.Field().String()) {
		case models.TypePermanent, models.TypeTemporary, models.TypeTraveling, models.TypeOnline, models.TypePopUp:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("placement_status", func(fl validator.FieldLevel) bool {
		switch models.PlacementStatus(fl.Field().String()) {
		case models.PlacementProposed, models.PlacementConfirmed, models.PlacementOnLoanRequest,
			models.PlacementInstalled, models.PlacementRemoved, models.PlacementReturned:
			return true
		}
		return false
	})
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	metricsHandler := handlers.NewMetricsHandler(s.metrics, s.tracer)
	metricsHandler.RegisterRoutes(router)

	api := router.Group("/api/v1")

	exhibitionHandler := handlers.NewExhibitionHandler(s.exhibitions, s.tracer)
	exhibitionHandler.RegisterRoutes(api)

	compositionHandler := handlers.NewCompositionHandler(s.composition, s.tracer)
	compositionHandler.RegisterRoutes(api)

	statisticsHandler := handlers.NewStatisticsHandler(s.statistics, s.tracer)
	statisticsHandler.RegisterRoutes(api)

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
