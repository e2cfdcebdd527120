package services

import (
	"context"
	"time"

	"example.com/galleria/services/exhibition/internal/cache"
	"example.com/galleria/services/exhibition/internal/messaging"
	"example.com/galleria/services/exhibition/internal/metrics"
	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"
	"example.com/galleria/services/exhibition/internal/search"
	"example.com/galleria/services/exhibition/internal/tracing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const exhibitionCacheTTL = 5 * time.Minute

// ExhibitionService owns the exhibition aggregate root: creation, partial
// updates, the lifecycle state machine and the search facade
type ExhibitionService struct {
	exhibitions repositories.ExhibitionRepository
	history     repositories.HistoryRepository
	cache       *cache.RedisCache
	search      *search.ElasticClient
	publisher   messaging.TransitionPublisher
	metrics     *metrics.Metrics
	tracer      tracing.Tracer
	now         func() time.Time
}

// NewExhibitionService creates a new exhibition service
func NewExhibitionService(
	db *gorm.DB,
	readOnlyDB *gorm.DB,
	redisCache *cache.RedisCache,
	elasticClient *search.ElasticClient,
	publisher messaging.TransitionPublisher,
	metricsCollector *metrics.Metrics,
	tracer tracing.Tracer,
) *ExhibitionService {
	return &ExhibitionService{
		exhibitions: repositories.NewExhibitionRepository(db, readOnlyDB),
		history:     repositories.NewHistoryRepository(db, readOnlyDB),
		cache:       redisCache,
		search:      elasticClient,
		publisher:   publisher,
		metrics:     metricsCollector,
		tracer:      tracer,
		now:         time.Now,
	}
}

// CreateExhibitionInput carries the fields accepted on creation
type CreateExhibitionInput struct {
	Title        string
	Subtitle     *string
	Slug         *string
	Description  *string
	Theme        *string
	Type         models.ExhibitionType
	PlanningDate *time.Time
	OpeningDate  *time.Time
	ClosingDate  *time.Time
	VenueID      *uuid.UUID
	VenueName    *string
	CuratorID    *uuid.UUID
	CuratorName  *string
	Budget       *float64
}

// ExhibitionPatch enumerates the mutable fields for partial updates.
// Identity, audit fields and status are not patchable; status only moves
// through TransitionStatus.
type ExhibitionPatch struct {
	Title        *string
	Subtitle     *string
	Description  *string
	Theme        *string
	Type         *models.ExhibitionType
	PlanningDate *time.Time
	OpeningDate  *time.Time
	ClosingDate  *time.Time
	VenueID      *uuid.UUID
	VenueName    *string
	CuratorID    *uuid.UUID
	CuratorName  *string
	Budget       *float64
}

func (p ExhibitionPatch) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Subtitle != nil {
		fields["subtitle"] = *p.Subtitle
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Theme != nil {
		fields["theme"] = *p.Theme
	}
	if p.Type != nil {
		fields["exhibition_type"] = *p.Type
	}
	if p.PlanningDate != nil {
		fields["planning_date"] = *p.PlanningDate
	}
	if p.OpeningDate != nil {
		fields["opening_date"] = *p.OpeningDate
	}
	if p.ClosingDate != nil {
		fields["closing_date"] = *p.ClosingDate
	}
	if p.VenueID != nil {
		fields["venue_id"] = *p.VenueID
	}
	if p.VenueName != nil {
		fields["venue_name"] = *p.VenueName
	}
	if p.CuratorID != nil {
		fields["curator_id"] = *p.CuratorID
	}
	if p.CuratorName != nil {
		fields["curator_name"] = *p.CuratorName
	}
	if p.Budget != nil {
		fields["budget"] = *p.Budget
	}
	return fields
}

// SearchResult is one page of search matches plus the total match count
type SearchResult struct {
	Total   int64               `json:"total"`
	Results []models.Exhibition `json:"results"`
}

// CreateExhibition creates an exhibition in the concept state and logs
// the creation transition
func (s *ExhibitionService) CreateExhibition(ctx context.Context, input CreateExhibitionInput, actorID uuid.UUID) (*models.Exhibition, error) {
	txn := s.tracer.StartTransaction("create-exhibition")
	defer s.tracer.EndTransaction(txn)

	if input.Title == "" {
		return nil, errors.Wrap(ErrValidation, "title is required")
	}

	exhibitionType := input.Type
	if exhibitionType == "" {
		exhibitionType = models.TypeTemporary
	}

	var slug string
	var err error
	if input.Slug != nil && *input.Slug != "" {
		slug = Slugify(*input.Slug)
	} else {
		slug, err = UniqueSlug(ctx, input.Title, s.exhibitions.SlugExists)
		if err != nil {
			return nil, err
		}
	}

	exhibition := &models.Exhibition{
		ID:           uuid.New(),
		Title:        input.Title,
		Subtitle:     input.Subtitle,
		Slug:         slug,
		Description:  input.Description,
		Theme:        input.Theme,
		Type:         exhibitionType,
		Status:       models.StatusConcept,
		PlanningDate: input.PlanningDate,
		OpeningDate:  input.OpeningDate,
		ClosingDate:  input.ClosingDate,
		VenueID:      input.VenueID,
		VenueName:    input.VenueName,
		CuratorID:    input.CuratorID,
		CuratorName:  input.CuratorName,
		Budget:       input.Budget,
		CreatedBy:    actorID,
	}

	if err := s.exhibitions.Create(ctx, exhibition); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	// The implicit null -> concept transition is part of the ledger too
	entry := &models.StatusHistory{
		ID:           uuid.New(),
		ExhibitionID: exhibition.ID,
		FromStatus:   nil,
		ToStatus:     models.StatusConcept,
		ChangedBy:    actorID,
		Reason:       "Exhibition created",
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.indexExhibition(ctx, exhibition)

	log.Info().
		Str("exhibition_id", exhibition.ID.String()).
		Str("slug", exhibition.Slug).
		Msg("Exhibition created")

	return exhibition, nil
}

// GetExhibition loads an exhibition, optionally with all its sub-trees.
// Plain reads go through the cache; detailed reads always hit the store.
func (s *ExhibitionService) GetExhibition(ctx context.Context, id uuid.UUID, includeDetails bool) (*models.Exhibition, error) {
	if !includeDetails && s.cache != nil {
		var cached models.Exhibition
		if err := s.cache.Get(ctx, cache.GetExhibitionCacheKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	exhibition, err := s.exhibitions.GetByID(ctx, id, includeDetails)
	if err != nil {
		return nil, err
	}

	if !includeDetails && s.cache != nil {
		if err := s.cache.Set(ctx, cache.GetExhibitionCacheKey(id), exhibition, exhibitionCacheTTL); err != nil {
			log.Debug().Err(err).Msg("Failed to cache exhibition")
		}
	}

	return exhibition, nil
}

// UpdateExhibition applies a partial update. Status is deliberately not
// reachable through this path.
func (s *ExhibitionService) UpdateExhibition(ctx context.Context, id uuid.UUID, patch ExhibitionPatch, actorID uuid.UUID) error {
	fields := patch.fields()
	if len(fields) == 0 {
		return errors.Wrap(ErrValidation, "no fields to update")
	}
	if title, ok := fields["title"]; ok && title == "" {
		return errors.Wrap(ErrValidation, "title cannot be empty")
	}
	fields["updated_by"] = actorID

	if err := s.exhibitions.Update(ctx, id, fields); err != nil {
		return err
	}

	s.invalidate(ctx, id)

	if exhibition, err := s.exhibitions.GetByID(ctx, id, false); err == nil {
		s.indexExhibition(ctx, exhibition)
	}

	return nil
}

// TransitionStatus moves an exhibition along the lifecycle table. It is
// the only mutation path for status. The conditional write and the
// ledger append happen in one transaction; losing a concurrent race
// returns repositories.ErrStaleStatus with nothing written.
func (s *ExhibitionService) TransitionStatus(ctx context.Context, id uuid.UUID, newStatus models.ExhibitionStatus, actorID uuid.UUID, reason string) (*models.Exhibition, error) {
	txn := s.tracer.StartTransaction("transition-status")
	defer s.tracer.EndTransaction(txn)

	if !IsValidStatus(newStatus) {
		return nil, errors.Wrapf(ErrInvalidTransition, "unknown status %q", newStatus)
	}

	exhibition, err := s.exhibitions.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	from := exhibition.Status
	if !CanTransition(from, newStatus) {
		s.metrics.IncrementCounter(metrics.CounterInvalidTransitions)
		return nil, errors.Wrapf(ErrInvalidTransition, "%s -> %s", from, newStatus)
	}

	// An exhibition cannot begin closing before it has opened
	if from == models.StatusOpen && newStatus == models.StatusClosing &&
		exhibition.OpeningDate != nil && exhibition.ClosingDate != nil &&
		exhibition.ClosingDate.Before(*exhibition.OpeningDate) {
		return nil, errors.Wrap(ErrValidation, "closing date precedes opening date")
	}

	entry := &models.StatusHistory{
		ID:           uuid.New(),
		ExhibitionID: id,
		FromStatus:   &from,
		ToStatus:     newStatus,
		ChangedBy:    actorID,
		Reason:       reason,
	}

	if err := s.exhibitions.Transition(ctx, id, from, newStatus, entry); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.metrics.IncrementCounter(metrics.CounterTransitions)
	s.invalidate(ctx, id)

	exhibition.Status = newStatus
	s.indexExhibition(ctx, exhibition)
	s.publishTransition(ctx, exhibition, &from, newStatus, actorID, reason)

	log.Info().
		Str("exhibition_id", id.String()).
		Str("from", string(from)).
		Str("to", string(newStatus)).
		Str("actor", actorID.String()).
		Msg("Exhibition status transitioned")

	return exhibition, nil
}

// SearchExhibitions returns a page of exhibitions matching the filter
func (s *ExhibitionService) SearchExhibitions(ctx context.Context, filter repositories.ExhibitionFilter) (*SearchResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	// Date columns hold midnight values; the current/upcoming predicates
	// compare on calendar days
	filter.Now = toDate(s.now())

	results, total, err := s.exhibitions.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter(metrics.CounterSearches)

	return &SearchResult{
		Total:   total,
		Results: results,
	}, nil
}

// GetStatusHistory returns the transition ledger of an exhibition,
// oldest first
func (s *ExhibitionService) GetStatusHistory(ctx context.Context, id uuid.UUID) ([]models.StatusHistory, error) {
	if _, err := s.exhibitions.GetByID(ctx, id, false); err != nil {
		return nil, err
	}
	return s.history.ListByExhibition(ctx, id)
}

func (s *ExhibitionService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.GetExhibitionCacheKey(id)); err != nil {
		log.Debug().Err(err).Msg("Failed to invalidate exhibition cache")
	}
	if err := s.cache.Delete(ctx, cache.GetExhibitionStatsCacheKey(id)); err != nil {
		log.Debug().Err(err).Msg("Failed to invalidate exhibition stats cache")
	}
}

// indexExhibition updates the search index; failures are logged and never
// fail the primary operation
func (s *ExhibitionService) indexExhibition(ctx context.Context, exhibition *models.Exhibition) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexExhibition(ctx, exhibition); err != nil {
		log.Warn().
			Err(err).
			Str("exhibition_id", exhibition.ID.String()).
			Msg("Failed to index exhibition")
	}
}

// publishTransition notifies downstream consumers; fire-and-forget
func (s *ExhibitionService) publishTransition(ctx context.Context, exhibition *models.Exhibition, from *models.ExhibitionStatus, to models.ExhibitionStatus, actorID uuid.UUID, reason string) {
	if s.publisher == nil {
		return
	}
	event := messaging.TransitionEvent{
		ExhibitionID: exhibition.ID,
		Slug:         exhibition.Slug,
		FromStatus:   from,
		ToStatus:     to,
		ChangedBy:    actorID,
		Reason:       reason,
		OccurredAt:   s.now(),
	}
	if err := s.publisher.PublishTransition(ctx, event); err != nil {
		log.Warn().
			Err(err).
			Str("exhibition_id", exhibition.ID.String()).
			Msg("Failed to publish transition event")
	}
}
