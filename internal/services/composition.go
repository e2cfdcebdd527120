package services

import (
	"context"
	"time"

	"example.com/galleria/services/exhibition/config"
	"example.com/galleria/services/exhibition/internal/metrics"
	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CompositionService manages everything hanging off an exhibition:
// sections, object placements, storylines, events and checklists
type CompositionService struct {
	exhibitions  repositories.ExhibitionRepository
	sections     repositories.SectionRepository
	placements   repositories.PlacementRepository
	storylines   repositories.StorylineRepository
	events       repositories.EventRepository
	checklists   repositories.ChecklistRepository
	catalogue    repositories.CatalogueReader
	availability *AvailabilityChecker
	metrics      *metrics.Metrics

	// When set, a placement with conflicts is rejected instead of created
	blockOnConflict bool

	now func() time.Time
}

// NewCompositionService creates a new composition service
func NewCompositionService(
	db *gorm.DB,
	readOnlyDB *gorm.DB,
	availabilityCfg config.AvailabilityConfig,
	metricsCollector *metrics.Metrics,
) *CompositionService {
	placements := repositories.NewPlacementRepository(db, readOnlyDB)
	return &CompositionService{
		exhibitions:     repositories.NewExhibitionRepository(db, readOnlyDB),
		sections:        repositories.NewSectionRepository(db, readOnlyDB),
		placements:      placements,
		storylines:      repositories.NewStorylineRepository(db, readOnlyDB),
		events:          repositories.NewEventRepository(db, readOnlyDB),
		checklists:      repositories.NewChecklistRepository(db, readOnlyDB),
		catalogue:       repositories.NewCatalogueReader(readOnlyDB),
		availability:    NewAvailabilityChecker(placements, repositories.NewLoanReader(readOnlyDB), metricsCollector),
		metrics:         metricsCollector,
		blockOnConflict: availabilityCfg.BlockOnConflict,
		now:             time.Now,
	}
}

// SectionInput carries the fields accepted when creating a section
type SectionInput struct {
	Name           string
	Description    *string
	TemperatureMin *float64
	TemperatureMax *float64
	HumidityMin    *float64
	HumidityMax    *float64
	LuxMax         *float64
}

// AddSection appends a section to the end of the exhibition's ordering
func (s *CompositionService) AddSection(ctx context.Context, exhibitionID uuid.UUID, input SectionInput) (*models.Section, error) {
	if input.Name == "" {
		return nil, errors.Wrap(ErrValidation, "section name is required")
	}

	if _, err := s.exhibitions.GetByID(ctx, exhibitionID, false); err != nil {
		return nil, err
	}

	sequence, err := s.sections.NextSequence(ctx, exhibitionID)
	if err != nil {
		return nil, err
	}

	section := &models.Section{
		ID:             uuid.New(),
		ExhibitionID:   exhibitionID,
		Name:           input.Name,
		Description:    input.Description,
		SequenceOrder:  sequence,
		TemperatureMin: input.TemperatureMin,
		TemperatureMax: input.TemperatureMax,
		HumidityMin:    input.HumidityMin,
		HumidityMax:    input.HumidityMax,
		LuxMax:         input.LuxMax,
	}

	if err := s.sections.Create(ctx, section); err != nil {
		return nil, err
	}

	log.Info().
		Str("exhibition_id", exhibitionID.String()).
		Str("section_id", section.ID.String()).
		Int("sequence_order", section.SequenceOrder).
		Msg("Section added")

	return section, nil
}

// UpdateSection applies a partial update to a section
func (s *CompositionService) UpdateSection(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return errors.Wrap(ErrValidation, "no fields to update")
	}
	delete(fields, "exhibition_id")
	delete(fields, "sequence_order")
	return s.sections.Update(ctx, id, fields)
}

// ListSections returns the exhibition's sections in display order
func (s *CompositionService) ListSections(ctx context.Context, exhibitionID uuid.UUID) ([]models.Section, error) {
	return s.sections.ListByExhibition(ctx, exhibitionID)
}

// ReorderSections rewrites the display order to match orderedIDs, which
// must be a permutation of the exhibition's section ids
func (s *CompositionService) ReorderSections(ctx context.Context, exhibitionID uuid.UUID, orderedIDs []uuid.UUID) error {
	existing, err := s.sections.ListByExhibition(ctx, exhibitionID)
	if err != nil {
		return err
	}
	if err := validatePermutation(existing, orderedIDs, func(section models.Section) uuid.UUID {
		return section.ID
	}); err != nil {
		return err
	}
	return s.sections.Reorder(ctx, exhibitionID, orderedIDs)
}

// DeleteSection removes a section. Its placements stay on the exhibition,
// detached from any section.
func (s *CompositionService) DeleteSection(ctx context.Context, id uuid.UUID) error {
	if err := s.sections.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("section_id", id.String()).Msg("Section deleted, placements detached")
	return nil
}

// validatePermutation checks that orderedIDs contains exactly the ids of
// the existing rows, each once
func validatePermutation[T any](existing []T, orderedIDs []uuid.UUID, idOf func(T) uuid.UUID) error {
	if len(orderedIDs) != len(existing) {
		return errors.Wrapf(ErrValidation, "expected %d ids, got %d", len(existing), len(orderedIDs))
	}

	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return errors.Wrapf(ErrValidation, "duplicate id %s in ordering", id)
		}
		seen[id] = true
	}

	for _, row := range existing {
		if !seen[idOf(row)] {
			return errors.Wrapf(ErrValidation, "ordering is missing id %s", idOf(row))
		}
	}
	return nil
}
