package services

import (
	"context"

	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// placeholderObjectTitle stands in for stops whose placement no longer
// resolves to a catalogued object
const placeholderObjectTitle = "Object no longer on display"

// StorylineInput carries the fields accepted when creating a storyline
type StorylineInput struct {
	Title         string
	Slug          *string
	Description   *string
	NarrativeType string
	IsPrimary     bool
}

// StopInput carries the fields accepted when adding a storyline stop
type StopInput struct {
	PlacementID *uuid.UUID
	Title       string
	Content     *string
	StopNumber  string
}

// StopView is a storyline stop hydrated with its placement and the
// catalogued object's display title
type StopView struct {
	Stop        models.StorylineStop    `json:"stop"`
	Placement   *models.ObjectPlacement `json:"placement,omitempty"`
	ObjectTitle string                  `json:"object_title,omitempty"`
}

// StorylineView is a storyline with its stops hydrated in order
type StorylineView struct {
	Storyline models.Storyline `json:"storyline"`
	Stops     []StopView       `json:"stops"`
}

// CreateStoryline creates a storyline at the end of the exhibition's
// storyline ordering
func (s *CompositionService) CreateStoryline(ctx context.Context, exhibitionID uuid.UUID, input StorylineInput) (*models.Storyline, error) {
	if input.Title == "" {
		return nil, errors.Wrap(ErrValidation, "storyline title is required")
	}

	if _, err := s.exhibitions.GetByID(ctx, exhibitionID, false); err != nil {
		return nil, err
	}

	var slug string
	var err error
	if input.Slug != nil && *input.Slug != "" {
		slug = Slugify(*input.Slug)
	} else {
		slug, err = UniqueSlug(ctx, input.Title, s.storylines.SlugExists)
		if err != nil {
			return nil, err
		}
	}

	sequence, err := s.storylines.NextSequence(ctx, exhibitionID)
	if err != nil {
		return nil, err
	}

	storyline := &models.Storyline{
		ID:            uuid.New(),
		ExhibitionID:  exhibitionID,
		Title:         input.Title,
		Slug:          slug,
		Description:   input.Description,
		NarrativeType: input.NarrativeType,
		IsPrimary:     input.IsPrimary,
		SequenceOrder: sequence,
	}

	if err := s.storylines.Create(ctx, storyline); err != nil {
		return nil, err
	}

	log.Info().
		Str("exhibition_id", exhibitionID.String()).
		Str("storyline_id", storyline.ID.String()).
		Str("slug", storyline.Slug).
		Msg("Storyline created")

	return storyline, nil
}

// UpdateStoryline applies a partial update to a storyline
func (s *CompositionService) UpdateStoryline(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return errors.Wrap(ErrValidation, "no fields to update")
	}
	delete(fields, "exhibition_id")
	delete(fields, "slug")
	return s.storylines.Update(ctx, id, fields)
}

// ListStorylines returns the exhibition's storylines in order
func (s *CompositionService) ListStorylines(ctx context.Context, exhibitionID uuid.UUID) ([]models.Storyline, error) {
	return s.storylines.ListByExhibition(ctx, exhibitionID)
}

// DeleteStoryline removes a storyline and its stops
func (s *CompositionService) DeleteStoryline(ctx context.Context, id uuid.UUID) error {
	return s.storylines.Delete(ctx, id)
}

// AddStop appends a stop to a storyline. A placement reference, when
// given, must point into the same exhibition.
func (s *CompositionService) AddStop(ctx context.Context, storylineID uuid.UUID, input StopInput) (*models.StorylineStop, error) {
	if input.Title == "" {
		return nil, errors.Wrap(ErrValidation, "stop title is required")
	}

	storyline, err := s.storylines.GetByID(ctx, storylineID)
	if err != nil {
		return nil, err
	}

	if input.PlacementID != nil {
		placement, err := s.placements.GetByID(ctx, *input.PlacementID)
		if err != nil {
			return nil, err
		}
		if placement.ExhibitionID != storyline.ExhibitionID {
			return nil, errors.Wrap(ErrValidation, "placement belongs to another exhibition")
		}
	}

	sequence, err := s.storylines.NextStopSequence(ctx, storylineID)
	if err != nil {
		return nil, err
	}

	stop := &models.StorylineStop{
		ID:            uuid.New(),
		StorylineID:   storylineID,
		PlacementID:   input.PlacementID,
		Title:         input.Title,
		Content:       input.Content,
		StopNumber:    input.StopNumber,
		SequenceOrder: sequence,
	}

	if err := s.storylines.CreateStop(ctx, stop); err != nil {
		return nil, err
	}

	return stop, nil
}

// UpdateStop applies a partial update to a stop
func (s *CompositionService) UpdateStop(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return errors.Wrap(ErrValidation, "no fields to update")
	}
	delete(fields, "storyline_id")
	return s.storylines.UpdateStop(ctx, id, fields)
}

// DeleteStop removes one stop from a storyline
func (s *CompositionService) DeleteStop(ctx context.Context, id uuid.UUID) error {
	return s.storylines.DeleteStop(ctx, id)
}

// GetStorylineWithStops loads a storyline and hydrates every stop with
// its placement and object title. A stop whose placement has been removed
// keeps its narrative text and shows a placeholder title.
func (s *CompositionService) GetStorylineWithStops(ctx context.Context, id uuid.UUID) (*StorylineView, error) {
	storyline, err := s.storylines.GetWithStops(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &StorylineView{
		Storyline: *storyline,
		Stops:     make([]StopView, 0, len(storyline.Stops)),
	}

	for _, stop := range storyline.Stops {
		stopView := StopView{Stop: stop}

		if stop.PlacementID != nil {
			placement, err := s.placements.GetByID(ctx, *stop.PlacementID)
			if err != nil {
				if !errors.Is(err, repositories.ErrNotFound) {
					return nil, err
				}
				stopView.ObjectTitle = placeholderObjectTitle
			} else {
				stopView.Placement = placement
				item, err := s.catalogue.GetItem(ctx, placement.ObjectID)
				if err != nil {
					if !errors.Is(err, repositories.ErrNotFound) {
						return nil, err
					}
					stopView.ObjectTitle = placeholderObjectTitle
				} else {
					stopView.ObjectTitle = item.Title
				}
			}
		}

		view.Stops = append(view.Stops, stopView)
	}

	return view, nil
}
