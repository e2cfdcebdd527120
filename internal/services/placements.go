package services

import (
	"context"
	"fmt"

	"example.com/galleria/services/exhibition/internal/metrics"
	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// PlacementInput carries the fields accepted when placing an object
type PlacementInput struct {
	ObjectID       uuid.UUID
	SectionID      *uuid.UUID
	Lighting       *string
	MountType      *string
	SecurityLevel  *string
	InsuranceValue *float64
}

// PlacementResult is a created placement plus the availability report
// computed while creating it. Conflicts are advisory unless the service
// is configured to block on them.
type PlacementResult struct {
	Placement    *models.ObjectPlacement `json:"placement"`
	Availability *AvailabilityReport     `json:"availability"`
}

// ErrObjectUnavailable rejects a placement when conflict blocking is on
var ErrObjectUnavailable = errors.New("object is not available for this exhibition window")

// AddObject places a catalogued object into an exhibition in the proposed
// state, at the end of the target section's ordering. The availability
// check always runs; whether conflicts block is a deployment decision.
func (s *CompositionService) AddObject(ctx context.Context, exhibitionID uuid.UUID, input PlacementInput) (*PlacementResult, error) {
	exhibition, err := s.exhibitions.GetByID(ctx, exhibitionID, false)
	if err != nil {
		return nil, err
	}

	if input.SectionID != nil {
		section, err := s.sections.GetByID(ctx, *input.SectionID)
		if err != nil {
			return nil, err
		}
		if section.ExhibitionID != exhibitionID {
			return nil, errors.Wrap(ErrValidation, "section belongs to another exhibition")
		}
	}

	report, err := s.availability.CheckObject(ctx, input.ObjectID, exhibition)
	if err != nil {
		return nil, err
	}

	if s.blockOnConflict && report.HasConflicts() {
		return &PlacementResult{Availability: report}, errors.Wrapf(ErrObjectUnavailable,
			"%d placement and %d loan conflicts",
			len(report.PlacementConflicts), len(report.LoanConflicts))
	}

	sequence, err := s.placements.NextSequence(ctx, exhibitionID, input.SectionID)
	if err != nil {
		return nil, err
	}

	placement := &models.ObjectPlacement{
		ID:             uuid.New(),
		ExhibitionID:   exhibitionID,
		SectionID:      input.SectionID,
		ObjectID:       input.ObjectID,
		Status:         models.PlacementProposed,
		SequenceOrder:  sequence,
		Lighting:       input.Lighting,
		MountType:      input.MountType,
		SecurityLevel:  input.SecurityLevel,
		InsuranceValue: input.InsuranceValue,
	}

	if err := s.placements.Create(ctx, placement); err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter(metrics.CounterPlacementsCreated)

	log.Info().
		Str("exhibition_id", exhibitionID.String()).
		Str("object_id", input.ObjectID.String()).
		Str("placement_id", placement.ID.String()).
		Int("conflicts", len(report.PlacementConflicts)+len(report.LoanConflicts)).
		Msg("Object placed")

	return &PlacementResult{
		Placement:    placement,
		Availability: report,
	}, nil
}

// PlacementPatch enumerates the mutable display and handling fields of a
// placement. Status only moves through UpdateObjectStatus; a section move
// re-sequences the placement at the end of the target section.
type PlacementPatch struct {
	SectionID      *uuid.UUID
	Lighting       *string
	MountType      *string
	SecurityLevel  *string
	InsuranceValue *float64
}

func (p PlacementPatch) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.SectionID != nil {
		fields["section_id"] = *p.SectionID
	}
	if p.Lighting != nil {
		fields["lighting"] = *p.Lighting
	}
	if p.MountType != nil {
		fields["mount_type"] = *p.MountType
	}
	if p.SecurityLevel != nil {
		fields["security_level"] = *p.SecurityLevel
	}
	if p.InsuranceValue != nil {
		fields["insurance_value"] = *p.InsuranceValue
	}
	return fields
}

// UpdateObject patches a placement's display and handling metadata.
// Moving to another section validates ownership and appends the placement
// to that section's ordering.
func (s *CompositionService) UpdateObject(ctx context.Context, placementID uuid.UUID, patch PlacementPatch) (*models.ObjectPlacement, error) {
	fields := patch.fields()
	if len(fields) == 0 {
		return nil, errors.Wrap(ErrValidation, "no fields to update")
	}

	placement, err := s.placements.GetByID(ctx, placementID)
	if err != nil {
		return nil, err
	}

	if patch.SectionID != nil {
		section, err := s.sections.GetByID(ctx, *patch.SectionID)
		if err != nil {
			return nil, err
		}
		if section.ExhibitionID != placement.ExhibitionID {
			return nil, errors.Wrap(ErrValidation, "section belongs to another exhibition")
		}

		sequence, err := s.placements.NextSequence(ctx, placement.ExhibitionID, patch.SectionID)
		if err != nil {
			return nil, err
		}
		fields["sequence_order"] = sequence
	}

	if err := s.placements.Update(ctx, placementID, fields); err != nil {
		return nil, err
	}

	return s.placements.GetByID(ctx, placementID)
}

// UpdateObjectStatus moves a placement along its own state table and
// stamps who installed or removed the piece. An optional note is appended
// to the installation notes, date-prefixed.
func (s *CompositionService) UpdateObjectStatus(ctx context.Context, placementID uuid.UUID, newStatus models.PlacementStatus, actorID uuid.UUID, note string) (*models.ObjectPlacement, error) {
	placement, err := s.placements.GetByID(ctx, placementID)
	if err != nil {
		return nil, err
	}

	if !CanTransitionPlacement(placement.Status, newStatus) {
		return nil, errors.Wrapf(ErrInvalidTransition, "placement %s -> %s", placement.Status, newStatus)
	}

	now := s.now()
	fields := map[string]interface{}{
		"status": newStatus,
	}

	switch newStatus {
	case models.PlacementInstalled:
		fields["installed_by"] = actorID
		fields["installed_at"] = now
	case models.PlacementRemoved, models.PlacementReturned:
		fields["removed_by"] = actorID
		fields["removed_at"] = now
	}

	if note != "" {
		entry := fmt.Sprintf("%s: %s", now.Format("2006-01-02"), note)
		if placement.InstallationNotes != nil && *placement.InstallationNotes != "" {
			entry = *placement.InstallationNotes + "\n" + entry
		}
		fields["installation_notes"] = entry
	}

	if err := s.placements.Update(ctx, placementID, fields); err != nil {
		return nil, err
	}

	log.Info().
		Str("placement_id", placementID.String()).
		Str("from", string(placement.Status)).
		Str("to", string(newStatus)).
		Msg("Placement status updated")

	return s.placements.GetByID(ctx, placementID)
}

// ListObjects returns the exhibition's placements grouped by section and
// ordered within each section
func (s *CompositionService) ListObjects(ctx context.Context, exhibitionID uuid.UUID) ([]models.ObjectPlacement, error) {
	return s.placements.ListByExhibition(ctx, exhibitionID)
}

// ReorderObjects rewrites placement display order to match orderedIDs,
// which must be a permutation of the exhibition's placement ids
func (s *CompositionService) ReorderObjects(ctx context.Context, exhibitionID uuid.UUID, orderedIDs []uuid.UUID) error {
	existing, err := s.placements.ListByExhibition(ctx, exhibitionID)
	if err != nil {
		return err
	}
	if err := validatePermutation(existing, orderedIDs, func(placement models.ObjectPlacement) uuid.UUID {
		return placement.ID
	}); err != nil {
		return err
	}
	return s.placements.Reorder(ctx, exhibitionID, orderedIDs)
}

// RemoveObject deletes a placement outright. Storyline stops pointing at
// it keep their weak reference; hydration falls back to a placeholder.
func (s *CompositionService) RemoveObject(ctx context.Context, placementID uuid.UUID) error {
	return s.placements.Delete(ctx, placementID)
}

// CheckObjectAvailability reports conflicts for displaying an object
// during the exhibition's window without creating anything
func (s *CompositionService) CheckObjectAvailability(ctx context.Context, exhibitionID, objectID uuid.UUID) (*AvailabilityReport, error) {
	exhibition, err := s.exhibitions.GetByID(ctx, exhibitionID, false)
	if err != nil {
		return nil, err
	}
	return s.availability.CheckObject(ctx, objectID, exhibition)
}

// ResolveObject looks up display data for a catalogued object id
func (s *CompositionService) ResolveObject(ctx context.Context, objectID uuid.UUID) (*models.CatalogueItem, error) {
	item, err := s.catalogue.GetItem(ctx, objectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrap(ErrValidation, "object not found in catalogue")
		}
		return nil, err
	}
	return item, nil
}
