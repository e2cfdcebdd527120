package services

import (
	"context"

	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"

	"github.com/rs/zerolog/log"
)

// sweepPageSize bounds one sweep pass; programmes larger than this are
// covered over successive runs because ordering is stable
const sweepPageSize = 500

// SweepConflicts re-checks availability for every active placement on
// pre-open exhibitions and logs conflicts that appeared after placement,
// typically a loan registered later or another curator confirming the
// same piece. Returns the number of conflicted placements found.
func (s *CompositionService) SweepConflicts(ctx context.Context) (int, error) {
	exhibitions, _, err := s.exhibitions.Search(ctx, repositories.ExhibitionFilter{
		Statuses: []models.ExhibitionStatus{
			models.StatusConcept,
			models.StatusPlanning,
			models.StatusPreparation,
			models.StatusInstallation,
		},
		Now:   toDate(s.now()),
		Limit: sweepPageSize,
	})
	if err != nil {
		return 0, err
	}

	conflicted := 0
	for i := range exhibitions {
		exhibition := &exhibitions[i]

		placements, err := s.placements.ListByExhibition(ctx, exhibition.ID)
		if err != nil {
			log.Warn().
				Err(err).
				Str("exhibition_id", exhibition.ID.String()).
				Msg("Skipping exhibition during conflict sweep")
			continue
		}

		for _, placement := range placements {
			switch placement.Status {
			case models.PlacementRemoved, models.PlacementReturned:
				continue
			}

			report, err := s.availability.CheckObject(ctx, placement.ObjectID, exhibition)
			if err != nil {
				continue
			}
			if report.HasConflicts() {
				conflicted++
				log.Warn().
					Str("exhibition_id", exhibition.ID.String()).
					Str("placement_id", placement.ID.String()).
					Str("object_id", placement.ObjectID.String()).
					Int("placement_conflicts", len(report.PlacementConflicts)).
					Int("loan_conflicts", len(report.LoanConflicts)).
					Msg("Placement has availability conflicts")
			}
		}
	}

	return conflicted, nil
}
