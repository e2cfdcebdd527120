package services

import (
	"context"
	"time"

	"example.com/galleria/services/exhibition/internal/metrics"
	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// defaultWindow bounds an open-ended display window for overlap checks
const defaultWindow = 365 * 24 * time.Hour

// AvailabilityReport lists everything standing in the way of displaying
// an object during an exhibition's window. The two lists are kept apart
// because they resolve differently: a placement conflict is negotiated
// between curators, a loan conflict depends on the borrower.
type AvailabilityReport struct {
	ObjectID           uuid.UUID                        `json:"object_id"`
	WindowStart        time.Time                        `json:"window_start"`
	WindowEnd          time.Time                        `json:"window_end"`
	PlacementConflicts []repositories.PlacementConflict `json:"placement_conflicts"`
	LoanConflicts      []models.Loan                    `json:"loan_conflicts"`
	Degraded           bool                             `json:"degraded,omitempty"`
}

// HasConflicts reports whether any conflict of either kind was found
func (r *AvailabilityReport) HasConflicts() bool {
	return len(r.PlacementConflicts) > 0 || len(r.LoanConflicts) > 0
}

// AvailabilityChecker answers whether an object is free to display
// during a given exhibition's window
type AvailabilityChecker struct {
	placements repositories.PlacementRepository
	loans      repositories.LoanReader
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewAvailabilityChecker creates a new availability checker
func NewAvailabilityChecker(
	placements repositories.PlacementRepository,
	loans repositories.LoanReader,
	metricsCollector *metrics.Metrics,
) *AvailabilityChecker {
	return &AvailabilityChecker{
		placements: placements,
		loans:      loans,
		metrics:    metricsCollector,
		now:        time.Now,
	}
}

// CheckObject reports conflicts for displaying the object during the
// exhibition's window. A missing opening date falls back to now; a
// missing closing date extends the window by a year. Reader failures
// degrade to an empty list so a flaky replica never blocks curation;
// the report is flagged degraded so callers can tell.
func (c *AvailabilityChecker) CheckObject(ctx context.Context, objectID uuid.UUID, exhibition *models.Exhibition) (*AvailabilityReport, error) {
	start := c.now()
	if exhibition.OpeningDate != nil {
		start = *exhibition.OpeningDate
	}
	end := start.Add(defaultWindow)
	if exhibition.ClosingDate != nil {
		end = *exhibition.ClosingDate
	}

	report := &AvailabilityReport{
		ObjectID:           objectID,
		WindowStart:        start,
		WindowEnd:          end,
		PlacementConflicts: []repositories.PlacementConflict{},
		LoanConflicts:      []models.Loan{},
	}

	placementConflicts, err := c.placements.FindOverlapping(ctx, objectID, exhibition.ID, start, end)
	if err != nil {
		log.Warn().
			Err(err).
			Str("object_id", objectID.String()).
			Msg("Placement conflict lookup failed, treating as no conflicts")
		report.Degraded = true
	} else {
		report.PlacementConflicts = placementConflicts
	}

	loanConflicts, err := c.loans.OpenLoansOverlapping(ctx, objectID, start, end)
	if err != nil {
		log.Warn().
			Err(err).
			Str("object_id", objectID.String()).
			Msg("Loan conflict lookup failed, treating as no conflicts")
		report.Degraded = true
	} else {
		report.LoanConflicts = loanConflicts
	}

	if report.HasConflicts() {
		c.metrics.IncrementCounterBy(metrics.CounterConflictsDetected,
			int64(len(report.PlacementConflicts)+len(report.LoanConflicts)))
	}

	return report, nil
}
