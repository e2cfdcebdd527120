package services

import (
	"time"

	"example.com/galleria/services/exhibition/internal/models"
)

// toDate truncates an instant to its calendar date. Exhibition dates are
// stored at midnight UTC, so every comparison against the clock has to
// happen on truncated values or the final day gets cut short.
func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from a to b, negative when b is earlier
func daysBetween(a, b time.Time) int {
	return int(toDate(b).Sub(toDate(a)).Hours() / 24)
}

// DaysUntilOpening returns the number of days from now until the
// exhibition opens; negative once it has opened, nil without an opening
// date
func DaysUntilOpening(exhibition *models.Exhibition, now time.Time) *int {
	if exhibition.OpeningDate == nil {
		return nil
	}
	days := daysBetween(now, *exhibition.OpeningDate)
	return &days
}

// DaysUntilClosing returns the number of days from now until the
// exhibition closes; negative once it has closed, nil without a closing
// date
func DaysUntilClosing(exhibition *models.Exhibition, now time.Time) *int {
	if exhibition.ClosingDate == nil {
		return nil
	}
	days := daysBetween(now, *exhibition.ClosingDate)
	return &days
}

// IsCurrent reports whether the exhibition is open to the public today:
// status open, opening date passed, closing date absent or not yet
// reached. The closing day itself counts as current.
//
// repositories.ExhibitionRepository.Search evaluates the same predicate
// in SQL against ExhibitionFilter.Now; callers there pass a
// calendar-truncated clock so the two cannot disagree on the final day.
func IsCurrent(exhibition *models.Exhibition, now time.Time) bool {
	if exhibition.Status != models.StatusOpen {
		return false
	}
	today := toDate(now)
	if exhibition.OpeningDate == nil || toDate(*exhibition.OpeningDate).After(today) {
		return false
	}
	return exhibition.ClosingDate == nil || !toDate(*exhibition.ClosingDate).Before(today)
}

// IsUpcoming reports whether the exhibition opens in the future and is
// still in a pre-open state. Paired with the Upcoming predicate in
// repositories.ExhibitionRepository.Search the same way IsCurrent is.
func IsUpcoming(exhibition *models.Exhibition, now time.Time) bool {
	if exhibition.OpeningDate == nil || !toDate(*exhibition.OpeningDate).After(toDate(now)) {
		return false
	}
	switch exhibition.Status {
	case models.StatusConcept, models.StatusPlanning, models.StatusPreparation, models.StatusInstallation:
		return true
	}
	return false
}
