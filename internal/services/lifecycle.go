package services

import (
	"example.com/galleria/services/exhibition/internal/models"
)

// legalTransitions is the exhibition lifecycle table. A status may only
// ever change along these edges; archived is terminal.
var legalTransitions = map[models.ExhibitionStatus][]models.ExhibitionStatus{
	models.StatusConcept:      {models.StatusPlanning, models.StatusCanceled},
	models.StatusPlanning:     {models.StatusConcept, models.StatusPreparation, models.StatusCanceled},
	models.StatusPreparation:  {models.StatusPlanning, models.StatusInstallation, models.StatusCanceled},
	models.StatusInstallation: {models.StatusPreparation, models.StatusOpen, models.StatusCanceled},
	models.StatusOpen:         {models.StatusClosing},
	models.StatusClosing:      {models.StatusOpen, models.StatusClosed},
	models.StatusClosed:       {models.StatusArchived},
	models.StatusArchived:     {},
	models.StatusCanceled:     {models.StatusConcept},
}

// placementTransitions constrains object placement status changes.
// Unlike the exhibition table this allows backing out of a loan request
// and re-proposing a removed object.
var placementTransitions = map[models.PlacementStatus][]models.PlacementStatus{
	models.PlacementProposed:      {models.PlacementConfirmed, models.PlacementOnLoanRequest, models.PlacementRemoved},
	models.PlacementConfirmed:     {models.PlacementProposed, models.PlacementOnLoanRequest, models.PlacementInstalled, models.PlacementRemoved},
	models.PlacementOnLoanRequest: {models.PlacementConfirmed, models.PlacementInstalled, models.PlacementReturned},
	models.PlacementInstalled:     {models.PlacementRemoved, models.PlacementReturned},
	models.PlacementRemoved:       {models.PlacementProposed},
	models.PlacementReturned:      {},
}

// CanTransition reports whether the exhibition lifecycle table allows
// moving from one status to another
func CanTransition(from, to models.ExhibitionStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from the given one
func AllowedTransitions(from models.ExhibitionStatus) []models.ExhibitionStatus {
	return legalTransitions[from]
}

// CanTransitionPlacement reports whether a placement status change is
// allowed
func CanTransitionPlacement(from, to models.PlacementStatus) bool {
	for _, allowed := range placementTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether the value is a known lifecycle status
func IsValidStatus(status models.ExhibitionStatus) bool {
	_, ok := legalTransitions[status]
	return ok
}
