package services

import (
	"testing"

	"example.com/galleria/services/exhibition/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.ExhibitionStatus
		to      models.ExhibitionStatus
		allowed bool
	}{
		{"concept to planning", models.StatusConcept, models.StatusPlanning, true},
		{"concept to canceled", models.StatusConcept, models.StatusCanceled, true},
		{"concept cannot skip to open", models.StatusConcept, models.StatusOpen, false},
		{"planning back to concept", models.StatusPlanning, models.StatusConcept, true},
		{"planning forward to preparation", models.StatusPlanning, models.StatusPreparation, true},
		{"preparation back to planning", models.StatusPreparation, models.StatusPlanning, true},
		{"installation to open", models.StatusInstallation, models.StatusOpen, true},
		{"installation to canceled", models.StatusInstallation, models.StatusCanceled, true},
		{"open to closing", models.StatusOpen, models.StatusClosing, true},
		{"open cannot be canceled", models.StatusOpen, models.StatusCanceled, false},
		{"open cannot jump to closed", models.StatusOpen, models.StatusClosed, false},
		{"closing back to open", models.StatusClosing, models.StatusOpen, true},
		{"closing to closed", models.StatusClosing, models.StatusClosed, true},
		{"closed to archived", models.StatusClosed, models.StatusArchived, true},
		{"closed cannot reopen", models.StatusClosed, models.StatusOpen, false},
		{"archived is terminal", models.StatusArchived, models.StatusConcept, false},
		{"canceled revives to concept", models.StatusCanceled, models.StatusConcept, true},
		{"canceled cannot skip to planning", models.StatusCanceled, models.StatusPlanning, false},
		{"no self transition", models.StatusOpen, models.StatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.ExhibitionStatus{models.StatusPlanning, models.StatusCanceled},
		AllowedTransitions(models.StatusConcept))
	assert.Empty(t, AllowedTransitions(models.StatusArchived))
}

func TestCanTransitionPlacement(t *testing.T) {
	tests := []struct {
		name    string
		from    models.PlacementStatus
		to      models.PlacementStatus
		allowed bool
	}{
		{"proposed to confirmed", models.PlacementProposed, models.PlacementConfirmed, true},
		{"proposed to loan request", models.PlacementProposed, models.PlacementOnLoanRequest, true},
		{"proposed cannot install directly", models.PlacementProposed, models.PlacementInstalled, false},
		{"confirmed back to proposed", models.PlacementConfirmed, models.PlacementProposed, true},
		{"confirmed to installed", models.PlacementConfirmed, models.PlacementInstalled, true},
		{"loan request to installed", models.PlacementOnLoanRequest, models.PlacementInstalled, true},
		{"installed to removed", models.PlacementInstalled, models.PlacementRemoved, true},
		{"installed to returned", models.PlacementInstalled, models.PlacementReturned, true},
		{"removed can be re-proposed", models.PlacementRemoved, models.PlacementProposed, true},
		{"returned is terminal", models.PlacementReturned, models.PlacementProposed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionPlacement(tt.from, tt.to))
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	for status := range legalTransitions {
		assert.True(t, IsValidStatus(status))
	}
	assert.False(t, IsValidStatus("launched"))
	assert.False(t, IsValidStatus(""))
}

// Every status named as a destination must itself have a row in the table
func TestTransitionTableIsClosed(t *testing.T) {
	for from, destinations := range legalTransitions {
		for _, to := range destinations {
			_, ok := legalTransitions[to]
			assert.True(t, ok, "%s -> %s points outside the table", from, to)
		}
	}
	for from, destinations := range placementTransitions {
		for _, to := range destinations {
			_, ok := placementTransitions[to]
			assert.True(t, ok, "%s -> %s points outside the table", from, to)
		}
	}
}
