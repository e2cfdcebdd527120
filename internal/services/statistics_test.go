package services

import (
	"context"
	"testing"
	"time"

	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStatisticsService(m *compositionMocks) *StatisticsService {
	return &StatisticsService{
		exhibitions: m.exhibitions,
		placements:  m.placements,
		sections:    m.sections,
		storylines:  m.storylines,
		events:      m.events,
		checklists:  m.checklists,
		now:         func() time.Time { return date(2025, time.June, 10) },
	}
}

func TestGetExhibitionStatistics(t *testing.T) {
	_, m := newCompositionService(false)
	service := newStatisticsService(m)

	id := uuid.New()
	m.exhibitions.On("GetByID", mock.Anything, id, false).Return(&models.Exhibition{
		ID:          id,
		Status:      models.StatusInstallation,
		OpeningDate: datePtr(2025, time.June, 20),
		ClosingDate: datePtr(2025, time.September, 20),
	}, nil)
	m.placements.On("CountByStatus", mock.Anything, id).Return(map[models.PlacementStatus]int64{
		models.PlacementInstalled: 12,
		models.PlacementConfirmed: 3,
	}, nil)
	m.placements.On("SumInsuranceValue", mock.Anything, id).Return(1250000.0, nil)
	m.sections.On("ListByExhibition", mock.Anything, id).Return([]models.Section{{}, {}}, nil)
	m.storylines.On("ListByExhibition", mock.Anything, id).Return([]models.Storyline{{}}, nil)
	m.events.On("CountActive", mock.Anything, id).Return(int64(4), nil)
	conservationID, openingID := uuid.New(), uuid.New()
	m.checklists.On("ListByExhibition", mock.Anything, id).Return([]models.Checklist{
		{ID: conservationID, Name: "Conservation", Items: []models.ChecklistItem{{IsCompleted: true}, {IsCompleted: false}}},
		{ID: openingID, Name: "Opening"},
	}, nil)

	stats, err := service.GetExhibitionStatistics(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInstallation, stats.Status)
	assert.Equal(t, int64(15), stats.TotalObjects)
	assert.Equal(t, int64(12), stats.ObjectsByStatus[models.PlacementInstalled])
	assert.Equal(t, 2, stats.SectionCount)
	assert.Equal(t, 1, stats.StorylineCount)
	assert.Equal(t, int64(4), stats.EventCount)
	assert.Equal(t, 1250000.0, stats.TotalInsuranceValue)
	require.Len(t, stats.ChecklistCompletion, 2)
	assert.Equal(t, ChecklistProgress{ChecklistID: conservationID, Name: "Conservation", Completion: 50}, stats.ChecklistCompletion[0])
	assert.Equal(t, ChecklistProgress{ChecklistID: openingID, Name: "Opening", Completion: 100}, stats.ChecklistCompletion[1])

	require.NotNil(t, stats.DaysUntilOpening)
	assert.Equal(t, 10, *stats.DaysUntilOpening)
}

func TestGetExhibitionStatisticsKeepsDuplicateChecklistNames(t *testing.T) {
	_, m := newCompositionService(false)
	service := newStatisticsService(m)

	id := uuid.New()
	m.exhibitions.On("GetByID", mock.Anything, id, false).Return(&models.Exhibition{ID: id}, nil)
	m.placements.On("CountByStatus", mock.Anything, id).Return(map[models.PlacementStatus]int64{}, nil)
	m.placements.On("SumInsuranceValue", mock.Anything, id).Return(0.0, nil)
	m.sections.On("ListByExhibition", mock.Anything, id).Return([]models.Section{}, nil)
	m.storylines.On("ListByExhibition", mock.Anything, id).Return([]models.Storyline{}, nil)
	m.events.On("CountActive", mock.Anything, id).Return(int64(0), nil)

	// Instantiating the same template twice yields two checklists with
	// the same name; both must survive into the report
	first, second := uuid.New(), uuid.New()
	m.checklists.On("ListByExhibition", mock.Anything, id).Return([]models.Checklist{
		{ID: first, Name: "Opening checklist", Items: []models.ChecklistItem{{IsCompleted: true}}},
		{ID: second, Name: "Opening checklist", Items: []models.ChecklistItem{{IsCompleted: false}}},
	}, nil)

	stats, err := service.GetExhibitionStatistics(context.Background(), id)
	require.NoError(t, err)

	require.Len(t, stats.ChecklistCompletion, 2)
	assert.Equal(t, first, stats.ChecklistCompletion[0].ChecklistID)
	assert.Equal(t, float64(100), stats.ChecklistCompletion[0].Completion)
	assert.Equal(t, second, stats.ChecklistCompletion[1].ChecklistID)
	assert.Equal(t, float64(0), stats.ChecklistCompletion[1].Completion)
}

func TestRefreshPlatformStatistics(t *testing.T) {
	_, m := newCompositionService(false)
	service := newStatisticsService(m)

	m.exhibitions.On("CountByStatus", mock.Anything).Return(map[models.ExhibitionStatus]int64{
		models.StatusOpen:     3,
		models.StatusPlanning: 5,
		models.StatusArchived: 40,
	}, nil)
	m.exhibitions.On("CountByType", mock.Anything).Return(map[models.ExhibitionType]int64{
		models.TypeTemporary: 44,
		models.TypePermanent: 4,
	}, nil)
	m.exhibitions.On("Search", mock.Anything, mock.MatchedBy(func(filter repositories.ExhibitionFilter) bool {
		return filter.Current
	})).Return([]models.Exhibition{}, int64(3), nil)
	m.exhibitions.On("Search", mock.Anything, mock.MatchedBy(func(filter repositories.ExhibitionFilter) bool {
		return filter.Upcoming
	})).Return([]models.Exhibition{}, int64(2), nil)
	m.placements.On("CountInstalledInOpen", mock.Anything).Return(int64(210), nil)
	m.placements.On("SumInsuranceInOpen", mock.Anything).Return(98000000.0, nil)

	stats, err := service.RefreshPlatformStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(48), stats.TotalExhibitions)
	assert.Equal(t, int64(3), stats.CurrentCount)
	assert.Equal(t, int64(2), stats.UpcomingCount)
	assert.Equal(t, int64(210), stats.ObjectsOnDisplay)
	assert.Equal(t, 98000000.0, stats.InsuranceOnDisplay)
	assert.Equal(t, int64(40), stats.ByStatus[models.StatusArchived])
}
