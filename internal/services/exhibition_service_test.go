package services

import (
	"context"
	"testing"
	"time"

	"example.com/galleria/services/exhibition/config"
	"example.com/galleria/services/exhibition/internal/messaging"
	"example.com/galleria/services/exhibition/internal/metrics"
	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"
	"example.com/galleria/services/exhibition/internal/tracing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTracer(t *testing.T) tracing.Tracer {
	tracer, err := tracing.NewTracer(config.TracingConfig{})
	require.NoError(t, err)
	return tracer
}

func newExhibitionService(t *testing.T, repo *mockExhibitionRepo, history *mockHistoryRepo, publisher *mockPublisher) *ExhibitionService {
	service := &ExhibitionService{
		exhibitions: repo,
		history:     history,
		metrics:     metrics.NewMetrics(),
		tracer:      newTestTracer(t),
		now:         func() time.Time { return date(2025, time.June, 10) },
	}
	if publisher != nil {
		service.publisher = publisher
	}
	return service
}

func TestCreateExhibitionRequiresTitle(t *testing.T) {
	service := newExhibitionService(t, &mockExhibitionRepo{}, &mockHistoryRepo{}, nil)

	_, err := service.CreateExhibition(context.Background(), CreateExhibitionInput{}, uuid.New())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateExhibition(t *testing.T) {
	repo := &mockExhibitionRepo{}
	history := &mockHistoryRepo{}
	service := newExhibitionService(t, repo, history, nil)
	actor := uuid.New()

	repo.On("SlugExists", mock.Anything, "winter-light").Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Exhibition")).Return(nil)
	history.On("Append", mock.Anything, mock.AnythingOfType("*models.StatusHistory")).Return(nil)

	exhibition, err := service.CreateExhibition(context.Background(), CreateExhibitionInput{
		Title: "Winter Light",
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, models.StatusConcept, exhibition.Status)
	assert.Equal(t, "winter-light", exhibition.Slug)
	assert.Equal(t, models.TypeTemporary, exhibition.Type)
	assert.Equal(t, actor, exhibition.CreatedBy)

	history.AssertCalled(t, "Append", mock.Anything, mock.MatchedBy(func(entry *models.StatusHistory) bool {
		return entry.FromStatus == nil &&
			entry.ToStatus == models.StatusConcept &&
			entry.ExhibitionID == exhibition.ID &&
			entry.ChangedBy == actor
	}))
}

func TestCreateExhibitionProbesSlugCollisions(t *testing.T) {
	repo := &mockExhibitionRepo{}
	history := &mockHistoryRepo{}
	service := newExhibitionService(t, repo, history, nil)

	repo.On("SlugExists", mock.Anything, "winter-light").Return(true, nil)
	repo.On("SlugExists", mock.Anything, "winter-light-2").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	exhibition, err := service.CreateExhibition(context.Background(), CreateExhibitionInput{
		Title: "Winter Light",
	}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "winter-light-2", exhibition.Slug)
}

func TestTransitionStatus(t *testing.T) {
	repo := &mockExhibitionRepo{}
	history := &mockHistoryRepo{}
	publisher := &mockPublisher{}
	service := newExhibitionService(t, repo, history, publisher)

	id := uuid.New()
	actor := uuid.New()
	repo.On("GetByID", mock.Anything, id, false).Return(&models.Exhibition{
		ID:     id,
		Slug:   "winter-light",
		Status: models.StatusConcept,
	}, nil)
	repo.On("Transition", mock.Anything, id, models.StatusConcept, models.StatusPlanning,
		mock.MatchedBy(func(entry *models.StatusHistory) bool {
			return entry.FromStatus != nil &&
				*entry.FromStatus == models.StatusConcept &&
				entry.ToStatus == models.StatusPlanning &&
				entry.ChangedBy == actor &&
				entry.Reason == "budget approved"
		})).Return(nil)
	publisher.On("PublishTransition", mock.Anything, mock.MatchedBy(func(event messaging.TransitionEvent) bool {
		return event.ExhibitionID == id &&
			event.ToStatus == models.StatusPlanning &&
			event.Slug == "winter-light"
	})).Return(nil)

	exhibition, err := service.TransitionStatus(context.Background(), id, models.StatusPlanning, actor, "budget approved")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlanning, exhibition.Status)

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestTransitionStatusRejectsIllegalEdge(t *testing.T) {
	repo := &mockExhibitionRepo{}
	service := newExhibitionService(t, repo, &mockHistoryRepo{}, nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id, false).Return(&models.Exhibition{
		ID:     id,
		Status: models.StatusConcept,
	}, nil)

	_, err := service.TransitionStatus(context.Background(), id, models.StatusOpen, uuid.New(), "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Nothing may be written on a rejected transition
	repo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionStatusRejectsUnknownStatus(t *testing.T) {
	service := newExhibitionService(t, &mockExhibitionRepo{}, &mockHistoryRepo{}, nil)

	_, err := service.TransitionStatus(context.Background(), uuid.New(), "launched", uuid.New(), "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionStatusSurfacesStaleWrite(t *testing.T) {
	repo := &mockExhibitionRepo{}
	service := newExhibitionService(t, repo, &mockHistoryRepo{}, nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id, false).Return(&models.Exhibition{
		ID:     id,
		Status: models.StatusConcept,
	}, nil)
	repo.On("Transition", mock.Anything, id, models.StatusConcept, models.StatusPlanning, mock.Anything).
		Return(repositories.ErrStaleStatus)

	_, err := service.TransitionStatus(context.Background(), id, models.StatusPlanning, uuid.New(), "")
	assert.ErrorIs(t, err, repositories.ErrStaleStatus)
}

func TestTransitionStatusNotFound(t *testing.T) {
	repo := &mockExhibitionRepo{}
	service := newExhibitionService(t, repo, &mockHistoryRepo{}, nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id, false).Return(nil, repositories.ErrNotFound)

	_, err := service.TransitionStatus(context.Background(), id, models.StatusPlanning, uuid.New(), "")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTransitionToClosingChecksDates(t *testing.T) {
	repo := &mockExhibitionRepo{}
	service := newExhibitionService(t, repo, &mockHistoryRepo{}, nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id, false).Return(&models.Exhibition{
		ID:          id,
		Status:      models.StatusOpen,
		OpeningDate: datePtr(2025, time.June, 1),
		ClosingDate: datePtr(2025, time.May, 1),
	}, nil)

	_, err := service.TransitionStatus(context.Background(), id, models.StatusClosing, uuid.New(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSearchExhibitionsClampsPaging(t *testing.T) {
	repo := &mockExhibitionRepo{}
	service := newExhibitionService(t, repo, &mockHistoryRepo{}, nil)

	repo.On("Search", mock.Anything, mock.MatchedBy(func(filter repositories.ExhibitionFilter) bool {
		return filter.Limit == 20 && filter.Offset == 0 && filter.Now.Equal(date(2025, time.June, 10))
	})).Return([]models.Exhibition{}, int64(0), nil).Once()

	_, err := service.SearchExhibitions(context.Background(), repositories.ExhibitionFilter{})
	require.NoError(t, err)

	repo.On("Search", mock.Anything, mock.MatchedBy(func(filter repositories.ExhibitionFilter) bool {
		return filter.Limit == 100
	})).Return([]models.Exhibition{}, int64(0), nil).Once()

	_, err = service.SearchExhibitions(context.Background(), repositories.ExhibitionFilter{Limit: 5000})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestSearchExhibitionsTruncatesClock(t *testing.T) {
	repo := &mockExhibitionRepo{}
	service := newExhibitionService(t, repo, &mockHistoryRepo{}, nil)
	service.now = func() time.Time {
		return time.Date(2025, time.June, 10, 14, 30, 0, 0, time.UTC)
	}

	// The repository predicates compare midnight date columns, so the
	// filter clock must arrive truncated to the calendar day
	repo.On("Search", mock.Anything, mock.MatchedBy(func(filter repositories.ExhibitionFilter) bool {
		return filter.Now.Equal(date(2025, time.June, 10))
	})).Return([]models.Exhibition{}, int64(0), nil)

	_, err := service.SearchExhibitions(context.Background(), repositories.ExhibitionFilter{Current: true})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetStatusHistory(t *testing.T) {
	repo := &mockExhibitionRepo{}
	history := &mockHistoryRepo{}
	service := newExhibitionService(t, repo, history, nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id, false).Return(&models.Exhibition{ID: id}, nil)
	from := models.StatusConcept
	history.On("ListByExhibition", mock.Anything, id).Return([]models.StatusHistory{
		{ExhibitionID: id, ToStatus: models.StatusConcept},
		{ExhibitionID: id, FromStatus: &from, ToStatus: models.StatusPlanning},
	}, nil)

	entries, err := service.GetStatusHistory(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].FromStatus)
	assert.Equal(t, models.StatusPlanning, entries[1].ToStatus)
}

func TestUpdateExhibitionRejectsEmptyPatch(t *testing.T) {
	service := newExhibitionService(t, &mockExhibitionRepo{}, &mockHistoryRepo{}, nil)

	err := service.UpdateExhibition(context.Background(), uuid.New(), ExhibitionPatch{}, uuid.New())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateExhibitionStampsActor(t *testing.T) {
	repo := &mockExhibitionRepo{}
	service := newExhibitionService(t, repo, &mockHistoryRepo{}, nil)

	id := uuid.New()
	actor := uuid.New()
	title := "Winter Light, Revisited"
	repo.On("Update", mock.Anything, id, mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["title"] == title && fields["updated_by"] == actor
	})).Return(nil)
	repo.On("GetByID", mock.Anything, id, false).Return(&models.Exhibition{ID: id, Title: title}, nil)

	err := service.UpdateExhibition(context.Background(), id, ExhibitionPatch{Title: &title}, actor)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateExhibitionSurfacesRepoError(t *testing.T) {
	repo := &mockExhibitionRepo{}
	service := newExhibitionService(t, repo, &mockHistoryRepo{}, nil)

	title := "New Title"
	repo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	err := service.UpdateExhibition(context.Background(), uuid.New(), ExhibitionPatch{Title: &title}, uuid.New())
	assert.Error(t, err)
}
