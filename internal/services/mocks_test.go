package services

import (
	"context"
	"time"

	"example.com/galleria/services/exhibition/internal/messaging"
	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockExhibitionRepo struct {
	mock.Mock
}

func (m *mockExhibitionRepo) Create(ctx context.Context, exhibition *models.Exhibition) error {
	return m.Called(ctx, exhibition).Error(0)
}

func (m *mockExhibitionRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockExhibitionRepo) GetByID(ctx context.Context, id uuid.UUID, includeDetails bool) (*models.Exhibition, error) {
	args := m.Called(ctx, id, includeDetails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exhibition), args.Error(1)
}

func (m *mockExhibitionRepo) Search(ctx context.Context, filter repositories.ExhibitionFilter) ([]models.Exhibition, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Exhibition), args.Get(1).(int64), args.Error(2)
}

func (m *mockExhibitionRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockExhibitionRepo) Transition(ctx context.Context, id uuid.UUID, from, to models.ExhibitionStatus, entry *models.StatusHistory) error {
	return m.Called(ctx, id, from, to, entry).Error(0)
}

func (m *mockExhibitionRepo) CountByStatus(ctx context.Context) (map[models.ExhibitionStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.ExhibitionStatus]int64), args.Error(1)
}

func (m *mockExhibitionRepo) CountByType(ctx context.Context) (map[models.ExhibitionType]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.ExhibitionType]int64), args.Error(1)
}

type mockHistoryRepo struct {
	mock.Mock
}

func (m *mockHistoryRepo) Append(ctx context.Context, entry *models.StatusHistory) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockHistoryRepo) ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.StatusHistory, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatusHistory), args.Error(1)
}

type mockSectionRepo struct {
	mock.Mock
}

func (m *mockSectionRepo) Create(ctx context.Context, section *models.Section) error {
	return m.Called(ctx, section).Error(0)
}

func (m *mockSectionRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockSectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *mockSectionRepo) ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Section, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Section), args.Error(1)
}

func (m *mockSectionRepo) NextSequence(ctx context.Context, exhibitionID uuid.UUID) (int, error) {
	args := m.Called(ctx, exhibitionID)
	return args.Int(0), args.Error(1)
}

func (m *mockSectionRepo) Reorder(ctx context.Context, exhibitionID uuid.UUID, orderedIDs []uuid.UUID) error {
	return m.Called(ctx, exhibitionID, orderedIDs).Error(0)
}

func (m *mockSectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockPlacementRepo struct {
	mock.Mock
}

func (m *mockPlacementRepo) Create(ctx context.Context, placement *models.ObjectPlacement) error {
	return m.Called(ctx, placement).Error(0)
}

func (m *mockPlacementRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockPlacementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ObjectPlacement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ObjectPlacement), args.Error(1)
}

func (m *mockPlacementRepo) ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.ObjectPlacement, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ObjectPlacement), args.Error(1)
}

func (m *mockPlacementRepo) NextSequence(ctx context.Context, exhibitionID uuid.UUID, sectionID *uuid.UUID) (int, error) {
	args := m.Called(ctx, exhibitionID, sectionID)
	return args.Int(0), args.Error(1)
}

func (m *mockPlacementRepo) Reorder(ctx context.Context, exhibitionID uuid.UUID, orderedIDs []uuid.UUID) error {
	return m.Called(ctx, exhibitionID, orderedIDs).Error(0)
}

func (m *mockPlacementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPlacementRepo) FindOverlapping(ctx context.Context, objectID, excludeExhibitionID uuid.UUID, start, end time.Time) ([]repositories.PlacementConflict, error) {
	args := m.Called(ctx, objectID, excludeExhibitionID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.PlacementConflict), args.Error(1)
}

func (m *mockPlacementRepo) CountByStatus(ctx context.Context, exhibitionID uuid.UUID) (map[models.PlacementStatus]int64, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.PlacementStatus]int64), args.Error(1)
}

func (m *mockPlacementRepo) SumInsuranceValue(ctx context.Context, exhibitionID uuid.UUID) (float64, error) {
	args := m.Called(ctx, exhibitionID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockPlacementRepo) CountInstalledInOpen(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPlacementRepo) SumInsuranceInOpen(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type mockStorylineRepo struct {
	mock.Mock
}

func (m *mockStorylineRepo) Create(ctx context.Context, storyline *models.Storyline) error {
	return m.Called(ctx, storyline).Error(0)
}

func (m *mockStorylineRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockStorylineRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Storyline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Storyline), args.Error(1)
}

func (m *mockStorylineRepo) GetWithStops(ctx context.Context, id uuid.UUID) (*models.Storyline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Storyline), args.Error(1)
}

func (m *mockStorylineRepo) ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Storyline, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Storyline), args.Error(1)
}

func (m *mockStorylineRepo) NextSequence(ctx context.Context, exhibitionID uuid.UUID) (int, error) {
	args := m.Called(ctx, exhibitionID)
	return args.Int(0), args.Error(1)
}

func (m *mockStorylineRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockStorylineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStorylineRepo) CreateStop(ctx context.Context, stop *models.StorylineStop) error {
	return m.Called(ctx, stop).Error(0)
}

func (m *mockStorylineRepo) UpdateStop(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockStorylineRepo) GetStopByID(ctx context.Context, id uuid.UUID) (*models.StorylineStop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StorylineStop), args.Error(1)
}

func (m *mockStorylineRepo) NextStopSequence(ctx context.Context, storylineID uuid.UUID) (int, error) {
	args := m.Called(ctx, storylineID)
	return args.Int(0), args.Error(1)
}

func (m *mockStorylineRepo) DeleteStop(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *mockEventRepo) List(ctx context.Context, exhibitionID uuid.UUID, upcomingAfter *time.Time) ([]models.Event, error) {
	args := m.Called(ctx, exhibitionID, upcomingAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *mockEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEventRepo) CountActive(ctx context.Context, exhibitionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, exhibitionID)
	return args.Get(0).(int64), args.Error(1)
}

type mockChecklistRepo struct {
	mock.Mock
}

func (m *mockChecklistRepo) CreateChecklist(ctx context.Context, checklist *models.Checklist) error {
	return m.Called(ctx, checklist).Error(0)
}

func (m *mockChecklistRepo) GetChecklist(ctx context.Context, id uuid.UUID) (*models.Checklist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Checklist), args.Error(1)
}

func (m *mockChecklistRepo) ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Checklist, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Checklist), args.Error(1)
}

func (m *mockChecklistRepo) GetTemplate(ctx context.Context, id uuid.UUID) (*models.ChecklistTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChecklistTemplate), args.Error(1)
}

func (m *mockChecklistRepo) AddItem(ctx context.Context, item *models.ChecklistItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockChecklistRepo) GetItem(ctx context.Context, id uuid.UUID) (*models.ChecklistItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChecklistItem), args.Error(1)
}

func (m *mockChecklistRepo) UpdateItem(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

type mockCatalogueReader struct {
	mock.Mock
}

func (m *mockCatalogueReader) GetItem(ctx context.Context, id uuid.UUID) (*models.CatalogueItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogueItem), args.Error(1)
}

type mockLoanReader struct {
	mock.Mock
}

func (m *mockLoanReader) OpenLoansOverlapping(ctx context.Context, objectID uuid.UUID, start, end time.Time) ([]models.Loan, error) {
	args := m.Called(ctx, objectID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Loan), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishTransition(ctx context.Context, event messaging.TransitionEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}
