package services

import (
	"context"
	"testing"
	"time"

	"example.com/galleria/services/exhibition/internal/metrics"
	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type compositionMocks struct {
	exhibitions *mockExhibitionRepo
	sections    *mockSectionRepo
	placements  *mockPlacementRepo
	storylines  *mockStorylineRepo
	events      *mockEventRepo
	checklists  *mockChecklistRepo
	catalogue   *mockCatalogueReader
	loans       *mockLoanReader
}

func newCompositionService(blockOnConflict bool) (*CompositionService, *compositionMocks) {
	m := &compositionMocks{
		exhibitions: &mockExhibitionRepo{},
		sections:    &mockSectionRepo{},
		placements:  &mockPlacementRepo{},
		storylines:  &mockStorylineRepo{},
		events:      &mockEventRepo{},
		checklists:  &mockChecklistRepo{},
		catalogue:   &mockCatalogueReader{},
		loans:       &mockLoanReader{},
	}
	collector := metrics.NewMetrics()
	now := func() time.Time { return date(2025, time.June, 10) }

	service := &CompositionService{
		exhibitions: m.exhibitions,
		sections:    m.sections,
		placements:  m.placements,
		storylines:  m.storylines,
		events:      m.events,
		checklists:  m.checklists,
		catalogue:   m.catalogue,
		availability: &AvailabilityChecker{
			placements: m.placements,
			loans:      m.loans,
			metrics:    collector,
			now:        now,
		},
		metrics:         collector,
		blockOnConflict: blockOnConflict,
		now:             now,
	}
	return service, m
}

func (m *compositionMocks) expectExhibition(exhibition *models.Exhibition) {
	m.exhibitions.On("GetByID", mock.Anything, exhibition.ID, false).Return(exhibition, nil)
}

func (m *compositionMocks) expectNoConflicts(objectID uuid.UUID) {
	m.placements.On("FindOverlapping", mock.Anything, objectID, mock.Anything, mock.Anything, mock.Anything).
		Return([]repositories.PlacementConflict{}, nil)
	m.loans.On("OpenLoansOverlapping", mock.Anything, objectID, mock.Anything, mock.Anything).
		Return([]models.Loan{}, nil)
}

func TestAddSectionAppendsToOrdering(t *testing.T) {
	service, m := newCompositionService(false)

	exhibition := &models.Exhibition{ID: uuid.New()}
	m.expectExhibition(exhibition)
	m.sections.On("NextSequence", mock.Anything, exhibition.ID).Return(4, nil)
	m.sections.On("Create", mock.Anything, mock.MatchedBy(func(section *models.Section) bool {
		return section.SequenceOrder == 4 && section.ExhibitionID == exhibition.ID
	})).Return(nil)

	section, err := service.AddSection(context.Background(), exhibition.ID, SectionInput{Name: "Gallery West"})
	require.NoError(t, err)
	assert.Equal(t, 4, section.SequenceOrder)
	m.sections.AssertExpectations(t)
}

func TestAddSectionRequiresName(t *testing.T) {
	service, _ := newCompositionService(false)

	_, err := service.AddSection(context.Background(), uuid.New(), SectionInput{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReorderSectionsValidatesPermutation(t *testing.T) {
	service, m := newCompositionService(false)

	exhibitionID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	existing := []models.Section{{ID: a}, {ID: b}, {ID: c}}
	m.sections.On("ListByExhibition", mock.Anything, exhibitionID).Return(existing, nil)

	// Too short
	err := service.ReorderSections(context.Background(), exhibitionID, []uuid.UUID{a, b})
	assert.ErrorIs(t, err, ErrValidation)

	// Duplicate id
	err = service.ReorderSections(context.Background(), exhibitionID, []uuid.UUID{a, b, b})
	assert.ErrorIs(t, err, ErrValidation)

	// Foreign id
	err = service.ReorderSections(context.Background(), exhibitionID, []uuid.UUID{a, b, uuid.New()})
	assert.ErrorIs(t, err, ErrValidation)

	// Valid permutation goes through
	m.sections.On("Reorder", mock.Anything, exhibitionID, []uuid.UUID{c, a, b}).Return(nil)
	err = service.ReorderSections(context.Background(), exhibitionID, []uuid.UUID{c, a, b})
	require.NoError(t, err)
	m.sections.AssertExpectations(t)
}

func TestAddObjectRecordsAdvisoryConflicts(t *testing.T) {
	service, m := newCompositionService(false)

	exhibition := &models.Exhibition{
		ID:          uuid.New(),
		OpeningDate: datePtr(2025, time.September, 1),
		ClosingDate: datePtr(2025, time.December, 1),
	}
	objectID := uuid.New()
	m.expectExhibition(exhibition)
	m.placements.On("FindOverlapping", mock.Anything, objectID, exhibition.ID, mock.Anything, mock.Anything).
		Return([]repositories.PlacementConflict{{ExhibitionTitle: "Autumn Salon"}}, nil)
	m.loans.On("OpenLoansOverlapping", mock.Anything, objectID, mock.Anything, mock.Anything).
		Return([]models.Loan{}, nil)
	m.placements.On("NextSequence", mock.Anything, exhibition.ID, (*uuid.UUID)(nil)).Return(1, nil)
	m.placements.On("Create", mock.Anything, mock.MatchedBy(func(placement *models.ObjectPlacement) bool {
		return placement.Status == models.PlacementProposed && placement.ObjectID == objectID
	})).Return(nil)

	result, err := service.AddObject(context.Background(), exhibition.ID, PlacementInput{ObjectID: objectID})
	require.NoError(t, err)
	require.NotNil(t, result.Placement)
	assert.True(t, result.Availability.HasConflicts())
	m.placements.AssertExpectations(t)
}

func TestAddObjectBlocksWhenConfigured(t *testing.T) {
	service, m := newCompositionService(true)

	exhibition := &models.Exhibition{
		ID:          uuid.New(),
		OpeningDate: datePtr(2025, time.September, 1),
	}
	objectID := uuid.New()
	m.expectExhibition(exhibition)
	m.placements.On("FindOverlapping", mock.Anything, objectID, exhibition.ID, mock.Anything, mock.Anything).
		Return([]repositories.PlacementConflict{{ExhibitionTitle: "Autumn Salon"}}, nil)
	m.loans.On("OpenLoansOverlapping", mock.Anything, objectID, mock.Anything, mock.Anything).
		Return([]models.Loan{}, nil)

	result, err := service.AddObject(context.Background(), exhibition.ID, PlacementInput{ObjectID: objectID})
	assert.ErrorIs(t, err, ErrObjectUnavailable)
	require.NotNil(t, result)
	assert.Nil(t, result.Placement)
	assert.True(t, result.Availability.HasConflicts())

	m.placements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddObjectRejectsForeignSection(t *testing.T) {
	service, m := newCompositionService(false)

	exhibition := &models.Exhibition{ID: uuid.New()}
	sectionID := uuid.New()
	m.expectExhibition(exhibition)
	m.sections.On("GetByID", mock.Anything, sectionID).Return(&models.Section{
		ID:           sectionID,
		ExhibitionID: uuid.New(),
	}, nil)

	_, err := service.AddObject(context.Background(), exhibition.ID, PlacementInput{
		ObjectID:  uuid.New(),
		SectionID: &sectionID,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateObjectPatchesMetadata(t *testing.T) {
	service, m := newCompositionService(false)

	placementID := uuid.New()
	lighting := "dimmed, 50 lux"
	insurance := 2500000.0
	placement := &models.ObjectPlacement{
		ID:           placementID,
		ExhibitionID: uuid.New(),
		Status:       models.PlacementConfirmed,
	}
	m.placements.On("GetByID", mock.Anything, placementID).Return(placement, nil)
	m.placements.On("Update", mock.Anything, placementID, mock.MatchedBy(func(fields map[string]interface{}) bool {
		_, touchedStatus := fields["status"]
		return len(fields) == 2 &&
			fields["lighting"] == lighting &&
			fields["insurance_value"] == insurance &&
			!touchedStatus
	})).Return(nil)

	updated, err := service.UpdateObject(context.Background(), placementID, PlacementPatch{
		Lighting:       &lighting,
		InsuranceValue: &insurance,
	})
	require.NoError(t, err)
	assert.Equal(t, placementID, updated.ID)
	m.placements.AssertExpectations(t)
}

func TestUpdateObjectMovesSection(t *testing.T) {
	service, m := newCompositionService(false)

	placementID := uuid.New()
	exhibitionID := uuid.New()
	sectionID := uuid.New()
	placement := &models.ObjectPlacement{
		ID:           placementID,
		ExhibitionID: exhibitionID,
		Status:       models.PlacementConfirmed,
	}
	m.placements.On("GetByID", mock.Anything, placementID).Return(placement, nil)
	m.sections.On("GetByID", mock.Anything, sectionID).Return(&models.Section{
		ID:           sectionID,
		ExhibitionID: exhibitionID,
	}, nil)
	m.placements.On("NextSequence", mock.Anything, exhibitionID, &sectionID).Return(7, nil)
	m.placements.On("Update", mock.Anything, placementID, mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["section_id"] == sectionID && fields["sequence_order"] == 7
	})).Return(nil)

	_, err := service.UpdateObject(context.Background(), placementID, PlacementPatch{SectionID: &sectionID})
	require.NoError(t, err)
	m.placements.AssertExpectations(t)
}

func TestUpdateObjectRejectsForeignSectionMove(t *testing.T) {
	service, m := newCompositionService(false)

	placementID := uuid.New()
	sectionID := uuid.New()
	m.placements.On("GetByID", mock.Anything, placementID).Return(&models.ObjectPlacement{
		ID:           placementID,
		ExhibitionID: uuid.New(),
	}, nil)
	m.sections.On("GetByID", mock.Anything, sectionID).Return(&models.Section{
		ID:           sectionID,
		ExhibitionID: uuid.New(),
	}, nil)

	_, err := service.UpdateObject(context.Background(), placementID, PlacementPatch{SectionID: &sectionID})
	require.ErrorIs(t, err, ErrValidation)
	m.placements.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateObjectRejectsEmptyPatch(t *testing.T) {
	service, m := newCompositionService(false)

	_, err := service.UpdateObject(context.Background(), uuid.New(), PlacementPatch{})
	require.ErrorIs(t, err, ErrValidation)
	m.placements.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateObjectStatusStampsInstallation(t *testing.T) {
	service, m := newCompositionService(false)

	placementID := uuid.New()
	actor := uuid.New()
	placement := &models.ObjectPlacement{
		ID:     placementID,
		Status: models.PlacementConfirmed,
	}
	m.placements.On("GetByID", mock.Anything, placementID).Return(placement, nil)
	m.placements.On("Update", mock.Anything, placementID, mock.MatchedBy(func(fields map[string]interface{}) bool {
		note, hasNote := fields["installation_notes"].(string)
		return fields["status"] == models.PlacementInstalled &&
			fields["installed_by"] == actor &&
			fields["installed_at"] == date(2025, time.June, 10) &&
			hasNote && note == "2025-06-10: mounted with seismic brace"
	})).Return(nil)

	_, err := service.UpdateObjectStatus(context.Background(), placementID, models.PlacementInstalled, actor, "mounted with seismic brace")
	require.NoError(t, err)
	m.placements.AssertExpectations(t)
}

func TestUpdateObjectStatusAppendsNotes(t *testing.T) {
	service, m := newCompositionService(false)

	placementID := uuid.New()
	previous := "2025-06-01: arrived from store"
	placement := &models.ObjectPlacement{
		ID:                placementID,
		Status:            models.PlacementInstalled,
		InstallationNotes: &previous,
	}
	m.placements.On("GetByID", mock.Anything, placementID).Return(placement, nil)
	m.placements.On("Update", mock.Anything, placementID, mock.MatchedBy(func(fields map[string]interface{}) bool {
		note, _ := fields["installation_notes"].(string)
		return note == "2025-06-01: arrived from store\n2025-06-10: deinstalled for conservation" &&
			fields["removed_at"] == date(2025, time.June, 10)
	})).Return(nil)

	_, err := service.UpdateObjectStatus(context.Background(), placementID, models.PlacementRemoved, uuid.New(), "deinstalled for conservation")
	require.NoError(t, err)
}

func TestUpdateObjectStatusRejectsIllegalEdge(t *testing.T) {
	service, m := newCompositionService(false)

	placementID := uuid.New()
	m.placements.On("GetByID", mock.Anything, placementID).Return(&models.ObjectPlacement{
		ID:     placementID,
		Status: models.PlacementProposed,
	}, nil)

	_, err := service.UpdateObjectStatus(context.Background(), placementID, models.PlacementInstalled, uuid.New(), "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	m.placements.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateChecklistFromTemplateCopiesItems(t *testing.T) {
	service, m := newCompositionService(false)

	exhibition := &models.Exhibition{ID: uuid.New()}
	templateID := uuid.New()
	m.expectExhibition(exhibition)
	category := "conservation"
	m.checklists.On("GetTemplate", mock.Anything, templateID).Return(&models.ChecklistTemplate{
		ID:   templateID,
		Name: "Opening checklist",
		Items: []models.ChecklistTemplateItem{
			{Name: "Condition reports", Category: &category, IsRequired: true, SequenceOrder: 1},
			{Name: "Labels printed", SequenceOrder: 2},
		},
	}, nil)
	m.checklists.On("CreateChecklist", mock.Anything, mock.MatchedBy(func(checklist *models.Checklist) bool {
		return len(checklist.Items) == 2 &&
			checklist.TemplateID != nil && *checklist.TemplateID == templateID &&
			checklist.Items[0].Name == "Condition reports" &&
			checklist.Items[0].IsRequired &&
			!checklist.Items[0].IsCompleted &&
			checklist.Items[0].ChecklistID == checklist.ID
	})).Return(nil)

	checklist, err := service.CreateChecklistFromTemplate(context.Background(), exhibition.ID, templateID)
	require.NoError(t, err)
	assert.Equal(t, "Opening checklist", checklist.Name)
	m.checklists.AssertExpectations(t)
}

func TestCompleteChecklistItemOverwritesStamp(t *testing.T) {
	service, m := newCompositionService(false)

	itemID := uuid.New()
	actor := uuid.New()
	m.checklists.On("GetItem", mock.Anything, itemID).Return(&models.ChecklistItem{
		ID:          itemID,
		IsCompleted: true,
	}, nil)
	m.checklists.On("UpdateItem", mock.Anything, itemID, mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["is_completed"] == true &&
			fields["completed_by"] == actor &&
			fields["completed_at"] == date(2025, time.June, 10)
	})).Return(nil)

	err := service.CompleteChecklistItem(context.Background(), itemID, actor, nil)
	require.NoError(t, err)
	m.checklists.AssertExpectations(t)
}

func TestChecklistCompletion(t *testing.T) {
	assert.Equal(t, float64(100), ChecklistCompletion(&models.Checklist{}))

	checklist := &models.Checklist{Items: []models.ChecklistItem{
		{IsCompleted: true},
		{IsCompleted: true},
		{IsCompleted: false},
		{IsCompleted: false},
	}}
	assert.Equal(t, float64(50), ChecklistCompletion(checklist))
}

func TestGetStorylineWithStopsHydration(t *testing.T) {
	service, m := newCompositionService(false)

	storylineID := uuid.New()
	livePlacement := uuid.New()
	deadPlacement := uuid.New()
	objectID := uuid.New()

	m.storylines.On("GetWithStops", mock.Anything, storylineID).Return(&models.Storyline{
		ID:    storylineID,
		Title: "A Walk Through Light",
		Stops: []models.StorylineStop{
			{Title: "Introduction", SequenceOrder: 1},
			{Title: "The Hay Wain", PlacementID: &livePlacement, SequenceOrder: 2},
			{Title: "Lost Piece", PlacementID: &deadPlacement, SequenceOrder: 3},
		},
	}, nil)
	m.placements.On("GetByID", mock.Anything, livePlacement).Return(&models.ObjectPlacement{
		ID:       livePlacement,
		ObjectID: objectID,
	}, nil)
	m.placements.On("GetByID", mock.Anything, deadPlacement).Return(nil, repositories.ErrNotFound)
	m.catalogue.On("GetItem", mock.Anything, objectID).Return(&models.CatalogueItem{
		ID:    objectID,
		Title: "The Hay Wain",
	}, nil)

	view, err := service.GetStorylineWithStops(context.Background(), storylineID)
	require.NoError(t, err)
	require.Len(t, view.Stops, 3)

	// Narrative-only stop has no object at all
	assert.Nil(t, view.Stops[0].Placement)
	assert.Empty(t, view.Stops[0].ObjectTitle)

	assert.Equal(t, "The Hay Wain", view.Stops[1].ObjectTitle)

	// The dangling reference keeps the stop but shows a placeholder
	assert.Nil(t, view.Stops[2].Placement)
	assert.Equal(t, placeholderObjectTitle, view.Stops[2].ObjectTitle)
}

func TestAddStopRejectsForeignPlacement(t *testing.T) {
	service, m := newCompositionService(false)

	storylineID := uuid.New()
	placementID := uuid.New()
	m.storylines.On("GetByID", mock.Anything, storylineID).Return(&models.Storyline{
		ID:           storylineID,
		ExhibitionID: uuid.New(),
	}, nil)
	m.placements.On("GetByID", mock.Anything, placementID).Return(&models.ObjectPlacement{
		ID:           placementID,
		ExhibitionID: uuid.New(),
	}, nil)

	_, err := service.AddStop(context.Background(), storylineID, StopInput{
		Title:       "Stop One",
		PlacementID: &placementID,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestScheduleEventValidation(t *testing.T) {
	service, m := newCompositionService(false)

	exhibition := &models.Exhibition{ID: uuid.New()}
	m.expectExhibition(exhibition)

	_, err := service.ScheduleEvent(context.Background(), exhibition.ID, EventInput{EventDate: date(2025, time.June, 20)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.ScheduleEvent(context.Background(), exhibition.ID, EventInput{Title: "Curator tour"})
	assert.ErrorIs(t, err, ErrValidation)

	capacity := -5
	_, err = service.ScheduleEvent(context.Background(), exhibition.ID, EventInput{
		Title:     "Curator tour",
		EventDate: date(2025, time.June, 20),
		Capacity:  &capacity,
	})
	assert.ErrorIs(t, err, ErrValidation)

	m.events.On("Create", mock.Anything, mock.MatchedBy(func(event *models.Event) bool {
		return event.Status == models.EventScheduled && event.Title == "Curator tour"
	})).Return(nil)
	event, err := service.ScheduleEvent(context.Background(), exhibition.ID, EventInput{
		Title:     "Curator tour",
		EventDate: date(2025, time.June, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventScheduled, event.Status)
}

func TestListEventsUpcomingOnly(t *testing.T) {
	service, m := newCompositionService(false)

	exhibitionID := uuid.New()
	now := date(2025, time.June, 10)
	m.events.On("List", mock.Anything, exhibitionID, &now).Return([]models.Event{}, nil)

	_, err := service.ListEvents(context.Background(), exhibitionID, true)
	require.NoError(t, err)
	m.events.AssertExpectations(t)
}

func TestCancelEventKeepsRow(t *testing.T) {
	service, m := newCompositionService(false)

	eventID := uuid.New()
	m.events.On("Update", mock.Anything, eventID, map[string]interface{}{
		"status": models.EventCanceled,
	}).Return(nil)

	err := service.CancelEvent(context.Background(), eventID)
	require.NoError(t, err)
	m.events.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
