package services

import (
	"context"

	"example.com/galleria/services/exhibition/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ChecklistItemInput carries the fields accepted when adding an item
type ChecklistItemInput struct {
	Name        string
	Description *string
	Category    *string
	IsRequired  bool
}

// CreateChecklist creates an empty checklist on an exhibition
func (s *CompositionService) CreateChecklist(ctx context.Context, exhibitionID uuid.UUID, name string) (*models.Checklist, error) {
	if name == "" {
		return nil, errors.Wrap(ErrValidation, "checklist name is required")
	}

	if _, err := s.exhibitions.GetByID(ctx, exhibitionID, false); err != nil {
		return nil, err
	}

	checklist := &models.Checklist{
		ID:           uuid.New(),
		ExhibitionID: exhibitionID,
		Name:         name,
	}

	if err := s.checklists.CreateChecklist(ctx, checklist); err != nil {
		return nil, err
	}
	return checklist, nil
}

// CreateChecklistFromTemplate instantiates a template onto an exhibition.
// Items are copied at instantiation time; later template edits never
// propagate to existing checklists.
func (s *CompositionService) CreateChecklistFromTemplate(ctx context.Context, exhibitionID, templateID uuid.UUID) (*models.Checklist, error) {
	if _, err := s.exhibitions.GetByID(ctx, exhibitionID, false); err != nil {
		return nil, err
	}

	template, err := s.checklists.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	checklist := &models.Checklist{
		ID:           uuid.New(),
		ExhibitionID: exhibitionID,
		TemplateID:   &templateID,
		Name:         template.Name,
		Items:        make([]models.ChecklistItem, 0, len(template.Items)),
	}

	for _, templateItem := range template.Items {
		checklist.Items = append(checklist.Items, models.ChecklistItem{
			ID:          uuid.New(),
			ChecklistID: checklist.ID,
			Name:        templateItem.Name,
			Description: templateItem.Description,
			Category:    templateItem.Category,
			IsRequired:  templateItem.IsRequired,
		})
	}

	if err := s.checklists.CreateChecklist(ctx, checklist); err != nil {
		return nil, err
	}

	log.Info().
		Str("exhibition_id", exhibitionID.String()).
		Str("template_id", templateID.String()).
		Int("items", len(checklist.Items)).
		Msg("Checklist instantiated from template")

	return checklist, nil
}

// AddChecklistItem appends an item to a checklist
func (s *CompositionService) AddChecklistItem(ctx context.Context, checklistID uuid.UUID, input ChecklistItemInput) (*models.ChecklistItem, error) {
	if input.Name == "" {
		return nil, errors.Wrap(ErrValidation, "item name is required")
	}

	if _, err := s.checklists.GetChecklist(ctx, checklistID); err != nil {
		return nil, err
	}

	item := &models.ChecklistItem{
		ID:          uuid.New(),
		ChecklistID: checklistID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		IsRequired:  input.IsRequired,
	}

	if err := s.checklists.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// CompleteChecklistItem marks an item done, recording who and when.
// Completing an already completed item overwrites the previous stamp.
func (s *CompositionService) CompleteChecklistItem(ctx context.Context, itemID, actorID uuid.UUID, notes *string) error {
	if _, err := s.checklists.GetItem(ctx, itemID); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"is_completed": true,
		"completed_by": actorID,
		"completed_at": s.now(),
	}
	if notes != nil {
		fields["notes"] = *notes
	}

	return s.checklists.UpdateItem(ctx, itemID, fields)
}

// ReopenChecklistItem clears an item's completion stamp
func (s *CompositionService) ReopenChecklistItem(ctx context.Context, itemID uuid.UUID) error {
	return s.checklists.UpdateItem(ctx, itemID, map[string]interface{}{
		"is_completed": false,
		"completed_by": nil,
		"completed_at": nil,
	})
}

// GetChecklist loads a checklist with its items
func (s *CompositionService) GetChecklist(ctx context.Context, id uuid.UUID) (*models.Checklist, error) {
	return s.checklists.GetChecklist(ctx, id)
}

// ListChecklists returns the exhibition's checklists with items
func (s *CompositionService) ListChecklists(ctx context.Context, exhibitionID uuid.UUID) ([]models.Checklist, error) {
	return s.checklists.ListByExhibition(ctx, exhibitionID)
}

// ChecklistCompletion is the percentage of completed items, 0-100. A
// checklist with no items counts as fully complete.
func ChecklistCompletion(checklist *models.Checklist) float64 {
	if len(checklist.Items) == 0 {
		return 100
	}
	var done int
	for _, item := range checklist.Items {
		if item.IsCompleted {
			done++
		}
	}
	return float64(done) / float64(len(checklist.Items)) * 100
}
