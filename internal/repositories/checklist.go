package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/galleria/services/exhibition/internal/models"
)

// ChecklistRepository provides access to checklists, their items and the
// templates they are instantiated from
type ChecklistRepository interface {
	CreateChecklist(ctx context.Context, checklist *models.Checklist) error
	GetChecklist(ctx context.Context, id uuid.UUID) (*models.Checklist, error)
	ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Checklist, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*models.ChecklistTemplate, error)
	AddItem(ctx context.Context, item *models.ChecklistItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*models.ChecklistItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type checklistRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewChecklistRepository creates a new checklist repository
func NewChecklistRepository(db *gorm.DB, readOnlyDB *gorm.DB) ChecklistRepository {
	return &checklistRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

// CreateChecklist inserts a checklist together with any items already
// attached to it
func (r *checklistRepository) CreateChecklist(ctx context.Context, checklist *models.Checklist) error {
	if err := r.db.WithContext(ctx).Create(checklist).Error; err != nil {
		return errors.Wrap(err, "failed to create checklist")
	}
	return nil
}

func (r *checklistRepository) GetChecklist(ctx context.Context, id uuid.UUID) (*models.Checklist, error) {
	var checklist models.Checklist
	err := r.readOnlyDB.WithContext(ctx).
		Preload("Items").
		First(&checklist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get checklist by ID")
	}
	return &checklist, nil
}

func (r *checklistRepository) ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Checklist, error) {
	var checklists []models.Checklist
	err := r.readOnlyDB.WithContext(ctx).
		Preload("Items").
		Where("exhibition_id = ?", exhibitionID).
		Order("created_at").
		Find(&checklists).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list checklists")
	}
	return checklists, nil
}

func (r *checklistRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*models.ChecklistTemplate, error) {
	var template models.ChecklistTemplate
	err := r.readOnlyDB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_order")
		}).
		First(&template, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get checklist template")
	}
	return &template, nil
}

func (r *checklistRepository) AddItem(ctx context.Context, item *models.ChecklistItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return errors.Wrap(err, "failed to add checklist item")
	}
	return nil
}

func (r *checklistRepository) GetItem(ctx context.Context, id uuid.UUID) (*models.ChecklistItem, error) {
	var item models.ChecklistItem
	err := r.readOnlyDB.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get checklist item")
	}
	return &item, nil
}

func (r *checklistRepository) UpdateItem(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.ChecklistItem{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update checklist item")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
