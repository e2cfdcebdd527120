package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/galleria/services/exhibition/internal/models"
)

// SectionRepository provides access to exhibition sections
type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error)
	ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Section, error)
	NextSequence(ctx context.Context, exhibitionID uuid.UUID) (int, error)
	// Reorder rewrites sequence_order to match the given permutation of the
	// exhibition's section ids, in one transaction.
	Reorder(ctx context.Context, exhibitionID uuid.UUID, orderedIDs []uuid.UUID) error
	// Delete detaches the section's placements (section_id set to null)
	// before removing the row. Placements are never cascaded away.
	Delete(ctx context.Context, id uuid.UUID) error
}

type sectionRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(db *gorm.DB, readOnlyDB *gorm.DB) SectionRepository {
	return &sectionRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

func (r *sectionRepository) Create(ctx context.Context, section *models.Section) error {
	if err := r.db.WithContext(ctx).Create(section).Error; err != nil {
		return errors.Wrap(err, "failed to create section")
	}
	return nil
}

func (r *sectionRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Section{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update section")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	var section models.Section
	err := r.readOnlyDB.WithContext(ctx).First(&section, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get section by ID")
	}
	return &section, nil
}

func (r *sectionRepository) ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Section, error) {
	var sections []models.Section
	err := r.readOnlyDB.WithContext(ctx).
		Where("exhibition_id = ?", exhibitionID).
		Order("sequence_order").
		Find(&sections).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sections")
	}
	return sections, nil
}

// NextSequence returns max(sequence_order)+1 within the exhibition
func (r *sectionRepository) NextSequence(ctx context.Context, exhibitionID uuid.UUID) (int, error) {
	var max int
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.Section{}).
		Where("exhibition_id = ?", exhibitionID).
		Select("COALESCE(MAX(sequence_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to compute next section sequence")
	}
	return max + 1, nil
}

func (r *sectionRepository) Reorder(ctx context.Context, exhibitionID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			result := tx.Model(&models.Section{}).
				Where("id = ? AND exhibition_id = ?", id, exhibitionID).
				Update("sequence_order", i+1)
			if result.Error != nil {
				return errors.Wrap(result.Error, "failed to reorder section")
			}
			if result.RowsAffected == 0 {
				return errors.Wrapf(ErrNotFound, "section %s not in exhibition", id)
			}
		}
		return nil
	})
}

func (r *sectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.ObjectPlacement{}).
			Where("section_id = ?", id).
			Update("section_id", nil).Error
		if err != nil {
			return errors.Wrap(err, "failed to detach placements from section")
		}

		result := tx.Delete(&models.Section{}, "id = ?", id)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to delete section")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
