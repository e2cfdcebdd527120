package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/galleria/services/exhibition/internal/models"
)

// PlacementConflict is another exhibition's placement of the same object
// whose display window overlaps the window under consideration.
type PlacementConflict struct {
	Placement       models.ObjectPlacement `json:"placement"`
	ExhibitionID    uuid.UUID              `json:"exhibition_id"`
	ExhibitionTitle string                 `json:"exhibition_title"`
	OpeningDate     *time.Time             `json:"opening_date"`
	ClosingDate     *time.Time             `json:"closing_date"`
}

// PlacementRepository provides access to object placements
type PlacementRepository interface {
	Create(ctx context.Context, placement *models.ObjectPlacement) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ObjectPlacement, error)
	ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.ObjectPlacement, error)
	NextSequence(ctx context.Context, exhibitionID uuid.UUID, sectionID *uuid.UUID) (int, error)
	Reorder(ctx context.Context, exhibitionID uuid.UUID, orderedIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindOverlapping finds confirmed or installed placements of the object
	// on other exhibitions whose open/close window overlaps [start, end].
	// A missing opening or closing date is treated as open-ended on that
	// side, so undated exhibitions still conflict.
	FindOverlapping(ctx context.Context, objectID, excludeExhibitionID uuid.UUID, start, end time.Time) ([]PlacementConflict, error)
	CountByStatus(ctx context.Context, exhibitionID uuid.UUID) (map[models.PlacementStatus]int64, error)
	SumInsuranceValue(ctx context.Context, exhibitionID uuid.UUID) (float64, error)
	// CountInstalledInOpen counts installed placements across all exhibitions
	// currently in the open state.
	CountInstalledInOpen(ctx context.Context) (int64, error)
	// SumInsuranceInOpen totals insurance value across open exhibitions.
	SumInsuranceInOpen(ctx context.Context) (float64, error)
}

type placementRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewPlacementRepository creates a new placement repository
func NewPlacementRepository(db *gorm.DB, readOnlyDB *gorm.DB) PlacementRepository {
	return &placementRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

func (r *placementRepository) Create(ctx context.Context, placement *models.ObjectPlacement) error {
	if err := r.db.WithContext(ctx).Create(placement).Error; err != nil {
		return errors.Wrap(err, "failed to create placement")
	}
	return nil
}

func (r *placementRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.ObjectPlacement{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update placement")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *placementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ObjectPlacement, error) {
	var placement models.ObjectPlacement
	err := r.readOnlyDB.WithContext(ctx).First(&placement, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get placement by ID")
	}
	return &placement, nil
}

func (r *placementRepository) ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.ObjectPlacement, error) {
	var placements []models.ObjectPlacement
	err := r.readOnlyDB.WithContext(ctx).
		Where("exhibition_id = ?", exhibitionID).
		Order("section_id, sequence_order").
		Find(&placements).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list placements")
	}
	return placements, nil
}

// NextSequence returns max(sequence_order)+1 scoped to the target section.
// Unsectioned placements form their own scope.
func (r *placementRepository) NextSequence(ctx context.Context, exhibitionID uuid.UUID, sectionID *uuid.UUID) (int, error) {
	query := r.readOnlyDB.WithContext(ctx).
		Model(&models.ObjectPlacement{}).
		Where("exhibition_id = ?", exhibitionID)

	if sectionID != nil {
		query = query.Where("section_id = ?", *sectionID)
	} else {
		query = query.Where("section_id IS NULL")
	}

	var max int
	err := query.Select("COALESCE(MAX(sequence_order), 0)").Scan(&max).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to compute next placement sequence")
	}
	return max + 1, nil
}

func (r *placementRepository) Reorder(ctx context.Context, exhibitionID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			result := tx.Model(&models.ObjectPlacement{}).
				Where("id = ? AND exhibition_id = ?", id, exhibitionID).
				Update("sequence_order", i+1)
			if result.Error != nil {
				return errors.Wrap(result.Error, "failed to reorder placement")
			}
			if result.RowsAffected == 0 {
				return errors.Wrapf(ErrNotFound, "placement %s not in exhibition", id)
			}
		}
		return nil
	})
}

func (r *placementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ObjectPlacement{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete placement")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *placementRepository) FindOverlapping(ctx context.Context, objectID, excludeExhibitionID uuid.UUID, start, end time.Time) ([]PlacementConflict, error) {
	var rows []struct {
		models.ObjectPlacement
		ExhibitionTitle string
		OpeningDate     *time.Time
		ClosingDate     *time.Time
	}

	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.ObjectPlacement{}).
		Select("object_placements.*, exhibitions.title AS exhibition_title, exhibitions.opening_date, exhibitions.closing_date").
		Joins("JOIN exhibitions ON exhibitions.id = object_placements.exhibition_id").
		Where("object_placements.object_id = ?", objectID).
		Where("object_placements.exhibition_id <> ?", excludeExhibitionID).
		Where("object_placements.status IN (?)", []models.PlacementStatus{
			models.PlacementConfirmed,
			models.PlacementInstalled,
		}).
		Where("exhibitions.opening_date IS NULL OR exhibitions.opening_date <= ?", end).
		Where("exhibitions.closing_date IS NULL OR exhibitions.closing_date >= ?", start).
		Where("exhibitions.deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find overlapping placements")
	}

	conflicts := make([]PlacementConflict, 0, len(rows))
	for _, row := range rows {
		conflicts = append(conflicts, PlacementConflict{
			Placement:       row.ObjectPlacement,
			ExhibitionID:    row.ObjectPlacement.ExhibitionID,
			ExhibitionTitle: row.ExhibitionTitle,
			OpeningDate:     row.OpeningDate,
			ClosingDate:     row.ClosingDate,
		})
	}
	return conflicts, nil
}

func (r *placementRepository) CountByStatus(ctx context.Context, exhibitionID uuid.UUID) (map[models.PlacementStatus]int64, error) {
	var rows []struct {
		Status models.PlacementStatus
		Count  int64
	}
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.ObjectPlacement{}).
		Select("status, count(*) as count").
		Where("exhibition_id = ?", exhibitionID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count placements by status")
	}

	counts := make(map[models.PlacementStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *placementRepository) CountInstalledInOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.ObjectPlacement{}).
		Joins("JOIN exhibitions ON exhibitions.id = object_placements.exhibition_id").
		Where("object_placements.status = ?", models.PlacementInstalled).
		Where("exhibitions.status = ?", models.StatusOpen).
		Where("exhibitions.deleted_at IS NULL").
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count installed placements")
	}
	return count, nil
}

func (r *placementRepository) SumInsuranceInOpen(ctx context.Context) (float64, error) {
	var total float64
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.ObjectPlacement{}).
		Joins("JOIN exhibitions ON exhibitions.id = object_placements.exhibition_id").
		Where("exhibitions.status = ?", models.StatusOpen).
		Where("exhibitions.deleted_at IS NULL").
		Select("COALESCE(SUM(object_placements.insurance_value), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum insurance value on display")
	}
	return total, nil
}

func (r *placementRepository) SumInsuranceValue(ctx context.Context, exhibitionID uuid.UUID) (float64, error) {
	var total float64
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.ObjectPlacement{}).
		Where("exhibition_id = ?", exhibitionID).
		Select("COALESCE(SUM(insurance_value), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum insurance value")
	}
	return total, nil
}
