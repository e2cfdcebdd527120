package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/galleria/services/exhibition/internal/models"
)

// StorylineRepository provides access to storylines and their stops
type StorylineRepository interface {
	Create(ctx context.Context, storyline *models.Storyline) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Storyline, error)
	GetWithStops(ctx context.Context, id uuid.UUID) (*models.Storyline, error)
	ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Storyline, error)
	NextSequence(ctx context.Context, exhibitionID uuid.UUID) (int, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateStop(ctx context.Context, stop *models.StorylineStop) error
	UpdateStop(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	GetStopByID(ctx context.Context, id uuid.UUID) (*models.StorylineStop, error)
	NextStopSequence(ctx context.Context, storylineID uuid.UUID) (int, error)
	DeleteStop(ctx context.Context, id uuid.UUID) error
}

type storylineRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewStorylineRepository creates a new storyline repository
func NewStorylineRepository(db *gorm.DB, readOnlyDB *gorm.DB) StorylineRepository {
	return &storylineRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

func (r *storylineRepository) Create(ctx context.Context, storyline *models.Storyline) error {
	if err := r.db.WithContext(ctx).Create(storyline).Error; err != nil {
		return errors.Wrap(err, "failed to create storyline")
	}
	return nil
}

func (r *storylineRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Storyline{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update storyline")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storylineRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Storyline, error) {
	var storyline models.Storyline
	err := r.readOnlyDB.WithContext(ctx).First(&storyline, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get storyline by ID")
	}
	return &storyline, nil
}

func (r *storylineRepository) GetWithStops(ctx context.Context, id uuid.UUID) (*models.Storyline, error) {
	var storyline models.Storyline
	err := r.readOnlyDB.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_order")
		}).
		First(&storyline, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get storyline with stops")
	}
	return &storyline, nil
}

func (r *storylineRepository) ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Storyline, error) {
	var storylines []models.Storyline
	err := r.readOnlyDB.WithContext(ctx).
		Where("exhibition_id = ?", exhibitionID).
		Order("sequence_order").
		Find(&storylines).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list storylines")
	}
	return storylines, nil
}

func (r *storylineRepository) NextSequence(ctx context.Context, exhibitionID uuid.UUID) (int, error) {
	var max int
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.Storyline{}).
		Where("exhibition_id = ?", exhibitionID).
		Select("COALESCE(MAX(sequence_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to compute next storyline sequence")
	}
	return max + 1, nil
}

func (r *storylineRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.readOnlyDB.WithContext(ctx).
		Unscoped().
		Model(&models.Storyline{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check storyline slug")
	}
	return count > 0, nil
}

// Delete removes a storyline and its stops. Stops only ever reference
// placements weakly, so nothing outside the storyline sub-tree is touched.
func (r *storylineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.StorylineStop{}, "storyline_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "failed to delete storyline stops")
		}

		result := tx.Delete(&models.Storyline{}, "id = ?", id)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to delete storyline")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *storylineRepository) CreateStop(ctx context.Context, stop *models.StorylineStop) error {
	if err := r.db.WithContext(ctx).Create(stop).Error; err != nil {
		return errors.Wrap(err, "failed to create storyline stop")
	}
	return nil
}

func (r *storylineRepository) UpdateStop(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.StorylineStop{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update storyline stop")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storylineRepository) GetStopByID(ctx context.Context, id uuid.UUID) (*models.StorylineStop, error) {
	var stop models.StorylineStop
	err := r.readOnlyDB.WithContext(ctx).First(&stop, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get storyline stop by ID")
	}
	return &stop, nil
}

func (r *storylineRepository) NextStopSequence(ctx context.Context, storylineID uuid.UUID) (int, error) {
	var max int
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.StorylineStop{}).
		Where("storyline_id = ?", storylineID).
		Select("COALESCE(MAX(sequence_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to compute next stop sequence")
	}
	return max + 1, nil
}

func (r *storylineRepository) DeleteStop(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StorylineStop{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete storyline stop")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
