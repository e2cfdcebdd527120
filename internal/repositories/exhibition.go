package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/galleria/services/exhibition/internal/models"
)

// ExhibitionFilter is the search surface over exhibitions. Derived
// predicates (Current/Upcoming) are evaluated against Now so callers can
// inject a fixed clock.
type ExhibitionFilter struct {
	Statuses    []models.ExhibitionStatus
	Type        *models.ExhibitionType
	VenueID     *uuid.UUID
	CuratorID   *uuid.UUID
	OpeningYear *int
	Current     bool
	Upcoming    bool
	Query       string
	Now         time.Time
	Limit       int
	Offset      int
}

// preOpenStatuses are the states an upcoming exhibition may be in
var preOpenStatuses = []models.ExhibitionStatus{
	models.StatusConcept,
	models.StatusPlanning,
	models.StatusPreparation,
	models.StatusInstallation,
}

// ExhibitionRepository provides access to exhibition data
type ExhibitionRepository interface {
	Create(ctx context.Context, exhibition *models.Exhibition) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	GetByID(ctx context.Context, id uuid.UUID, includeDetails bool) (*models.Exhibition, error)
	Search(ctx context.Context, filter ExhibitionFilter) ([]models.Exhibition, int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// Transition performs the conditional status write and the history
	// append in one transaction. ErrStaleStatus is returned when the row's
	// status no longer matches from.
	Transition(ctx context.Context, id uuid.UUID, from, to models.ExhibitionStatus, entry *models.StatusHistory) error
	CountByStatus(ctx context.Context) (map[models.ExhibitionStatus]int64, error)
	CountByType(ctx context.Context) (map[models.ExhibitionType]int64, error)
}

// exhibitionRepository implements ExhibitionRepository
type exhibitionRepository struct {
	db         *gorm.DB // Write database
	readOnlyDB *gorm.DB // Read-only database
}

// NewExhibitionRepository creates a new exhibition repository
func NewExhibitionRepository(db *gorm.DB, readOnlyDB *gorm.DB) ExhibitionRepository {
	return &exhibitionRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

// Create creates a new exhibition
func (r *exhibitionRepository) Create(ctx context.Context, exhibition *models.Exhibition) error {
	if err := r.db.WithContext(ctx).Create(exhibition).Error; err != nil {
		return errors.Wrap(err, "failed to create exhibition")
	}
	return nil
}

// Update patches the given fields on an exhibition
func (r *exhibitionRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Exhibition{}).
		Where("id = ?", id).
		Updates(fields)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update exhibition")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID gets an exhibition by ID, optionally preloading its sub-trees
func (r *exhibitionRepository) GetByID(ctx context.Context, id uuid.UUID, includeDetails bool) (*models.Exhibition, error) {
	query := r.readOnlyDB.WithContext(ctx)

	if includeDetails {
		query = query.
			Preload("Sections", func(db *gorm.DB) *gorm.DB {
				return db.Order("sequence_order")
			}).
			Preload("Placements").
			Preload("Storylines", func(db *gorm.DB) *gorm.DB {
				return db.Order("sequence_order")
			}).
			Preload("Storylines.Stops", func(db *gorm.DB) *gorm.DB {
				return db.Order("sequence_order")
			}).
			Preload("Events").
			Preload("Checklists.Items")
	}

	var exhibition models.Exhibition
	err := query.First(&exhibition, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get exhibition by ID")
	}
	return &exhibition, nil
}

// Search returns a page of exhibitions matching the filter plus the total
// match count, ordered by opening_date descending
func (r *exhibitionRepository) Search(ctx context.Context, filter ExhibitionFilter) ([]models.Exhibition, int64, error) {
	query := r.readOnlyDB.WithContext(ctx).Model(&models.Exhibition{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN (?)", filter.Statuses)
	}
	if filter.Type != nil {
		query = query.Where("exhibition_type = ?", *filter.Type)
	}
	if filter.VenueID != nil {
		query = query.Where("venue_id = ?", *filter.VenueID)
	}
	if filter.CuratorID != nil {
		query = query.Where("curator_id = ?", *filter.CuratorID)
	}
	if filter.OpeningYear != nil {
		start := time.Date(*filter.OpeningYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("opening_date >= ? AND opening_date < ?", start, start.AddDate(1, 0, 0))
	}
	// Current/Upcoming mirror services.IsCurrent and services.IsUpcoming;
	// Now must already be truncated to a calendar date because the date
	// columns hold midnight values
	if filter.Current {
		query = query.Where("status = ?", models.StatusOpen).
			Where("opening_date <= ?", filter.Now).
			Where("closing_date IS NULL OR closing_date >= ?", filter.Now)
	}
	if filter.Upcoming {
		query = query.Where("opening_date > ?", filter.Now).
			Where("status IN (?)", preOpenStatuses)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where(
			"title ILIKE ? OR description ILIKE ? OR theme ILIKE ? OR curator_name ILIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count exhibitions")
	}

	var exhibitions []models.Exhibition
	err := query.
		Order("opening_date DESC NULLS LAST").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&exhibitions).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to search exhibitions")
	}

	return exhibitions, total, nil
}

// SlugExists reports whether an exhibition with the slug already exists,
// soft-deleted rows included so slugs are never recycled
func (r *exhibitionRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.readOnlyDB.WithContext(ctx).
		Unscoped().
		Model(&models.Exhibition{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check exhibition slug")
	}
	return count > 0, nil
}

// Transition applies a status change guarded by the expected current
// status and appends the ledger entry, atomically. Losing a concurrent
// race yields ErrStaleStatus and writes nothing.
func (r *exhibitionRepository) Transition(ctx context.Context, id uuid.UUID, from, to models.ExhibitionStatus, entry *models.StatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Exhibition{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]interface{}{
				"status":     to,
				"updated_by": entry.ChangedBy,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to update exhibition status")
		}
		if result.RowsAffected == 0 {
			return ErrStaleStatus
		}

		if err := tx.Create(entry).Error; err != nil {
			return errors.Wrap(err, "failed to append status history entry")
		}
		return nil
	})
}

// CountByStatus returns the number of exhibitions per lifecycle state
func (r *exhibitionRepository) CountByStatus(ctx context.Context) (map[models.ExhibitionStatus]int64, error) {
	var rows []struct {
		Status models.ExhibitionStatus
		Count  int64
	}
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.Exhibition{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count exhibitions by status")
	}

	counts := make(map[models.ExhibitionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountByType returns the number of exhibitions per exhibition type
func (r *exhibitionRepository) CountByType(ctx context.Context) (map[models.ExhibitionType]int64, error) {
	var rows []struct {
		Type  models.ExhibitionType `gorm:"column:exhibition_type"`
		Count int64
	}
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.Exhibition{}).
		Select("exhibition_type, count(*) as count").
		Group("exhibition_type").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count exhibitions by type")
	}

	counts := make(map[models.ExhibitionType]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
