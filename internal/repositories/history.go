package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/galleria/services/exhibition/internal/models"
)

// HistoryRepository is the append-only status ledger. There is no update
// or delete on purpose.
type HistoryRepository interface {
	Append(ctx context.Context, entry *models.StatusHistory) error
	ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.StatusHistory, error)
}

type historyRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewHistoryRepository creates a new status history repository
func NewHistoryRepository(db *gorm.DB, readOnlyDB *gorm.DB) HistoryRepository {
	return &historyRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

func (r *historyRepository) Append(ctx context.Context, entry *models.StatusHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(err, "failed to append status history entry")
	}
	return nil
}

func (r *historyRepository) ListByExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.StatusHistory, error) {
	var entries []models.StatusHistory
	err := r.readOnlyDB.WithContext(ctx).
		Where("exhibition_id = ?", exhibitionID).
		Order("created_at").
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list status history")
	}
	return entries, nil
}
