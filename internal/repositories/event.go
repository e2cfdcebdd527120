package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/galleria/services/exhibition/internal/models"
)

// EventRepository provides access to exhibition events
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context, exhibitionID uuid.UUID, upcomingAfter *time.Time) ([]models.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountActive(ctx context.Context, exhibitionID uuid.UUID) (int64, error)
}

type eventRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB, readOnlyDB *gorm.DB) EventRepository {
	return &eventRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return errors.Wrap(err, "failed to create event")
	}
	return nil
}

func (r *eventRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update event")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.readOnlyDB.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get event by ID")
	}
	return &event, nil
}

// List returns an exhibition's events ordered by date; when upcomingAfter
// is set only scheduled events on or after that instant are returned
func (r *eventRepository) List(ctx context.Context, exhibitionID uuid.UUID, upcomingAfter *time.Time) ([]models.Event, error) {
	query := r.readOnlyDB.WithContext(ctx).
		Where("exhibition_id = ?", exhibitionID)

	if upcomingAfter != nil {
		query = query.
			Where("event_date >= ?", *upcomingAfter).
			Where("status = ?", models.EventScheduled)
	}

	var events []models.Event
	if err := query.Order("event_date").Find(&events).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list events")
	}
	return events, nil
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete event")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActive counts an exhibition's non-canceled events
func (r *eventRepository) CountActive(ctx context.Context, exhibitionID uuid.UUID) (int64, error) {
	var count int64
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.Event{}).
		Where("exhibition_id = ? AND status <> ?", exhibitionID, models.EventCanceled).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count events")
	}
	return count, nil
}
