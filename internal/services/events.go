package services

import (
	"context"
	"time"

	"example.com/galleria/services/exhibition/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// EventInput carries the fields accepted when scheduling an event
type EventInput struct {
	Title        string
	Description  *string
	EventDate    time.Time
	StartTime    *string
	EndTime      *string
	Location     *string
	Capacity     *int
	Registration bool
	Presenter    *string
}

// EventPatch enumerates the mutable fields for partial event updates
type EventPatch struct {
	Title        *string
	Description  *string
	EventDate    *time.Time
	StartTime    *string
	EndTime      *string
	Location     *string
	Capacity     *int
	Registration *bool
	Presenter    *string
}

func (p EventPatch) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.EventDate != nil {
		fields["event_date"] = *p.EventDate
	}
	if p.StartTime != nil {
		fields["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		fields["end_time"] = *p.EndTime
	}
	if p.Location != nil {
		fields["location"] = *p.Location
	}
	if p.Capacity != nil {
		fields["capacity"] = *p.Capacity
	}
	if p.Registration != nil {
		fields["registration"] = *p.Registration
	}
	if p.Presenter != nil {
		fields["presenter"] = *p.Presenter
	}
	return fields
}

// ScheduleEvent attaches a scheduled event to an exhibition. Event dates
// outside the exhibition's open window are allowed; previews and members'
// evenings routinely fall outside it.
func (s *CompositionService) ScheduleEvent(ctx context.Context, exhibitionID uuid.UUID, input EventInput) (*models.Event, error) {
	if input.Title == "" {
		return nil, errors.Wrap(ErrValidation, "event title is required")
	}
	if input.EventDate.IsZero() {
		return nil, errors.Wrap(ErrValidation, "event date is required")
	}
	if input.Capacity != nil && *input.Capacity < 0 {
		return nil, errors.Wrap(ErrValidation, "capacity cannot be negative")
	}

	if _, err := s.exhibitions.GetByID(ctx, exhibitionID, false); err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:           uuid.New(),
		ExhibitionID: exhibitionID,
		Title:        input.Title,
		Description:  input.Description,
		EventDate:    input.EventDate,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		Location:     input.Location,
		Capacity:     input.Capacity,
		Registration: input.Registration,
		Presenter:    input.Presenter,
		Status:       models.EventScheduled,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// UpdateEvent applies a partial update to an event
func (s *CompositionService) UpdateEvent(ctx context.Context, id uuid.UUID, patch EventPatch) error {
	fields := patch.fields()
	if len(fields) == 0 {
		return errors.Wrap(ErrValidation, "no fields to update")
	}
	if title, ok := fields["title"]; ok && title == "" {
		return errors.Wrap(ErrValidation, "event title cannot be empty")
	}
	if capacity, ok := fields["capacity"]; ok {
		if c, ok := capacity.(int); ok && c < 0 {
			return errors.Wrap(ErrValidation, "capacity cannot be negative")
		}
	}
	return s.events.Update(ctx, id, fields)
}

// CancelEvent marks an event canceled without deleting it, keeping it
// visible in programme history
func (s *CompositionService) CancelEvent(ctx context.Context, id uuid.UUID) error {
	return s.events.Update(ctx, id, map[string]interface{}{
		"status": models.EventCanceled,
	})
}

// ListEvents returns the exhibition's events in date order. With
// upcomingOnly set, canceled and past events are filtered out.
func (s *CompositionService) ListEvents(ctx context.Context, exhibitionID uuid.UUID, upcomingOnly bool) ([]models.Event, error) {
	var after *time.Time
	if upcomingOnly {
		now := s.now()
		after = &now
	}
	return s.events.List(ctx, exhibitionID, after)
}

// DeleteEvent removes an event outright
func (s *CompositionService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return s.events.Delete(ctx, id)
}
