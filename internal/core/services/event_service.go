package services

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"eventaro/internal/adapters/persistence/models"
	"eventaro/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Event errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventDateInPast    = errors.New("event date must be in the future")
	ErrInvalidEventStatus = errors.New("invalid event status")
)

// EventService handles event catalog business logic
type EventService struct {
	eventRepo       repositories.EventRepository
	reservationRepo repositories.ReservationRepository
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo repositories.EventRepository,
	reservationRepo repositories.ReservationRepository,
) *EventService {
	return &EventService{
		eventRepo:       eventRepo,
		reservationRepo: reservationRepo,
	}
}

// CreateEventInput represents create event input
type CreateEventInput struct {
	Title       string
	Description string
	DateTime    time.Time
	Location    string
	MaxCapacity int
}

// UpdateEventInput represents partial update input; nil fields stay unchanged
type UpdateEventInput struct {
	Title       *string
	Description *string
	DateTime    *time.Time
	Location    *string
	MaxCapacity *int
	Status      *string
}

// EventStats represents capacity analytics for one event
type EventStats struct {
	EventID         string `json:"event_id"`
	MaxCapacity     int    `json:"max_capacity"`
	ReservedCount   int    `json:"reserved_count"`
	FillRatePercent int    `json:"fill_rate_percent"`
}

// Create creates a new event; it always starts in DRAFT
func (s *EventService) Create(ctx context.Context, input *CreateEventInput) (*models.EventResponse, error) {
	if !input.DateTime.After(time.Now()) {
		return nil, ErrEventDateInPast
	}

	event := &models.Event{
		Title:       input.Title,
		Description: input.Description,
		DateTime:    input.DateTime,
		Location:    input.Location,
		MaxCapacity: input.MaxCapacity,
		Status:      models.EventDraft,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("✅ Event created: %s (%s)", event.Title, event.ID)
	return event.ToResponse(0), nil
}

// Update applies the provided fields only. A changed scheduled time is
// re-validated against the update time, not the creation time.
func (s *EventService) Update(ctx context.Context, id string, input *UpdateEventInput) (*models.EventResponse, error) {
	event, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DateTime != nil {
		if !input.DateTime.After(time.Now()) {
			return nil, ErrEventDateInPast
		}
		event.DateTime = *input.DateTime
	}
	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.MaxCapacity != nil {
		event.MaxCapacity = *input.MaxCapacity
	}
	if input.Status != nil {
		switch *input.Status {
		case models.EventDraft, models.EventPublished, models.EventCancelled:
			event.Status = *input.Status
		default:
			return nil, ErrInvalidEventStatus
		}
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}

	return s.enrichOne(ctx, event)
}

// Remove deletes a draft event physically. A published event transitions to
// CANCELLED instead, preserving reservation history.
func (s *EventService) Remove(ctx context.Context, id string) error {
	event, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return err
	}

	if event.Status == models.EventPublished {
		event.Status = models.EventCancelled
		if err := s.eventRepo.Save(ctx, event); err != nil {
			return err
		}
		log.Printf("✅ Event cancelled (soft delete): %s", event.ID)
		return nil
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("✅ Event deleted: %s", event.ID)
	return nil
}

// FindPublished lists the public catalog
func (s *EventService) FindPublished(ctx context.Context) ([]*models.EventResponse, error) {
	events, err := s.eventRepo.FindPublished(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, events)
}

// FindAll lists the full catalog
func (s *EventService) FindAll(ctx context.Context) ([]*models.EventResponse, error) {
	events, err := s.eventRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, events)
}

// FindUpcoming lists events scheduled from now on
func (s *EventService) FindUpcoming(ctx context.Context) ([]*models.EventResponse, error) {
	events, err := s.eventRepo.FindUpcoming(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, events)
}

// FindOne returns one event regardless of status
func (s *EventService) FindOne(ctx context.Context, id string) (*models.EventResponse, error) {
	event, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, event)
}

// FindOnePublished returns one published event
func (s *EventService) FindOnePublished(ctx context.Context, id string) (*models.EventResponse, error) {
	event, err := s.eventRepo.GetPublishedByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.enrichOne(ctx, event)
}

// GetStats returns capacity, active count and fill ratio for one event
func (s *EventService) GetStats(ctx context.Context, id string) (*EventStats, error) {
	event, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.reservationRepo.CountActiveByEventIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	reserved := counts[id]

	fillRate := 0
	if event.MaxCapacity > 0 {
		fillRate = int(math.Round(float64(reserved) / float64(event.MaxCapacity) * 100))
	}

	return &EventStats{
		EventID:         id,
		MaxCapacity:     event.MaxCapacity,
		ReservedCount:   reserved,
		FillRatePercent: fillRate,
	}, nil
}

func (s *EventService) getOrNotFound(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// enrich merges the grouped active-reservation aggregate into the responses.
// Events absent from the aggregate count as zero.
func (s *EventService) enrich(ctx context.Context, events []*models.Event) ([]*models.EventResponse, error) {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	counts, err := s.reservationRepo.CountActiveByEventIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, e.ToResponse(counts[e.ID]))
	}
	return responses, nil
}

func (s *EventService) enrichOne(ctx context.Context, event *models.Event) (*models.EventResponse, error) {
	counts, err := s.reservationRepo.CountActiveByEventIDs(ctx, []string{event.ID})
	if err != nil {
		return nil, err
	}
	return event.ToResponse(counts[event.ID]), nil
}
