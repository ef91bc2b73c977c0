package repositories

import (
	"context"
	"time"

	"eventaro/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// WithTx returns the repository bound to the given transaction
func (r *eventRepository) WithTx(tx *gorm.DB) EventRepository {
	return &eventRepository{db: tx}
}

// Create creates a new event
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetByID gets an event by ID
func (r *eventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetByIDForUpdate gets an event by ID under a SELECT ... FOR UPDATE row lock.
// Serializes capacity checks per event; only meaningful inside a transaction.
// SQLite has no FOR UPDATE; its single-writer model already serializes.
func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Event, error) {
	tx := r.db.WithContext(ctx)
	if r.db.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var event models.Event
	err := tx.Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetPublishedByID gets a published event by ID
func (r *eventRepository) GetPublishedByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("status = ?", models.EventPublished).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Save persists all fields of an existing event
func (r *eventRepository) Save(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete physically deletes an event
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{}).Error
}

// FindAll lists all events ordered by scheduled time
func (r *eventRepository) FindAll(ctx context.Context) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.WithContext(ctx).
		Order("date_time ASC").
		Find(&events).Error
	return events, err
}

// FindPublished lists published events ordered by scheduled time
func (r *eventRepository) FindPublished(ctx context.Context) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.WithContext(ctx).
		Where("status = ?", models.EventPublished).
		Order("date_time ASC").
		Find(&events).Error
	return events, err
}

// FindUpcoming lists events scheduled at or after the given instant
func (r *eventRepository) FindUpcoming(ctx context.Context, from time.Time) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.WithContext(ctx).
		Where("date_time >= ?", from).
		Order("date_time ASC").
		Find(&events).Error
	return events, err
}
