package repositories

import (
	"context"

	"eventaro/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// reservationRepository implements ReservationRepository interface
type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// WithTx returns the repository bound to the given transaction
func (r *reservationRepository) WithTx(tx *gorm.DB) ReservationRepository {
	return &reservationRepository{db: tx}
}

// Create creates a new reservation
func (r *reservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// GetByID gets a reservation by ID with its event preloaded
func (r *reservationRepository) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindAll lists all reservations, newest first, with event and user preloaded
func (r *reservationRepository) FindAll(ctx context.Context) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

// FindByUserID lists a user's reservations, newest first
func (r *reservationRepository) FindByUserID(ctx context.Context, userID string) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

// UpdateStatus transitions a reservation to the given status
func (r *reservationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CountActiveByEventID counts PENDING+CONFIRMED reservations for one event
func (r *reservationRepository) CountActiveByEventID(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("event_id = ?", eventID).
		Where("status IN ?", []string{models.ReservationPending, models.ReservationConfirmed}).
		Count(&count).Error
	return count, err
}

// CountConfirmedByEventID counts CONFIRMED reservations for one event
func (r *reservationRepository) CountConfirmedByEventID(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("event_id = ?", eventID).
		Where("status = ?", models.ReservationConfirmed).
		Count(&count).Error
	return count, err
}

// CountActiveByEventIDs returns the grouped active-reservation aggregate
func (r *reservationRepository) CountActiveByEventIDs(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	type row struct {
		EventID string
		Total   int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("event_id, COUNT(id) AS total").
		Where("event_id IN ?", eventIDs).
		Where("status IN ?", []string{models.ReservationPending, models.ReservationConfirmed}).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.EventID] = r.Total
	}
	return counts, nil
}

// ExistsActiveByUserAndEvent checks for an active reservation on (user, event)
func (r *reservationRepository) ExistsActiveByUserAndEvent(ctx context.Context, userID, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("user_id = ?", userID).
		Where("event_id = ?", eventID).
		Where("status IN ?", []string{models.ReservationPending, models.ReservationConfirmed}).
		Count(&count).Error
	return count > 0, err
}

// CountByStatus returns reservation counts grouped by status
func (r *reservationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("status, COUNT(id) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
