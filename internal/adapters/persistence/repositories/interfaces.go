package repositories

import (
	"context"
	"time"

	"eventaro/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// SetHashedRefreshToken overwrites the stored refresh-token fingerprint.
	// A nil hash clears it (logout).
	SetHashedRefreshToken(ctx context.Context, userID string, hash *string) error
}

// EventRepository defines event repository interface
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	// GetByIDForUpdate reads the event under a row lock; must run inside a
	// transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Event, error)
	GetPublishedByID(ctx context.Context, id string) (*models.Event, error)
	Save(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]*models.Event, error)
	FindPublished(ctx context.Context) ([]*models.Event, error)
	FindUpcoming(ctx context.Context, from time.Time) ([]*models.Event, error)
	WithTx(tx *gorm.DB) EventRepository
}

// ReservationRepository defines reservation repository interface
type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	FindAll(ctx context.Context) ([]*models.Reservation, error)
	FindByUserID(ctx context.Context, userID string) ([]*models.Reservation, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// CountActiveByEventID counts PENDING+CONFIRMED reservations for one event.
	CountActiveByEventID(ctx context.Context, eventID string) (int64, error)
	// CountConfirmedByEventID counts CONFIRMED reservations only.
	CountConfirmedByEventID(ctx context.Context, eventID string) (int64, error)
	// CountActiveByEventIDs returns the grouped PENDING+CONFIRMED aggregate
	// keyed by event id; events without reservations are absent from the map.
	CountActiveByEventIDs(ctx context.Context, eventIDs []string) (map[string]int, error)
	ExistsActiveByUserAndEvent(ctx context.Context, userID, eventID string) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	WithTx(tx *gorm.DB) ReservationRepository
}
