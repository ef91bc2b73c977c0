package services

import (
	"testing"
	"time"

	"eventaro/internal/adapters/persistence/models"
	"eventaro/internal/adapters/persistence/repositories"
	"eventaro/internal/config"
	"eventaro/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 30,
		},
		Reservation: config.ReservationConfig{
			CancelLeadHours: 48,
		},
	}
}

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(repositories.NewUserRepository(db), newTestConfig())
}

func newEventService(db *gorm.DB) *EventService {
	return NewEventService(
		repositories.NewEventRepository(db),
		repositories.NewReservationRepository(db),
	)
}

func newReservationService(db *gorm.DB) *ReservationService {
	return NewReservationService(
		db,
		repositories.NewReservationRepository(db),
		repositories.NewEventRepository(db),
		repositories.NewUserRepository(db),
		NewTicketService(),
		48,
	)
}

func seedUser(t *testing.T, db *gorm.DB, fullName, email, role string) *models.User {
	t.Helper()

	hashed, err := password.Hash("password123")
	require.NoError(t, err)

	user := &models.User{
		FullName: fullName,
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedEvent(t *testing.T, db *gorm.DB, status string, capacity int, dateTime time.Time) *models.Event {
	t.Helper()

	event := &models.Event{
		Title:       "Go Conference",
		Description: "A conference about Go",
		DateTime:    dateTime,
		Location:    "Lyon",
		MaxCapacity: capacity,
		Status:      status,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func seedReservation(t *testing.T, db *gorm.DB, userID, eventID, status string) *models.Reservation {
	t.Helper()

	reservation := &models.Reservation{
		UserID:  userID,
		EventID: eventID,
		Status:  status,
	}
	require.NoError(t, db.Create(reservation).Error)
	return reservation
}
