package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Event statuses
const (
	EventDraft     = "DRAFT"
	EventPublished = "PUBLISHED"
	EventCancelled = "CANCELLED"
)

// Reservation statuses
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationRefused   = "REFUSED"
	ReservationCancelled = "CANCELLED"
)

// User represents users table
type User struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	FullName           string    `gorm:"size:100;not null" json:"full_name"`
	Email              string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password           string    `gorm:"size:255;not null" json:"-"`
	Role               string    `gorm:"size:20;default:'USER'" json:"role"`
	HashedRefreshToken *string   `gorm:"size:255" json:"-"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// IsAdmin reports whether the user holds the administrator role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse DTO
type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Event represents events table.
// No gorm soft-delete column: draft events are deleted physically, published
// events are "deleted" by transitioning to CANCELLED.
type Event struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DateTime    time.Time `gorm:"not null;index" json:"date_time"`
	Location    string    `gorm:"size:200;not null" json:"location"`
	MaxCapacity int       `gorm:"not null" json:"max_capacity"`
	Status      string    `gorm:"size:20;default:'DRAFT';index" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// EventResponse DTO enriched with the derived placesLeft quantity
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"date_time"`
	Location    string    `json:"location"`
	MaxCapacity int       `json:"max_capacity"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	PlacesLeft  int       `json:"places_left"`
}

// ToResponse builds the event DTO from the active reservation count
func (e *Event) ToResponse(activeCount int) *EventResponse {
	placesLeft := e.MaxCapacity - activeCount
	if placesLeft < 0 {
		placesLeft = 0
	}
	return &EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		DateTime:    e.DateTime,
		Location:    e.Location,
		MaxCapacity: e.MaxCapacity,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		PlacesLeft:  placesLeft,
	}
}

// Reservation represents reservations table
type Reservation struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	EventID   string    `gorm:"size:36;not null;index" json:"event_id"`
	Status    string    `gorm:"size:20;default:'PENDING';index" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Event     Event     `gorm:"foreignKey:EventID" json:"-"`
}

func (Reservation) TableName() string {
	return "reservations"
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// IsActive reports whether the reservation still consumes a place
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationPending || r.Status == ReservationConfirmed
}

// ReservationEventInfo is the event summary embedded in reservation DTOs
type ReservationEventInfo struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	DateTime time.Time `json:"date_time"`
	Location string    `json:"location"`
}

// ReservationUserInfo is the user summary embedded in admin-facing DTOs
type ReservationUserInfo struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ReservationResponse DTO
type ReservationResponse struct {
	ID        string                `json:"id"`
	UserID    string                `json:"user_id"`
	EventID   string                `json:"event_id"`
	Status    string                `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	Event     *ReservationEventInfo `json:"event,omitempty"`
	User      *ReservationUserInfo  `json:"user,omitempty"`
}

// ToResponse builds the reservation DTO. includeUser controls whether the
// owner summary is exposed (admin views only).
func (r *Reservation) ToResponse(includeUser bool) *ReservationResponse {
	resp := &ReservationResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		EventID:   r.EventID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.Event.ID != "" {
		resp.Event = &ReservationEventInfo{
			ID:       r.Event.ID,
			Title:    r.Event.Title,
			DateTime: r.Event.DateTime,
			Location: r.Event.Location,
		}
	}
	if includeUser && r.User.ID != "" {
		resp.User = &ReservationUserInfo{
			ID:       r.User.ID,
			FullName: r.User.FullName,
			Email:    r.User.Email,
		}
	}
	return resp
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Event{},
		&Reservation{},
	)
}
