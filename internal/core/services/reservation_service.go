package services

import (
	"context"
	"errors"
	"log"
	"time"

	"eventaro/internal/adapters/persistence/models"
	"eventaro/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Reservation errors
var (
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrEventNotOpen          = errors.New("event is not available for reservation")
	ErrEventFull             = errors.New("event is full")
	ErrAlreadyReserved       = errors.New("user already has a reservation for this event")
	ErrNotPending            = errors.New("reservation is not pending")
	ErrCapacityExceeded      = errors.New("event capacity would be exceeded")
	ErrNotCancellable        = errors.New("reservation cannot be cancelled")
	ErrNotConfirmed          = errors.New("reservation is not confirmed")
	ErrNotReservationOwner   = errors.New("reservation belongs to another user")
	ErrCancelWindowClosed    = errors.New("cancellation window has closed")
	ErrTicketNotAvailable    = errors.New("ticket is only available for confirmed reservations")
	ErrTicketAccessForbidden = errors.New("not allowed to download this ticket")
)

// ReservationService handles the reservation ledger: capacity ceilings,
// one-active-reservation-per-user-per-event, and status transitions.
type ReservationService struct {
	db              *gorm.DB
	reservationRepo repositories.ReservationRepository
	eventRepo       repositories.EventRepository
	userRepo        repositories.UserRepository
	ticketService   *TicketService
	cancelLead      time.Duration
}

// NewReservationService creates a new reservation service
func NewReservationService(
	db *gorm.DB,
	reservationRepo repositories.ReservationRepository,
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
	ticketService *TicketService,
	cancelLeadHours int,
) *ReservationService {
	return &ReservationService{
		db:              db,
		reservationRepo: reservationRepo,
		eventRepo:       eventRepo,
		userRepo:        userRepo,
		ticketService:   ticketService,
		cancelLead:      time.Duration(cancelLeadHours) * time.Hour,
	}
}

// ReservationStats is the fixed-shape tally of reservations per status
type ReservationStats struct {
	Pending   int64 `json:"PENDING"`
	Confirmed int64 `json:"CONFIRMED"`
	Refused   int64 `json:"REFUSED"`
	Cancelled int64 `json:"CANCELLED"`
}

// Ticket is an in-memory rendered confirmation artifact
type Ticket struct {
	Data        []byte
	ContentType string
	FileName    string
}

// Create reserves a place on a published event. The capacity and duplicate
// checks run inside a transaction holding a row lock on the event, so two
// concurrent requests for the last seat cannot both succeed.
func (s *ReservationService) Create(ctx context.Context, userID, eventID string) (*models.ReservationResponse, error) {
	var created *models.Reservation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eventRepo := s.eventRepo.WithTx(tx)
		reservationRepo := s.reservationRepo.WithTx(tx)

		event, err := eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if event.Status != models.EventPublished {
			return ErrEventNotOpen
		}

		activeCount, err := reservationRepo.CountActiveByEventID(ctx, eventID)
		if err != nil {
			return err
		}
		if activeCount >= int64(event.MaxCapacity) {
			return ErrEventFull
		}

		exists, err := reservationRepo.ExistsActiveByUserAndEvent(ctx, userID, eventID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyReserved
		}

		created = &models.Reservation{
			UserID:  userID,
			EventID: eventID,
			Status:  models.ReservationPending,
		}
		return reservationRepo.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Reservation created: %s (event %s, user %s)", created.ID, eventID, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	return reservation.ToResponse(false), nil
}

// Confirm transitions a pending reservation to CONFIRMED. Capacity is
// re-checked against the count of already-confirmed reservations, which is
// deliberately a different notion of "capacity consumed" than the
// pending+confirmed count used at creation time.
func (s *ReservationService) Confirm(ctx context.Context, id string) (*models.ReservationResponse, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eventRepo := s.eventRepo.WithTx(tx)
		reservationRepo := s.reservationRepo.WithTx(tx)

		reservation, err := reservationRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		if reservation.Status != models.ReservationPending {
			return ErrNotPending
		}

		event, err := eventRepo.GetByIDForUpdate(ctx, reservation.EventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		confirmedCount, err := reservationRepo.CountConfirmedByEventID(ctx, event.ID)
		if err != nil {
			return err
		}
		if confirmedCount >= int64(event.MaxCapacity) {
			return ErrCapacityExceeded
		}

		return reservationRepo.UpdateStatus(ctx, id, models.ReservationConfirmed)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Reservation confirmed: %s", id)
	return s.toResponseByID(ctx, id, false)
}

// Refuse transitions a pending reservation to REFUSED (terminal)
func (s *ReservationService) Refuse(ctx context.Context, id string) (*models.ReservationResponse, error) {
	reservation, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != models.ReservationPending {
		return nil, ErrNotPending
	}

	if err := s.reservationRepo.UpdateStatus(ctx, id, models.ReservationRefused); err != nil {
		return nil, err
	}

	log.Printf("✅ Reservation refused: %s", id)
	return s.toResponseByID(ctx, id, false)
}

// CancelByAdmin cancels an active reservation on behalf of an administrator
func (s *ReservationService) CancelByAdmin(ctx context.Context, id string) (*models.ReservationResponse, error) {
	reservation, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}
	if !reservation.IsActive() {
		return nil, ErrNotCancellable
	}

	if err := s.reservationRepo.UpdateStatus(ctx, id, models.ReservationCancelled); err != nil {
		return nil, err
	}

	log.Printf("✅ Reservation cancelled by admin: %s", id)
	return s.toResponseByID(ctx, id, false)
}

// CancelByUser cancels the caller's own confirmed reservation, only while the
// event start is strictly more than the cancellation lead time away.
func (s *ReservationService) CancelByUser(ctx context.Context, id, userID string) (*models.ReservationResponse, error) {
	reservation, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, ErrNotReservationOwner
	}
	if reservation.Status != models.ReservationConfirmed {
		return nil, ErrNotConfirmed
	}

	cutoff := reservation.Event.DateTime.Add(-s.cancelLead)
	if time.Now().After(cutoff) {
		return nil, ErrCancelWindowClosed
	}

	if err := s.reservationRepo.UpdateStatus(ctx, id, models.ReservationCancelled); err != nil {
		return nil, err
	}

	log.Printf("✅ Reservation cancelled by user: %s", id)
	return s.toResponseByID(ctx, id, false)
}

// FindAll lists every reservation with owner details (admin view)
func (s *ReservationService) FindAll(ctx context.Context) ([]*models.ReservationResponse, error) {
	reservations, err := s.reservationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		responses = append(responses, r.ToResponse(true))
	}
	return responses, nil
}

// FindMy lists the caller's own reservations
func (s *ReservationService) FindMy(ctx context.Context, userID string) ([]*models.ReservationResponse, error) {
	reservations, err := s.reservationRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		responses = append(responses, r.ToResponse(false))
	}
	return responses, nil
}

// StatsByStatus tallies reservations per status; missing statuses are zero
func (s *ReservationService) StatsByStatus(ctx context.Context) (*ReservationStats, error) {
	counts, err := s.reservationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &ReservationStats{
		Pending:   counts[models.ReservationPending],
		Confirmed: counts[models.ReservationConfirmed],
		Refused:   counts[models.ReservationRefused],
		Cancelled: counts[models.ReservationCancelled],
	}, nil
}

// GetTicket renders the PDF ticket for a confirmed reservation. Only the
// owner or an administrator may download it.
func (s *ReservationService) GetTicket(ctx context.Context, id, callerID string, isAdmin bool) (*Ticket, error) {
	reservation, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != callerID && !isAdmin {
		return nil, ErrTicketAccessForbidden
	}
	if reservation.Status != models.ReservationConfirmed {
		return nil, ErrTicketNotAvailable
	}

	participantName := "Participant"
	if owner, err := s.userRepo.GetByID(ctx, reservation.UserID); err == nil {
		participantName = owner.FullName
	}

	data, err := s.ticketService.Generate(reservation, participantName)
	if err != nil {
		return nil, err
	}

	return &Ticket{
		Data:        data,
		ContentType: "application/pdf",
		FileName:    "ticket.pdf",
	}, nil
}

func (s *ReservationService) getOrNotFound(ctx context.Context, id string) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return reservation, nil
}

func (s *ReservationService) toResponseByID(ctx context.Context, id string, includeUser bool) (*models.ReservationResponse, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return reservation.ToResponse(includeUser), nil
}
