package handlers

import (
	"errors"
	"fmt"

	"eventaro/internal/adapters/persistence/models"
	"eventaro/internal/config"
	"eventaro/internal/core/services"
	"eventaro/internal/pkg/response"
	"eventaro/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ReservationHandler handles reservation ledger endpoints
type ReservationHandler struct {
	reservationService *services.ReservationService
	cfg                *config.Config
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *services.ReservationService, cfg *config.Config) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		cfg:                cfg,
	}
}

// CreateReservationRequest represents create reservation request body
type CreateReservationRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

// Create reserves a place on a published event
// @Summary Create reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateReservationRequest true "Reservation data"
// @Success 201 {object} models.ReservationResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	reservation, err := h.reservationService.Create(c.Context(), userID, req.EventID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrEventNotOpen):
			return response.BadRequest(c, "Event is not available for reservation")
		case errors.Is(err, services.ErrEventFull):
			return response.BadRequest(c, "Event is full")
		case errors.Is(err, services.ErrAlreadyReserved):
			return response.BadRequest(c, "You already have a reservation for this event")
		default:
			return response.InternalServerError(c, "Failed to create reservation")
		}
	}

	return response.Created(c, reservation)
}

// FindMy lists the caller's reservations
// @Summary My reservations
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ReservationResponse
// @Router /reservations/my [get]
func (h *ReservationHandler) FindMy(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	reservations, err := h.reservationService.FindMy(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reservations")
	}
	return response.OK(c, reservations)
}

// FindAll lists every reservation (admin)
// @Summary All reservations
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ReservationResponse
// @Router /reservations/all [get]
func (h *ReservationHandler) FindAll(c *fiber.Ctx) error {
	reservations, err := h.reservationService.FindAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list reservations")
	}
	return response.OK(c, reservations)
}

// Stats tallies reservations per status (admin)
// @Summary Reservation stats
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.ReservationStats
// @Router /reservations/stats [get]
func (h *ReservationHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reservationService.StatsByStatus(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load stats")
	}
	return response.OK(c, stats)
}

// Confirm confirms a pending reservation (admin)
// @Summary Confirm reservation
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} models.ReservationResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reservations/{id}/confirm [patch]
func (h *ReservationHandler) Confirm(c *fiber.Ctx) error {
	reservation, err := h.reservationService.Confirm(c.Context(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			return response.NotFound(c, "Reservation not found")
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrNotPending):
			return response.BadRequest(c, "Only pending reservations can be confirmed")
		case errors.Is(err, services.ErrCapacityExceeded):
			return response.BadRequest(c, "Event capacity would be exceeded")
		default:
			return response.InternalServerError(c, "Failed to confirm reservation")
		}
	}
	return response.OK(c, reservation)
}

// Refuse refuses a pending reservation (admin)
// @Summary Refuse reservation
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} models.ReservationResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reservations/{id}/refuse [patch]
func (h *ReservationHandler) Refuse(c *fiber.Ctx) error {
	reservation, err := h.reservationService.Refuse(c.Context(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			return response.NotFound(c, "Reservation not found")
		case errors.Is(err, services.ErrNotPending):
			return response.BadRequest(c, "Only pending reservations can be refused")
		default:
			return response.InternalServerError(c, "Failed to refuse reservation")
		}
	}
	return response.OK(c, reservation)
}

// Cancel cancels a reservation. Administrators may cancel any active
// reservation; users may cancel only their own confirmed one ahead of the
// cancellation deadline.
// @Summary Cancel reservation
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} models.ReservationResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reservations/{id}/cancel [patch]
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, _ := c.Locals("role").(string)

	var (
		reservation *models.ReservationResponse
		err         error
	)
	if role == models.RoleAdmin {
		reservation, err = h.reservationService.CancelByAdmin(c.Context(), c.Params("id"))
	} else {
		reservation, err = h.reservationService.CancelByUser(c.Context(), c.Params("id"), userID)
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			return response.NotFound(c, "Reservation not found")
		case errors.Is(err, services.ErrNotReservationOwner):
			return response.Forbidden(c, "Not your reservation")
		case errors.Is(err, services.ErrNotConfirmed):
			return response.BadRequest(c, "Only confirmed reservations can be cancelled")
		case errors.Is(err, services.ErrNotCancellable):
			return response.BadRequest(c, "Reservation cannot be cancelled")
		case errors.Is(err, services.ErrCancelWindowClosed):
			return response.BadRequest(c, fmt.Sprintf(
				"Cancellation is only allowed at least %dh before the event",
				h.cfg.Reservation.CancelLeadHours,
			))
		default:
			return response.InternalServerError(c, "Failed to cancel reservation")
		}
	}
	return response.OK(c, reservation)
}

// Ticket downloads the PDF ticket for a confirmed reservation
// @Summary Download ticket
// @Tags Reservations
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reservations/{id}/ticket [get]
func (h *ReservationHandler) Ticket(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, _ := c.Locals("role").(string)

	ticket, err := h.reservationService.GetTicket(c.Context(), c.Params("id"), userID, role == models.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			return response.NotFound(c, "Reservation not found")
		case errors.Is(err, services.ErrTicketAccessForbidden):
			return response.Forbidden(c, "Not allowed to download this ticket")
		case errors.Is(err, services.ErrTicketNotAvailable):
			return response.BadRequest(c, "Ticket is only available for confirmed reservations")
		default:
			return response.InternalServerError(c, "Failed to generate ticket")
		}
	}

	c.Set(fiber.HeaderContentType, ticket.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, ticket.FileName))
	return c.Send(ticket.Data)
}
