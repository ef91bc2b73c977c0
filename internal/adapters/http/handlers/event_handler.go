package handlers

import (
	"errors"
	"time"

	"eventaro/internal/core/services"
	"eventaro/internal/pkg/response"
	"eventaro/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// EventHandler handles event catalog endpoints
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest represents create event request body
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	DateTime    string `json:"date_time" validate:"required"`
	Location    string `json:"location" validate:"required,min=1,max=200"`
	MaxCapacity int    `json:"max_capacity" validate:"required,gte=1"`
}

// UpdateEventRequest represents partial update request body
type UpdateEventRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	DateTime    *string `json:"date_time"`
	Location    *string `json:"location" validate:"omitempty,min=1,max=200"`
	MaxCapacity *int    `json:"max_capacity" validate:"omitempty,gte=1"`
	Status      *string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED CANCELLED"`
}

// FindPublished lists the public catalog
// @Summary List published events
// @Tags Events
// @Produce json
// @Success 200 {array} models.EventResponse
// @Router /events/published [get]
func (h *EventHandler) FindPublished(c *fiber.Ctx) error {
	events, err := h.eventService.FindPublished(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}
	return response.OK(c, events)
}

// FindOnePublished returns one published event
// @Summary Get published event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.EventResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /events/published/{id} [get]
func (h *EventHandler) FindOnePublished(c *fiber.Ctx) error {
	event, err := h.eventService.FindOnePublished(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to load event")
	}
	return response.OK(c, event)
}

// FindAll lists the full catalog (admin)
// @Summary List all events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.EventResponse
// @Router /events [get]
func (h *EventHandler) FindAll(c *fiber.Ctx) error {
	events, err := h.eventService.FindAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}
	return response.OK(c, events)
}

// FindUpcoming lists upcoming events (admin)
// @Summary List upcoming events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.EventResponse
// @Router /events/upcoming [get]
func (h *EventHandler) FindUpcoming(c *fiber.Ctx) error {
	events, err := h.eventService.FindUpcoming(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}
	return response.OK(c, events)
}

// FindOne returns one event regardless of status (admin)
// @Summary Get event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} models.EventResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) FindOne(c *fiber.Ctx) error {
	event, err := h.eventService.FindOne(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to load event")
	}
	return response.OK(c, event)
}

// GetStats returns capacity analytics for one event (admin)
// @Summary Event stats
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} services.EventStats
// @Failure 404 {object} response.ErrorResponse
// @Router /events/{id}/stats [get]
func (h *EventHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.eventService.GetStats(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to load stats")
	}
	return response.OK(c, stats)
}

// Create creates an event in DRAFT (admin)
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} models.EventResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	dateTime, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return response.BadRequest(c, "date_time must be a valid RFC3339 timestamp")
	}

	input := &services.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		DateTime:    dateTime,
		Location:    req.Location,
		MaxCapacity: req.MaxCapacity,
	}

	event, err := h.eventService.Create(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrEventDateInPast) {
			return response.BadRequest(c, "Event date must be in the future")
		}
		return response.InternalServerError(c, "Failed to create event")
	}

	return response.Created(c, event)
}

// Update applies a partial update (admin)
// @Summary Update event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} models.EventResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /events/{id} [patch]
func (h *EventHandler) Update(c *fiber.Ctx) error {
	var req UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	input := &services.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		MaxCapacity: req.MaxCapacity,
		Status:      req.Status,
	}
	if req.DateTime != nil {
		dateTime, err := time.Parse(time.RFC3339, *req.DateTime)
		if err != nil {
			return response.BadRequest(c, "date_time must be a valid RFC3339 timestamp")
		}
		input.DateTime = &dateTime
	}

	event, err := h.eventService.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrEventDateInPast):
			return response.BadRequest(c, "Event date must be in the future")
		case errors.Is(err, services.ErrInvalidEventStatus):
			return response.BadRequest(c, "Invalid event status")
		default:
			return response.InternalServerError(c, "Failed to update event")
		}
	}

	return response.OK(c, event)
}

// Delete removes a draft event or cancels a published one (admin)
// @Summary Delete event
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	if err := h.eventService.Remove(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to delete event")
	}
	return response.NoContent(c)
}
