package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"eventaro/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationLifecycleScenario(t *testing.T) {
	db := newTestDB(t)
	eventSvc := newEventService(db)
	svc := newReservationService(db)
	ctx := context.Background()

	userA := seedUser(t, db, "Alice Martin", "alice@example.com", models.RoleUser)
	userB := seedUser(t, db, "Bob Durand", "bob@example.com", models.RoleUser)

	// Admin creates a one-seat event far in the future
	event, err := eventSvc.Create(ctx, &CreateEventInput{
		Title:       "Go Conference",
		DateTime:    time.Now().Add(30 * 24 * time.Hour),
		Location:    "Lyon",
		MaxCapacity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventDraft, event.Status)

	// Publish it
	published := models.EventPublished
	_, err = eventSvc.Update(ctx, event.ID, &UpdateEventInput{Status: &published})
	require.NoError(t, err)

	// User A reserves the only seat
	reservation, err := svc.Create(ctx, userA.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, reservation.Status)

	found, err := eventSvc.FindOne(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.PlacesLeft)

	// User B is turned away
	_, err = svc.Create(ctx, userB.ID, event.ID)
	assert.ErrorIs(t, err, ErrEventFull)

	// Admin confirms A
	confirmed, err := svc.Confirm(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, confirmed.Status)

	// A downloads the ticket
	ticket, err := svc.GetTicket(ctx, reservation.ID, userA.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ticket.ContentType)
	assert.Equal(t, "ticket.pdf", ticket.FileName)
	assert.True(t, bytes.HasPrefix(ticket.Data, []byte("%PDF")))

	// A cancels well ahead of the event
	cancelled, err := svc.CancelByUser(ctx, reservation.ID, userA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCancelled, cancelled.Status)

	// The seat is free again
	found, err = eventSvc.FindOne(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.PlacesLeft)
}

func TestCreateReservationPreconditions(t *testing.T) {
	db := newTestDB(t)
	svc := newReservationService(db)
	ctx := context.Background()

	user := seedUser(t, db, "Alice Martin", "alice@example.com", models.RoleUser)

	_, err := svc.Create(ctx, user.ID, "missing-event")
	assert.ErrorIs(t, err, ErrEventNotFound)

	draft := seedEvent(t, db, models.EventDraft, 5, time.Now().Add(24*time.Hour))
	_, err = svc.Create(ctx, user.ID, draft.ID)
	assert.ErrorIs(t, err, ErrEventNotOpen)

	cancelled := seedEvent(t, db, models.EventCancelled, 5, time.Now().Add(24*time.Hour))
	_, err = svc.Create(ctx, user.ID, cancelled.ID)
	assert.ErrorIs(t, err, ErrEventNotOpen)

	open := seedEvent(t, db, models.EventPublished, 5, time.Now().Add(24*time.Hour))
	_, err = svc.Create(ctx, user.ID, open.ID)
	require.NoError(t, err)

	// One active reservation per (user, event)
	_, err = svc.Create(ctx, user.ID, open.ID)
	assert.ErrorIs(t, err, ErrAlreadyReserved)
}

func TestCreateReservationAllowedAfterTerminalStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newReservationService(db)
	ctx := context.Background()

	user := seedUser(t, db, "Alice Martin", "alice@example.com", models.RoleUser)
	event := seedEvent(t, db, models.EventPublished, 5, time.Now().Add(24*time.Hour))

	seedReservation(t, db, user.ID, event.ID, models.ReservationRefused)

	// A refused reservation is no longer active, so reserving again is fine
	_, err := svc.Create(ctx, user.ID, event.ID)
	require.NoError(t, err)
}

func TestConfirmChecksConfirmedCountOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newReservationService(db)
	ctx := context.Background()

	userA := seedUser(t, db, "A", "a@example.com", models.RoleUser)
	userB := seedUser(t, db, "B", "b@example.com", models.RoleUser)
	event := seedEvent(t, db, models.EventPublished, 1, time.Now().Add(24*time.Hour))

	// Two pending reservations seeded directly; capacity is one
	first := seedReservation(t, db, userA.ID, event.ID, models.ReservationPending)
	second := seedReservation(t, db, userB.ID, event.ID, models.ReservationPending)

	// Confirming the first succeeds: no reservation is CONFIRMED yet
	_, err := svc.Confirm(ctx, first.ID)
	require.NoError(t, err)

	// Confirming the second would exceed the confirmed count
	_, err = svc.Confirm(ctx, second.ID)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestConfirmRequiresPending(t *testing.T) {
	db := newTestDB(t)
	svc := newReservationService(db)
	ctx := context.Background()

	user := seedUser(t, db, "A", "a@example.com", models.RoleUser)
	event := seedEvent(t, db, models.EventPublished, 5, time.Now().Add(24*time.Hour))

	refused := seedReservation(t, db, user.ID, event.ID, models.ReservationRefused)
	_, err := svc.Confirm(ctx, refused.ID)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = svc.Confirm(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestRefuse(t *testing.T) {
	db := newTestDB(t)
	svc := newReservationService(db)
	ctx := context.Background()

	user := seedUser(t, db, "A", "a@example.com", models.RoleUser)
	event := seedEvent(t, db, models.EventPublished, 5, time.Now().Add(24*time.Hour))

	pending := seedReservation(t, db, user.ID, event.ID, models.ReservationPending)

	refused, err := svc.Refuse(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationRefused, refused.Status)

	// REFUSED is terminal
	_, err = svc.Refuse(ctx, pending.ID)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestCancelByAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newReservationService(db)
	ctx := context.Background()

	user := seedUser(t, db, "A", "a@example.com", models.RoleUser)
	event := seedEvent(t, db, models.EventPublished, 5, time.Now().Add(24*time.Hour))

	pending := seedReservation(t, db, user.ID, event.ID, models.ReservationPending)
	confirmed := seedReservation(t, db, user.ID, event.ID, models.ReservationConfirmed)
	refused := seedReservation(t, db, user.ID, event.ID, models.ReservationRefused)

	_, err := svc.CancelByAdmin(ctx, pending.ID)
	require.NoError(t, err)

	_, err = svc.CancelByAdmin(ctx, confirmed.ID)
	require.NoError(t, err)

	// Terminal statuses cannot be cancelled
	_, err = svc.CancelByAdmin(ctx, refused.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)

	_, err = svc.CancelByAdmin(ctx, pending.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancelByUserRules(t *testing.T) {
	db := newTestDB(t)
	svc := newReservationService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "A", "a@example.com", models.RoleUser)
	other := seedUser(t, db, "B", "b@example.com", models.RoleUser)

	farEvent := seedEvent(t, db, models.EventPublished, 5, time.Now().Add(30*24*time.Hour))
	confirmed := seedReservation(t, db, owner.ID, farEvent.ID, models.ReservationConfirmed)

	// Only the owner may cancel
	_, err := svc.CancelByUser(ctx, confirmed.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotReservationOwner)

	// Only CONFIRMED reservations can be cancelled by the user
	pending := seedReservation(t, db, other.ID, farEvent.ID, models.ReservationPending)
	_, err = svc.CancelByUser(ctx, pending.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotConfirmed)

	// Inside the 48h window the cancellation is rejected
	soonEvent := seedEvent(t, db, models.EventPublished, 5, time.Now().Add(12*time.Hour))
	lateConfirmed := seedReservation(t, db, owner.ID, soonEvent.ID, models.ReservationConfirmed)
	_, err = svc.CancelByUser(ctx, lateConfirmed.ID, owner.ID)
	assert.ErrorIs(t, err, ErrCancelWindowClosed)

	// Far enough ahead it succeeds
	cancelled, err := svc.CancelByUser(ctx, confirmed.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCancelled, cancelled.Status)
}

func TestGetTicketRules(t *testing.T) {
	db := newTestDB(t)
	svc := newReservationService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Alice Martin", "alice@example.com", models.RoleUser)
	other := seedUser(t, db, "Bob Durand", "bob@example.com", models.RoleUser)
	event := seedEvent(t, db, models.EventPublished, 5, time.Now().Add(24*time.Hour))

	pending := seedReservation(t, db, owner.ID, event.ID, models.ReservationPending)
	confirmed := seedReservation(t, db, owner.ID, event.ID, models.ReservationConfirmed)

	// Another user without the admin role is rejected
	_, err := svc.GetTicket(ctx, confirmed.ID, other.ID, false)
	assert.ErrorIs(t, err, ErrTicketAccessForbidden)

	// An administrator may download any ticket
	_, err = svc.GetTicket(ctx, confirmed.ID, other.ID, true)
	require.NoError(t, err)

	// Pending reservations have no ticket
	_, err = svc.GetTicket(ctx, pending.ID, owner.ID, false)
	assert.ErrorIs(t, err, ErrTicketNotAvailable)

	ticket, err := svc.GetTicket(ctx, confirmed.ID, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ticket.ContentType)
	assert.True(t, bytes.HasPrefix(ticket.Data, []byte("%PDF")))
}

func TestStatsByStatusZeroFilled(t *testing.T) {
	db := newTestDB(t)
	svc := newReservationService(db)
	ctx := context.Background()

	stats, err := svc.StatsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ReservationStats{}, stats)

	user := seedUser(t, db, "A", "a@example.com", models.RoleUser)
	event := seedEvent(t, db, models.EventPublished, 5, time.Now().Add(24*time.Hour))
	seedReservation(t, db, user.ID, event.ID, models.ReservationPending)
	seedReservation(t, db, user.ID, event.ID, models.ReservationConfirmed)
	seedReservation(t, db, user.ID, event.ID, models.ReservationConfirmed)

	stats, err = svc.StatsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(2), stats.Confirmed)
	assert.Equal(t, int64(0), stats.Refused)
	assert.Equal(t, int64(0), stats.Cancelled)
}

func TestFindMyAndFindAll(t *testing.T) {
	db := newTestDB(t)
	svc := newReservationService(db)
	ctx := context.Background()

	userA := seedUser(t, db, "A", "a@example.com", models.RoleUser)
	userB := seedUser(t, db, "B", "b@example.com", models.RoleUser)
	event := seedEvent(t, db, models.EventPublished, 5, time.Now().Add(24*time.Hour))

	seedReservation(t, db, userA.ID, event.ID, models.ReservationPending)
	seedReservation(t, db, userB.ID, event.ID, models.ReservationConfirmed)

	mine, err := svc.FindMy(ctx, userA.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, userA.ID, mine[0].UserID)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, event.ID, mine[0].Event.ID)
	// Owner details are not exposed on the self view
	assert.Nil(t, mine[0].User)

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, r := range all {
		require.NotNil(t, r.User)
		require.NotNil(t, r.Event)
	}
}
