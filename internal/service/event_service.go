package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/policy"
	"github.com/eventbuddy/backend/internal/storage"
)

// maxEventNameLen bounds the event name, matching the purchase bound.
const maxEventNameLen = 100

// EventInput carries the caller-editable event fields.
type EventInput struct {
	Name        string
	Date        int64
	Location    string
	Description string
	ChatLink    string
}

// EventPatch is a partial update; nil fields are left untouched.
type EventPatch struct {
	Name        *string
	Date        *int64
	Location    *string
	Description *string
	ChatLink    *string
}

// EventService manages the event lifecycle: create, edit, complete, delete.
type EventService struct {
	store storage.Store
}

// NewEventService creates a new EventService with the given storage backend.
func NewEventService(store storage.Store) *EventService {
	return &EventService{store: store}
}

// Create makes a new active event with the caller as its creator. The
// creator membership is admitted from the start and can never be removed or
// reassigned.
func (s *EventService) Create(ctx context.Context, creatorLogin string, input EventInput) (*models.Event, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:         strings.TrimSpace(input.Name),
		Date:         input.Date,
		Location:     input.Location,
		Description:  input.Description,
		ChatLink:     input.ChatLink,
		Status:       models.EventActive,
		CreatorLogin: creatorLogin,
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("Create event failed", "creator", creatorLogin, "error", err)
		return nil, err
	}

	slog.Info("Event created", "event_id", event.ID, "creator", creatorLogin)
	return event, nil
}

// Get returns the event for any of its members, pending included: a join
// requester may see what they asked to join, just nothing below it.
func (s *EventService) Get(ctx context.Context, eventID, login string) (*models.Event, error) {
	mc, err := loadMember(ctx, s.store, eventID, login)
	if err != nil {
		return nil, err
	}
	return mc.event, nil
}

// List returns every event the login belongs to, newest first.
func (s *EventService) List(ctx context.Context, login string) ([]*models.Event, error) {
	return s.store.ListEventsByLogin(ctx, login)
}

// Roster returns the event's memberships for any admitted member.
func (s *EventService) Roster(ctx context.Context, eventID, login string) ([]*models.Membership, error) {
	if _, err := loadAdmitted(ctx, s.store, eventID, login); err != nil {
		return nil, err
	}
	return s.store.ListMemberships(ctx, eventID)
}

// Edit applies a partial update. Organizer or creator only, active only.
func (s *EventService) Edit(ctx context.Context, eventID, login string, patch EventPatch) (*models.Event, error) {
	mc, err := loadMember(ctx, s.store, eventID, login)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionEditEvent, mc.member.Role, mc.event.Status) {
		return nil, policy.ErrPermissionDenied
	}

	event := mc.event
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, policy.Invalid("name", "must not be empty")
		}
		if len([]rune(name)) > maxEventNameLen {
			return nil, policy.Invalid("name", "must be at most %d characters", maxEventNameLen)
		}
		event.Name = name
	}
	if patch.Date != nil {
		event.Date = *patch.Date
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.ChatLink != nil {
		event.ChatLink = *patch.ChatLink
	}

	if err := s.store.UpdateEvent(ctx, event); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, policy.NotFound("event", eventID)
		}
		return nil, err
	}

	slog.Info("Event updated", "event_id", eventID, "by", login)
	return event, nil
}

// Complete transitions the event to completed. Creator only, only once the
// event date has passed. The transition is irreversible and freezes every
// mutation on the event's sub-resources.
func (s *EventService) Complete(ctx context.Context, eventID, login string) (*models.Event, error) {
	mc, err := loadMember(ctx, s.store, eventID, login)
	if err != nil {
		return nil, err
	}

	if mc.event.Status == models.EventCompleted {
		return nil, policy.InvalidState("event is already completed")
	}
	if !policy.Can(policy.ActionCompleteEvent, mc.member.Role, mc.event.Status) {
		return nil, policy.ErrPermissionDenied
	}
	if mc.event.Date > time.Now().Unix() {
		return nil, policy.InvalidState("event date has not passed yet")
	}

	mc.event.Status = models.EventCompleted
	if err := s.store.UpdateEvent(ctx, mc.event); err != nil {
		return nil, err
	}

	slog.Info("Event completed", "event_id", eventID, "by", login)
	return mc.event, nil
}

// Delete removes the event and everything it owns. Creator only, and only
// while the event is still active.
func (s *EventService) Delete(ctx context.Context, eventID, login string) error {
	mc, err := loadMember(ctx, s.store, eventID, login)
	if err != nil {
		return err
	}
	if !policy.Can(policy.ActionDeleteEvent, mc.member.Role, mc.event.Status) {
		return policy.ErrPermissionDenied
	}

	if err := s.store.DeleteEvent(ctx, eventID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return policy.NotFound("event", eventID)
		}
		return err
	}

	slog.Info("Event deleted", "event_id", eventID, "by", login)
	return nil
}

func validateEventInput(input EventInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return policy.Invalid("name", "must not be empty")
	}
	if len([]rune(name)) > maxEventNameLen {
		return policy.Invalid("name", "must be at most %d characters", maxEventNameLen)
	}
	if input.Date == 0 {
		return policy.Invalid("date", "must be set")
	}
	return nil
}
