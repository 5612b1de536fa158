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

// deadlineLayout is the wire format for task deadlines.
const deadlineLayout = "2006-01-02"

// ItemInput carries the caller-provided fields for a new item.
type ItemInput struct {
	Name        string
	Description string
	// Responsible optionally pre-assigns an admitted member.
	Responsible string
	// Deadline is the task due date in YYYY-MM-DD form. Tasks only.
	Deadline string
}

// ItemPatch is a partial update; nil fields are left untouched. Setting
// Responsible to an empty string clears the claim.
type ItemPatch struct {
	Name        *string
	Description *string
	Responsible *string
	Deadline    *string
}

// ItemService is the assignable-item registry, shared by purchases, stuffs
// and tasks. Kind-specific behavior (name bounds, deadlines, costs) hangs
// off the kind rather than duplicating the registry three times.
type ItemService struct {
	store storage.Store
}

// NewItemService creates a new ItemService with the given storage backend.
func NewItemService(store storage.Store) *ItemService {
	return &ItemService{store: store}
}

// List returns the event's items of one kind for any admitted member.
func (s *ItemService) List(ctx context.Context, eventID, login string, kind models.ItemKind) ([]*models.Item, error) {
	if _, err := loadAdmitted(ctx, s.store, eventID, login); err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, eventID, kind)
}

// Create adds a new item. Organizer or creator only, event active only.
func (s *ItemService) Create(ctx context.Context, eventID, login string, kind models.ItemKind, input ItemInput) (*models.Item, error) {
	mc, err := loadMember(ctx, s.store, eventID, login)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionCreateItem, mc.member.Role, mc.event.Status) {
		return nil, policy.ErrPermissionDenied
	}

	item := &models.Item{
		EventID:     eventID,
		Kind:        kind,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}

	if err := validateItemName(kind, item.Name); err != nil {
		return nil, err
	}
	if kind == models.KindTask {
		deadline, err := parseDeadline(input.Deadline)
		if err != nil {
			return nil, err
		}
		item.Deadline = deadline
		item.TaskStatus = models.TaskNew
	}
	if input.Responsible != "" {
		if err := s.checkAssignable(ctx, eventID, input.Responsible); err != nil {
			return nil, err
		}
		item.ResponsibleLogin = input.Responsible
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		slog.Error("Create item failed", "event_id", eventID, "kind", kind, "error", err)
		return nil, err
	}

	slog.Info("Item created", "event_id", eventID, "kind", kind, "item_id", item.ID, "by", login)
	return s.store.GetItem(ctx, eventID, item.ID)
}

// Edit applies a partial update. Organizer or creator only. The claim state
// is untouched unless the patch explicitly sets Responsible.
func (s *ItemService) Edit(ctx context.Context, eventID, login, itemID string, patch ItemPatch) (*models.Item, error) {
	mc, err := loadMember(ctx, s.store, eventID, login)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionEditItem, mc.member.Role, mc.event.Status) {
		return nil, policy.ErrPermissionDenied
	}

	item, err := s.getItem(ctx, eventID, itemID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := validateItemName(item.Kind, name); err != nil {
			return nil, err
		}
		item.Name = name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Deadline != nil {
		if item.Kind != models.KindTask {
			return nil, policy.Invalid("deadline", "only tasks have deadlines")
		}
		deadline, err := parseDeadline(*patch.Deadline)
		if err != nil {
			return nil, err
		}
		item.Deadline = deadline
	}
	if patch.Responsible != nil {
		if *patch.Responsible == "" {
			item.ResponsibleLogin = ""
		} else {
			if err := s.checkAssignable(ctx, eventID, *patch.Responsible); err != nil {
				return nil, err
			}
			item.ResponsibleLogin = *patch.Responsible
		}
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, policy.NotFound("item", itemID)
		}
		return nil, err
	}

	slog.Info("Item updated", "event_id", eventID, "item_id", itemID, "by", login)
	return s.store.GetItem(ctx, eventID, itemID)
}

// Delete removes the item. Organizer or creator only.
func (s *ItemService) Delete(ctx context.Context, eventID, login, itemID string) error {
	mc, err := loadMember(ctx, s.store, eventID, login)
	if err != nil {
		return err
	}
	if !policy.Can(policy.ActionDeleteItem, mc.member.Role, mc.event.Status) {
		return policy.ErrPermissionDenied
	}

	if err := s.store.DeleteItem(ctx, eventID, itemID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return policy.NotFound("item", itemID)
		}
		return err
	}

	slog.Info("Item deleted", "event_id", eventID, "item_id", itemID, "by", login)
	return nil
}

// Claim assigns the item to the caller if nobody holds it. Any admitted
// member may claim; two concurrent claims resolve to exactly one winner and
// the loser gets a conflict.
func (s *ItemService) Claim(ctx context.Context, eventID, login, itemID string) (*models.Item, error) {
	mc, err := loadAdmitted(ctx, s.store, eventID, login)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionClaimItem, mc.member.Role, mc.event.Status) {
		return nil, policy.ErrPermissionDenied
	}

	item, err := s.getItem(ctx, eventID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Kind == models.KindTask && item.TaskStatus == models.TaskDone {
		return nil, policy.InvalidState("task is already done")
	}

	claimed, err := s.store.ClaimItem(ctx, eventID, itemID, login)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, policy.Conflict("item is already claimed")
	}

	slog.Info("Item claimed", "event_id", eventID, "item_id", itemID, "by", login)
	return s.store.GetItem(ctx, eventID, itemID)
}

// Release gives an item back. Only the current owner may release, a done
// task stays with whoever finished it, and a purchase with a recorded cost
// stays with whoever paid: releasing it would orphan the money before
// finalization.
func (s *ItemService) Release(ctx context.Context, eventID, login, itemID string) (*models.Item, error) {
	mc, err := loadAdmitted(ctx, s.store, eventID, login)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionReleaseItem, mc.member.Role, mc.event.Status) {
		return nil, policy.ErrPermissionDenied
	}

	item, err := s.getItem(ctx, eventID, itemID)
	if err != nil {
		return nil, err
	}
	if item.ResponsibleLogin == "" {
		return nil, policy.InvalidState("item is not claimed")
	}
	if item.ResponsibleLogin != login {
		return nil, policy.ErrPermissionDenied
	}
	if item.Kind == models.KindTask && item.TaskStatus == models.TaskDone {
		return nil, policy.InvalidState("task is already done")
	}
	if item.Kind == models.KindPurchase && item.CostCents != 0 {
		return nil, policy.Conflict("purchase cost is already recorded")
	}

	released, err := s.store.ReleaseItem(ctx, eventID, itemID, login)
	if err != nil {
		return nil, err
	}
	if !released {
		// The claim moved between our read and the conditional update.
		return nil, policy.Conflict("item claim changed concurrently")
	}

	slog.Info("Item released", "event_id", eventID, "item_id", itemID, "by", login)
	return s.store.GetItem(ctx, eventID, itemID)
}

// SetTaskStatus advances a task's progress. Owner only. Legal moves are
// new -> in_progress, new -> done and in_progress -> done; done is terminal.
func (s *ItemService) SetTaskStatus(ctx context.Context, eventID, login, itemID string, status models.TaskStatus) (*models.Item, error) {
	mc, err := loadAdmitted(ctx, s.store, eventID, login)
	if err != nil {
		return nil, err
	}
	if mc.event.Status != models.EventActive {
		return nil, policy.ErrPermissionDenied
	}

	item, err := s.getItem(ctx, eventID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Kind != models.KindTask {
		return nil, policy.Invalid("item", "not a task")
	}
	if item.ResponsibleLogin != login {
		return nil, policy.ErrPermissionDenied
	}

	if !validTaskTransition(item.TaskStatus, status) {
		return nil, policy.InvalidState("cannot move task from %s to %s", item.TaskStatus, status)
	}

	item.TaskStatus = status
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	slog.Info("Task status changed", "event_id", eventID, "item_id", itemID, "status", status, "by", login)
	return item, nil
}

// SetPurchaseCost records what a purchase actually cost. Only the
// responsible member may set it, and only once: a nonzero cost is frozen
// so already-published numbers never shift under the allocation.
func (s *ItemService) SetPurchaseCost(ctx context.Context, eventID, login, itemID string, costCents int64) (*models.Item, error) {
	mc, err := loadAdmitted(ctx, s.store, eventID, login)
	if err != nil {
		return nil, err
	}
	if mc.event.Status != models.EventActive {
		return nil, policy.ErrPermissionDenied
	}
	if costCents <= 0 {
		return nil, policy.Invalid("cost", "must be positive")
	}

	item, err := s.getItem(ctx, eventID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Kind != models.KindPurchase {
		return nil, policy.Invalid("item", "not a purchase")
	}
	if item.ResponsibleLogin != login {
		return nil, policy.ErrPermissionDenied
	}
	if item.CostCents != 0 {
		return nil, policy.Conflict("cost is already set")
	}

	item.CostCents = costCents
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	slog.Info("Purchase cost set", "event_id", eventID, "item_id", itemID, "cost_cents", costCents, "by", login)
	return item, nil
}

// AddReceipt attaches a receipt to a purchase. Owner only.
func (s *ItemService) AddReceipt(ctx context.Context, eventID, login, itemID, url string) (*models.Item, error) {
	mc, err := loadAdmitted(ctx, s.store, eventID, login)
	if err != nil {
		return nil, err
	}
	if mc.event.Status != models.EventActive {
		return nil, policy.ErrPermissionDenied
	}
	if strings.TrimSpace(url) == "" {
		return nil, policy.Invalid("url", "must not be empty")
	}

	item, err := s.getItem(ctx, eventID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Kind != models.KindPurchase {
		return nil, policy.Invalid("item", "not a purchase")
	}
	if item.ResponsibleLogin != login {
		return nil, policy.ErrPermissionDenied
	}

	receipt := &models.Receipt{ItemID: itemID, URL: url}
	if err := s.store.AddReceipt(ctx, receipt); err != nil {
		return nil, err
	}

	slog.Info("Receipt attached", "event_id", eventID, "item_id", itemID, "by", login)
	return s.store.GetItem(ctx, eventID, itemID)
}

func (s *ItemService) getItem(ctx context.Context, eventID, itemID string) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, eventID, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, policy.NotFound("item", itemID)
		}
		return nil, err
	}
	return item, nil
}

// checkAssignable verifies the login is an admitted member of the event.
func (s *ItemService) checkAssignable(ctx context.Context, eventID, login string) error {
	m, err := s.store.GetMembership(ctx, eventID, login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return policy.Invalid("responsible", "unknown member %s", login)
		}
		return err
	}
	if !m.IsAdmitted() {
		return policy.Invalid("responsible", "member %s is not admitted", login)
	}
	return nil
}

func validateItemName(kind models.ItemKind, name string) error {
	if name == "" {
		return policy.Invalid("name", "must not be empty")
	}
	if limit := kind.NameLimit(); len([]rune(name)) > limit {
		return policy.Invalid("name", "must be at most %d characters", limit)
	}
	return nil
}

// parseDeadline validates the YYYY-MM-DD deadline and rejects dates before
// today (UTC).
func parseDeadline(raw string) (int64, error) {
	if raw == "" {
		return 0, policy.Invalid("deadline", "must be set")
	}
	deadline, err := time.ParseInLocation(deadlineLayout, raw, time.UTC)
	if err != nil {
		return 0, policy.Invalid("deadline", "must be a valid date in %s form", deadlineLayout)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if deadline.Before(today) {
		return 0, policy.Invalid("deadline", "must not be in the past")
	}
	return deadline.Unix(), nil
}

func validTaskTransition(from, to models.TaskStatus) bool {
	switch from {
	case models.TaskNew:
		return to == models.TaskInProgress || to == models.TaskDone
	case models.TaskInProgress:
		return to == models.TaskDone
	default:
		return false
	}
}
