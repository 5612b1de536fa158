package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/policy"
	"github.com/eventbuddy/backend/internal/storage"
)

// MembershipService manages the per-event roster: join requests, admission,
// role toggling and removal.
type MembershipService struct {
	store storage.Store
}

// NewMembershipService creates a new MembershipService with the given
// storage backend.
func NewMembershipService(store storage.Store) *MembershipService {
	return &MembershipService{store: store}
}

// RequestJoin creates a pending membership for the caller. One membership
// per (event, user) in any state; a second request is a conflict.
func (s *MembershipService) RequestJoin(ctx context.Context, eventID, login string) (*models.Membership, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, policy.NotFound("event", eventID)
		}
		return nil, err
	}
	if event.Status != models.EventActive {
		return nil, policy.InvalidState("event is completed")
	}

	existing, err := s.store.GetMembership(ctx, eventID, login)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, policy.Conflict("already a member of this event")
	}

	m := &models.Membership{
		EventID:   eventID,
		Login:     login,
		Role:      models.RoleParticipant,
		Admission: models.AdmissionPending,
	}
	if err := s.store.CreateMembership(ctx, m); err != nil {
		slog.Error("RequestJoin failed", "event_id", eventID, "login", login, "error", err)
		return nil, err
	}

	slog.Info("Join requested", "event_id", eventID, "login", login)
	return m, nil
}

// Admit transitions a pending membership to admitted participant.
// Organizer or creator only.
func (s *MembershipService) Admit(ctx context.Context, eventID, actorLogin, targetLogin string) (*models.Membership, error) {
	mc, err := loadMember(ctx, s.store, eventID, actorLogin)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionAdmitMember, mc.member.Role, mc.event.Status) {
		return nil, policy.ErrPermissionDenied
	}

	target, err := s.store.GetMembership(ctx, eventID, targetLogin)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, policy.NotFound("membership", targetLogin)
		}
		return nil, err
	}
	if target.Admission != models.AdmissionPending {
		return nil, policy.Conflict("member %s is already admitted", targetLogin)
	}

	target.Admission = models.AdmissionAdmitted
	if err := s.store.UpdateMembership(ctx, target); err != nil {
		return nil, err
	}

	slog.Info("Member admitted", "event_id", eventID, "login", targetLogin, "by", actorLogin)
	return target, nil
}

// AddDirectly creates admitted participant memberships for the given logins,
// bypassing the request step. Organizer or creator only. Unknown logins
// reject the whole call; logins that already have a membership are skipped.
// Skipping covers pending memberships too: direct addition admits them.
func (s *MembershipService) AddDirectly(ctx context.Context, eventID, actorLogin string, logins []string) ([]*models.Membership, error) {
	mc, err := loadMember(ctx, s.store, eventID, actorLogin)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionAdmitMember, mc.member.Role, mc.event.Status) {
		return nil, policy.ErrPermissionDenied
	}
	if len(logins) == 0 {
		return nil, policy.Invalid("logins", "must not be empty")
	}

	users, err := s.store.GetUsersByLogins(ctx, logins)
	if err != nil {
		return nil, err
	}
	for _, login := range logins {
		if users[login] == nil {
			return nil, policy.Invalid("logins", "unknown login %s", login)
		}
	}

	var added []*models.Membership
	for _, login := range logins {
		existing, err := s.store.GetMembership(ctx, eventID, login)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			if existing.Admission == models.AdmissionPending {
				existing.Admission = models.AdmissionAdmitted
				if err := s.store.UpdateMembership(ctx, existing); err != nil {
					return nil, err
				}
				added = append(added, existing)
			}
			continue
		}

		m := &models.Membership{
			EventID:     eventID,
			Login:       login,
			DisplayName: users[login].DisplayName,
			Role:        models.RoleParticipant,
			Admission:   models.AdmissionAdmitted,
		}
		if err := s.store.CreateMembership(ctx, m); err != nil {
			return nil, err
		}
		added = append(added, m)
	}

	slog.Info("Members added", "event_id", eventID, "count", len(added), "by", actorLogin)
	return added, nil
}

// ToggleOrganizer flips the target between participant and organizer.
// Organizer or creator only; the creator role is immutable.
func (s *MembershipService) ToggleOrganizer(ctx context.Context, eventID, actorLogin, targetLogin string) (*models.Membership, error) {
	mc, err := loadMember(ctx, s.store, eventID, actorLogin)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionPromoteMember, mc.member.Role, mc.event.Status) {
		return nil, policy.ErrPermissionDenied
	}

	target, err := s.store.GetMembership(ctx, eventID, targetLogin)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, policy.NotFound("membership", targetLogin)
		}
		return nil, err
	}
	if target.Role == models.RoleCreator {
		return nil, policy.ErrPermissionDenied
	}
	if !target.IsAdmitted() {
		return nil, policy.Conflict("member %s is not admitted", targetLogin)
	}

	if target.Role == models.RoleOrganizer {
		target.Role = models.RoleParticipant
	} else {
		target.Role = models.RoleOrganizer
	}
	if err := s.store.UpdateMembership(ctx, target); err != nil {
		return nil, err
	}

	slog.Info("Member role toggled", "event_id", eventID, "login", targetLogin, "role", target.Role, "by", actorLogin)
	return target, nil
}

// Remove deletes the target membership. Allowed for organizers/creators, or
// for any member removing themselves; the creator can never be removed and
// never leaves (they delete the event instead).
//
// Removal is blocked while the member owns a costed purchase or appears on
// an unsettled debt; otherwise the member's item claims are released as part
// of the removal.
func (s *MembershipService) Remove(ctx context.Context, eventID, actorLogin, targetLogin string) error {
	mc, err := loadMember(ctx, s.store, eventID, actorLogin)
	if err != nil {
		return err
	}

	selfLeave := actorLogin == targetLogin
	if !selfLeave && !policy.Can(policy.ActionRemoveMember, mc.member.Role, mc.event.Status) {
		return policy.ErrPermissionDenied
	}
	if selfLeave && mc.event.Status != models.EventActive {
		return policy.InvalidState("event is completed")
	}

	target, err := s.store.GetMembership(ctx, eventID, targetLogin)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return policy.NotFound("membership", targetLogin)
		}
		return err
	}
	if target.Role == models.RoleCreator {
		return policy.ErrPermissionDenied
	}

	if err := s.checkNoMoneyTrail(ctx, eventID, targetLogin); err != nil {
		return err
	}

	if err := s.store.DeleteMembership(ctx, eventID, targetLogin); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return policy.NotFound("membership", targetLogin)
		}
		return err
	}

	slog.Info("Member removed", "event_id", eventID, "login", targetLogin, "by", actorLogin)
	return nil
}

// checkNoMoneyTrail blocks removal while the member is tied to money:
// a claimed purchase with a set cost, an allocated share of a costed
// purchase, or a debt not yet received. Uncosted allocations carry no money
// and are dropped together with the membership.
func (s *MembershipService) checkNoMoneyTrail(ctx context.Context, eventID, login string) error {
	owned, err := s.store.ListItemsByOwner(ctx, eventID, login)
	if err != nil {
		return err
	}
	for _, item := range owned {
		if item.Kind == models.KindPurchase && item.CostCents > 0 {
			return policy.Conflict("member %s owns a costed purchase", login)
		}
	}

	purchases, err := s.store.ListItems(ctx, eventID, models.KindPurchase)
	if err != nil {
		return err
	}
	allocations, err := s.store.ListAllocations(ctx, eventID)
	if err != nil {
		return err
	}
	for _, p := range purchases {
		if p.CostCents <= 0 {
			continue
		}
		for _, allocated := range allocations[p.ID] {
			if allocated == login {
				return policy.Conflict("member %s shares a costed purchase", login)
			}
		}
	}

	debts, err := s.store.ListDebtsByMember(ctx, eventID, login)
	if err != nil {
		return err
	}
	for _, debt := range debts {
		if debt.Status != models.DebtReceived {
			return policy.Conflict("member %s has unsettled debts", login)
		}
	}

	return nil
}
