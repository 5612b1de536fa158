// Package service implements the event coordination core: the membership
// registry, the assignable-item registry and the debt ledger, all gated by
// the access policy evaluator. Every mutating operation loads the caller's
// membership, consults policy.Can and only then touches storage, so no code
// path can bypass the role/status rules.
package service

import (
	"context"
	"errors"

	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/policy"
	"github.com/eventbuddy/backend/internal/storage"
)

// memberCtx bundles what almost every operation needs: the event and the
// caller's membership in it.
type memberCtx struct {
	event  *models.Event
	member *models.Membership
}

// loadMember fetches the event and the caller's membership. A missing event
// is NotFound; a caller without a membership gets PermissionDenied, not
// NotFound, so outsiders cannot probe rosters.
func loadMember(ctx context.Context, store storage.Store, eventID, login string) (*memberCtx, error) {
	event, err := store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, policy.NotFound("event", eventID)
		}
		return nil, err
	}

	member, err := store.GetMembership(ctx, eventID, login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, policy.ErrPermissionDenied
		}
		return nil, err
	}

	return &memberCtx{event: event, member: member}, nil
}

// loadAdmitted is loadMember plus the admitted check: pending members have
// no rights beyond existing in the roster.
func loadAdmitted(ctx context.Context, store storage.Store, eventID, login string) (*memberCtx, error) {
	mc, err := loadMember(ctx, store, eventID, login)
	if err != nil {
		return nil, err
	}
	if !mc.member.IsAdmitted() {
		return nil, policy.ErrPermissionDenied
	}
	return mc, nil
}
