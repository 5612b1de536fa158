// Package policy decides which mutations a member may attempt, given their
// role and the event's lifecycle status. It is a pure function of its
// inputs: no storage access, no side effects.
//
// Ownership-dependent checks (claiming an unowned item, releasing an item
// you own) cannot be answered from role and status alone; Can gates whether
// the action class is open at all and the caller checks the item state.
package policy

import "github.com/eventbuddy/backend/internal/models"

// Action tags every mutation class the service layer performs.
type Action string

const (
	ActionCreateItem    Action = "create-item"
	ActionEditItem      Action = "edit-item"
	ActionDeleteItem    Action = "delete-item"
	ActionClaimItem     Action = "claim-item"
	ActionReleaseItem   Action = "release-item"
	ActionPromoteMember Action = "promote-member"
	ActionAdmitMember   Action = "admit-member"
	ActionRemoveMember  Action = "remove-member"
	ActionEditEvent     Action = "edit-event"
	ActionDeleteEvent   Action = "delete-event"
	ActionCompleteEvent Action = "complete-event"
)

// Can reports whether a member with the given role may attempt the action
// while the event is in the given status.
//
// A completed event admits no mutations at all. Claim and release are open
// to every admitted member; the caller verifies the item's current owner.
// Everything else requires organizer or creator, except event deletion and
// completion which are creator-only. The "event date has passed" condition
// on completion is checked by the caller, not here.
func Can(action Action, role models.Role, status models.EventStatus) bool {
	if status != models.EventActive {
		return false
	}

	switch action {
	case ActionClaimItem, ActionReleaseItem:
		return role == models.RoleParticipant || role == models.RoleOrganizer || role == models.RoleCreator
	case ActionCreateItem, ActionEditItem, ActionDeleteItem,
		ActionPromoteMember, ActionAdmitMember, ActionRemoveMember,
		ActionEditEvent:
		return role == models.RoleOrganizer || role == models.RoleCreator
	case ActionDeleteEvent, ActionCompleteEvent:
		return role == models.RoleCreator
	default:
		return false
	}
}
