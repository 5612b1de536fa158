package models

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	// EventActive is the initial state; all sub-resources are mutable.
	EventActive EventStatus = "active"

	// EventCompleted is terminal. A completed event and everything it owns
	// is read-only.
	EventCompleted EventStatus = "completed"
)

// Event represents one shared activity: a trip, a party, a meetup.
// The event owns its memberships, items and debts; deleting the event
// cascades to all of them.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Name is the display name of the event.
	Name string

	// Date is the Unix timestamp of when the event takes place.
	// Completing the event is only allowed once this moment has passed.
	Date int64

	// Location is a free-form venue description.
	Location string

	// Description is an optional longer description.
	Description string

	// ChatLink is an optional URL to an external chat for the event.
	ChatLink string

	// Status is active or completed. The transition is one-way.
	Status EventStatus

	// CreatorLogin is the login of the user who created the event.
	// Exactly one membership per event carries the creator role, and it is
	// always this user.
	CreatorLogin string

	// SettledAt is the Unix timestamp of when cost allocation was finalized
	// into debts. Zero until finalization; finalization happens at most once.
	SettledAt int64

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}
