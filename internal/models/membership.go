package models

// Role is a member's role within one event.
type Role string

const (
	// RoleParticipant is the default role for admitted members.
	RoleParticipant Role = "participant"

	// RoleOrganizer can manage the roster and items but not the event
	// lifecycle.
	RoleOrganizer Role = "organizer"

	// RoleCreator is held by exactly one member per event, assigned at event
	// creation and never transferred or removed.
	RoleCreator Role = "creator"
)

// AdmissionState says whether a membership is live or still a join request.
type AdmissionState string

const (
	// AdmissionPending is a join request awaiting organizer approval.
	// Pending members have no rights beyond existing in the roster.
	AdmissionPending AdmissionState = "pending"

	// AdmissionAdmitted members see and act on event sub-resources.
	AdmissionAdmitted AdmissionState = "admitted"
)

// Membership represents one (event, user) pair. The login is unique within
// an event.
type Membership struct {
	// EventID is the event this membership belongs to.
	EventID string

	// Login identifies the user. Items and debts reference members by login.
	Login string

	// DisplayName is the user's display name, resolved from the user record
	// for roster responses. Not stored on the membership row.
	DisplayName string

	// Role is participant, organizer or creator. Only the
	// participant <-> organizer toggle is a legal role change.
	Role Role

	// Admission is pending or admitted.
	Admission AdmissionState

	// CreatedAt is the Unix timestamp when the membership was created.
	CreatedAt int64
}

// IsAdmitted reports whether the membership grants access to sub-resources.
func (m *Membership) IsAdmitted() bool {
	return m.Admission == AdmissionAdmitted
}
