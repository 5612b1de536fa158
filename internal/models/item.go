package models

// ItemKind discriminates the three flavors of assignable item.
type ItemKind string

const (
	// KindPurchase is something to buy. Carries a cost and receipts, feeds
	// the debt ledger.
	KindPurchase ItemKind = "purchase"

	// KindStuff is something to bring.
	KindStuff ItemKind = "stuff"

	// KindTask is something to do. Carries a deadline and a status.
	KindTask ItemKind = "task"
)

// TaskStatus is the progress state of a task item.
type TaskStatus string

const (
	TaskNew        TaskStatus = "new"
	TaskInProgress TaskStatus = "in_progress"

	// TaskDone is terminal: a done task can no longer be claimed, released
	// or re-opened.
	TaskDone TaskStatus = "done"
)

// NameLimit returns the maximum name length for the kind.
func (k ItemKind) NameLimit() int {
	if k == KindPurchase {
		return 100
	}
	return 50
}

// Valid reports whether k is one of the three known kinds.
func (k ItemKind) Valid() bool {
	return k == KindPurchase || k == KindStuff || k == KindTask
}

// Item represents one claimable unit of responsibility within an event.
// An item with an empty ResponsibleLogin is available and may be claimed by
// any admitted member; once claimed only the owner may release it and only
// organizers may delete or reassign it.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// EventID is the owning event.
	EventID string

	// Kind is purchase, stuff or task.
	Kind ItemKind

	// Name is the display name. Length is bounded per kind (see NameLimit).
	Name string

	// Description is optional.
	Description string

	// ResponsibleLogin is the login of the member who claimed the item.
	// Empty means unclaimed.
	ResponsibleLogin string

	// ResponsibleName is the owner's display name, resolved for responses.
	ResponsibleName string

	// CostCents is the purchase cost in cents. Zero until the responsible
	// member sets it; settable exactly once. Always zero for other kinds.
	CostCents int64

	// TaskStatus is new, in_progress or done. Empty for non-task kinds.
	TaskStatus TaskStatus

	// Deadline is the Unix timestamp a task is due by. Zero for other kinds.
	Deadline int64

	// Receipts are the purchase's attached receipts. Empty for other kinds.
	Receipts []Receipt

	// CreatedAt is the Unix timestamp when the item was created.
	CreatedAt int64
}

// Receipt is an attachment proving a purchase.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string

	// ItemID is the purchase this receipt belongs to.
	ItemID string

	// URL points at the uploaded attachment.
	URL string

	// CreatedAt is the Unix timestamp when the receipt was attached.
	CreatedAt int64
}
