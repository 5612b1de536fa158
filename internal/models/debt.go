package models

// DebtStatus is the settlement state of a debt. Transitions are strictly
// forward: unpaid -> paid -> received.
type DebtStatus string

const (
	// DebtUnpaid is the initial state of every generated debt.
	DebtUnpaid DebtStatus = "unpaid"

	// DebtPaid means the payer marked the debt as paid.
	DebtPaid DebtStatus = "paid"

	// DebtReceived means the recipient confirmed receipt. Terminal.
	DebtReceived DebtStatus = "received"
)

// Debt is a derived obligation from one member (the payer) to the member
// who was responsible for a costed purchase (the recipient). Debts are
// created only by finalizing an event's cost allocation, never directly.
type Debt struct {
	// ID is the unique identifier for the debt (UUID format).
	ID string

	// EventID is the owning event.
	EventID string

	// ItemID is the purchase this debt was derived from.
	ItemID string

	// PayerLogin is the member who owes.
	PayerLogin string

	// RecipientLogin is the purchase's responsible member who is owed.
	RecipientLogin string

	// AmountCents is the payer's share of the purchase cost in cents.
	AmountCents int64

	// Status is unpaid, paid or received.
	Status DebtStatus

	// CreatedAt is the Unix timestamp when the debt was generated.
	CreatedAt int64
}
