// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/eventbuddy/backend/internal/models"
)

// ErrNotFound is returned by Get/Update/Delete operations when the target
// row does not exist. The service layer translates it into its own
// NotFoundError with resource context.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all persistence operations. The service
// layer depends only on this interface, never on a concrete backend, so
// tests can run against a throwaway database.
type Store interface {
	// CreateUser persists a new user. Fails if the login is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByLogin retrieves a user by login. Returns nil, nil when absent.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)

	// GetUsersByLogins retrieves users keyed by login. Missing logins are
	// omitted from the result.
	GetUsersByLogins(ctx context.Context, logins []string) (map[string]*models.User, error)

	// CreateEvent persists a new event together with its creator membership
	// in one transaction. Generates ID and CreatedAt if unset.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by ID.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// ListEventsByLogin retrieves every event the login has a membership in,
	// newest first.
	ListEventsByLogin(ctx context.Context, login string) ([]*models.Event, error)

	// UpdateEvent persists the event's mutable fields (name, date, location,
	// description, chat link, status, settled-at).
	UpdateEvent(ctx context.Context, event *models.Event) error

	// DeleteEvent removes the event and cascades to memberships, items,
	// allocations and debts.
	DeleteEvent(ctx context.Context, eventID string) error

	// CreateMembership persists a new membership row.
	CreateMembership(ctx context.Context, m *models.Membership) error

	// GetMembership retrieves the membership for (eventID, login).
	GetMembership(ctx context.Context, eventID, login string) (*models.Membership, error)

	// ListMemberships retrieves the roster for an event with display names
	// resolved, creator first, then by join time.
	ListMemberships(ctx context.Context, eventID string) ([]*models.Membership, error)

	// UpdateMembership persists role and admission changes.
	UpdateMembership(ctx context.Context, m *models.Membership) error

	// DeleteMembership removes the membership and clears the login's
	// responsible references on the event's items in one transaction.
	DeleteMembership(ctx context.Context, eventID, login string) error

	// CreateItem persists a new item. Generates ID and CreatedAt if unset.
	CreateItem(ctx context.Context, item *models.Item) error

	// GetItem retrieves an item by event and ID, receipts included.
	GetItem(ctx context.Context, eventID, itemID string) (*models.Item, error)

	// ListItems retrieves all items of a kind for an event, receipts
	// included, oldest first.
	ListItems(ctx context.Context, eventID string, kind models.ItemKind) ([]*models.Item, error)

	// UpdateItem persists the item's mutable fields (name, description,
	// responsible, cost, task status, deadline).
	UpdateItem(ctx context.Context, item *models.Item) error

	// DeleteItem removes the item and its receipts and allocations.
	DeleteItem(ctx context.Context, eventID, itemID string) error

	// ClaimItem sets the item's responsible login if and only if it is
	// currently unclaimed. Returns false when another member holds the item;
	// concurrent claims resolve to exactly one winner.
	ClaimItem(ctx context.Context, eventID, itemID, login string) (bool, error)

	// ReleaseItem clears the responsible login if and only if the given
	// login currently holds the item. Returns false otherwise.
	ReleaseItem(ctx context.Context, eventID, itemID, login string) (bool, error)

	// ListItemsByOwner retrieves the event's items claimed by the login.
	ListItemsByOwner(ctx context.Context, eventID, login string) ([]*models.Item, error)

	// AddReceipt attaches a receipt to a purchase.
	AddReceipt(ctx context.Context, receipt *models.Receipt) error

	// AddAllocations records the logins sharing a purchase's cost. Already
	// present logins are skipped, not duplicated.
	AddAllocations(ctx context.Context, itemID string, logins []string) error

	// ListAllocations retrieves allocation logins per purchase for an event.
	ListAllocations(ctx context.Context, eventID string) (map[string][]string, error)

	// CreateDebts persists generated debts in one transaction.
	CreateDebts(ctx context.Context, debts []*models.Debt) error

	// GetDebt retrieves a debt by ID.
	GetDebt(ctx context.Context, debtID string) (*models.Debt, error)

	// ListDebtsByEvent retrieves all debts for an event, oldest first.
	ListDebtsByEvent(ctx context.Context, eventID string) ([]*models.Debt, error)

	// ListDebtsByMember retrieves the event's debts where the login is payer
	// or recipient.
	ListDebtsByMember(ctx context.Context, eventID, login string) ([]*models.Debt, error)

	// AdvanceDebtStatus moves a debt from one status to the next if and only
	// if it currently holds the from status. Returns false on a stale from
	// status, so backward or skipping transitions never apply.
	AdvanceDebtStatus(ctx context.Context, debtID string, from, to models.DebtStatus) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
