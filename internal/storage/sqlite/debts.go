package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/storage"
)

// AddAllocations records the logins sharing a purchase's cost.
// Already-present logins are skipped via INSERT OR IGNORE (union semantics).
func (s *SQLiteStore) AddAllocations(ctx context.Context, itemID string, logins []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, login := range logins {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO allocations (item_id, login) VALUES (?, ?)",
			itemID, login,
		)
		if err != nil {
			return fmt.Errorf("failed to insert allocation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListAllocations retrieves allocation logins keyed by purchase for an event.
func (s *SQLiteStore) ListAllocations(ctx context.Context, eventID string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.item_id, a.login
		 FROM allocations a
		 JOIN items i ON i.id = a.item_id
		 WHERE i.event_id = ?
		 ORDER BY a.item_id, a.login`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	allocations := make(map[string][]string)
	for rows.Next() {
		var itemID, login string
		if err := rows.Scan(&itemID, &login); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations[itemID] = append(allocations[itemID], login)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}

	return allocations, nil
}

// CreateDebts persists generated debts in one transaction.
func (s *SQLiteStore) CreateDebts(ctx context.Context, debts []*models.Debt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, debt := range debts {
		if debt.ID == "" {
			debt.ID = uuid.New().String()
		}
		if debt.CreatedAt == 0 {
			debt.CreatedAt = now
		}
		if debt.Status == "" {
			debt.Status = models.DebtUnpaid
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO debts (id, event_id, item_id, payer_login, recipient_login, amount_cents, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			debt.ID, debt.EventID, debt.ItemID, debt.PayerLogin, debt.RecipientLogin,
			debt.AmountCents, debt.Status, debt.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetDebt retrieves a debt by ID.
func (s *SQLiteStore) GetDebt(ctx context.Context, debtID string) (*models.Debt, error) {
	debt := &models.Debt{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, event_id, item_id, payer_login, recipient_login, amount_cents, status, created_at
		 FROM debts WHERE id = ?`,
		debtID,
	).Scan(&debt.ID, &debt.EventID, &debt.ItemID, &debt.PayerLogin, &debt.RecipientLogin,
		&debt.AmountCents, &debt.Status, &debt.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}

	return debt, nil
}

// ListDebtsByEvent retrieves all debts for an event, oldest first.
func (s *SQLiteStore) ListDebtsByEvent(ctx context.Context, eventID string) ([]*models.Debt, error) {
	return s.listDebts(ctx,
		`SELECT id, event_id, item_id, payer_login, recipient_login, amount_cents, status, created_at
		 FROM debts WHERE event_id = ? ORDER BY created_at, id`,
		eventID,
	)
}

// ListDebtsByMember retrieves the event's debts involving the login.
func (s *SQLiteStore) ListDebtsByMember(ctx context.Context, eventID, login string) ([]*models.Debt, error) {
	return s.listDebts(ctx,
		`SELECT id, event_id, item_id, payer_login, recipient_login, amount_cents, status, created_at
		 FROM debts WHERE event_id = ? AND (payer_login = ? OR recipient_login = ?)
		 ORDER BY created_at, id`,
		eventID, login, login,
	)
}

func (s *SQLiteStore) listDebts(ctx context.Context, query string, args ...interface{}) ([]*models.Debt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []*models.Debt
	for rows.Next() {
		debt := &models.Debt{}
		if err := rows.Scan(&debt.ID, &debt.EventID, &debt.ItemID, &debt.PayerLogin, &debt.RecipientLogin,
			&debt.AmountCents, &debt.Status, &debt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}

	return debts, nil
}

// AdvanceDebtStatus moves the debt forward only from the expected status.
// A stale expectation affects zero rows and returns false, which keeps the
// unpaid -> paid -> received chain monotonic under concurrent calls.
func (s *SQLiteStore) AdvanceDebtStatus(ctx context.Context, debtID string, from, to models.DebtStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE debts SET status = ? WHERE id = ? AND status = ?",
		to, debtID, from,
	)
	if err != nil {
		return false, fmt.Errorf("failed to advance debt status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected == 1, nil
}
