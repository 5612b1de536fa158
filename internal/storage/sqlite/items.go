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

// CreateItem persists a new item.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}

	var responsible interface{}
	if item.ResponsibleLogin != "" {
		responsible = item.ResponsibleLogin
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, event_id, kind, name, description, responsible_login, cost_cents, task_status, deadline, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.EventID, item.Kind, item.Name, item.Description,
		responsible, item.CostCents, item.TaskStatus, item.Deadline, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// GetItem retrieves an item by event and ID, receipts included.
func (s *SQLiteStore) GetItem(ctx context.Context, eventID, itemID string) (*models.Item, error) {
	item, err := s.scanItemRow(s.db.QueryRowContext(ctx,
		`SELECT i.id, i.event_id, i.kind, i.name, i.description, i.responsible_login,
		        COALESCE(u.display_name, ''), i.cost_cents, i.task_status, i.deadline, i.created_at
		 FROM items i
		 LEFT JOIN users u ON u.login = i.responsible_login
		 WHERE i.event_id = ? AND i.id = ?`,
		eventID, itemID,
	))
	if err != nil {
		return nil, err
	}

	if item.Kind == models.KindPurchase {
		receipts, err := s.listReceipts(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		item.Receipts = receipts
	}

	return item, nil
}

// ListItems retrieves all items of a kind for an event, oldest first.
func (s *SQLiteStore) ListItems(ctx context.Context, eventID string, kind models.ItemKind) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.event_id, i.kind, i.name, i.description, i.responsible_login,
		        COALESCE(u.display_name, ''), i.cost_cents, i.task_status, i.deadline, i.created_at
		 FROM items i
		 LEFT JOIN users u ON u.login = i.responsible_login
		 WHERE i.event_id = ? AND i.kind = ?
		 ORDER BY i.created_at, i.id`,
		eventID, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items, err := scanItemRows(rows)
	if err != nil {
		return nil, err
	}

	if kind == models.KindPurchase {
		for _, item := range items {
			receipts, err := s.listReceipts(ctx, item.ID)
			if err != nil {
				return nil, err
			}
			item.Receipts = receipts
		}
	}

	return items, nil
}

// ListItemsByOwner retrieves the event's items claimed by the login.
func (s *SQLiteStore) ListItemsByOwner(ctx context.Context, eventID, login string) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.event_id, i.kind, i.name, i.description, i.responsible_login,
		        COALESCE(u.display_name, ''), i.cost_cents, i.task_status, i.deadline, i.created_at
		 FROM items i
		 LEFT JOIN users u ON u.login = i.responsible_login
		 WHERE i.event_id = ? AND i.responsible_login = ?
		 ORDER BY i.created_at, i.id`,
		eventID, login,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by owner: %w", err)
	}
	defer rows.Close()

	return scanItemRows(rows)
}

// UpdateItem persists the item's mutable fields.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.Item) error {
	var responsible interface{}
	if item.ResponsibleLogin != "" {
		responsible = item.ResponsibleLogin
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE items
		 SET name = ?, description = ?, responsible_login = ?, cost_cents = ?, task_status = ?, deadline = ?
		 WHERE event_id = ? AND id = ?`,
		item.Name, item.Description, responsible, item.CostCents,
		item.TaskStatus, item.Deadline, item.EventID, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteItem removes the item; receipts and allocations cascade.
func (s *SQLiteStore) DeleteItem(ctx context.Context, eventID, itemID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM items WHERE event_id = ? AND id = ?",
		eventID, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ClaimItem assigns the item to the login only if it is currently unclaimed.
// The conditional UPDATE serializes concurrent claims in the database; the
// loser sees zero affected rows.
func (s *SQLiteStore) ClaimItem(ctx context.Context, eventID, itemID, login string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET responsible_login = ?
		 WHERE event_id = ? AND id = ? AND responsible_login IS NULL`,
		login, eventID, itemID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected == 1, nil
}

// ReleaseItem clears the claim only if the login currently holds it.
func (s *SQLiteStore) ReleaseItem(ctx context.Context, eventID, itemID, login string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET responsible_login = NULL
		 WHERE event_id = ? AND id = ? AND responsible_login = ?`,
		eventID, itemID, login,
	)
	if err != nil {
		return false, fmt.Errorf("failed to release item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected == 1, nil
}

// AddReceipt attaches a receipt to a purchase.
func (s *SQLiteStore) AddReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO receipts (id, item_id, url, created_at) VALUES (?, ?, ?, ?)",
		receipt.ID, receipt.ItemID, receipt.URL, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	return nil
}

func (s *SQLiteStore) listReceipts(ctx context.Context, itemID string) ([]models.Receipt, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, item_id, url, created_at FROM receipts WHERE item_id = ? ORDER BY created_at",
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		var r models.Receipt
		if err := rows.Scan(&r.ID, &r.ItemID, &r.URL, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}

	return receipts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanItemRow(row rowScanner) (*models.Item, error) {
	item := &models.Item{}
	var responsible sql.NullString
	err := row.Scan(&item.ID, &item.EventID, &item.Kind, &item.Name, &item.Description,
		&responsible, &item.ResponsibleName, &item.CostCents, &item.TaskStatus,
		&item.Deadline, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}
	if responsible.Valid {
		item.ResponsibleLogin = responsible.String
	}
	return item, nil
}

func scanItemRows(rows *sql.Rows) ([]*models.Item, error) {
	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		var responsible sql.NullString
		if err := rows.Scan(&item.ID, &item.EventID, &item.Kind, &item.Name, &item.Description,
			&responsible, &item.ResponsibleName, &item.CostCents, &item.TaskStatus,
			&item.Deadline, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if responsible.Valid {
			item.ResponsibleLogin = responsible.String
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}
