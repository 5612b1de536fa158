package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/storage"
)

// CreateMembership inserts a new membership row.
func (s *SQLiteStore) CreateMembership(ctx context.Context, m *models.Membership) error {
	if m.CreatedAt == 0 {
		m.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memberships (event_id, login, role, admission, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.EventID, m.Login, m.Role, m.Admission, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}

	return nil
}

// GetMembership retrieves the membership for (eventID, login).
func (s *SQLiteStore) GetMembership(ctx context.Context, eventID, login string) (*models.Membership, error) {
	m := &models.Membership{}
	err := s.db.QueryRowContext(ctx,
		`SELECT m.event_id, m.login, u.display_name, m.role, m.admission, m.created_at
		 FROM memberships m
		 JOIN users u ON u.login = m.login
		 WHERE m.event_id = ? AND m.login = ?`,
		eventID, login,
	).Scan(&m.EventID, &m.Login, &m.DisplayName, &m.Role, &m.Admission, &m.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return m, nil
}

// ListMemberships retrieves the roster for an event, creator first.
func (s *SQLiteStore) ListMemberships(ctx context.Context, eventID string) ([]*models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.event_id, m.login, u.display_name, m.role, m.admission, m.created_at
		 FROM memberships m
		 JOIN users u ON u.login = m.login
		 WHERE m.event_id = ?
		 ORDER BY CASE m.role WHEN 'creator' THEN 0 ELSE 1 END, m.created_at`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var members []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		if err := rows.Scan(&m.EventID, &m.Login, &m.DisplayName, &m.Role, &m.Admission, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	return members, nil
}

// UpdateMembership persists role and admission changes.
func (s *SQLiteStore) UpdateMembership(ctx context.Context, m *models.Membership) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE memberships SET role = ?, admission = ? WHERE event_id = ? AND login = ?`,
		m.Role, m.Admission, m.EventID, m.Login,
	)
	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
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

// DeleteMembership removes the membership and clears the member's item
// claims and purchase allocations within the event, atomically. A removed
// member must never resurface as a debt payer at finalization.
func (s *SQLiteStore) DeleteMembership(ctx context.Context, eventID, login string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM memberships WHERE event_id = ? AND login = ?",
		eventID, login,
	)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	// Items the member had claimed become available again.
	_, err = tx.ExecContext(ctx,
		"UPDATE items SET responsible_login = NULL WHERE event_id = ? AND responsible_login = ?",
		eventID, login,
	)
	if err != nil {
		return fmt.Errorf("failed to clear item claims: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM allocations
		 WHERE login = ? AND item_id IN (SELECT id FROM items WHERE event_id = ?)`,
		login, eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear allocations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
