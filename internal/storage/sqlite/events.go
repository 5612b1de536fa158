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

// CreateEvent persists a new event and its creator membership in one
// transaction. The creator joins already admitted.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}
	if event.Status == "" {
		event.Status = models.EventActive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, name, date, location, description, chat_link, status, creator_login, settled_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Name, event.Date, event.Location, event.Description,
		event.ChatLink, event.Status, event.CreatorLogin, event.SettledAt, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO memberships (event_id, login, role, admission, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.CreatorLogin, models.RoleCreator, models.AdmissionAdmitted, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, date, location, description, chat_link, status, creator_login, settled_at, created_at
		 FROM events WHERE id = ?`,
		eventID,
	).Scan(&event.ID, &event.Name, &event.Date, &event.Location, &event.Description,
		&event.ChatLink, &event.Status, &event.CreatorLogin, &event.SettledAt, &event.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// ListEventsByLogin retrieves every event the login belongs to, newest first.
func (s *SQLiteStore) ListEventsByLogin(ctx context.Context, login string) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.name, e.date, e.location, e.description, e.chat_link, e.status, e.creator_login, e.settled_at, e.created_at
		 FROM events e
		 JOIN memberships m ON m.event_id = e.id
		 WHERE m.login = ?
		 ORDER BY e.created_at DESC`,
		login,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.Name, &event.Date, &event.Location, &event.Description,
			&event.ChatLink, &event.Status, &event.CreatorLogin, &event.SettledAt, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// UpdateEvent persists the event's mutable fields.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events
		 SET name = ?, date = ?, location = ?, description = ?, chat_link = ?, status = ?, settled_at = ?
		 WHERE id = ?`,
		event.Name, event.Date, event.Location, event.Description,
		event.ChatLink, event.Status, event.SettledAt, event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
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

// DeleteEvent removes the event. Memberships, items, receipts, allocations
// and debts go with it via foreign key cascades.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
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
