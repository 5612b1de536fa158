package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: users and events must be created before the tables that
// reference them via foreign keys.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    login TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    date INTEGER NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    chat_link TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'active',
    creator_login TEXT NOT NULL,
    settled_at INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS memberships (
    event_id TEXT NOT NULL,
    login TEXT NOT NULL,
    role TEXT NOT NULL,
    admission TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (event_id, login),
    FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
    FOREIGN KEY (login) REFERENCES users(login)
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    responsible_login TEXT,
    cost_cents INTEGER NOT NULL DEFAULT 0,
    task_status TEXT NOT NULL DEFAULT '',
    deadline INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS receipts (
    id TEXT PRIMARY KEY,
    item_id TEXT NOT NULL,
    url TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS allocations (
    item_id TEXT NOT NULL,
    login TEXT NOT NULL,
    PRIMARY KEY (item_id, login),
    FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS debts (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    payer_login TEXT NOT NULL,
    recipient_login TEXT NOT NULL,
    amount_cents INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'unpaid',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_memberships_login ON memberships(login);
CREATE INDEX IF NOT EXISTS idx_items_event_id ON items(event_id);
CREATE INDEX IF NOT EXISTS idx_items_responsible ON items(event_id, responsible_login);
CREATE INDEX IF NOT EXISTS idx_receipts_item_id ON receipts(item_id);
CREATE INDEX IF NOT EXISTS idx_debts_event_id ON debts(event_id);
CREATE INDEX IF NOT EXISTS idx_debts_payer ON debts(event_id, payer_login);
CREATE INDEX IF NOT EXISTS idx_debts_recipient ON debts(event_id, recipient_login);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
