package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/storage"
	"github.com/eventbuddy/backend/internal/storage/sqlite"
)

// newTestStore opens a fresh SQLite store in a temp directory and seeds the
// given user logins.
func newTestStore(t *testing.T, logins ...string) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "eventbuddy-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, login := range logins {
		user := models.NewUser(login, "User "+login, "hash")
		if err := store.CreateUser(context.Background(), user); err != nil {
			t.Fatalf("Failed to seed user %s: %v", login, err)
		}
	}

	return store
}

// newTestEvent creates an active event with the given creator. The event date
// sits two days out so completion is rejected until tests move it.
func newTestEvent(t *testing.T, store storage.Store, creator string) *models.Event {
	t.Helper()

	events := NewEventService(store)
	event, err := events.Create(context.Background(), creator, EventInput{
		Name: "Picnic",
		Date: time.Now().Add(48 * time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}
	return event
}

// admitMember adds a login to the event as an admitted participant.
func admitMember(t *testing.T, store storage.Store, eventID, login string) {
	t.Helper()

	m := &models.Membership{
		EventID:   eventID,
		Login:     login,
		Role:      models.RoleParticipant,
		Admission: models.AdmissionAdmitted,
	}
	if err := store.CreateMembership(context.Background(), m); err != nil {
		t.Fatalf("Failed to admit %s: %v", login, err)
	}
}
