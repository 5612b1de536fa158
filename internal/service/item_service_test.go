package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/policy"
)

func TestItemService_Create(t *testing.T) {
	store := newTestStore(t, "alice", "bob")
	items := NewItemService(store)
	ctx := context.Background()

	event := newTestEvent(t, store, "alice")
	admitMember(t, store, event.ID, "bob")

	t.Run("purchase name up to 100 chars", func(t *testing.T) {
		item, err := items.Create(ctx, event.ID, "alice", models.KindPurchase, ItemInput{
			Name: strings.Repeat("p", 100),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if item.Kind != models.KindPurchase {
			t.Errorf("Expected purchase kind, got %s", item.Kind)
		}
	})

	t.Run("101-char purchase name rejected", func(t *testing.T) {
		_, err := items.Create(ctx, event.ID, "alice", models.KindPurchase, ItemInput{
			Name: strings.Repeat("p", 101),
		})
		if !policy.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("51-char stuff name rejected", func(t *testing.T) {
		_, err := items.Create(ctx, event.ID, "alice", models.KindStuff, ItemInput{
			Name: strings.Repeat("s", 51),
		})
		if !policy.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("participant cannot create", func(t *testing.T) {
		_, err := items.Create(ctx, event.ID, "bob", models.KindStuff, ItemInput{Name: "Cooler"})
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("Expected permission denied, got %v", err)
		}
	})

	t.Run("task requires a deadline", func(t *testing.T) {
		_, err := items.Create(ctx, event.ID, "alice", models.KindTask, ItemInput{Name: "Playlist"})
		if !policy.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("task deadline must not be in the past", func(t *testing.T) {
		yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
		_, err := items.Create(ctx, event.ID, "alice", models.KindTask, ItemInput{
			Name:     "Playlist",
			Deadline: yesterday,
		})
		if !policy.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("task with valid deadline starts new", func(t *testing.T) {
		tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
		item, err := items.Create(ctx, event.ID, "alice", models.KindTask, ItemInput{
			Name:     "Playlist",
			Deadline: tomorrow,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if item.TaskStatus != models.TaskNew {
			t.Errorf("Expected new task status, got %s", item.TaskStatus)
		}
	})

	t.Run("pre-assignment requires an admitted member", func(t *testing.T) {
		_, err := items.Create(ctx, event.ID, "alice", models.KindStuff, ItemInput{
			Name:        "Tent",
			Responsible: "ghost",
		})
		if !policy.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestItemService_Delete(t *testing.T) {
	store := newTestStore(t, "alice", "bob")
	items := NewItemService(store)
	ctx := context.Background()

	event := newTestEvent(t, store, "alice")
	admitMember(t, store, event.ID, "bob")

	item, err := items.Create(ctx, event.ID, "alice", models.KindStuff, ItemInput{Name: "Cooler"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("participant cannot delete", func(t *testing.T) {
		err := items.Delete(ctx, event.ID, "bob", item.ID)
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("Expected permission denied, got %v", err)
		}
	})

	t.Run("creator deletes", func(t *testing.T) {
		if err := items.Delete(ctx, event.ID, "alice", item.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := items.Claim(ctx, event.ID, "bob", item.ID); !policy.IsNotFound(err) {
			t.Errorf("Expected not found after delete, got %v", err)
		}
	})
}

func TestItemService_ClaimRelease(t *testing.T) {
	store := newTestStore(t, "alice", "bob")
	items := NewItemService(store)
	ctx := context.Background()

	event := newTestEvent(t, store, "alice")
	admitMember(t, store, event.ID, "bob")

	item, err := items.Create(ctx, event.ID, "alice", models.KindStuff, ItemInput{Name: "Cooler"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("claim assigns the caller", func(t *testing.T) {
		claimed, err := items.Claim(ctx, event.ID, "bob", item.ID)
		if err != nil {
			t.Fatalf("Claim failed: %v", err)
		}
		if claimed.ResponsibleLogin != "bob" {
			t.Errorf("Expected bob as owner, got %q", claimed.ResponsibleLogin)
		}
	})

	t.Run("claiming a held item is a conflict", func(t *testing.T) {
		_, err := items.Claim(ctx, event.ID, "alice", item.ID)
		if !policy.IsConflict(err) {
			t.Errorf("Expected conflict, got %v", err)
		}
	})

	t.Run("only the owner may release", func(t *testing.T) {
		_, err := items.Release(ctx, event.ID, "alice", item.ID)
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("Expected permission denied, got %v", err)
		}
	})

	t.Run("owner releases", func(t *testing.T) {
		released, err := items.Release(ctx, event.ID, "bob", item.ID)
		if err != nil {
			t.Fatalf("Release failed: %v", err)
		}
		if released.ResponsibleLogin != "" {
			t.Errorf("Expected no owner, got %q", released.ResponsibleLogin)
		}
	})

	t.Run("releasing an unclaimed item is rejected", func(t *testing.T) {
		_, err := items.Release(ctx, event.ID, "bob", item.ID)
		if !policy.IsInvalidState(err) {
			t.Errorf("Expected invalid state error, got %v", err)
		}
	})
}

func TestItemService_ConcurrentClaims(t *testing.T) {
	logins := []string{"alice", "bob", "carol", "dave", "erin"}
	store := newTestStore(t, logins...)
	items := NewItemService(store)
	ctx := context.Background()

	event := newTestEvent(t, store, "alice")
	for _, login := range logins[1:] {
		admitMember(t, store, event.ID, login)
	}

	item, err := items.Create(ctx, event.ID, "alice", models.KindStuff, ItemInput{Name: "Cooler"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, len(logins))
	for _, login := range logins {
		wg.Add(1)
		go func(login string) {
			defer wg.Done()
			_, err := items.Claim(ctx, event.ID, login, item.ID)
			results <- err
		}(login)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case policy.IsConflict(err):
			conflicts++
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("Expected exactly one winner, got %d", wins)
	}
	if conflicts != len(logins)-1 {
		t.Errorf("Expected %d conflicts, got %d", len(logins)-1, conflicts)
	}
}

func TestItemService_TaskLifecycle(t *testing.T) {
	store := newTestStore(t, "alice", "bob")
	items := NewItemService(store)
	ctx := context.Background()

	event := newTestEvent(t, store, "alice")
	admitMember(t, store, event.ID, "bob")

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	task, err := items.Create(ctx, event.ID, "alice", models.KindTask, ItemInput{
		Name:        "Playlist",
		Deadline:    tomorrow,
		Responsible: "bob",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("only the owner advances the task", func(t *testing.T) {
		_, err := items.SetTaskStatus(ctx, event.ID, "alice", task.ID, models.TaskInProgress)
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("Expected permission denied, got %v", err)
		}
	})

	t.Run("new to in_progress to done", func(t *testing.T) {
		if _, err := items.SetTaskStatus(ctx, event.ID, "bob", task.ID, models.TaskInProgress); err != nil {
			t.Fatalf("SetTaskStatus failed: %v", err)
		}
		got, err := items.SetTaskStatus(ctx, event.ID, "bob", task.ID, models.TaskDone)
		if err != nil {
			t.Fatalf("SetTaskStatus failed: %v", err)
		}
		if got.TaskStatus != models.TaskDone {
			t.Errorf("Expected done, got %s", got.TaskStatus)
		}
	})

	t.Run("done is terminal", func(t *testing.T) {
		_, err := items.SetTaskStatus(ctx, event.ID, "bob", task.ID, models.TaskInProgress)
		if !policy.IsInvalidState(err) {
			t.Errorf("Expected invalid state error, got %v", err)
		}
	})

	t.Run("done task cannot be released", func(t *testing.T) {
		_, err := items.Release(ctx, event.ID, "bob", task.ID)
		if !policy.IsInvalidState(err) {
			t.Errorf("Expected invalid state error, got %v", err)
		}
	})
}

func TestItemService_PurchaseCost(t *testing.T) {
	store := newTestStore(t, "alice", "bob")
	items := NewItemService(store)
	ctx := context.Background()

	event := newTestEvent(t, store, "alice")
	admitMember(t, store, event.ID, "bob")

	purchase, err := items.Create(ctx, event.ID, "alice", models.KindPurchase, ItemInput{
		Name:        "Charcoal",
		Responsible: "bob",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name  string
		login string
		cost  int64
		check func(error) bool
		desc  string
	}{
		{"non-owner denied", "alice", 2500, func(err error) bool { return errors.Is(err, policy.ErrPermissionDenied) }, "permission denied"},
		{"non-positive cost rejected", "bob", 0, policy.IsValidation, "validation error"},
		{"owner sets cost", "bob", 2500, func(err error) bool { return err == nil }, "no error"},
		{"cost is set once", "bob", 3000, policy.IsConflict, "conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := items.SetPurchaseCost(ctx, event.ID, tt.login, purchase.ID, tt.cost)
			if !tt.check(err) {
				t.Errorf("Expected %s, got %v", tt.desc, err)
			}
		})
	}

	t.Run("costed purchase cannot be released", func(t *testing.T) {
		_, err := items.Release(ctx, event.ID, "bob", purchase.ID)
		if !policy.IsConflict(err) {
			t.Errorf("Expected conflict, got %v", err)
		}
	})

	t.Run("owner attaches a receipt", func(t *testing.T) {
		got, err := items.AddReceipt(ctx, event.ID, "bob", purchase.ID, fmt.Sprintf("https://receipts.example/%s.jpg", purchase.ID))
		if err != nil {
			t.Fatalf("AddReceipt failed: %v", err)
		}
		if len(got.Receipts) != 1 {
			t.Errorf("Expected 1 receipt, got %d", len(got.Receipts))
		}
	})
}
