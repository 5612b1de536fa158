package service

import (
	"context"
	"errors"
	"testing"

	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/policy"
)

func TestMembershipService_JoinAndAdmit(t *testing.T) {
	store := newTestStore(t, "alice", "bob", "carol")
	members := NewMembershipService(store)
	ctx := context.Background()

	event := newTestEvent(t, store, "alice")

	t.Run("join creates pending membership", func(t *testing.T) {
		m, err := members.RequestJoin(ctx, event.ID, "bob")
		if err != nil {
			t.Fatalf("RequestJoin failed: %v", err)
		}
		if m.Admission != models.AdmissionPending {
			t.Errorf("Expected pending admission, got %s", m.Admission)
		}
		if m.Role != models.RoleParticipant {
			t.Errorf("Expected participant role, got %s", m.Role)
		}
	})

	t.Run("second join is a conflict", func(t *testing.T) {
		_, err := members.RequestJoin(ctx, event.ID, "bob")
		if !policy.IsConflict(err) {
			t.Errorf("Expected conflict, got %v", err)
		}
	})

	t.Run("pending member cannot admit others", func(t *testing.T) {
		if _, err := members.RequestJoin(ctx, event.ID, "carol"); err != nil {
			t.Fatalf("RequestJoin failed: %v", err)
		}
		_, err := members.Admit(ctx, event.ID, "bob", "carol")
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("Expected permission denied, got %v", err)
		}
	})

	t.Run("creator admits pending member", func(t *testing.T) {
		m, err := members.Admit(ctx, event.ID, "alice", "bob")
		if err != nil {
			t.Fatalf("Admit failed: %v", err)
		}
		if m.Admission != models.AdmissionAdmitted {
			t.Errorf("Expected admitted, got %s", m.Admission)
		}
	})

	t.Run("admitting twice is a conflict", func(t *testing.T) {
		_, err := members.Admit(ctx, event.ID, "alice", "bob")
		if !policy.IsConflict(err) {
			t.Errorf("Expected conflict, got %v", err)
		}
	})

	t.Run("admitting a non-member is not found", func(t *testing.T) {
		_, err := members.Admit(ctx, event.ID, "alice", "dave")
		if !policy.IsNotFound(err) {
			t.Errorf("Expected not found, got %v", err)
		}
	})
}

func TestMembershipService_AddDirectly(t *testing.T) {
	store := newTestStore(t, "alice", "bob", "carol")
	members := NewMembershipService(store)
	ctx := context.Background()

	event := newTestEvent(t, store, "alice")

	t.Run("unknown login rejects the whole call", func(t *testing.T) {
		_, err := members.AddDirectly(ctx, event.ID, "alice", []string{"bob", "ghost"})
		if !policy.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("adds admitted participants", func(t *testing.T) {
		added, err := members.AddDirectly(ctx, event.ID, "alice", []string{"bob", "carol"})
		if err != nil {
			t.Fatalf("AddDirectly failed: %v", err)
		}
		if len(added) != 2 {
			t.Fatalf("Expected 2 added, got %d", len(added))
		}
		for _, m := range added {
			if m.Admission != models.AdmissionAdmitted {
				t.Errorf("Expected %s admitted, got %s", m.Login, m.Admission)
			}
		}
	})

	t.Run("existing members are skipped", func(t *testing.T) {
		added, err := members.AddDirectly(ctx, event.ID, "alice", []string{"bob"})
		if err != nil {
			t.Fatalf("AddDirectly failed: %v", err)
		}
		if len(added) != 0 {
			t.Errorf("Expected 0 added, got %d", len(added))
		}
	})
}

func TestMembershipService_ToggleOrganizer(t *testing.T) {
	store := newTestStore(t, "alice", "bob")
	members := NewMembershipService(store)
	ctx := context.Background()

	event := newTestEvent(t, store, "alice")
	admitMember(t, store, event.ID, "bob")

	t.Run("participant promoted to organizer", func(t *testing.T) {
		m, err := members.ToggleOrganizer(ctx, event.ID, "alice", "bob")
		if err != nil {
			t.Fatalf("ToggleOrganizer failed: %v", err)
		}
		if m.Role != models.RoleOrganizer {
			t.Errorf("Expected organizer, got %s", m.Role)
		}
	})

	t.Run("organizer demoted back", func(t *testing.T) {
		m, err := members.ToggleOrganizer(ctx, event.ID, "alice", "bob")
		if err != nil {
			t.Fatalf("ToggleOrganizer failed: %v", err)
		}
		if m.Role != models.RoleParticipant {
			t.Errorf("Expected participant, got %s", m.Role)
		}
	})

	t.Run("creator role is immutable", func(t *testing.T) {
		_, err := members.ToggleOrganizer(ctx, event.ID, "alice", "alice")
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("Expected permission denied, got %v", err)
		}
	})

	t.Run("participant cannot promote", func(t *testing.T) {
		_, err := members.ToggleOrganizer(ctx, event.ID, "bob", "bob")
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("Expected permission denied, got %v", err)
		}
	})
}

func TestMembershipService_Remove(t *testing.T) {
	store := newTestStore(t, "alice", "bob", "carol")
	members := NewMembershipService(store)
	items := NewItemService(store)
	ctx := context.Background()

	event := newTestEvent(t, store, "alice")
	admitMember(t, store, event.ID, "bob")
	admitMember(t, store, event.ID, "carol")

	t.Run("participant cannot remove another member", func(t *testing.T) {
		err := members.Remove(ctx, event.ID, "bob", "carol")
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("Expected permission denied, got %v", err)
		}
	})

	t.Run("creator cannot be removed", func(t *testing.T) {
		err := members.Remove(ctx, event.ID, "alice", "alice")
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("Expected permission denied, got %v", err)
		}
	})

	t.Run("removal blocked by costed purchase", func(t *testing.T) {
		purchase, err := items.Create(ctx, event.ID, "alice", models.KindPurchase, ItemInput{Name: "Charcoal", Responsible: "bob"})
		if err != nil {
			t.Fatalf("Create purchase failed: %v", err)
		}
		if _, err := items.SetPurchaseCost(ctx, event.ID, "bob", purchase.ID, 2500); err != nil {
			t.Fatalf("SetPurchaseCost failed: %v", err)
		}

		err = members.Remove(ctx, event.ID, "alice", "bob")
		if !policy.IsConflict(err) {
			t.Errorf("Expected conflict, got %v", err)
		}
	})

	t.Run("removal blocked by a costed purchase share", func(t *testing.T) {
		debts := NewDebtService(store)
		purchase, err := items.Create(ctx, event.ID, "alice", models.KindPurchase, ItemInput{Name: "Ice", Responsible: "alice"})
		if err != nil {
			t.Fatalf("Create purchase failed: %v", err)
		}
		if _, err := items.SetPurchaseCost(ctx, event.ID, "alice", purchase.ID, 1200); err != nil {
			t.Fatalf("SetPurchaseCost failed: %v", err)
		}
		if err := debts.Allocate(ctx, event.ID, "alice", purchase.ID, []string{"carol"}); err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}

		err = members.Remove(ctx, event.ID, "alice", "carol")
		if !policy.IsConflict(err) {
			t.Errorf("Expected conflict, got %v", err)
		}

		if err := items.Delete(ctx, event.ID, "alice", purchase.ID); err != nil {
			t.Fatalf("Delete purchase failed: %v", err)
		}
	})

	t.Run("removal drops uncosted allocations", func(t *testing.T) {
		debts := NewDebtService(store)
		purchase, err := items.Create(ctx, event.ID, "alice", models.KindPurchase, ItemInput{Name: "Napkins"})
		if err != nil {
			t.Fatalf("Create purchase failed: %v", err)
		}
		if err := debts.Allocate(ctx, event.ID, "alice", purchase.ID, []string{"alice", "carol"}); err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}

		if err := members.Remove(ctx, event.ID, "alice", "carol"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		admitMember(t, store, event.ID, "carol")

		allocations, err := store.ListAllocations(ctx, event.ID)
		if err != nil {
			t.Fatalf("ListAllocations failed: %v", err)
		}
		for _, login := range allocations[purchase.ID] {
			if login == "carol" {
				t.Error("Expected carol's allocation to be dropped with the membership")
			}
		}
	})

	t.Run("removal releases plain claims", func(t *testing.T) {
		stuff, err := items.Create(ctx, event.ID, "alice", models.KindStuff, ItemInput{Name: "Speakers", Responsible: "carol"})
		if err != nil {
			t.Fatalf("Create stuff failed: %v", err)
		}

		if err := members.Remove(ctx, event.ID, "carol", "carol"); err != nil {
			t.Fatalf("Self-leave failed: %v", err)
		}

		got, err := store.GetItem(ctx, event.ID, stuff.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if got.ResponsibleLogin != "" {
			t.Errorf("Expected claim released, got %q", got.ResponsibleLogin)
		}
	})
}
