package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/eventbuddy/backend/internal/calculator"
	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/policy"
	"github.com/eventbuddy/backend/internal/storage"
)

// DebtService is the debt ledger: it records who shares each purchase and,
// at finalization, turns allocations into concrete payer -> recipient debts.
type DebtService struct {
	store storage.Store
}

// NewDebtService creates a new DebtService with the given storage backend.
func NewDebtService(store storage.Store) *DebtService {
	return &DebtService{store: store}
}

// Allocate records which admitted members share a purchase's cost.
// Organizer or creator only; adding an already-present login is a no-op.
func (s *DebtService) Allocate(ctx context.Context, eventID, actorLogin, purchaseID string, logins []string) error {
	mc, err := loadMember(ctx, s.store, eventID, actorLogin)
	if err != nil {
		return err
	}
	if mc.member.Role != models.RoleOrganizer && mc.member.Role != models.RoleCreator {
		return policy.ErrPermissionDenied
	}
	if mc.event.Status != models.EventActive {
		return policy.ErrPermissionDenied
	}
	if mc.event.SettledAt != 0 {
		return policy.Conflict("cost allocation is already finalized")
	}
	if len(logins) == 0 {
		return policy.Invalid("logins", "must not be empty")
	}

	item, err := s.store.GetItem(ctx, eventID, purchaseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return policy.NotFound("purchase", purchaseID)
		}
		return err
	}
	if item.Kind != models.KindPurchase {
		return policy.Invalid("item", "not a purchase")
	}

	for _, login := range logins {
		m, err := s.store.GetMembership(ctx, eventID, login)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return policy.Invalid("logins", "unknown member %s", login)
			}
			return err
		}
		if !m.IsAdmitted() {
			return policy.Invalid("logins", "member %s is not admitted", login)
		}
	}

	if err := s.store.AddAllocations(ctx, purchaseID, logins); err != nil {
		return err
	}

	slog.Info("Purchase allocated", "event_id", eventID, "purchase_id", purchaseID, "logins", logins, "by", actorLogin)
	return nil
}

// Finalize converts the event's purchase allocations into debts. Creator
// only, at most once per event, and only when every purchase has at least
// one allocated participant.
//
// Each costed purchase splits equally among its payers, the allocated
// participants other than the responsible member; remainder cents stay with
// the responsible member. Purchases without a cost or without a responsible
// member produce no debts.
func (s *DebtService) Finalize(ctx context.Context, eventID, actorLogin string) ([]*models.Debt, error) {
	mc, err := loadMember(ctx, s.store, eventID, actorLogin)
	if err != nil {
		return nil, err
	}
	if mc.member.Role != models.RoleCreator {
		return nil, policy.ErrPermissionDenied
	}
	if mc.event.Status != models.EventActive {
		return nil, policy.ErrPermissionDenied
	}
	if mc.event.SettledAt != 0 {
		return nil, policy.Conflict("cost allocation is already finalized")
	}

	purchases, err := s.store.ListItems(ctx, eventID, models.KindPurchase)
	if err != nil {
		return nil, err
	}
	allocations, err := s.store.ListAllocations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	for _, p := range purchases {
		if len(allocations[p.ID]) == 0 {
			return nil, policy.Conflict("purchase %q has no allocated participants", p.Name)
		}
	}

	var debts []*models.Debt
	for _, p := range purchases {
		if p.CostCents <= 0 || p.ResponsibleLogin == "" {
			continue
		}
		shares, err := calculator.SplitPurchase(p.CostCents, p.ResponsibleLogin, allocations[p.ID])
		if err != nil {
			return nil, err
		}
		for _, share := range shares {
			debts = append(debts, &models.Debt{
				EventID:        eventID,
				ItemID:         p.ID,
				PayerLogin:     share.Login,
				RecipientLogin: p.ResponsibleLogin,
				AmountCents:    share.AmountCents,
				Status:         models.DebtUnpaid,
			})
		}
	}

	if len(debts) > 0 {
		if err := s.store.CreateDebts(ctx, debts); err != nil {
			return nil, err
		}
	}

	mc.event.SettledAt = time.Now().Unix()
	if err := s.store.UpdateEvent(ctx, mc.event); err != nil {
		return nil, err
	}

	slog.Info("Cost allocation finalized", "event_id", eventID, "debts", len(debts), "by", actorLogin)
	return debts, nil
}

// List returns the event's debts for any admitted member. When login filter
// is set, only debts involving that login are returned.
func (s *DebtService) List(ctx context.Context, eventID, actorLogin, filterLogin string) ([]*models.Debt, error) {
	if _, err := loadAdmitted(ctx, s.store, eventID, actorLogin); err != nil {
		return nil, err
	}
	if filterLogin != "" {
		return s.store.ListDebtsByMember(ctx, eventID, filterLogin)
	}
	return s.store.ListDebtsByEvent(ctx, eventID)
}

// MarkPaid moves a debt unpaid -> paid. Payer only.
func (s *DebtService) MarkPaid(ctx context.Context, debtID, actorLogin string) (*models.Debt, error) {
	return s.advance(ctx, debtID, actorLogin, models.DebtUnpaid, models.DebtPaid, func(d *models.Debt) string {
		return d.PayerLogin
	})
}

// MarkReceived moves a debt paid -> received. Recipient only. This is the
// single legal edge into received; confirming an unpaid debt is rejected.
func (s *DebtService) MarkReceived(ctx context.Context, debtID, actorLogin string) (*models.Debt, error) {
	return s.advance(ctx, debtID, actorLogin, models.DebtPaid, models.DebtReceived, func(d *models.Debt) string {
		return d.RecipientLogin
	})
}

func (s *DebtService) advance(ctx context.Context, debtID, actorLogin string, from, to models.DebtStatus, actorOf func(*models.Debt) string) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, policy.NotFound("debt", debtID)
		}
		return nil, err
	}
	if actorOf(debt) != actorLogin {
		return nil, policy.ErrPermissionDenied
	}

	event, err := s.store.GetEvent(ctx, debt.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventActive {
		return nil, policy.ErrPermissionDenied
	}

	advanced, err := s.store.AdvanceDebtStatus(ctx, debtID, from, to)
	if err != nil {
		return nil, err
	}
	if !advanced {
		return nil, policy.InvalidState("debt is not %s", from)
	}

	debt.Status = to
	slog.Info("Debt status advanced", "debt_id", debtID, "status", to, "by", actorLogin)
	return debt, nil
}
