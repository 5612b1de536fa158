package server

import (
	"time"

	"github.com/eventbuddy/backend/internal/models"
)

// EventResponse is the JSON shape of an event.
type EventResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Date         int64  `json:"date"`
	Location     string `json:"location,omitempty"`
	Description  string `json:"description,omitempty"`
	ChatLink     string `json:"chat_link,omitempty"`
	Status       string `json:"status"`
	CreatorLogin string `json:"creator_login"`
	Settled      bool   `json:"settled"`
	CreatedAt    int64  `json:"created_at"`
}

// MemberResponse is the JSON shape of one roster entry.
type MemberResponse struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Admission   string `json:"admission"`
}

// ItemResponse is the JSON shape of an assignable item. Kind-specific
// fields are omitted when empty.
type ItemResponse struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Responsible *MemberRef        `json:"responsible,omitempty"`
	CostCents   int64             `json:"cost_cents,omitempty"`
	TaskStatus  string            `json:"task_status,omitempty"`
	Deadline    string            `json:"deadline,omitempty"`
	Receipts    []ReceiptResponse `json:"receipts,omitempty"`
	CreatedAt   int64             `json:"created_at"`
}

// MemberRef identifies an item's responsible member.
type MemberRef struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name,omitempty"`
}

// ReceiptResponse is the JSON shape of a purchase receipt.
type ReceiptResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"created_at"`
}

// DebtResponse is the JSON shape of a debt.
type DebtResponse struct {
	ID             string `json:"id"`
	EventID        string `json:"event_id"`
	PurchaseID     string `json:"purchase_id"`
	PayerLogin     string `json:"payer_login"`
	RecipientLogin string `json:"recipient_login"`
	AmountCents    int64  `json:"amount_cents"`
	Status         string `json:"status"`
	CreatedAt      int64  `json:"created_at"`
}

// UserResponse is the JSON shape of an account.
type UserResponse struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

func toEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		Name:         e.Name,
		Date:         e.Date,
		Location:     e.Location,
		Description:  e.Description,
		ChatLink:     e.ChatLink,
		Status:       string(e.Status),
		CreatorLogin: e.CreatorLogin,
		Settled:      e.SettledAt != 0,
		CreatedAt:    e.CreatedAt,
	}
}

func toEventResponses(events []*models.Event) []EventResponse {
	out := make([]EventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	return out
}

func toMemberResponse(m *models.Membership) MemberResponse {
	return MemberResponse{
		Login:       m.Login,
		DisplayName: m.DisplayName,
		Role:        string(m.Role),
		Admission:   string(m.Admission),
	}
}

func toMemberResponses(members []*models.Membership) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = toMemberResponse(m)
	}
	return out
}

func toItemResponse(item *models.Item) ItemResponse {
	resp := ItemResponse{
		ID:          item.ID,
		Kind:        string(item.Kind),
		Name:        item.Name,
		Description: item.Description,
		CostCents:   item.CostCents,
		TaskStatus:  string(item.TaskStatus),
		CreatedAt:   item.CreatedAt,
	}
	if item.ResponsibleLogin != "" {
		resp.Responsible = &MemberRef{
			Login:       item.ResponsibleLogin,
			DisplayName: item.ResponsibleName,
		}
	}
	if item.Deadline != 0 {
		resp.Deadline = time.Unix(item.Deadline, 0).UTC().Format("2006-01-02")
	}
	for _, r := range item.Receipts {
		resp.Receipts = append(resp.Receipts, ReceiptResponse{
			ID:        r.ID,
			URL:       r.URL,
			CreatedAt: r.CreatedAt,
		})
	}
	return resp
}

func toItemResponses(items []*models.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

func toDebtResponse(d *models.Debt) DebtResponse {
	return DebtResponse{
		ID:             d.ID,
		EventID:        d.EventID,
		PurchaseID:     d.ItemID,
		PayerLogin:     d.PayerLogin,
		RecipientLogin: d.RecipientLogin,
		AmountCents:    d.AmountCents,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
	}
}

func toDebtResponses(debts []*models.Debt) []DebtResponse {
	out := make([]DebtResponse, len(debts))
	for i, d := range debts {
		out[i] = toDebtResponse(d)
	}
	return out
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Login:       u.Login,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
