package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/service"
)

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Responsible string `json:"responsible"`
	Deadline    string `json:"deadline"`
}

type patchItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Responsible *string `json:"responsible"`
	Deadline    *string `json:"deadline"`
}

type setCostRequest struct {
	CostCents int64 `json:"cost_cents"`
}

type addReceiptRequest struct {
	URL string `json:"url"`
}

type allocateRequest struct {
	Logins []string `json:"logins"`
}

// ListItems returns the event's items of one kind.
func (s *Server) ListItems(kind models.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := s.items.List(c.Request.Context(), c.Param("eventID"), callerLogin(c), kind)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": toItemResponses(items)})
	}
}

// CreateItem creates an item of one kind.
func (s *Server) CreateItem(kind models.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		item, err := s.items.Create(c.Request.Context(), c.Param("eventID"), callerLogin(c), kind, service.ItemInput{
			Name:        req.Name,
			Description: req.Description,
			Responsible: req.Responsible,
			Deadline:    req.Deadline,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toItemResponse(item))
	}
}

// PatchItem applies a partial item update.
func (s *Server) PatchItem(c *gin.Context) {
	var req patchItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	item, err := s.items.Edit(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("itemID"), service.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Responsible: req.Responsible,
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// DeleteItem removes an item.
func (s *Server) DeleteItem(c *gin.Context) {
	if err := s.items.Delete(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("itemID")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClaimItem assigns an unclaimed item to the caller.
func (s *Server) ClaimItem(c *gin.Context) {
	item, err := s.items.Claim(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("itemID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// ReleaseItem gives the caller's claim back.
func (s *Server) ReleaseItem(c *gin.Context) {
	item, err := s.items.Release(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("itemID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// CompleteTask marks a task done.
func (s *Server) CompleteTask(c *gin.Context) {
	item, err := s.items.SetTaskStatus(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("itemID"), models.TaskDone)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// StartTask marks a task in progress.
func (s *Server) StartTask(c *gin.Context) {
	item, err := s.items.SetTaskStatus(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("itemID"), models.TaskInProgress)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// SetPurchaseCost records the purchase cost, once.
func (s *Server) SetPurchaseCost(c *gin.Context) {
	var req setCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	item, err := s.items.SetPurchaseCost(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("itemID"), req.CostCents)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// AddReceipt attaches a receipt to a purchase.
func (s *Server) AddReceipt(c *gin.Context) {
	var req addReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	item, err := s.items.AddReceipt(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("itemID"), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemResponse(item))
}

// AllocatePurchase records who shares a purchase's cost.
func (s *Server) AllocatePurchase(c *gin.Context) {
	var req allocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := s.debts.Allocate(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("itemID"), req.Logins); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
