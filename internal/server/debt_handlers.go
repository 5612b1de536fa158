package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FinalizeAllocation converts the event's purchase allocations into debts.
func (s *Server) FinalizeAllocation(c *gin.Context) {
	debts, err := s.debts.Finalize(c.Request.Context(), c.Param("eventID"), callerLogin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"debts": toDebtResponses(debts)})
}

// ListDebts returns the event's debts, optionally filtered by member login.
func (s *Server) ListDebts(c *gin.Context) {
	debts, err := s.debts.List(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Query("login"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debts": toDebtResponses(debts)})
}

// MarkDebtPaid moves a debt unpaid -> paid. Payer only.
func (s *Server) MarkDebtPaid(c *gin.Context) {
	debt, err := s.debts.MarkPaid(c.Request.Context(), c.Param("debtID"), callerLogin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDebtResponse(debt))
}

// MarkDebtReceived moves a debt paid -> received. Recipient only.
func (s *Server) MarkDebtReceived(c *gin.Context) {
	debt, err := s.debts.MarkReceived(c.Request.Context(), c.Param("debtID"), callerLogin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDebtResponse(debt))
}
