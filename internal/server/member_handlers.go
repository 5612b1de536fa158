package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addMembersRequest struct {
	Logins []string `json:"logins"`
}

// RequestJoin creates a pending membership for the caller.
func (s *Server) RequestJoin(c *gin.Context) {
	m, err := s.members.RequestJoin(c.Request.Context(), c.Param("eventID"), callerLogin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMemberResponse(m))
}

// AddMembers adds logins directly as admitted participants.
func (s *Server) AddMembers(c *gin.Context) {
	var req addMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	added, err := s.members.AddDirectly(c.Request.Context(), c.Param("eventID"), callerLogin(c), req.Logins)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"members": toMemberResponses(added)})
}

// AdmitMember approves a pending join request.
func (s *Server) AdmitMember(c *gin.Context) {
	m, err := s.members.Admit(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("login"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(m))
}

// ToggleMemberRole flips a member between participant and organizer.
func (s *Server) ToggleMemberRole(c *gin.Context) {
	m, err := s.members.ToggleOrganizer(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("login"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(m))
}

// RemoveMember removes a member, or lets a member leave.
func (s *Server) RemoveMember(c *gin.Context) {
	if err := s.members.Remove(c.Request.Context(), c.Param("eventID"), callerLogin(c), c.Param("login")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
