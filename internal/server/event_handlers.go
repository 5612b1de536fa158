package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventbuddy/backend/internal/service"
)

type createEventRequest struct {
	Name        string `json:"name"`
	Date        int64  `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ChatLink    string `json:"chat_link"`
}

type patchEventRequest struct {
	Name        *string `json:"name"`
	Date        *int64  `json:"date"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	ChatLink    *string `json:"chat_link"`
}

// CreateEvent creates an event with the caller as creator.
func (s *Server) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	event, err := s.events.Create(c.Request.Context(), callerLogin(c), service.EventInput{
		Name:        req.Name,
		Date:        req.Date,
		Location:    req.Location,
		Description: req.Description,
		ChatLink:    req.ChatLink,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toEventResponse(event))
}

// ListEvents returns the caller's events.
func (s *Server) ListEvents(c *gin.Context) {
	events, err := s.events.List(c.Request.Context(), callerLogin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": toEventResponses(events)})
}

// GetEvent returns one event with its roster.
func (s *Server) GetEvent(c *gin.Context) {
	eventID := c.Param("eventID")
	login := callerLogin(c)

	event, err := s.events.Get(c.Request.Context(), eventID, login)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{"event": toEventResponse(event)}
	// The roster is only visible to admitted members; a pending requester
	// still sees the event itself.
	if members, err := s.events.Roster(c.Request.Context(), eventID, login); err == nil {
		resp["members"] = toMemberResponses(members)
	}
	c.JSON(http.StatusOK, resp)
}

// PatchEvent applies a partial event update.
func (s *Server) PatchEvent(c *gin.Context) {
	var req patchEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	event, err := s.events.Edit(c.Request.Context(), c.Param("eventID"), callerLogin(c), service.EventPatch{
		Name:        req.Name,
		Date:        req.Date,
		Location:    req.Location,
		Description: req.Description,
		ChatLink:    req.ChatLink,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEventResponse(event))
}

// DeleteEvent removes an active event. Creator only.
func (s *Server) DeleteEvent(c *gin.Context) {
	if err := s.events.Delete(c.Request.Context(), c.Param("eventID"), callerLogin(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteEvent transitions the event to completed. Creator only, date
// passed only.
func (s *Server) CompleteEvent(c *gin.Context) {
	event, err := s.events.Complete(c.Request.Context(), c.Param("eventID"), callerLogin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(event))
}
