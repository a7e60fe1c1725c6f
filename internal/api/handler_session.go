package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type putSessionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// GetSession returns the current session, if any.
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := h.session.UserID()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id})
}

// PutSession establishes the session after the UI's login flow.
func (h *Handler) PutSession(c *gin.Context) {
	var req putSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	if err := h.session.SetUserID(c.Request.Context(), req.UserID); err != nil {
		// Persistence failure degrades to session loss on restart; the live
		// session is still valid unless the id itself was rejected.
		if _, ok := h.session.UserID(); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("session persistence failed: %v", err)
	}

	c.Status(http.StatusNoContent)
}

// DeleteSession ends the session (logout).
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.session.Clear(c.Request.Context()); err != nil {
		log.Printf("session clear failed: %v", err)
	}
	c.Status(http.StatusNoContent)
}
