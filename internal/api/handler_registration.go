package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetRegistration answers whether the current user is registered for the
// event. The answer is re-derived on every call and reported as a tri-state:
// "registered", "not_registered" or "unknown" when the fetch failed, so the UI
// can suppress the register button instead of guessing.
func (h *Handler) GetRegistration(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	userID, ok := h.session.UserID()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	status, err := h.checker.IsRegistered(c.Request.Context(), userID, eventID)
	if err != nil {
		log.Printf("registration check for event %d failed: %v", eventID, err)
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// Register maps the current user onto the event.
func (h *Handler) Register(c *gin.Context) {
	h.mapRegistration(c, true)
}

// Unregister removes the current user's registration for the event.
func (h *Handler) Unregister(c *gin.Context) {
	h.mapRegistration(c, false)
}

func (h *Handler) mapRegistration(c *gin.Context, register bool) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	userID, ok := h.session.UserID()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	if register {
		err = h.checker.Register(c.Request.Context(), userID, eventID)
	} else {
		err = h.checker.Unregister(c.Request.Context(), userID, eventID)
	}
	if err != nil {
		// Registration errors surface a user-visible message.
		c.JSON(http.StatusBadGateway, gin.H{"error": "registration request failed, please try again"})
		return
	}
	c.Status(http.StatusNoContent)
}
