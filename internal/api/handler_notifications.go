package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetNotifications returns the ledger, most recent first, with the unread
// counter. Never cached: the UI polls this to render the bell badge.
func (h *Handler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.ledger.List(),
		"unread_count":  h.ledger.UnreadCount(),
	})
}

// MarkAllNotificationsRead backs the dropdown's "Mark all as read" button.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	h.ledger.MarkAllRead()
	c.Status(http.StatusNoContent)
}

type clickNotificationRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// ClickNotification marks one notification read and returns where the UI
// should navigate.
func (h *Handler) ClickNotification(c *gin.Context) {
	var req clickNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notification id is required"})
		return
	}

	for _, n := range h.ledger.List() {
		if n.ID == req.ID {
			intent := h.bell.ClickNotification(n)
			c.JSON(http.StatusOK, intent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
}

// ToggleBell flips the dropdown; opening it marks everything read.
func (h *Handler) ToggleBell(c *gin.Context) {
	open := h.bell.Toggle()
	c.JSON(http.StatusOK, gin.H{
		"open":         open,
		"unread_count": h.ledger.UnreadCount(),
	})
}

// CloseBell backs the outside-click handler; it only closes the dropdown.
func (h *Handler) CloseBell(c *gin.Context) {
	h.bell.OutsideClick()
	c.Status(http.StatusNoContent)
}
