package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"event-feed-agent/internal/events"
)

// GetEvent proxies the event detail fetch for the UI.
func (h *Handler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch event"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// GetComments returns the event's comment thread.
func (h *Handler) GetComments(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	comments, err := h.events.Comments(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch comments"})
		return
	}
	c.JSON(http.StatusOK, comments)
}

type postCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostComment adds a comment to the event's thread on behalf of the current
// user.
func (h *Handler) PostComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	userID, ok := h.session.UserID()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	var req postCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	uid, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session user id is not numeric"})
		return
	}

	comment := events.Comment{
		EventID: id,
		UserID:  uid,
		Content: req.Content,
	}
	if err := h.events.AddComment(c.Request.Context(), id, comment); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to post comment"})
		return
	}
	c.Status(http.StatusCreated)
}
