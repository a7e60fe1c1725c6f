package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"event-feed-agent/config"
	"event-feed-agent/internal/mw"
)

// NewRouter creates and configures the local surface's Gin router.
func NewRouter(cfg *config.ServerConfig, handler *Handler) *gin.Engine {
	r := gin.Default()

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	limitPerSec := cfg.RateLimitPerSec
	if limitPerSec <= 0 {
		limitPerSec = 10
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 5
	}
	rateLimiter := mw.RateLimiter(rate.Limit(limitPerSec), burst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/session", handler.GetSession)
		api.PUT("/session", handler.PutSession)
		api.DELETE("/session", handler.DeleteSession)

		api.GET("/notifications", handler.GetNotifications)
		api.POST("/notifications/read_all", handler.MarkAllNotificationsRead)
		api.POST("/notifications/read", handler.ClickNotification)
		api.POST("/bell/toggle", handler.ToggleBell)
		api.POST("/bell/close", handler.CloseBell)

		// Only event details are cacheable; registration state must always be
		// re-derived and the ledger endpoints reflect live state.
		api.GET("/events/:id", caching, handler.GetEvent)
		api.GET("/events/:id/comments", handler.GetComments)
		api.POST("/events/:id/comments", handler.PostComment)
		api.GET("/events/:id/registration", handler.GetRegistration)
		api.POST("/events/:id/register", handler.Register)
		api.POST("/events/:id/unregister", handler.Unregister)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
