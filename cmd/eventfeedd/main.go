package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"event-feed-agent/config"
	"event-feed-agent/internal/api"
	"event-feed-agent/internal/db"
	"event-feed-agent/internal/events"
	"event-feed-agent/internal/feed"
	"event-feed-agent/internal/ledger"
	"event-feed-agent/internal/notification"
	"event-feed-agent/internal/present"
	"event-feed-agent/internal/registration"
	"event-feed-agent/internal/session"
)

func main() {
	logger := log.New(os.Stdout, "event-feed-agent ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Push.URL == "" {
		logger.Fatalf("push.url must be configured (the backend's notification websocket endpoint)")
	}
	if cfg.Backend.BaseURL == "" {
		logger.Fatalf("backend.base_url must be configured")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	sess, err := session.NewGormStore(gormDB)
	if err != nil {
		logger.Fatalf("failed to initialize session store: %v", err)
	}
	if id, ok := sess.UserID(); ok {
		logger.Printf("restored session for user %s", id)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notificationLedger := ledger.New(cfg.Ledger.Capacity)
	bell := present.NewBell(notificationLedger)
	checker := registration.NewChecker(&cfg.Backend)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	eventsClient := events.NewClient(&cfg.Backend, cacheTTL)

	// Web-push forwarding is enabled only when VAPID keys are present.
	var webpushOptions *webpush.Options
	var forwarder *notification.Forwarder
	if cfg.WebPush.PublicKey != "" && cfg.WebPush.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.WebPush.PublicKey,
			VAPIDPrivateKey: cfg.WebPush.PrivateKey,
			Subscriber:      cfg.WebPush.Subject,
			TTL:             cfg.WebPush.TTL,
		}
		forwarder = notification.NewForwarder(cfg.WorkerPool.Size, gormDB, webpushOptions)
		forwarder.Start(ctx)
		logger.Println("web-push forwarding enabled")
	} else {
		logger.Println("VAPID keys not configured; web-push forwarding disabled")
	}

	handleFrame := func(env feed.Envelope) {
		n := notificationLedger.Push(env.Event, env.Message)
		logger.Printf("notification %d recorded for event %d (%s)", n.ID, n.EventID, n.EventName)
		if forwarder != nil {
			forwarder.Dispatch(n)
		}
	}

	go superviseFeed(ctx, cfg, sess, handleFrame, logger)

	handler := api.NewHandler(sess, notificationLedger, bell, checker, eventsClient, gormDB, webpushOptions)
	router := api.NewRouter(&cfg.Server, handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

// superviseFeed keeps the push channel aligned with the session: a connection
// is held only while a user is logged in, and torn down on logout. The session
// is re-checked on a short interval rather than through explicit signaling.
func superviseFeed(ctx context.Context, cfg *config.Config, sess session.Store, handler feed.Handler, logger *log.Logger) {
	const checkInterval = 2 * time.Second

	var feedCancel context.CancelFunc
	var feedDone chan struct{}

	stopFeed := func() {
		if feedCancel != nil {
			feedCancel()
			<-feedDone
			feedCancel = nil
			feedDone = nil
		}
	}
	defer stopFeed()

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		_, loggedIn := sess.UserID()
		running := feedCancel != nil

		// A finished client (connection dropped, reconnect disabled) is
		// cleaned up so a later login can reconnect.
		if running {
			select {
			case <-feedDone:
				feedCancel()
				feedCancel = nil
				feedDone = nil
				running = false
			default:
			}
		}

		switch {
		case loggedIn && !running:
			logger.Println("session active, opening push channel")
			feedCtx, cancel := context.WithCancel(ctx)
			feedCancel = cancel
			feedDone = make(chan struct{})
			client := feed.NewClient(&cfg.Push, handler)
			go func(done chan struct{}) {
				client.Run(feedCtx)
				close(done)
			}(feedDone)
		case !loggedIn && running:
			logger.Println("session ended, closing push channel")
			stopFeed()
		}
	}
}
