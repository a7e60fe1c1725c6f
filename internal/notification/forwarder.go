package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"event-feed-agent/internal/ledger"
	"event-feed-agent/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Forwarder fans ledger entries out to every stored browser push subscription
// through a pool of workers. Send failures are logged and dropped; the ledger
// stays the source of truth either way.
type Forwarder struct {
	size    int
	jobs    chan ledger.Notification
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewForwarder creates a forwarder with the given pool size.
func NewForwarder(size int, db *gorm.DB, webpushOptions *webpush.Options) *Forwarder {
	return &Forwarder{
		size:    size,
		jobs:    make(chan ledger.Notification, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (f *Forwarder) Start(ctx context.Context) {
	for i := 0; i < f.size; i++ {
		go f.worker(ctx, i)
	}
}

func (f *Forwarder) worker(ctx context.Context, id int) {
	log.Printf("Forwarder worker %d started", id)
	for {
		select {
		case n := <-f.jobs:
			f.forward(ctx, n)
		case <-ctx.Done():
			log.Printf("Forwarder worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a notification for forwarding.
func (f *Forwarder) Dispatch(n ledger.Notification) {
	f.jobs <- n
}

// Jobs returns the jobs channel for testing.
func (f *Forwarder) Jobs() chan ledger.Notification {
	return f.jobs
}

// forward sends one ledger entry to all stored subscriptions.
func (f *Forwarder) forward(ctx context.Context, n ledger.Notification) {
	var subscriptions []model.PushSubscription
	if err := f.db.WithContext(ctx).Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching push subscriptions: %v", err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("Error marshaling notification %d: %v", n.ID, err)
		return
	}

	log.Printf("Forwarding notification %d to %d subscriptions", n.ID, len(subscriptions))
	for _, sub := range subscriptions {
		f.send(ctx, sub, payload)
	}
}

func (f *Forwarder) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := f.sender.Send(payload, wpSub, f.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// The push service reports expired subscriptions with 410.
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := f.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
