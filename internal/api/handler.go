package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"event-feed-agent/internal/events"
	"event-feed-agent/internal/ledger"
	"event-feed-agent/internal/present"
	"event-feed-agent/internal/registration"
	"event-feed-agent/internal/session"
)

// Handler holds shared dependencies for the local surface's handlers.
type Handler struct {
	session session.Store
	ledger  *ledger.Ledger
	bell    *present.Bell
	checker *registration.Checker
	events  *events.Client
	db      *gorm.DB
	webpush *webpush.Options
}

// NewHandler creates a new handler.
func NewHandler(
	sess session.Store,
	l *ledger.Ledger,
	bell *present.Bell,
	checker *registration.Checker,
	eventsClient *events.Client,
	db *gorm.DB,
	webpushOptions *webpush.Options,
) *Handler {
	return &Handler{
		session: sess,
		ledger:  l,
		bell:    bell,
		checker: checker,
		events:  eventsClient,
		db:      db,
		webpush: webpushOptions,
	}
}
