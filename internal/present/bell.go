package present

import (
	"sync"

	"event-feed-agent/internal/ledger"
)

// NavigationIntent tells the routing layer where a notification click should
// take the user.
type NavigationIntent struct {
	EventID int64 `json:"event_id"`
}

// Bell adapts ledger state for the notification dropdown. The dropdown has two
// states, closed and open; it starts closed and lives as long as the agent.
type Bell struct {
	ledger *ledger.Ledger

	mu   sync.Mutex
	open bool
}

// NewBell creates a closed bell over the given ledger.
func NewBell(l *ledger.Ledger) *Bell {
	return &Bell{ledger: l}
}

// Toggle flips the dropdown and reports the new state. Opening while unread
// notifications exist marks everything read; opening with none skips the
// redundant write.
func (b *Bell) Toggle() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.open = !b.open
	if b.open && b.ledger.UnreadCount() > 0 {
		b.ledger.MarkAllRead()
	}
	return b.open
}

// ClickNotification marks the clicked record read, closes the dropdown and
// returns the navigation intent for the routing layer.
func (b *Bell) ClickNotification(n ledger.Notification) NavigationIntent {
	b.ledger.MarkRead(n.ID)

	b.mu.Lock()
	b.open = false
	b.mu.Unlock()

	return NavigationIntent{EventID: n.EventID}
}

// OutsideClick closes the dropdown. It never touches the ledger.
func (b *Bell) OutsideClick() {
	b.mu.Lock()
	b.open = false
	b.mu.Unlock()
}

// IsOpen reports whether the dropdown is open.
func (b *Bell) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}
