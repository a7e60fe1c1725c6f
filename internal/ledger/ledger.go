package ledger

import (
	"sync"
	"time"

	"event-feed-agent/internal/feed"
)

// Notification is one entry in the in-memory notification ledger.
type Notification struct {
	ID            int64     `json:"id"`
	Message       string    `json:"message"`
	EventID       int64     `json:"eventId"`
	EventName     string    `json:"eventName"`
	EventLocation string    `json:"eventLocation"`
	EventDate     string    `json:"eventDate"`
	EventImage    string    `json:"eventImage,omitempty"`
	OrganizerName string    `json:"organizerName"`
	ReceivedAt    time.Time `json:"receivedAt"`
	Read          bool      `json:"read"`
}

// Ledger holds the session's notification records, most recent first, together
// with the unread counter. The counter always equals the number of unread
// records; every mutation maintains that under one lock.
//
// Records are memory-resident only and start empty on every process start.
type Ledger struct {
	mu       sync.Mutex
	records  []Notification
	unread   int
	capacity int
	nextID   int64
	now      func() time.Time
}

// New creates a ledger keeping at most capacity records; capacity <= 0 means
// unbounded. Identifiers are a monotonic counter seeded from the wall clock,
// so bursts arriving within the same millisecond still get distinct IDs.
func New(capacity int) *Ledger {
	return &Ledger{
		capacity: capacity,
		nextID:   time.Now().UnixMilli(),
		now:      time.Now,
	}
}

// Push records an event-creation notification and returns the stored record.
func (l *Ledger) Push(ev feed.EventPayload, message string) Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	n := Notification{
		ID:            l.nextID,
		Message:       message,
		EventID:       ev.ID,
		EventName:     ev.Name,
		EventLocation: ev.Location,
		EventDate:     ev.Date,
		EventImage:    ev.ImageURL,
		OrganizerName: ev.Organizer.Name,
		ReceivedAt:    l.now(),
	}

	l.records = append(l.records, Notification{})
	copy(l.records[1:], l.records)
	l.records[0] = n
	l.unread++

	if l.capacity > 0 && len(l.records) > l.capacity {
		for _, evicted := range l.records[l.capacity:] {
			if !evicted.Read {
				l.unread--
			}
		}
		l.records = l.records[:l.capacity]
	}

	return n
}

// MarkAllRead marks every record read and zeroes the unread counter.
// Calling it again is a no-op.
func (l *Ledger) MarkAllRead() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.records {
		l.records[i].Read = true
	}
	l.unread = 0
}

// MarkRead marks the record with the given id read. Unknown ids and records
// that are already read leave the ledger untouched, so the counter can never
// go below zero.
func (l *Ledger) MarkRead(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.records {
		if l.records[i].ID != id {
			continue
		}
		if !l.records[i].Read {
			l.records[i].Read = true
			l.unread--
		}
		return
	}
}

// List returns a copy of the records, most recent first.
func (l *Ledger) List() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Notification, len(l.records))
	copy(out, l.records)
	return out
}

// UnreadCount returns the number of unread records.
func (l *Ledger) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unread
}
