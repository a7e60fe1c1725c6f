package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-feed-agent/internal/feed"
)

func countUnread(records []Notification) int {
	n := 0
	for _, r := range records {
		if !r.Read {
			n++
		}
	}
	return n
}

func TestLedger_UnreadCountMatchesRecords(t *testing.T) {
	l := New(0)

	for i := 1; i <= 10; i++ {
		l.Push(feed.EventPayload{ID: int64(i), Name: fmt.Sprintf("Event %d", i)}, "new event")
		assert.Equal(t, countUnread(l.List()), l.UnreadCount())
	}

	l.MarkRead(l.List()[3].ID)
	assert.Equal(t, countUnread(l.List()), l.UnreadCount())

	l.MarkAllRead()
	assert.Equal(t, countUnread(l.List()), l.UnreadCount())
	assert.Zero(t, l.UnreadCount())
}

func TestLedger_OrderIsMostRecentFirst(t *testing.T) {
	l := New(0)
	l.Push(feed.EventPayload{ID: 1, Name: "A"}, "a")
	l.Push(feed.EventPayload{ID: 2, Name: "B"}, "b")
	l.Push(feed.EventPayload{ID: 3, Name: "C"}, "c")

	records := l.List()
	require.Len(t, records, 3)
	assert.Equal(t, []string{"C", "B", "A"},
		[]string{records[0].EventName, records[1].EventName, records[2].EventName})
}

func TestLedger_MarkAllReadIsIdempotent(t *testing.T) {
	l := New(0)
	l.Push(feed.EventPayload{ID: 1}, "a")
	l.Push(feed.EventPayload{ID: 2}, "b")

	for i := 0; i < 2; i++ {
		l.MarkAllRead()
		assert.Zero(t, l.UnreadCount())
		for _, r := range l.List() {
			assert.True(t, r.Read)
		}
	}
}

func TestLedger_MarkReadFloorsAtZero(t *testing.T) {
	l := New(0)
	n := l.Push(feed.EventPayload{ID: 1}, "a")

	l.MarkRead(n.ID)
	assert.Zero(t, l.UnreadCount())

	// A second invocation on the same record must not go negative.
	l.MarkRead(n.ID)
	assert.Zero(t, l.UnreadCount())

	// Unknown ids are a no-op.
	l.MarkRead(n.ID + 1000)
	assert.Zero(t, l.UnreadCount())
}

func TestLedger_PushScenario(t *testing.T) {
	l := New(0)
	l.Push(feed.EventPayload{ID: 999, Name: "Test Event"},
		`New event "Test Event" has been created!`)

	assert.Equal(t, 1, l.UnreadCount())

	records := l.List()
	require.Len(t, records, 1)
	assert.EqualValues(t, 999, records[0].EventID)
	assert.Equal(t, `New event "Test Event" has been created!`, records[0].Message)
	assert.False(t, records[0].Read)
}

func TestLedger_RapidPushesGetDistinctIDs(t *testing.T) {
	l := New(0)
	// Freeze the clock so every push lands on the same instant.
	now := time.Now()
	l.now = func() time.Time { return now }

	a := l.Push(feed.EventPayload{ID: 1, Name: "A"}, "a")
	b := l.Push(feed.EventPayload{ID: 2, Name: "B"}, "b")

	assert.NotEqual(t, a.ID, b.ID)

	records := l.List()
	require.Len(t, records, 2)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestLedger_CapacityEvictsOldestAndKeepsInvariant(t *testing.T) {
	l := New(3)

	for i := 1; i <= 5; i++ {
		l.Push(feed.EventPayload{ID: int64(i), Name: fmt.Sprintf("E%d", i)}, "m")
	}

	records := l.List()
	require.Len(t, records, 3)
	assert.Equal(t, []string{"E5", "E4", "E3"},
		[]string{records[0].EventName, records[1].EventName, records[2].EventName})
	assert.Equal(t, 3, l.UnreadCount())

	// Read records falling off the end must not disturb the counter.
	l.MarkAllRead()
	l.Push(feed.EventPayload{ID: 6, Name: "E6"}, "m")
	assert.Equal(t, 1, l.UnreadCount())
	assert.Equal(t, countUnread(l.List()), l.UnreadCount())
}

func TestLedger_RecordFieldsFromPayload(t *testing.T) {
	l := New(0)
	n := l.Push(feed.EventPayload{
		ID:        7,
		Name:      "Food Truck Rally",
		Date:      "Last Friday of every month",
		Location:  "Depot Park",
		ImageURL:  "https://example.com/ftr.jpg",
		Organizer: feed.Organizer{ID: 2, Name: "Depot Park"},
	}, "New event created: Food Truck Rally")

	assert.EqualValues(t, 7, n.EventID)
	assert.Equal(t, "Food Truck Rally", n.EventName)
	assert.Equal(t, "Depot Park", n.EventLocation)
	assert.Equal(t, "Last Friday of every month", n.EventDate)
	assert.Equal(t, "https://example.com/ftr.jpg", n.EventImage)
	assert.Equal(t, "Depot Park", n.OrganizerName)
	assert.False(t, n.ReceivedAt.IsZero())
}
