package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-feed-agent/internal/feed"
	"event-feed-agent/internal/ledger"
)

func TestBell_ToggleMarksAllReadOnOpen(t *testing.T) {
	l := ledger.New(0)
	l.Push(feed.EventPayload{ID: 999, Name: "Test Event"},
		`New event "Test Event" has been created!`)
	require.Equal(t, 1, l.UnreadCount())

	bell := NewBell(l)
	assert.False(t, bell.IsOpen())

	// Opening the bell clears the unread state.
	assert.True(t, bell.Toggle())
	assert.Zero(t, l.UnreadCount())
	for _, n := range l.List() {
		assert.True(t, n.Read)
	}

	// Toggling again just closes.
	assert.False(t, bell.Toggle())
	assert.False(t, bell.IsOpen())
}

func TestBell_OpenWithZeroUnreadIsNoOp(t *testing.T) {
	l := ledger.New(0)
	bell := NewBell(l)

	assert.True(t, bell.Toggle())
	assert.Zero(t, l.UnreadCount())
	assert.Empty(t, l.List())
}

func TestBell_ClickNotification(t *testing.T) {
	l := ledger.New(0)
	n := l.Push(feed.EventPayload{ID: 7, Name: "Food Truck Rally"}, "new event")

	bell := NewBell(l)
	bell.Toggle() // toggle marks all read; push another to have an unread entry
	n2 := l.Push(feed.EventPayload{ID: 8, Name: "Another"}, "new event")
	require.Equal(t, 1, l.UnreadCount())

	intent := bell.ClickNotification(n2)
	assert.EqualValues(t, 8, intent.EventID)
	assert.Zero(t, l.UnreadCount())
	assert.False(t, bell.IsOpen(), "clicking a notification closes the dropdown")

	// Clicking an already-read record still navigates and never goes negative.
	intent = bell.ClickNotification(n)
	assert.EqualValues(t, 7, intent.EventID)
	assert.Zero(t, l.UnreadCount())
}

func TestBell_OutsideClickClosesOnly(t *testing.T) {
	l := ledger.New(0)
	bell := NewBell(l)

	bell.Toggle()
	l.Push(feed.EventPayload{ID: 1}, "m")
	require.Equal(t, 1, l.UnreadCount())

	bell.OutsideClick()
	assert.False(t, bell.IsOpen())
	// The ledger is untouched.
	assert.Equal(t, 1, l.UnreadCount())
}
