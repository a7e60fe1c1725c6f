package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"event-feed-agent/config"
	"event-feed-agent/internal/feed"
	"event-feed-agent/internal/ledger"
	"event-feed-agent/internal/model"
	"event-feed-agent/internal/present"
	"event-feed-agent/internal/registration"
	"event-feed-agent/internal/session"
)

// TestNotificationLifecycle runs the whole client path against a fake events
// backend: a frame arrives on the push channel, lands in the ledger, the bell
// clears it, and the membership check scans the user's registration list.
func TestNotificationLifecycle(t *testing.T) {
	// --- Test Setup ---

	// 1. In-memory database for the session store.
	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, testDB.AutoMigrate(&model.Session{}, &model.PushSubscription{}))

	// 2. Fake events backend: one websocket endpoint plus the registration
	// list, which deliberately uses the capitalized identifier field.
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	broadcast := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/ws":
			conn, err := upgrader.Upgrade(w, r, nil)
			require.NoError(t, err)
			defer conn.Close()

			// Welcome frame, like the real backend sends.
			require.NoError(t, conn.WriteJSON(map[string]any{
				"type":    "system",
				"message": "Connected to event notification service",
			}))
			for frame := range broadcast {
				require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
			}
		case r.URL.Path == "/user/1/GetUserRegisteredEvents":
			w.Write([]byte(`[{"ID":5},{"ID":7}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	defer close(broadcast)

	// 3. Assemble the client core.
	sess, err := session.NewGormStore(testDB)
	require.NoError(t, err)
	require.NoError(t, sess.SetUserID(context.Background(), "1"))

	notificationLedger := ledger.New(50)
	bell := present.NewBell(notificationLedger)

	recorded := make(chan ledger.Notification, 4)
	client := feed.NewClient(
		&config.PushConfig{URL: "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"},
		func(env feed.Envelope) {
			recorded <- notificationLedger.Push(env.Event, env.Message)
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Run(ctx)

	// --- Execution ---

	// The backend announces a new event.
	payload := map[string]any{
		"type":    "new_event",
		"action":  "created",
		"message": "New event created: Butterfly Festival",
		"event": map[string]any{
			"id":       6,
			"name":     "Butterfly Festival",
			"date":     "April 12, 2025",
			"location": "Florida Museum of Natural History",
			"organizer": map[string]any{
				"id":   3,
				"name": "Florida Museum",
			},
		},
		"timestamp": time.Now().Format(time.RFC3339),
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	broadcast <- string(raw)

	var recordedNotification ledger.Notification
	select {
	case recordedNotification = <-recorded:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for the notification to reach the ledger")
	}

	// --- Verification ---

	// The ledger reflects the frame.
	assert.EqualValues(t, 6, recordedNotification.EventID)
	assert.Equal(t, "Butterfly Festival", recordedNotification.EventName)
	assert.Equal(t, "Florida Museum", recordedNotification.OrganizerName)
	assert.Equal(t, 1, notificationLedger.UnreadCount())

	records := notificationLedger.List()
	require.Len(t, records, 1)
	assert.False(t, records[0].Read)

	// Opening the bell clears the unread state.
	assert.True(t, bell.Toggle())
	assert.Zero(t, notificationLedger.UnreadCount())
	assert.True(t, notificationLedger.List()[0].Read)

	// The membership check tolerates the backend's capitalized id field.
	userID, ok := sess.UserID()
	require.True(t, ok)

	checker := registration.NewChecker(&config.BackendConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	})

	status, err := checker.IsRegistered(context.Background(), userID, 5)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusRegistered, status)

	status, err = checker.IsRegistered(context.Background(), userID, 6)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusNotRegistered, status)
}
