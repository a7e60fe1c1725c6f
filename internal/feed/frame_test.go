package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFrame(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		wantOK   bool
		expected Envelope
	}{
		{
			name: "event creation frame",
			raw: `{
				"type": "new_event",
				"action": "created",
				"message": "New event created: Art Festival",
				"event": {
					"id": 3,
					"name": "Art Festival",
					"date": "April 5-6, 2025",
					"location": "Bo Diddley Plaza",
					"imageUrl": "https://example.com/art.jpg",
					"organizer": {"id": 9, "name": "City of Gainesville"}
				},
				"timestamp": "2025-03-01T12:00:00Z"
			}`,
			wantOK: true,
			expected: Envelope{
				Type:    "new_event",
				Action:  "created",
				Message: "New event created: Art Festival",
				Event: EventPayload{
					ID:        3,
					Name:      "Art Festival",
					Date:      "April 5-6, 2025",
					Location:  "Bo Diddley Plaza",
					ImageURL:  "https://example.com/art.jpg",
					Organizer: Organizer{ID: 9, Name: "City of Gainesville"},
				},
			},
		},
		{
			name:   "system welcome frame is ignored",
			raw:    `{"type":"system","message":"Connected to event notification service","connectedClients":1}`,
			wantOK: false,
		},
		{
			name:   "wrong action is ignored",
			raw:    `{"type":"new_event","action":"deleted","message":"gone","event":{"id":1}}`,
			wantOK: false,
		},
		{
			name:   "unknown future frame kind is ignored",
			raw:    `{"type":"event_reminder","action":"due","payload":{"minutes":15}}`,
			wantOK: false,
		},
		{
			name:   "malformed JSON is ignored",
			raw:    `{"type":"new_event","action":"created"`,
			wantOK: false,
		},
		{
			name:   "non-object frame is ignored",
			raw:    `"ping"`,
			wantOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env, ok := DecodeFrame([]byte(tc.raw))
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.expected, env)
			}
		})
	}
}
