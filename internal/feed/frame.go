package feed

import "encoding/json"

// Envelope is the wire shape of a push-channel frame the agent acts on.
type Envelope struct {
	Type    string       `json:"type"`
	Action  string       `json:"action"`
	Message string       `json:"message"`
	Event   EventPayload `json:"event"`
}

// EventPayload carries the event details attached to a creation notification.
type EventPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Organizer   Organizer `json:"organizer"`
}

// Organizer identifies who created the event.
type Organizer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DecodeFrame parses a raw frame and reports whether it is an event-creation
// notification. The channel also carries system frames (the server sends a
// welcome message on connect), and future server versions may add more kinds;
// anything that is not a well-formed new_event/created frame is dropped
// without error.
func DecodeFrame(raw []byte) (Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, false
	}
	if env.Type != "new_event" || env.Action != "created" {
		return Envelope{}, false
	}
	return env, true
}
