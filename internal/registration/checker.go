package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"event-feed-agent/config"
)

// Status is the answer to "is this user registered for this event". A failed
// fetch yields Unknown, never NotRegistered: callers must not offer
// registration on the strength of a network error.
type Status string

const (
	StatusUnknown       Status = "unknown"
	StatusRegistered    Status = "registered"
	StatusNotRegistered Status = "not_registered"
)

// Checker answers membership questions by fetching the user's full
// registration list and scanning it. Results are never cached; every call
// re-derives the answer, so it reflects the server's list as of the fetch.
type Checker struct {
	baseURL string
	client  *http.Client
}

// NewChecker creates a checker for the configured events backend.
func NewChecker(cfg *config.BackendConfig) *Checker {
	return &Checker{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// IsRegistered fetches the registration list for userID and tests whether
// eventID is in it.
func (c *Checker) IsRegistered(ctx context.Context, userID string, eventID int64) (Status, error) {
	records, err := c.fetchRegisteredEvents(ctx, userID)
	if err != nil {
		return StatusUnknown, err
	}

	for _, record := range records {
		id, ok := EventID(record)
		if !ok {
			continue
		}
		if id == eventID {
			return StatusRegistered, nil
		}
	}
	return StatusNotRegistered, nil
}

// Register maps the user onto the event.
func (c *Checker) Register(ctx context.Context, userID string, eventID int64) error {
	return c.postMapping(ctx, "/mapUserToEvent", userID, eventID)
}

// Unregister removes the user's registration for the event.
func (c *Checker) Unregister(ctx context.Context, userID string, eventID int64) error {
	return c.postMapping(ctx, "/unmapUserFromEvent", userID, eventID)
}

func (c *Checker) fetchRegisteredEvents(ctx context.Context, userID string) ([]map[string]any, error) {
	endpoint := fmt.Sprintf("%s/user/%s/GetUserRegisteredEvents", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registration list: %w", err)
	}
	return records, nil
}

// mappingRequest matches the backend's registration endpoints, which expect
// integer identifiers.
type mappingRequest struct {
	UserID  int64 `json:"user_id"`
	EventID int64 `json:"event_id"`
}

func (c *Checker) postMapping(ctx context.Context, path, userID string, eventID int64) error {
	uid, err := strconv.ParseInt(strings.TrimSpace(userID), 10, 64)
	if err != nil {
		return fmt.Errorf("user id %q is not numeric: %w", userID, err)
	}

	jsonBody, err := json.Marshal(mappingRequest{UserID: uid, EventID: eventID})
	if err != nil {
		return fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("received non-2xx status code: %d", resp.StatusCode)
	}
	return nil
}
