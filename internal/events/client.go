package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"event-feed-agent/config"
)

// Event is the backend's event record as surfaced to the local UI.
type Event struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
	Time        string  `json:"time,omitempty"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	Category    string  `json:"category,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// Comment is one entry in an event's comment thread.
type Comment struct {
	EventID   int64  `json:"event_id"`
	UserID    int64  `json:"user_id"`
	UserName  string `json:"user_name"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	Likes     int64  `json:"likes"`
}

// Client fetches event details and comment threads from the events backend.
// Event details are cached read-through with a short TTL; comment threads and
// writes always go to the backend.
type Client struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
}

// NewClient creates a client with the given detail-cache TTL.
func NewClient(cfg *config.BackendConfig, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   cache.New(cacheTTL, 2*cacheTTL),
	}
}

// Get returns the event with the given id, from cache when fresh.
func (c *Client) Get(ctx context.Context, id int64) (*Event, error) {
	key := fmt.Sprintf("event:%d", id)
	if cached, found := c.cache.Get(key); found {
		ev := cached.(Event)
		return &ev, nil
	}

	var ev Event
	if err := c.getJSON(ctx, fmt.Sprintf("/GetEvent/%d", id), &ev); err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, ev)
	return &ev, nil
}

// Comments returns the event's comment thread.
func (c *Client) Comments(ctx context.Context, eventID int64) ([]Comment, error) {
	var comments []Comment
	if err := c.getJSON(ctx, fmt.Sprintf("/events/%d/GetAllComments", eventID), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment to the event's thread.
func (c *Client) AddComment(ctx context.Context, eventID int64, comment Comment) error {
	jsonBody, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	endpoint := fmt.Sprintf("%s/events/%d/comments", c.baseURL, eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
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

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
