package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"event-feed-agent/internal/model"
)

// storageKey matches the localStorage key the web frontend uses, so a restarted
// agent reconstructs the same session the browser would.
const storageKey = "userId"

// Store holds the single nullable user identifier for this client. It is
// passed explicitly to every component that needs the session; there is no
// ambient global.
type Store interface {
	// UserID returns the current user identifier and whether a session exists.
	UserID() (string, bool)
	// SetUserID establishes a session. Any non-empty identifier is accepted.
	SetUserID(ctx context.Context, id string) error
	// Clear ends the session and removes the persisted identifier.
	Clear(ctx context.Context) error
}

// gormStore implements Store backed by the agent's database. The in-memory
// value is authoritative within a process; the row exists so a restart picks
// the session back up without re-authentication.
type gormStore struct {
	db *gorm.DB

	mu     sync.RWMutex
	userID string
}

// NewGormStore creates a store and loads any persisted session.
func NewGormStore(db *gorm.DB) (Store, error) {
	s := &gormStore{db: db}

	var row model.Session
	err := db.First(&row, "key = ?", storageKey).Error
	switch {
	case err == nil:
		s.userID = row.UserID
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No session yet.
	default:
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return s, nil
}

func (s *gormStore) UserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}

func (s *gormStore) SetUserID(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("user id must not be empty")
	}

	s.mu.Lock()
	s.userID = id
	s.mu.Unlock()

	row := model.Session{Key: storageKey, UserID: id}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "updated_at"}),
	}).Create(&row).Error; err != nil {
		// The in-memory session stays valid; only durability is lost.
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *gormStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.userID = ""
	s.mu.Unlock()

	if err := s.db.WithContext(ctx).Delete(&model.Session{Key: storageKey}).Error; err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	return nil
}
