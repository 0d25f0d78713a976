// Package session reads and writes the persisted login record.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
)

// Store implements domain.SessionStore on top of a KV.
type Store struct {
	kv     KV
	logger *slog.Logger
}

// NewStore creates a session store.
func NewStore(kv KV, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Get returns the stored session. Missing, unreadable or malformed records all
// yield (nil, nil): the caller only learns that no session exists.
func (s *Store) Get(ctx context.Context) (*domain.Session, error) {
	raw, ok, err := s.kv.GetItem(ctx, domain.SessionKey)
	if err != nil {
		s.logger.Warn("could not read stored session", "error", err)
		return nil, nil
	}
	if !ok || raw == "" {
		s.logger.Debug("no stored session")
		return nil, nil
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.logger.Warn("stored session is malformed", "error", err)
		return nil, nil
	}
	return &sess, nil
}

// Save persists sess as the current login record.
func (s *Store) Save(ctx context.Context, sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.SetItem(ctx, domain.SessionKey, string(data)); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Clear removes the login record.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.RemoveItem(ctx, domain.SessionKey)
}
