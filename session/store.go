// Package session holds the authenticated identity and role that gate
// every workflow action. The store is an explicit object with a defined
// lifecycle (Establish, Current, Clear); consumers receive it by
// injection, never through a package-level singleton.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"railbook/models"
)

// Session is the live authentication state: who is logged in, with which
// role, carrying which backend token, and until when.
type Session struct {
	Identity string      `json:"identity"`
	Role     models.Role `json:"role"`
	Token    string      `json:"token"`
	Expiry   time.Time   `json:"expiry"`
}

// Store owns the current session. With a non-empty file path, sessions
// established with remember=true survive process restarts until expiry;
// otherwise the session lives only as long as the process.
type Store struct {
	mu      sync.Mutex
	path    string
	current *Session
	now     func() time.Time
}

// NewStore creates a store backed by the given file. An empty path makes
// the store memory-only. An existing session file is loaded eagerly;
// expiry is still checked on every read.
func NewStore(path string) *Store {
	s := &Store{path: path, now: time.Now}
	if path != "" {
		s.current = loadFile(path)
	}
	return s
}

// Establish replaces the current session. With remember=true and a
// configured path the session is also written to disk.
func (s *Store) Establish(identity string, role models.Role, token string, ttl time.Duration, remember bool) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		Identity: identity,
		Role:     role,
		Token:    token,
		Expiry:   s.now().Add(ttl),
	}
	s.current = sess

	if remember && s.path != "" {
		if err := writeFile(s.path, sess); err != nil {
			return nil, fmt.Errorf("persist session: %w", err)
		}
	} else {
		// An earlier remembered session must not outlive this one.
		removeFile(s.path)
	}

	copied := *sess
	return &copied, nil
}

// Current returns the live session, or nil when there is none or it has
// expired. Expiry is checked lazily on each read; an expired session is
// cleared as a side effect.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	if !s.now().Before(s.current.Expiry) {
		s.current = nil
		removeFile(s.path)
		return nil
	}
	copied := *s.current
	return &copied
}

// Clear destroys the current session, in memory and on disk.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	removeFile(s.path)
}

func loadFile(path string) *Session {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil
	}
	return &sess
}

func writeFile(path string, sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		// Best effort; a stale file is caught by the expiry check on load.
		return
	}
}
