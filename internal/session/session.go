// Package session tracks the logged-in flag for each client session.
//
// The server holds very little per-session state: a boolean and an
// anti-forgery token, keyed by an opaque token the client carries in a
// cookie. The Store interface keeps handlers free of any process-global
// session state and leaves room for a database-backed implementation later.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// tokenLength is the length of generated session and CSRF tokens.
// nanoid's default alphabet gives well over 128 bits of entropy at this size.
const tokenLength = 24

// Session is the server-side state for one client session.
type Session struct {
	// Token is the opaque identifier the client holds in its cookie.
	Token string
	// LoggedIn reports whether this session has authenticated.
	LoggedIn bool
	// CSRFToken is compared against the hidden form field on every
	// state-changing submission.
	CSRFToken string
	// ExpiresAt is when the session stops being honored.
	ExpiresAt time.Time
}

// Store issues sessions and tracks their logged-in flag by token.
type Store interface {
	// Issue creates a new, logged-out session.
	Issue(ctx context.Context) (Session, error)

	// Get returns the session for a token, or ok=false when the token is
	// unknown or expired.
	Get(ctx context.Context, token string) (Session, bool)

	// SetLoggedIn flips the logged-in flag for a token. Unknown or expired
	// tokens are ignored.
	SetLoggedIn(ctx context.Context, token string, loggedIn bool)

	// Destroy forgets a session. Destroying an unknown token is a no-op.
	Destroy(ctx context.Context, token string)
}

// MemoryStore is the in-memory Store used in production. Sessions expire
// after a fixed TTL from issuance; expired entries are pruned lazily on
// Issue so the map cannot grow without bound.
type MemoryStore struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemoryStore constructs a MemoryStore whose sessions live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
	}
}

// Issue creates a new logged-out session with fresh session and CSRF tokens.
func (s *MemoryStore) Issue(_ context.Context) (Session, error) {
	token, err := gonanoid.New(tokenLength)
	if err != nil {
		return Session{}, fmt.Errorf("session.MemoryStore.Issue: token: %w", err)
	}
	csrf, err := gonanoid.New(tokenLength)
	if err != nil {
		return Session{}, fmt.Errorf("session.MemoryStore.Issue: csrf token: %w", err)
	}

	sess := Session{
		Token:     token,
		CSRFToken: csrf,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.sessions[token] = sess
	return sess, nil
}

// Get returns a live session by token.
func (s *MemoryStore) Get(_ context.Context, token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// SetLoggedIn flips the logged-in flag for a live session.
func (s *MemoryStore) SetLoggedIn(_ context.Context, token string, loggedIn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return
	}
	sess.LoggedIn = loggedIn
	s.sessions[token] = sess
}

// Destroy forgets a session.
func (s *MemoryStore) Destroy(_ context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// prune drops expired sessions. Caller must hold s.mu.
func (s *MemoryStore) prune() {
	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
