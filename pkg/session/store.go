// Package session keeps per-visitor chat state in a signed cookie.
package session

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/bagucv/bagbot-engine/pkg/models"
)

// Name is the chat session cookie name.
const Name = "bagbot-session"

// Session value keys.
const (
	keyMode    = "mode"
	keyGreeted = "greeted"
)

// DefaultMaxAge keeps a chat session for one day.
const DefaultMaxAge = 86400

// Store reads and writes chat sessions.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore creates a cookie-based session store.
//
// The secret is SHA-256 hashed to derive a 32-byte signing key, so any
// passphrase works. It must be stable across restarts and replicas or
// existing sessions are dropped.
func NewStore(secret string, secure bool, maxAge int) *Store {
	key := sha256.Sum256([]byte(secret))
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	cookies := sessions.NewCookieStore(key[:])
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cookies}
}

// State is the chat state of one visitor.
type State struct {
	Mode    models.ChatMode
	Greeted bool
}

// Load returns the visitor's state. A missing or tampered cookie yields the
// zero State.
func (s *Store) Load(r *http.Request) State {
	sess, err := s.cookies.Get(r, Name)
	if err != nil {
		return State{}
	}

	var st State
	if mode, ok := sess.Values[keyMode].(string); ok && models.ChatMode(mode).Valid() {
		st.Mode = models.ChatMode(mode)
	}
	st.Greeted, _ = sess.Values[keyGreeted].(bool)
	return st
}

// Save writes st to the response cookie.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, st State) error {
	// Get returns a fresh session alongside a decode error, which is what
	// a tampered cookie should be replaced with.
	sess, _ := s.cookies.Get(r, Name)
	sess.Values[keyMode] = string(st.Mode)
	sess.Values[keyGreeted] = st.Greeted
	return sess.Save(r, w)
}
