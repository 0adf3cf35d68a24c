// Package session holds the kiosk's single authenticated session.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Identity is the household member the backend authenticated.
type Identity struct {
	HouseholdCode string `json:"household_code"`
	ContactHandle string `json:"contact_handle"`
	DisplayName   string `json:"display_name"`
	HouseholdArea string `json:"household_area"`
}

// Session is created only by a successful login verify.
type Session struct {
	Identity    Identity
	AccessToken string
	IssuedAt    time.Time
	// ExpiresAt is informational. The backend decides when a token dies.
	ExpiresAt time.Time
}

// Store is a single-slot session holder. Absence is the unauthenticated state.
type Store struct {
	mu      sync.RWMutex
	current *Session

	hmu     sync.Mutex
	onClear []func(ctx context.Context)
}

func NewStore() *Store {
	return &Store{}
}

// Set installs s, replacing any previous session.
func (st *Store) Set(s Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.current = &s
}

func (st *Store) Get() (Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if st.current == nil {
		return Session{}, false
	}

	return *st.current, true
}

// Clear removes the session and then runs every OnClear hook, even when no
// session was set.
func (st *Store) Clear(ctx context.Context) {
	st.mu.Lock()
	had := st.current != nil
	st.current = nil
	st.mu.Unlock()

	st.hmu.Lock()
	hooks := append([]func(context.Context){}, st.onClear...)
	st.hmu.Unlock()

	slog.InfoContext(ctx, "session cleared", "had_session", had)
	for _, h := range hooks {
		h(ctx)
	}
}

// OnClear registers f to run after every Clear.
func (st *Store) OnClear(f func(ctx context.Context)) {
	st.hmu.Lock()
	defer st.hmu.Unlock()

	st.onClear = append(st.onClear, f)
}
