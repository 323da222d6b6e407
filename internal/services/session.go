package services

import (
	"strings"
	"sync"
	"time"

	"storefront/internal/catalog"
)

type Privilege int

const (
	PrivNone Privilege = iota
	// PrivPendingSetup: PIN accepted, security question not configured yet.
	PrivPendingSetup
	PrivAdmin
)

// Session is one shopper's page lifetime: admin privilege and variant
// selections live here and nowhere else.
type Session struct {
	ID         string
	Selections *catalog.SelectionState

	mu       sync.Mutex
	priv     Privilege
	lastSeen time.Time
}

func (s *Session) Privilege() Privilege {
	if s == nil {
		return PrivNone
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.priv
}

// IsAdmin implements catalog.Gate. A nil session is never admin.
func (s *Session) IsAdmin() bool { return s.Privilege() == PrivAdmin }

func (s *Session) setPrivilege(p Privilege) {
	s.mu.Lock()
	s.priv = p
	s.mu.Unlock()
}

func (s *Session) selections() *catalog.SelectionState {
	if s == nil {
		return nil
	}
	return s.Selections
}

type SessionStore struct {
	TTL time.Duration

	mu sync.Mutex
	m  map[string]*Session
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{TTL: ttl, m: make(map[string]*Session)}
}

// Get returns the session for sid, creating a fresh unprivileged one if needed.
func (st *SessionStore) Get(sid string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.m[sid]
	if !ok {
		sid = strings.Clone(sid)
		s = &Session{ID: sid, Selections: catalog.NewSelectionState()}
		st.m[sid] = s
	}
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
	return s
}

// Drop forgets sid entirely.
func (st *SessionStore) Drop(sid string) {
	st.mu.Lock()
	delete(st.m, sid)
	st.mu.Unlock()
}

// Sweep removes sessions idle for longer than TTL and reports how many.
func (st *SessionStore) Sweep(now time.Time) int {
	if st.TTL <= 0 {
		return 0
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for sid, s := range st.m {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen)
		s.mu.Unlock()
		if idle > st.TTL {
			delete(st.m, sid)
			n++
		}
	}
	return n
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.m)
}
