package services

import (
	"sync"
	"time"

	"jamaahmart/internal/domain"
)

// Session is the in-memory browsing state behind one sid cookie. Nothing here
// is persisted; dropping a session is the same as the shopper walking away.
type Session struct {
	mu sync.Mutex

	cart     *domain.Cart
	catalog  domain.Catalog
	fetched  bool
	payload  *domain.CheckoutPayload
	lastSeen time.Time
}

func (s *Session) Cart() *domain.Cart { return s.cart }

// Catalog is the snapshot taken on the last marketplace visit.
func (s *Session) Catalog() (domain.Catalog, bool) { return s.catalog, s.fetched }

func (s *Session) SetCatalog(c domain.Catalog) {
	s.catalog = c
	s.fetched = true
}

func (s *Session) Payload() *domain.CheckoutPayload { return s.payload }

func (s *Session) SetPayload(p *domain.CheckoutPayload) { s.payload = p }

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*Session{}, now: time.Now}
}

func (st *SessionStore) get(sid string, create bool) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[sid]
	if !ok {
		if !create {
			return nil
		}
		s = &Session{cart: domain.NewCart()}
		st.sessions[sid] = s
	}
	s.lastSeen = st.now()
	return s
}

// With runs fn while holding the session's lock, creating the session first if needed.
// Calls for one sid are serialized; different sids run independently.
func (st *SessionStore) With(sid string, fn func(*Session) error) error {
	s := st.get(sid, true)
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Peek is With for an existing session only; ok is false when there is none.
func (st *SessionStore) Peek(sid string, fn func(*Session)) bool {
	s := st.get(sid, false)
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
	return true
}

func (st *SessionStore) Drop(sid string) {
	st.mu.Lock()
	delete(st.sessions, sid)
	st.mu.Unlock()
}

// Sweep forgets sessions idle for longer than idle and returns how many went.
func (st *SessionStore) Sweep(idle time.Duration) int {
	cutoff := st.now().Add(-idle)
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for sid, s := range st.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(st.sessions, sid)
			n++
		}
	}
	return n
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
