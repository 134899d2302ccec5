package webapp

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formclient/pkg/engine"
	"github.com/goliatone/go-formclient/pkg/field"
	"github.com/goliatone/go-formclient/pkg/session"
)

// browserSession is the state of one browser: its session store, the engine
// of the form being filled and the local field errors on screen. mu
// serialises the requests of that browser.
type browserSession struct {
	mu       sync.Mutex
	id       string
	store    *session.MemoryStore
	engine   *engine.Engine
	local    field.LocalErrors
	lastSeen time.Time
}

type sessions struct {
	mu      sync.Mutex
	byID    map[string]*browserSession
	idleTTL time.Duration
	now     func() time.Time
}

func newSessions(idleTTL time.Duration) *sessions {
	return &sessions{
		byID:    make(map[string]*browserSession),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// acquire returns the session named by the request cookie, creating one when
// the cookie is missing or unknown. created reports whether a cookie must be
// set. The caller must unlock the returned session.
func (s *sessions) acquire(r *http.Request, cookieName string) (sess *browserSession, created bool) {
	s.mu.Lock()
	now := s.now()
	if cookie, err := r.Cookie(cookieName); err == nil {
		if existing, ok := s.byID[cookie.Value]; ok {
			existing.lastSeen = now
			s.mu.Unlock()
			existing.mu.Lock()
			return existing, false
		}
	}

	s.evictIdle(now)
	sess = &browserSession{
		id:       uuid.NewString(),
		store:    session.NewMemoryStore(),
		local:    make(field.LocalErrors),
		lastSeen: now,
	}
	s.byID[sess.id] = sess
	s.mu.Unlock()

	sess.mu.Lock()
	return sess, true
}

// evictIdle drops sessions unused for longer than the idle TTL. Callers hold
// s.mu.
func (s *sessions) evictIdle(now time.Time) {
	if s.idleTTL <= 0 {
		return
	}
	for id, sess := range s.byID {
		if now.Sub(sess.lastSeen) > s.idleTTL {
			delete(s.byID, id)
		}
	}
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
