package webapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionsReuseCookie(t *testing.T) {
	s := newSessions(time.Hour)

	first, created := s.acquire(httptest.NewRequest(http.MethodGet, "/", nil), DefaultCookieName)
	first.mu.Unlock()
	if !created {
		t.Fatalf("expected a new session without cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: first.id})
	again, created := s.acquire(req, DefaultCookieName)
	again.mu.Unlock()
	if created || again != first {
		t.Fatalf("expected cookie to select the existing session")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "forged"})
	other, created := s.acquire(req, DefaultCookieName)
	other.mu.Unlock()
	if !created || other.id == "forged" {
		t.Fatalf("unknown cookie must start a fresh session")
	}
}

func TestSessionsEvictIdle(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newSessions(time.Hour)
	s.now = func() time.Time { return now }

	stale, _ := s.acquire(httptest.NewRequest(http.MethodGet, "/", nil), DefaultCookieName)
	stale.mu.Unlock()

	now = now.Add(2 * time.Hour)
	fresh, _ := s.acquire(httptest.NewRequest(http.MethodGet, "/", nil), DefaultCookieName)
	fresh.mu.Unlock()

	if got := s.len(); got != 1 {
		t.Fatalf("expected stale session to be evicted, have %d", got)
	}
}
