package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/teapot", nil))

	out := buf.String()
	for _, want := range []string{"GET", "/teapot", "418"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got %s", want, out)
		}
	}
}

func TestRecover(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	handler := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Error("expected panic value to stay out of the response")
	}
}

func TestSessions(t *testing.T) {
	env := newTestEnv(t, tokenSuccess)
	logger := shared.NewLogger(io.Discard)

	var got *models.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromContext(r.Context())
	})
	handler := Sessions(env.sessions, env.users, logger)(inner)

	t.Run("Valid Cookie", func(t *testing.T) {
		user := env.createUser(t, "valid@example.com")
		cookie := env.sessionCookie(t, user)

		got = nil
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(cookie)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got == nil {
			t.Fatal("expected user on context")
		}
		if got.ID() != user.ID() {
			t.Errorf("expected user %s, got %s", user.ID(), got.ID())
		}
	})

	t.Run("No Cookie", func(t *testing.T) {
		got = nil
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

		if got != nil {
			t.Error("expected no user on context")
		}
	})

	t.Run("Unknown Session", func(t *testing.T) {
		got = nil
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got != nil {
			t.Error("expected no user on context")
		}
	})

	t.Run("Expired Session", func(t *testing.T) {
		user := env.createUser(t, "expired@example.com")
		cookie := env.expiredSessionCookie(t, user)

		got = nil
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(cookie)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got != nil {
			t.Error("expected no user on context")
		}
	})
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	handler := limiter.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/login", nil))
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("expected the burst to pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("expected status 429 after the burst, got %d", statuses[2])
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1)
	handler := limiter.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = addr
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("10.0.0.1:1000"); code != http.StatusOK {
		t.Errorf("expected first client to pass, got %d", code)
	}
	if code := send("10.0.0.1:2000"); code != http.StatusTooManyRequests {
		t.Errorf("expected same client to be limited across ports, got %d", code)
	}
	if code := send("10.0.0.2:1000"); code != http.StatusOK {
		t.Errorf("expected a different client to pass, got %d", code)
	}
}
