package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSignup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)

		rec := env.do(jsonRequest("POST", "/auth/signup",
			`{"name":"Test User","email":"test@example.com","password":"hunter22"}`))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d (body: %s)", rec.Code, rec.Body.String())
		}

		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["message"] != "User created successfully" {
			t.Errorf("unexpected message: %s", body["message"])
		}
		if body["userId"] == "" {
			t.Error("expected userId in response")
		}

		user, err := env.users.Get(body["userId"])
		if err != nil {
			t.Fatalf("failed to load created user: %v", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte("hunter22")); err != nil {
			t.Error("expected stored hash to verify against the password")
		}
	})

	t.Run("Missing Fields", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)

		for _, body := range []string{
			`{"email":"test@example.com","password":"hunter22"}`,
			`{"name":"Test User","password":"hunter22"}`,
			`{"name":"Test User","email":"test@example.com"}`,
		} {
			rec := env.do(jsonRequest("POST", "/auth/signup", body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400 for %s, got %d", body, rec.Code)
			}
		}
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)

		payload := `{"name":"Test User","email":"test@example.com","password":"hunter22"}`
		if rec := env.do(jsonRequest("POST", "/auth/signup", payload)); rec.Code != http.StatusCreated {
			t.Fatalf("first signup failed with %d", rec.Code)
		}

		rec := env.do(jsonRequest("POST", "/auth/signup", payload))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["error"] != "Email already exists" {
			t.Errorf("unexpected error message: %s", body["error"])
		}
	})

	t.Run("Invalid Body", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)

		rec := env.do(jsonRequest("POST", "/auth/signup", `not json`))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestLogin(t *testing.T) {
	signup := func(t *testing.T, env *testEnv) string {
		t.Helper()
		rec := env.do(jsonRequest("POST", "/auth/signup",
			`{"name":"Test User","email":"test@example.com","password":"hunter22"}`))
		if rec.Code != http.StatusCreated {
			t.Fatalf("signup failed with %d", rec.Code)
		}
		var body map[string]string
		json.NewDecoder(rec.Body).Decode(&body)
		return body["userId"]
	}

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)
		userID := signup(t, env)

		rec := env.do(jsonRequest("POST", "/auth/login",
			`{"email":"test@example.com","password":"hunter22"}`))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}

		var body map[string]string
		json.NewDecoder(rec.Body).Decode(&body)
		if body["userId"] != userID {
			t.Errorf("expected userId %s, got %s", userID, body["userId"])
		}

		cookie := findCookie(rec.Result().Cookies(), SessionCookieName)
		if cookie == nil || cookie.Value == "" {
			t.Fatal("expected session cookie to be set")
		}
		if !cookie.HttpOnly {
			t.Error("expected session cookie to be HttpOnly")
		}

		session, err := env.sessions.Get(cookie.Value)
		if err != nil {
			t.Fatalf("expected session row for cookie: %v", err)
		}
		if session.UserID() != userID {
			t.Errorf("expected session for user %s, got %s", userID, session.UserID())
		}
	})

	t.Run("Wrong Password", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)
		signup(t, env)

		rec := env.do(jsonRequest("POST", "/auth/login",
			`{"email":"test@example.com","password":"wrong"}`))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("Unknown Email", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)

		rec := env.do(jsonRequest("POST", "/auth/login",
			`{"email":"missing@example.com","password":"hunter22"}`))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("Password-less Account", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)

		// accounts created through OAuth sign-in carry no hash
		env.createUser(t, "oauth@example.com")

		rec := env.do(jsonRequest("POST", "/auth/login",
			`{"email":"oauth@example.com","password":""}`))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 for empty password, got %d", rec.Code)
		}

		rec = env.do(jsonRequest("POST", "/auth/login",
			`{"email":"oauth@example.com","password":"anything"}`))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, tokenSuccess)

	user := env.createUser(t, "test@example.com")
	cookie := env.sessionCookie(t, user)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	cleared := findCookie(rec.Result().Cookies(), SessionCookieName)
	if cleared == nil || cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Error("expected session cookie to be cleared")
	}

	if _, err := env.sessions.Get(cookie.Value); err == nil {
		t.Error("expected session row to be deleted")
	}

	// logging out without a session still succeeds
	rec = env.do(httptest.NewRequest("POST", "/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 without a session, got %d", rec.Code)
	}
}

func TestMe(t *testing.T) {
	t.Run("Authenticated", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)

		user := env.createUser(t, "test@example.com")

		req := httptest.NewRequest("GET", "/auth/me", nil)
		req.AddCookie(env.sessionCookie(t, user))
		rec := env.do(req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var body map[string]any
		json.NewDecoder(rec.Body).Decode(&body)
		if body["email"] != "test@example.com" {
			t.Errorf("expected email test@example.com, got %v", body["email"])
		}
		if body["isOnboarded"] != false {
			t.Errorf("expected isOnboarded false, got %v", body["isOnboarded"])
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)

		rec := env.do(httptest.NewRequest("GET", "/auth/me", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("Expired Session", func(t *testing.T) {
		env := newTestEnv(t, tokenSuccess)

		user := env.createUser(t, "test@example.com")
		stale := env.expiredSessionCookie(t, user)

		req := httptest.NewRequest("GET", "/auth/me", nil)
		req.AddCookie(stale)
		rec := env.do(req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401 for expired session, got %d", rec.Code)
		}
	})
}
