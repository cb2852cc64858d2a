package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the credentials were originally hashed
// with.
const bcryptCost = 10

// AuthHandler implements credential signup and session issuance.
type AuthHandler struct {
	users    *repositories.UserRepository
	sessions *repositories.SessionRepository
	config   *shared.Config
	logger   *log.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *repositories.UserRepository, sessions *repositories.SessionRepository, config *shared.Config, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		config:   config,
		logger:   logger,
	}
}

// Signup handles POST /auth/signup.
//
// Creates a credential-backed user with a bcrypt password hash. Duplicate
// emails are a client error, not a server one.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Name == "" || body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcryptCost)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred during signup")
		return
	}

	user := models.NewUser(0, body.Email, body.Name)
	user.SetPasswordHash(string(hash))

	if err := h.users.Create(user); err != nil {
		if errors.Is(err, shared.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "Email already exists")
			return
		}
		h.logger.Error("signup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred during signup")
		return
	}

	h.logger.Info("user created", "user_id", user.ID())

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User created successfully",
		"userId":  user.ID(),
	})
}

// Login handles POST /auth/login.
//
// Verifies credentials and issues a session cookie. OAuth-only accounts have
// no password hash and cannot log in this way.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	user, err := h.users.FindByEmail(body.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred")
		return
	}

	if user.PasswordHash() == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	sessionID, err := shared.GenerateState()
	if err != nil {
		h.logger.Error("failed to generate session ID", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred")
		return
	}

	maxAge := time.Duration(h.config.Session.MaxAge) * time.Second
	session := models.NewSession(sessionID, user.ID(), maxAge)
	if err := h.sessions.Create(session); err != nil {
		h.logger.Error("failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred")
		return
	}

	h.setSessionCookie(w, sessionID, h.config.Session.MaxAge)

	writeJSON(w, http.StatusOK, map[string]string{"userId": user.ID()})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(cookie.Value); err != nil {
			// Clear the cookie even if the row is stuck.
			h.logger.Error("failed to delete session", "error", err)
		}
	}

	h.setSessionCookie(w, "", -1)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":          user.ID(),
		"email":       user.Email(),
		"name":        user.Name(),
		"isOnboarded": user.Onboarded(),
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
