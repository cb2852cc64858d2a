package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
)

// stateCookieName holds the pending authorization's state token between the
// connect call and the provider's callback. Ten minutes is plenty for a
// consent screen round trip.
const (
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 600
)

// Redirect indicators appended to the dashboard URL after a callback. The
// indicator is the whole observable contract: the browser lands on the
// dashboard with exactly one of these.
const (
	indicatorConnected     = "spotify_connected"
	indicatorAuthFailed    = "spotify_auth_failed"
	indicatorCodeMissing   = "spotify_code_missing"
	indicatorStateMismatch = "spotify_state_mismatch"
	indicatorNoSession     = "no_session"
	indicatorTokenError    = "spotify_token_error"
)

// OAuthHandler implements account linking: authorization initiation and the
// provider callback.
//
// The callback resolves the session before exchanging the code, so a token is
// never fetched for a request that has nobody to attach it to.
type OAuthHandler struct {
	providers services.Registry
	users     *repositories.UserRepository
	config    *shared.Config
	logger    *log.Logger
}

// NewOAuthHandler creates an OAuthHandler over the given provider registry.
func NewOAuthHandler(providers services.Registry, users *repositories.UserRepository, config *shared.Config, logger *log.Logger) *OAuthHandler {
	return &OAuthHandler{
		providers: providers,
		users:     users,
		config:    config,
		logger:    logger,
	}
}

// Connect handles GET /{provider}/connect.
//
// Produces the external authorization URL bound to a fresh state token. The
// token is stored in a short-lived HttpOnly cookie and verified at callback,
// binding each initiation to its completion.
func (h *OAuthHandler) Connect(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := h.providers.Lookup(provider)
		if p == nil {
			writeError(w, http.StatusNotFound, "unknown provider")
			return
		}

		state, err := shared.GenerateState()
		if err != nil {
			h.logger.Error("failed to generate state token", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		authURL, err := p.AuthURL(state)
		if err != nil {
			if errors.Is(err, shared.ErrNotImplemented) {
				writeError(w, http.StatusNotImplemented, provider+" linking is not implemented")
				return
			}
			h.logger.Error("failed to build authorization URL", "provider", provider, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		h.setStateCookie(w, state, stateCookieMaxAge)

		writeJSON(w, http.StatusOK, map[string]string{"authorizationUrl": authURL})
	}
}

// Callback handles GET /auth/callback/spotify.
//
// Linear per-invocation state machine, no retries: parse, error branch,
// missing-code branch, state check, session resolution, token exchange,
// persist. Every branch converges on a dashboard redirect carrying one
// indicator.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// The state token is single-use regardless of outcome.
	stateCookie, stateErr := r.Cookie(stateCookieName)
	h.setStateCookie(w, "", -1)

	if errParam := query.Get("error"); errParam != "" {
		h.logger.Warn("provider denied authorization", "error", errParam)
		h.redirect(w, r, "error", indicatorAuthFailed)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.redirect(w, r, "error", indicatorCodeMissing)
		return
	}

	state := query.Get("state")
	if stateErr != nil || state == "" || stateCookie.Value != state {
		h.logger.Warn("oauth state mismatch", "have_cookie", stateErr == nil)
		h.redirect(w, r, "error", indicatorStateMismatch)
		return
	}

	user := UserFromContext(r.Context())
	if user == nil {
		h.redirect(w, r, "error", indicatorNoSession)
		return
	}

	provider := h.providers.Lookup(models.SpotifyProvider)
	token, err := provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("token exchange failed", "error", err)
		h.redirect(w, r, "error", indicatorTokenError)
		return
	}

	link := models.ProviderLink{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}

	if err := h.users.UpdateSpotifyLink(user.Email(), link); err != nil {
		h.logger.Error("failed to persist spotify link", "email", user.Email(), "error", err)
		h.redirect(w, r, "error", indicatorTokenError)
		return
	}

	h.logger.Info("spotify account linked", "user_id", user.ID())
	h.redirect(w, r, "success", indicatorConnected)
}

// redirect sends the browser to the dashboard with a single query indicator.
func (h *OAuthHandler) redirect(w http.ResponseWriter, r *http.Request, key, indicator string) {
	url := h.config.App.BaseURL + "/dashboard?" + key + "=" + indicator
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *OAuthHandler) setStateCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
