package server

import (
	"database/sql"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
)

// Credential endpoints share one bucket per client: a handful of attempts per
// second is plenty for humans and an obstacle for scripts.
const (
	authRateLimit = 5.0
	authRateBurst = 10
)

// App wires repositories, providers and handlers into one [http.Handler].
//
// Config is read once at construction; nothing reads ambient process state
// per request.
type App struct {
	router  *BasicRouter
	metrics *Metrics
	logger  *log.Logger
}

// NewApp builds the application router over the given database and provider
// registry.
func NewApp(config *shared.Config, db *sql.DB, providers services.Registry, logger *log.Logger) *App {
	users := repositories.NewUserRepository(db)
	sessions := repositories.NewSessionRepository(db)

	metrics := NewMetrics()

	oauth := NewOAuthHandler(providers, users, config, logger)
	auth := NewAuthHandler(users, sessions, config, logger)
	onboarding := NewOnboardingHandler(users, logger)

	router := NewBasicRouter()
	router.Use(
		Recover(logger),
		Logging(logger),
		metrics.Middleware(),
		Sessions(sessions, users, logger),
	)

	limiter := NewRateLimiter(authRateLimit, authRateBurst)

	router.Handle("GET", "/health", http.HandlerFunc(health))
	router.Handle("GET", "/metrics", metrics.Handler())

	for name := range providers {
		router.Handle("GET", "/"+name+"/connect", oauth.Connect(name))
	}
	router.Handle("GET", "/auth/callback/spotify", http.HandlerFunc(oauth.Callback))

	router.Handle("POST", "/auth/signup", limiter.Wrap(http.HandlerFunc(auth.Signup)))
	router.Handle("POST", "/auth/login", limiter.Wrap(http.HandlerFunc(auth.Login)))
	router.Handle("POST", "/auth/logout", http.HandlerFunc(auth.Logout))
	router.Handle("GET", "/auth/me", http.HandlerFunc(auth.Me))

	router.Handle("GET", "/user/onboarding-status", http.HandlerFunc(onboarding.Status))
	router.Handle("POST", "/user/complete-onboarding", http.HandlerFunc(onboarding.Complete))

	return &App{router: router, metrics: metrics, logger: logger}
}

// ServeHTTP implements [http.Handler].
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// health reports process liveness.
func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
