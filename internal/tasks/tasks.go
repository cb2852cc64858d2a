// package tasks implements background maintenance operations.
//
// The server runs a Janitor alongside the HTTP listener to keep the session
// table from accumulating expired rows. Sessions expire logically the moment
// their expiry passes; the sweep only reclaims storage.
package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/repositories"
)

// DefaultSweepInterval is how often the janitor purges expired sessions.
const DefaultSweepInterval = time.Hour

// Janitor periodically removes expired session rows.
type Janitor struct {
	sessions *repositories.SessionRepository
	interval time.Duration
	logger   *log.Logger
}

// NewJanitor creates a Janitor sweeping at the given interval. A zero or
// negative interval falls back to [DefaultSweepInterval].
func NewJanitor(sessions *repositories.SessionRepository, interval time.Duration, logger *log.Logger) *Janitor {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Janitor{sessions: sessions, interval: interval, logger: logger}
}

// Sweep runs a single purge pass and returns the number of rows removed.
func (j *Janitor) Sweep() (int64, error) {
	purged, err := j.sessions.PurgeExpired()
	if err != nil {
		return 0, err
	}

	if purged > 0 {
		j.logger.Info("purged expired sessions", "count", purged)
	}

	return purged, nil
}

// Run sweeps on the janitor's interval until the context is cancelled.
// An immediate sweep runs on startup so restarts reclaim stale rows promptly.
func (j *Janitor) Run(ctx context.Context) {
	if _, err := j.Sweep(); err != nil {
		j.logger.Error("session sweep failed", "error", err)
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.Sweep(); err != nil {
				j.logger.Error("session sweep failed", "error", err)
			}
		}
	}
}
