// Package renewal keeps the shared OAuth token fresh in the background.
package renewal

import (
	"context"
	"sync"
	"time"

	"github.com/raine/reddit-oauth/internal/reddit/auth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Status describes the daemon's progress.
type Status struct {
	LastRefresh         time.Time
	RefreshCount        int
	ConsecutiveFailures int
	NextRefresh         time.Time
	LastError           string
}

// Daemon refreshes the holder's token shortly before it expires, forever,
// until its context is cancelled.
type Daemon struct {
	holder *auth.Holder
	cfg    Config

	// after is time.After, replaced in tests.
	after func(time.Duration) <-chan time.Time
	now   func() time.Time

	mu     sync.Mutex
	status Status
}

func NewDaemon(holder *auth.Holder, cfg Config) *Daemon {
	return &Daemon{
		holder: holder,
		cfg:    cfg.WithDefaults(),
		after:  time.After,
		now:    time.Now,
	}
}

// Run blocks until ctx is cancelled and returns ctx.Err(). Failed refreshes
// are logged and retried with backoff; the last good token stays in use.
func (d *Daemon) Run(ctx context.Context) error {
	log.Info().
		Dur("margin", d.cfg.Margin).
		Dur("retryMin", d.cfg.RetryMin).
		Dur("retryMax", d.cfg.RetryMax).
		Msg("starting token renewal daemon")

	failures := 0
	for {
		// Only a shared read: the refresh must not wait behind our sleep.
		var expiresIn uint64
		if m := d.holder.Manager(); m != nil {
			expiresIn = m.ExpiresIn()
		}
		delay := d.cfg.NextDelay(expiresIn, failures)

		d.mu.Lock()
		d.status.NextRefresh = d.now().Add(delay)
		d.mu.Unlock()

		log.Info().
			Uint64("expiresIn", expiresIn).
			Int("failures", failures).
			Dur("delay", delay).
			Msg("waiting before refreshing oauth token")

		select {
		case <-ctx.Done():
			log.Info().Msg("stopping token renewal daemon")
			return ctx.Err()
		case <-d.after(delay):
		}

		m := d.holder.Manager()
		if m == nil {
			log.Warn().Msg("no credential manager, skipping token refresh")
			continue
		}

		err := m.Refresh(ctx)
		if ctx.Err() != nil {
			log.Info().Msg("stopping token renewal daemon")
			return ctx.Err()
		}

		if err != nil {
			failures++
			d.recordFailure(failures, err)

			level := zerolog.WarnLevel
			if failures >= FailureAlertThreshold {
				level = zerolog.ErrorLevel
			}
			log.WithLevel(level).
				Err(err).
				Int("failures", failures).
				Msg("token renewal failed, keeping previous token")
			continue
		}

		failures = 0
		d.recordSuccess()
	}
}

// Status returns a copy of the current status.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Daemon) recordFailure(failures int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.ConsecutiveFailures = failures
	d.status.LastError = err.Error()
}

func (d *Daemon) recordSuccess() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.LastRefresh = d.now()
	d.status.RefreshCount++
	d.status.ConsecutiveFailures = 0
	d.status.LastError = ""
}
