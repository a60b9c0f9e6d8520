package main

import (
	"context"
	"time"

	"github.com/raine/reddit-oauth/internal/reddit/auth"
	"github.com/raine/reddit-oauth/internal/renewal"
	"github.com/rs/zerolog/log"
)

const statusInterval = 15 * time.Minute

// logStatus writes one line describing the current credential and renewal
// state.
func logStatus(holder *auth.Holder, daemon *renewal.Daemon) {
	status := daemon.Status()
	m := holder.Manager()
	if m == nil {
		log.Warn().
			Time("nextRefresh", status.NextRefresh).
			Int("consecutiveFailures", status.ConsecutiveFailures).
			Msg("no oauth credential manager")
		return
	}
	cred := m.Credential()
	device := m.Device()

	event := log.Info()
	if cred.Token == "" || status.ConsecutiveFailures > 0 {
		event = log.Warn()
	}
	event.
		Str("platform", device.Platform.String()).
		Str("instanceId", device.InstanceID).
		Bool("hasToken", cred.Token != "").
		Time("expiresAt", cred.ExpiresAt()).
		Time("nextRefresh", status.NextRefresh).
		Int("refreshCount", status.RefreshCount).
		Int("consecutiveFailures", status.ConsecutiveFailures).
		Str("lastError", status.LastError).
		Msg("oauth credential status")
}

// reportStatus periodically logs the credential status until ctx is done.
func reportStatus(ctx context.Context, holder *auth.Holder, daemon *renewal.Daemon, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopping status reporter")
			return ctx.Err()
		case <-ticker.C:
			logStatus(holder, daemon)
		}
	}
}
