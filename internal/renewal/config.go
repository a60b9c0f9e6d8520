package renewal

import (
	"math"
	"time"
)

// Default values for token renewal.
const (
	// DefaultMargin is how long before expiry the token is refreshed, to
	// tolerate clock and network skew.
	DefaultMargin = 2 * time.Minute

	// DefaultMinDelay is the floor for the wait before a refresh. Tokens with
	// a lifetime shorter than the margin are refreshed after this delay.
	DefaultMinDelay = 5 * time.Second

	// DefaultRetryMin is the wait after the first failed refresh. It doubles
	// with every consecutive failure up to DefaultRetryMax.
	DefaultRetryMin = 10 * time.Second
	DefaultRetryMax = 10 * time.Minute

	// FailureAlertThreshold is the number of consecutive failures after which
	// failures are logged as errors.
	FailureAlertThreshold = 3
)

// maxExpirySeconds keeps the conversion to time.Duration from overflowing.
const maxExpirySeconds = uint64(math.MaxInt64 / int64(time.Second))

type Config struct {
	Margin   time.Duration
	MinDelay time.Duration
	RetryMin time.Duration
	RetryMax time.Duration
}

// WithDefaults returns a copy of Config with default values applied.
func (c Config) WithDefaults() Config {
	if c.Margin <= 0 {
		c.Margin = DefaultMargin
	}
	if c.MinDelay <= 0 {
		c.MinDelay = DefaultMinDelay
	}
	if c.RetryMin <= 0 {
		c.RetryMin = DefaultRetryMin
	}
	if c.RetryMax <= 0 {
		c.RetryMax = DefaultRetryMax
	}
	if c.RetryMax < c.RetryMin {
		c.RetryMax = c.RetryMin
	}
	return c
}

// NextDelay returns how long to wait before the next refresh. expiresIn is
// the lifetime in seconds of the current token and failures the number of
// refreshes that have failed in a row. The result is never below MinDelay.
func (c Config) NextDelay(expiresIn uint64, failures int) time.Duration {
	if failures > 0 {
		backoff := c.RetryMin
		for i := 1; i < failures && backoff < c.RetryMax; i++ {
			backoff *= 2
		}
		if backoff > c.RetryMax {
			backoff = c.RetryMax
		}
		if backoff < c.MinDelay {
			backoff = c.MinDelay
		}
		return backoff
	}

	if expiresIn > maxExpirySeconds {
		expiresIn = maxExpirySeconds
	}
	delay := time.Duration(expiresIn)*time.Second - c.Margin
	if delay < c.MinDelay {
		return c.MinDelay
	}
	return delay
}
