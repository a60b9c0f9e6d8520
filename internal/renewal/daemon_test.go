package renewal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raine/reddit-oauth/internal/reddit/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimer hands every requested delay to the test, which decides when the
// wait ends.
type fakeTimer struct {
	delays chan time.Duration
	fire   chan time.Time
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{
		delays: make(chan time.Duration, 1),
		fire:   make(chan time.Time),
	}
}

func (f *fakeTimer) after(d time.Duration) <-chan time.Time {
	f.delays <- d
	return f.fire
}

func (f *fakeTimer) nextDelay(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-f.delays:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not schedule a refresh")
		return 0
	}
}

// tokenServer issues token-1, token-2, ... with the given lifetime until
// failing is set.
type tokenServer struct {
	*httptest.Server
	issued    atomic.Int32
	requests  atomic.Int32
	failing   atomic.Bool
	expiresIn atomic.Uint64
}

func newTokenServer(t *testing.T, expiresIn uint64) *tokenServer {
	ts := &tokenServer{}
	ts.expiresIn.Store(expiresIn)
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.requests.Add(1)
		if ts.failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		i := ts.issued.Add(1)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, fmt.Sprintf(`{"access_token":"token-%d","expires_in":%d}`, i, ts.expiresIn.Load()))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newLoggedInHolder(t *testing.T, ts *tokenServer) *auth.Holder {
	m := auth.NewManager(auth.ManagerOpts{BaseURL: ts.URL})
	require.NoError(t, m.Login(context.Background()))
	return auth.NewHolder(m)
}

func startDaemon(t *testing.T, holder *auth.Holder) (*Daemon, *fakeTimer, context.CancelFunc, <-chan error) {
	d := NewDaemon(holder, Config{})
	timer := newFakeTimer()
	d.after = timer.after

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	t.Cleanup(cancel)
	return d, timer, cancel, done
}

func TestDaemon_RefreshesBeforeExpiry(t *testing.T) {
	ts := newTokenServer(t, 3600)
	holder := newLoggedInHolder(t, ts)
	d, timer, cancel, done := startDaemon(t, holder)

	assert.Equal(t, 58*time.Minute, timer.nextDelay(t))
	assert.Equal(t, "token-1", holder.Manager().Token())

	ts.expiresIn.Store(7200)
	timer.fire <- time.Now()

	// The next wait uses the new token's lifetime
	assert.Equal(t, 118*time.Minute, timer.nextDelay(t))
	assert.Equal(t, "token-2", holder.Manager().Token())
	assert.Equal(t, uint64(7200), holder.Manager().ExpiresIn())

	status := d.Status()
	assert.Equal(t, 1, status.RefreshCount)
	assert.Zero(t, status.ConsecutiveFailures)
	assert.False(t, status.LastRefresh.IsZero())
	assert.True(t, status.NextRefresh.After(status.LastRefresh))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestDaemon_ShortLifetimeIsClamped(t *testing.T) {
	ts := newTokenServer(t, 50)
	holder := newLoggedInHolder(t, ts)
	_, timer, cancel, done := startDaemon(t, holder)

	delay := timer.nextDelay(t)
	assert.Equal(t, DefaultMinDelay, delay)
	assert.GreaterOrEqual(t, delay, time.Duration(0))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestDaemon_BacksOffAndKeepsTokenOnFailure(t *testing.T) {
	ts := newTokenServer(t, 3600)
	holder := newLoggedInHolder(t, ts)
	d, timer, cancel, done := startDaemon(t, holder)

	timer.nextDelay(t)
	ts.failing.Store(true)

	var delays []time.Duration
	for i := 0; i < 4; i++ {
		timer.fire <- time.Now()
		delays = append(delays, timer.nextDelay(t))
	}
	assert.Equal(t, []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second, 80 * time.Second}, delays)

	// Still running and still serving the last good token
	assert.Equal(t, "token-1", holder.Manager().Token())
	assert.Equal(t, "Bearer token-1", holder.Headers()["Authorization"])

	status := d.Status()
	assert.Equal(t, 4, status.ConsecutiveFailures)
	assert.Contains(t, status.LastError, "transport error")
	assert.Zero(t, status.RefreshCount)

	// Recovery resets the backoff
	ts.failing.Store(false)
	timer.fire <- time.Now()
	assert.Equal(t, 58*time.Minute, timer.nextDelay(t))
	assert.Equal(t, "token-2", holder.Manager().Token())

	status = d.Status()
	assert.Zero(t, status.ConsecutiveFailures)
	assert.Empty(t, status.LastError)
	assert.Equal(t, 1, status.RefreshCount)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestDaemon_DoesNotHoldHolderWhileWaiting(t *testing.T) {
	first := newTokenServer(t, 3600)
	holder := newLoggedInHolder(t, first)
	_, timer, cancel, done := startDaemon(t, holder)

	timer.nextDelay(t)

	// Replacing requires exclusive access; it must not wait for the sleep.
	second := newTokenServer(t, 600)
	replaced := make(chan struct{})
	go func() {
		m := auth.NewManager(auth.ManagerOpts{BaseURL: second.URL})
		holder.Replace(m)
		close(replaced)
	}()
	select {
	case <-replaced:
	case <-time.After(5 * time.Second):
		t.Fatal("replace blocked while daemon was waiting")
	}

	// Readers are not blocked either
	assert.Equal(t, "", holder.Manager().Token())

	timer.fire <- time.Now()
	assert.Equal(t, 8*time.Minute, timer.nextDelay(t))
	assert.Equal(t, int32(1), first.requests.Load())
	assert.Equal(t, int32(1), second.requests.Load())
	assert.Equal(t, "token-1", holder.Manager().Token())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestDaemon_EmptyHolder(t *testing.T) {
	holder := auth.NewHolder(nil)
	d, timer, cancel, done := startDaemon(t, holder)

	assert.Equal(t, DefaultMinDelay, timer.nextDelay(t))
	timer.fire <- time.Now()
	assert.Equal(t, DefaultMinDelay, timer.nextDelay(t))
	assert.Zero(t, d.Status().RefreshCount)

	// A manager installed later is picked up on the next cycle
	ts := newTokenServer(t, 3600)
	m := auth.NewManager(auth.ManagerOpts{BaseURL: ts.URL})
	holder.Replace(m)
	timer.fire <- time.Now()
	assert.Equal(t, 58*time.Minute, timer.nextDelay(t))
	assert.Equal(t, "token-1", m.Token())
	assert.Equal(t, 1, d.Status().RefreshCount)

	// And removing it again does not stop the daemon
	holder.Replace(nil)
	timer.fire <- time.Now()
	assert.Equal(t, DefaultMinDelay, timer.nextDelay(t))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestDaemon_StopsWhenCancelled(t *testing.T) {
	ts := newTokenServer(t, 3600)
	holder := newLoggedInHolder(t, ts)

	d := NewDaemon(holder, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), ts.requests.Load())
}
