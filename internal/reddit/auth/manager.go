// Package auth obtains and maintains an anonymous bearer token by posing as
// the official Android or iOS app.
//
// The token request is authenticated with the app's public OAuth client id
// (HTTP Basic auth with an empty password) and a spoofed set of device
// headers. There is no refresh token: refreshing is another login with the
// same device.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 30 * time.Second

var accessTokenScopes = []string{"*", "email"}

// Credential is a consistent snapshot of a manager's auth state.
type Credential struct {
	Token     string
	ExpiresIn uint64 // seconds, as reported at issuance
	IssuedAt  time.Time
	Headers   Headers
}

// ExpiresAt returns when the token expires. Zero if no token was issued.
func (c Credential) ExpiresAt() time.Time {
	if c.IssuedAt.IsZero() {
		return time.Time{}
	}
	return c.IssuedAt.Add(time.Duration(c.ExpiresIn) * time.Second)
}

type ManagerOpts struct {
	// BaseURL overrides AuthBaseURL.
	BaseURL string
	Timeout time.Duration
	// Rand is the source for device generation. Nil uses the global source.
	Rand *rand.Rand
	// Device skips generation and uses the given identity.
	Device *Device
}

// Manager owns a spoofed device and the bearer token issued to it.
//
// All methods are safe for concurrent use. At most one token exchange runs at
// a time; readers only contend with the short critical section that commits
// an exchange's result.
type Manager struct {
	device     Device
	httpClient *resty.Client

	// exchangeMu serializes Login and Refresh.
	exchangeMu sync.Mutex

	mu        sync.RWMutex
	headers   Headers
	token     string
	expiresIn uint64
	issuedAt  time.Time
}

// NewManager creates a manager with a fresh device. No request is made; the
// token is empty until Login succeeds.
func NewManager(opts ManagerOpts) *Manager {
	var device Device
	if opts.Device != nil {
		device = opts.Device.Clone()
	} else {
		device = GenerateDevice(opts.Rand)
	}

	baseURL := AuthBaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	timeout := defaultTimeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	return &Manager{
		device: device,
		httpClient: resty.New().
			SetDebug(false).
			SetBaseURL(baseURL).
			SetTimeout(timeout),
		headers: device.PersistentHeaders.Clone(),
	}
}

// Device returns the spoofed identity. It never changes.
func (m *Manager) Device() Device {
	return m.device.Clone()
}

// Headers returns a copy of the headers to attach to authenticated requests.
func (m *Manager) Headers() Headers {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.headers.Clone()
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// ExpiresIn returns the lifetime in seconds of the current token.
func (m *Manager) ExpiresIn() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiresIn
}

func (m *Manager) Credential() Credential {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Credential{
		Token:     m.token,
		ExpiresIn: m.expiresIn,
		IssuedAt:  m.issuedAt,
		Headers:   m.headers.Clone(),
	}
}

// Login requests a new token for the device. On failure the previous state,
// including any earlier token, is left untouched.
func (m *Manager) Login(ctx context.Context) error {
	return m.exchange(ctx, "login")
}

// Refresh replaces the token by logging in again with the same device. The
// endpoint has no refresh grant for these clients.
func (m *Manager) Refresh(ctx context.Context) error {
	if err := m.exchange(ctx, "refresh"); err != nil {
		return err
	}
	log.Info().Msg("refreshed oauth token")
	return nil
}

type accessTokenResponse struct {
	AccessToken *string `json:"access_token"`
	ExpiresIn   *uint64 `json:"expires_in"`
}

func (m *Manager) exchange(ctx context.Context, op string) error {
	m.exchangeMu.Lock()
	defer m.exchangeMu.Unlock()

	req := m.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetBody(map[string]any{"scopes": accessTokenScopes})

	for _, k := range m.device.InitialHeaders.Keys() {
		req.SetHeader(k, m.device.InitialHeaders[k])
	}
	// Authenticates the device, not a user: client id with an empty password
	basic := base64.StdEncoding.EncodeToString([]byte(m.device.OAuthClientID + ":"))
	req.SetHeader(HeaderAuthorization, "Basic "+basic)

	res, err := req.Post(AccessTokenPath)
	if err != nil {
		return transportError(op, err)
	}
	if res.IsError() {
		return transportError(op, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode()))
	}

	var body accessTokenResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return malformedError(op, fmt.Errorf("failed to decode response: %w", err))
	}
	if body.AccessToken == nil || *body.AccessToken == "" {
		return malformedError(op, errors.New("missing access_token"))
	}
	if body.ExpiresIn == nil {
		return malformedError(op, errors.New("missing expires_in"))
	}
	if *body.ExpiresIn == 0 {
		return malformedError(op, errors.New("expires_in must be positive"))
	}

	loid := res.Header().Get(HeaderLoid)
	session := res.Header().Get(HeaderSession)
	token := *body.AccessToken

	m.mu.Lock()
	if loid != "" {
		m.headers[HeaderLoid] = loid
	}
	if session != "" {
		m.headers[HeaderSession] = session
	}
	m.token = token
	m.expiresIn = *body.ExpiresIn
	m.issuedAt = time.Now()
	m.headers[HeaderAuthorization] = "Bearer " + token
	m.mu.Unlock()

	log.Info().
		Str("op", op).
		Str("token", redact(token)).
		Uint64("expiresIn", *body.ExpiresIn).
		Msg("retrieved oauth token")

	return nil
}

// redact shortens a token for logging.
func redact(token string) string {
	const keep = 32
	if len(token) <= keep {
		return token
	}
	return token[:keep] + "..."
}
