package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-events-client/internal/config"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/storage"
	"github.com/jrsteele09/go-events-client/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TeardownHook is called after a session has been torn down.
type TeardownHook func(ctx context.Context, reason string)

// Redirects maps roles to their post-login landing page.
type Redirects struct {
	Admin     string
	Organizer string
	User      string
}

// DefaultRedirects sends staff to the shared dashboard and everyone else home.
var DefaultRedirects = Redirects{
	Admin:     "/dashboard",
	Organizer: "/dashboard",
	User:      "/",
}

// Context owns the session state and the persisted credentials. It is
// constructed explicitly and shared by the API client and the route guard.
type Context struct {
	slot      storage.Slot
	ttl       time.Duration
	nowFunc   func() time.Time
	logger    zerolog.Logger
	redirects Redirects

	mu      sync.RWMutex
	current *Session
	hooks   []TeardownHook
}

type Option func(*Context)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Context) {
		c.logger = l
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Context) {
		c.ttl = ttl
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(c *Context) {
		c.nowFunc = now
	}
}

func WithRedirects(r Redirects) Option {
	return func(c *Context) {
		c.redirects = r
	}
}

// WithSessionConfig applies TTL and dashboard settings from configuration.
func WithSessionConfig(cfg config.SessionConfig) Option {
	return func(c *Context) {
		if ttl := cfg.GetSessionTTL(); ttl > 0 {
			c.ttl = ttl
		}
		if p := cfg.GetAdminDashboard(); p != "" {
			c.redirects.Admin = p
		}
		if p := cfg.GetOrganizerDashboard(); p != "" {
			c.redirects.Organizer = p
		}
	}
}

// New creates a session context over slot. Call Hydrate to restore a previous session.
func New(slot storage.Slot, opts ...Option) *Context {
	if slot == nil {
		slot = storage.NewMemory()
	}
	c := &Context{
		slot:      slot,
		ttl:       storage.DefaultTTL,
		nowFunc:   time.Now,
		logger:    log.Logger,
		redirects: DefaultRedirects,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hydrate restores the session from storage. A stored snapshot wins; failing that
// the identity is derived from a stored access token. A snapshot without an access
// token is stale and is removed. Anything else leaves the context anonymous.
func (c *Context) Hydrate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	access, err := c.get(ctx, storage.KeyAccessToken)
	if err != nil {
		return err
	}

	snapshot, err := c.get(ctx, storage.KeyUserData)
	if err != nil {
		return err
	}

	if access == "" {
		if snapshot != "" {
			c.logger.Debug().Msg("discarding session snapshot without access token")
			if err := c.slot.Delete(ctx, storage.KeyUserData); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("Context.Hydrate: %w", err)
			}
		}
		c.current = nil
		return nil
	}

	var s *Session
	if snapshot != "" {
		s = &Session{}
		if err := json.Unmarshal([]byte(snapshot), s); err != nil {
			c.logger.Warn().Err(err).Msg("discarding unreadable session snapshot")
			s = nil
		}
	}

	if s == nil {
		s = FromClaims(token.DecodeOrNil(access))
		if s != nil && s.UserID != "" {
			if err := c.persist(ctx, s); err != nil {
				return err
			}
		}
	}

	if s != nil && s.UserID == "" {
		s = nil
	}
	if s != nil {
		s.HasAccessToken = true
	}
	c.current = s

	if s != nil {
		c.logger.Debug().Str("user_id", s.UserID).Msg("session hydrated")
	}
	return nil
}

// Establish stores a freshly issued token pair and then derives the identity from
// the new access token. Tokens are always persisted before identity is touched.
func (c *Context) Establish(ctx context.Context, pair token.Pair) (*Session, error) {
	if err := pair.Validate(); err != nil {
		return nil, fmt.Errorf("Context.Establish: %w", err)
	}

	if err := c.slot.Set(ctx, storage.KeyAccessToken, pair.AccessToken, c.ttl); err != nil {
		return nil, fmt.Errorf("Context.Establish store access token: %w", err)
	}
	if err := c.slot.Set(ctx, storage.KeyRefreshToken, pair.RefreshToken, c.ttl); err != nil {
		return nil, fmt.Errorf("Context.Establish store refresh token: %w", err)
	}

	s := FromClaims(token.DecodeOrNil(pair.AccessToken))
	if s == nil || s.UserID == "" {
		_ = c.Teardown(ctx, "undecodable access token")
		return nil, fmt.Errorf("Context.Establish: %w", errors.ErrInvalidToken)
	}
	s.HasAccessToken = true

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.persist(ctx, s); err != nil {
		return nil, err
	}
	c.current = s

	c.logger.Debug().Str("user_id", s.UserID).Str("role", s.Role).Msg("session established")
	return s.clone(), nil
}

// Tokens returns the stored token pair. Missing halves are empty strings.
func (c *Context) Tokens(ctx context.Context) (token.Pair, error) {
	access, err := c.get(ctx, storage.KeyAccessToken)
	if err != nil {
		return token.Pair{}, err
	}
	refresh, err := c.get(ctx, storage.KeyRefreshToken)
	if err != nil {
		return token.Pair{}, err
	}
	return token.NewPair(access, refresh), nil
}

// AccessToken returns the stored access token or "".
func (c *Context) AccessToken(ctx context.Context) string {
	v, err := c.get(ctx, storage.KeyAccessToken)
	if err != nil {
		c.logger.Warn().Err(err).Msg("reading access token")
	}
	return v
}

// RefreshToken returns the stored refresh token or "".
func (c *Context) RefreshToken(ctx context.Context) string {
	v, err := c.get(ctx, storage.KeyRefreshToken)
	if err != nil {
		c.logger.Warn().Err(err).Msg("reading refresh token")
	}
	return v
}

// Current returns a copy of the session, or nil when anonymous.
func (c *Context) Current() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.clone()
}

// IsAuthenticated reports whether a session with a user and an access token is held.
func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil && c.current.UserID != "" && c.current.HasAccessToken
}

func (c *Context) HasRole(roles ...string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.HasRole(roles...)
}

func (c *Context) Role() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return ""
	}
	return c.current.Role
}

// UpdateProfile applies the non-empty fields of p to the session and persists it.
// The lock is held across the write, ordering it against Teardown.
func (c *Context) UpdateProfile(ctx context.Context, p Profile) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, errors.ErrNotAuthenticated
	}
	s := c.current.clone()

	if p.FirstName != "" {
		s.FirstName = p.FirstName
	}
	if p.LastName != "" {
		s.LastName = p.LastName
	}
	if p.Email != "" {
		s.Email = p.Email
	}
	if p.Role != "" {
		s.Role = NormalizeRole(p.Role)
	}
	s.DisplayName = s.displayName()

	if err := c.persist(ctx, s); err != nil {
		return nil, err
	}
	c.current = s
	return s.clone(), nil
}

// OnTeardown registers a hook fired after every teardown.
func (c *Context) OnTeardown(hook TeardownHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// Teardown clears the stored tokens and snapshot and drops the in-memory session.
// Hooks run even when storage could not be fully cleared.
func (c *Context) Teardown(ctx context.Context, reason string) error {
	c.mu.Lock()
	err := storage.Clear(ctx, c.slot)
	var userID string
	if c.current != nil {
		userID = c.current.UserID
	}
	c.current = nil
	hooks := append([]TeardownHook(nil), c.hooks...)
	c.mu.Unlock()

	c.logger.Info().Str("user_id", userID).Str("reason", reason).Msg("session torn down")
	for _, hook := range hooks {
		hook(ctx, reason)
	}

	if err != nil {
		return fmt.Errorf("Context.Teardown: %w", err)
	}
	return nil
}

// RedirectPath is the landing page for the current role after login.
func (c *Context) RedirectPath() string {
	switch c.Role() {
	case RoleAdmin:
		return c.redirects.Admin
	case RoleOrganizer:
		return c.redirects.Organizer
	default:
		return c.redirects.User
	}
}

// Expired reports whether the stored access token has passed its exp claim.
func (c *Context) Expired(ctx context.Context) bool {
	claims := token.DecodeOrNil(c.AccessToken(ctx))
	return claims == nil || claims.Expired(c.nowFunc())
}

// persist writes the snapshot. Callers hold c.mu.
func (c *Context) persist(ctx context.Context, s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("Context.persist: %w", err)
	}
	if err := c.slot.Set(ctx, storage.KeyUserData, string(b), c.ttl); err != nil {
		return fmt.Errorf("Context.persist: %w", err)
	}
	return nil
}

func (c *Context) get(ctx context.Context, key string) (string, error) {
	v, err := c.slot.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return v, nil
}
