// Package backendfake is an in-process stand-in for the events REST backend.
// It issues HMAC signed access tokens and rotating refresh tokens and records
// every request so tests can assert on what the client sent.
package backendfake

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-events-client/token"
	"github.com/rs/zerolog"
)

// DefaultSecret signs access tokens unless WithSecret is used.
const DefaultSecret = "backendfake-secret"

// RecordedRequest is what the fake saw for one request.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization []string
	RequestID     string
	ContentType   string
}

type forcedResponse struct {
	status int
	body   string
	count  int
}

type Server struct {
	mux    *http.ServeMux
	routes []string
	logger zerolog.Logger

	signer        token.Signer
	shape         token.Shape
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	nowFunc       func() time.Time
	refreshDelay  time.Duration

	users   *userRepo
	refresh *refreshManager
	store   *resourceStore

	lock          sync.Mutex
	requests      []RecordedRequest
	revoked       map[string]bool
	issued        []string
	rejectRefresh bool
	forced        map[string]*forcedResponse
}

type Option func(*Server)

func WithSecret(secret string) Option {
	return func(s *Server) {
		s.signer = token.NewHMACSigner(secret)
	}
}

// WithShape selects the claim layout of issued access tokens.
func WithShape(shape token.Shape) Option {
	return func(s *Server) {
		s.shape = shape
	}
}

func WithAccessExpiry(d time.Duration) Option {
	return func(s *Server) {
		s.accessExpiry = d
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = now
	}
}

// WithRefreshDelay holds every refresh response for d, widening the window for concurrent 401s.
func WithRefreshDelay(d time.Duration) Option {
	return func(s *Server) {
		s.refreshDelay = d
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a fake backend with the ADMIN, ORGANIZER and USER roles seeded.
func New(opts ...Option) *Server {
	s := &Server{
		mux:           http.NewServeMux(),
		logger:        zerolog.Nop(),
		signer:        token.NewHMACSigner(DefaultSecret),
		shape:         token.ShapeNested,
		accessExpiry:  15 * time.Minute,
		refreshExpiry: 7 * 24 * time.Hour,
		nowFunc:       time.Now,
		users:         newUserRepo(),
		store:         newResourceStore(),
		revoked:       make(map[string]bool),
		forced:        make(map[string]*forcedResponse),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.refresh = newRefreshManager(s.refreshExpiry, s.nowFunc)
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered route patterns.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

// Signer returns the signer used for issued access tokens.
func (s *Server) Signer() token.Signer {
	return s.signer
}

// SeedUser registers a user directly, bypassing the HTTP API.
func (s *Server) SeedUser(firstName, lastName, email, password string, roleID int64) (*User, error) {
	return s.users.Create(firstName, lastName, email, password, roleID)
}

// IssuePair mints a token pair for an existing user.
func (s *Server) IssuePair(userID int64) (token.Pair, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return token.Pair{}, err
	}
	return s.issue(u)
}

// RevokeAccessTokens invalidates every access token issued so far. Refresh tokens stay valid.
func (s *Server) RevokeAccessTokens() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, t := range s.issued {
		s.revoked[t] = true
	}
	s.issued = nil
}

// RejectRefresh makes POST /auth/refresh answer 401 while set.
func (s *Server) RejectRefresh(reject bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.rejectRefresh = reject
}

// Force answers the next count requests to "METHOD /path" with status and body.
func (s *Server) Force(method, path string, status int, body string, count int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.forced[method+" "+path] = &forcedResponse{status: status, body: body, count: count}
}

// Requests returns every request seen so far.
func (s *Server) Requests() []RecordedRequest {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.requests = nil
}

func (s *Server) issue(u *User) (token.Pair, error) {
	now := s.nowFunc()
	access, err := token.Encode(token.Claims{
		Subject:     formatID(u.ID),
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        "ROLE_" + strings.ToUpper(u.Role.Name),
		Authorities: []string{"ROLE_" + strings.ToUpper(u.Role.Name)},
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.accessExpiry),
	}, s.shape, s.signer)
	if err != nil {
		return token.Pair{}, err
	}

	refresh, err := s.refresh.Create(u.ID)
	if err != nil {
		return token.Pair{}, err
	}

	s.lock.Lock()
	s.issued = append(s.issued, access)
	s.lock.Unlock()

	return token.NewPair(access, refresh), nil
}

func (s *Server) isRevoked(access string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.revoked[access]
}
