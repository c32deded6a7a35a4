package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-events-client/internal/config"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/internal/metrics"
	"github.com/jrsteele09/go-events-client/sessions"
	"github.com/jrsteele09/go-events-client/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "go-events-client"

	RefreshPath     = "/auth/refresh"
	HeaderRequestID = "X-Request-ID"
)

// Client is the single point of egress to the backend. It attaches the current
// access token and recovers from an expired token by refreshing once and
// replaying the request.
type Client struct {
	baseURL   string
	session   *sessions.Context
	httpc     *http.Client
	logger    zerolog.Logger
	metrics   *metrics.Client
	breaker   *gobreaker.CircuitBreaker
	userAgent string

	refreshGroup singleflight.Group
	state        stateHolder
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpc = h
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpc.Timeout = d
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func WithMetrics(m *metrics.Client) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithCircuitBreaker trips after maxFailures consecutive transport errors or 5xx
// responses and stays open for openTimeout.
func WithCircuitBreaker(maxFailures uint32, openTimeout time.Duration) Option {
	return func(c *Client) {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "events-backend",
			MaxRequests: 1,
			Timeout:     openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		})
	}
}

// WithAPIConfig applies timeout, user agent and breaker settings from configuration.
func WithAPIConfig(cfg config.APIConfig) Option {
	return func(c *Client) {
		if d := cfg.GetRequestTimeout(); d > 0 {
			c.httpc.Timeout = d
		}
		if ua := cfg.GetUserAgent(); ua != "" {
			c.userAgent = ua
		}
		if cfg.GetBreakerEnabled() {
			WithCircuitBreaker(cfg.GetBreakerMaxFailures(), cfg.GetBreakerOpenTimeout())(c)
		}
	}
}

// New creates a client for baseURL bound to session.
func New(baseURL string, session *sessions.Context, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("[NewClient] base URL is required")
	}
	if session == nil {
		return nil, fmt.Errorf("[NewClient] session is required")
	}

	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		session:   session,
		httpc:     &http.Client{Timeout: DefaultTimeout},
		logger:    log.Logger,
		metrics:   metrics.New(nil),
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	session.OnTeardown(func(_ context.Context, reason string) {
		c.metrics.Teardowns.WithLabelValues(reason).Inc()
	})
	return c, nil
}

// Session returns the session context the client authenticates with.
func (c *Client) Session() *sessions.Context {
	return c.session
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req. A 401 on a request that has not been retried refreshes the token
// pair and replays the request once. A 401 on the replay ends the session.
// Any other non-2xx status is returned as *Error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	access := ""
	if !req.Public {
		access = c.session.AccessToken(ctx)
	}

	resp, err := c.send(ctx, req, access)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !req.Public {
		apiErr := newError(req, resp)
		if req.Retried {
			c.teardown(ctx, "unauthorized after refresh")
			return nil, apiErr
		}

		if err := c.refresh(ctx, access); err != nil {
			c.logger.Debug().Err(err).Str("path", req.Path).Msg("refresh failed, not replaying")
			return nil, apiErr
		}

		c.metrics.Replays.Inc()
		return c.Do(ctx, req.replay())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(req, resp)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, req *Request, access string) (*Response, error) {
	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.url(c.baseURL), bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("Client.send: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("User-Agent", c.userAgent)
	if hreq.Header.Get(HeaderRequestID) == "" {
		hreq.Header.Set(HeaderRequestID, uuid.New().String())
	}
	if len(req.Body) > 0 {
		ct := req.ContentType
		if ct == "" {
			ct = "application/json"
		}
		hreq.Header.Set("Content-Type", ct)
	}

	hreq.Header.Del("Authorization")
	if access != "" {
		token.NewPair(access, "").OAuth2().SetAuthHeader(hreq)
	}

	start := time.Now()
	resp, err := c.execute(hreq)
	c.metrics.Latency.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.metrics.Requests.WithLabelValues(req.Method, metrics.StatusClass(status)).Inc()

	if err != nil {
		c.logger.Error().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("backend request failed")
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", status).
		Bool("retried", req.Retried).
		Str("request_id", hreq.Header.Get(HeaderRequestID)).
		Msg("backend request")
	return resp, nil
}

var errServerStatus = errors.New("server error status")

// execute performs the round trip, through the breaker when one is configured.
// Only transport errors and 5xx responses count as breaker failures.
func (c *Client) execute(hreq *http.Request) (*Response, error) {
	if c.breaker == nil {
		return c.roundTrip(hreq)
	}

	var resp *Response
	_, err := c.breaker.Execute(func() (interface{}, error) {
		r, err := c.roundTrip(hreq)
		if err != nil {
			return nil, err
		}
		resp = r
		if r.StatusCode >= 500 {
			return nil, errServerStatus
		}
		return nil, nil
	})
	if errors.Is(err, errServerStatus) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) roundTrip(hreq *http.Request) (*Response, error) {
	hresp, err := c.httpc.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer hresp.Body.Close()

	body, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return &Response{
		StatusCode: hresp.StatusCode,
		Header:     hresp.Header,
		Body:       body,
	}, nil
}

func (c *Client) teardown(ctx context.Context, reason string) {
	if err := c.session.Teardown(ctx, reason); err != nil {
		c.logger.Error().Err(err).Msg("session teardown")
	}
}
