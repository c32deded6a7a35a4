package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/internal/metrics"
	"github.com/jrsteele09/go-events-client/token"
)

// RefreshState is the state of the token refresh protocol.
type RefreshState int

const (
	Idle RefreshState = iota
	Refreshing
	Refreshed
	Failed
)

func (s RefreshState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Refreshing:
		return "refreshing"
	case Refreshed:
		return "refreshed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("RefreshState(%d)", int(s))
}

type stateHolder struct {
	mu    sync.RWMutex
	state RefreshState
}

func (h *stateHolder) set(s RefreshState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = s
}

func (h *stateHolder) get() RefreshState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// RefreshState reports the outcome of the most recent refresh.
func (c *Client) RefreshState() RefreshState {
	return c.state.get()
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refresh obtains a new token pair after stale was rejected. Concurrent callers
// share one in-flight exchange. If another caller already replaced stale, the
// stored token is reused without contacting the backend.
func (c *Client) refresh(ctx context.Context, stale string) error {
	if current := c.session.AccessToken(ctx); current != "" && current != stale {
		return nil
	}

	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		return nil, c.exchange(context.WithoutCancel(ctx))
	})
	return err
}

// exchange runs Refreshing -> {Refreshed, Failed}. Failure tears the session down.
func (c *Client) exchange(ctx context.Context) error {
	c.state.set(Refreshing)

	refreshToken := c.session.RefreshToken(ctx)
	if refreshToken == "" {
		c.metrics.Refreshes.WithLabelValues(metrics.RefreshNoToken).Inc()
		return c.fail(ctx, errors.ErrNoRefreshToken)
	}

	req, err := NewRequest(http.MethodPost, RefreshPath).WithJSON(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return c.fail(ctx, err)
	}
	req.Public = true

	resp, err := c.send(ctx, req, "")
	if err != nil {
		return c.fail(ctx, errors.Wrapf(errors.ErrRefreshFailed, "%s", err.Error()))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(ctx, errors.Wrapf(errors.ErrRefreshFailed, "%s", newError(req, resp).Error()))
	}

	var pair token.Pair
	if err := json.Unmarshal(resp.Body, &pair); err != nil {
		return c.fail(ctx, errors.Wrapf(errors.ErrRefreshFailed, "decoding refresh response: %s", err.Error()))
	}
	if _, err := c.session.Establish(ctx, pair); err != nil {
		return c.fail(ctx, errors.Wrapf(errors.ErrRefreshFailed, "%s", err.Error()))
	}

	c.metrics.Refreshes.WithLabelValues(metrics.RefreshSucceeded).Inc()
	c.state.set(Refreshed)
	c.logger.Debug().Msg("access token refreshed")
	return nil
}

func (c *Client) fail(ctx context.Context, err error) error {
	if !errors.Is(err, errors.ErrNoRefreshToken) {
		c.metrics.Refreshes.WithLabelValues(metrics.RefreshFailed).Inc()
	}
	c.state.set(Failed)
	c.logger.Warn().Err(err).Msg("token refresh failed")
	c.teardown(ctx, "refresh failed")
	return err
}
