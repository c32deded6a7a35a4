package api_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/internal/backendfake"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/internal/metrics"
	"github.com/jrsteele09/go-events-client/sessions"
	"github.com/jrsteele09/go-events-client/storage"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

type meResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func TestNew_Validation(t *testing.T) {
	_, err := api.New("", sessions.New(nil))
	require.Error(t, err)
	_, err = api.New("http://localhost", nil)
	require.Error(t, err)
}

func TestDo_AttachesBearerOnce(t *testing.T) {
	env := backendfake.Start(t, nil)
	ctx := context.Background()
	u := env.Login(t, backendfake.RoleIDUser)
	access := env.Session.AccessToken(ctx)

	req := api.NewRequest(http.MethodGet, backendfake.RouteAuthMe)
	req.Header.Set("Authorization", "Bearer stale-caller-value")
	resp, err := env.Client.Do(ctx, req)
	require.NoError(t, err)

	var me meResponse
	require.NoError(t, resp.Decode(&me))
	require.Equal(t, u.ID, me.ID)

	reqs := env.Fake.Requests()
	require.Len(t, reqs, 1)
	require.Equal(t, []string{"Bearer " + access}, reqs[0].Authorization)
	require.NotEmpty(t, reqs[0].RequestID)
}

func TestDo_AnonymousSendsNoBearer(t *testing.T) {
	env := backendfake.Start(t, nil)

	var out []map[string]any
	require.NoError(t, env.Client.GetJSON(context.Background(), backendfake.RouteCategories, nil, &out))

	reqs := env.Fake.Requests()
	require.Len(t, reqs, 1)
	require.Empty(t, reqs[0].Authorization)
}

func TestDo_RefreshesOnceAndReplays(t *testing.T) {
	env := backendfake.Start(t, nil)
	ctx := context.Background()
	env.Login(t, backendfake.RoleIDUser)
	before, err := env.Session.Tokens(ctx)
	require.NoError(t, err)

	env.Fake.RevokeAccessTokens()

	var me meResponse
	require.NoError(t, env.Client.GetJSON(ctx, backendfake.RouteAuthMe, nil, &me))

	require.Equal(t, 1, env.Fake.Count(http.MethodPost, backendfake.RouteAuthRefresh))
	require.Equal(t, 2, env.Fake.Count(http.MethodGet, backendfake.RouteAuthMe))
	require.Equal(t, api.Refreshed, env.Client.RefreshState())

	after, err := env.Session.Tokens(ctx)
	require.NoError(t, err)
	require.NotEqual(t, before.AccessToken, after.AccessToken)
	require.NotEqual(t, before.RefreshToken, after.RefreshToken)

	reqs := env.Fake.Requests()
	require.Equal(t, []string{"Bearer " + before.AccessToken}, reqs[0].Authorization)
	require.Empty(t, reqs[1].Authorization)
	require.Equal(t, []string{"Bearer " + after.AccessToken}, reqs[2].Authorization)

	require.True(t, env.Session.IsAuthenticated())
	require.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.Refreshes.WithLabelValues(metrics.RefreshSucceeded)))
	require.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.Replays))
}

func TestDo_UnauthorizedReplayTearsDown(t *testing.T) {
	env := backendfake.Start(t, nil)
	ctx := context.Background()
	env.Login(t, backendfake.RoleIDUser)

	var torn []string
	env.Session.OnTeardown(func(_ context.Context, reason string) { torn = append(torn, reason) })

	env.Fake.Force(http.MethodGet, backendfake.RouteAuthMe, http.StatusUnauthorized, `{"message":"Token expired"}`, 2)

	err := env.Client.GetJSON(ctx, backendfake.RouteAuthMe, nil, nil)
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Token expired", apiErr.Message)
	require.True(t, errors.Is(err, errors.ErrUnauthorized))

	require.Equal(t, 1, env.Fake.Count(http.MethodPost, backendfake.RouteAuthRefresh))
	require.Equal(t, 2, env.Fake.Count(http.MethodGet, backendfake.RouteAuthMe))
	require.False(t, env.Session.IsAuthenticated())
	require.Equal(t, 0, env.Slot.Len())
	require.Equal(t, []string{"unauthorized after refresh"}, torn)
}

func TestDo_MissingRefreshTokenTearsDownWithoutRefresh(t *testing.T) {
	env := backendfake.Start(t, nil)
	ctx := context.Background()
	env.Login(t, backendfake.RoleIDUser)

	require.NoError(t, env.Slot.Delete(ctx, storage.KeyRefreshToken))
	env.Fake.RevokeAccessTokens()

	err := env.Client.GetJSON(ctx, backendfake.RouteAuthMe, nil, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrUnauthorized))

	require.Equal(t, 0, env.Fake.Count(http.MethodPost, backendfake.RouteAuthRefresh))
	require.Equal(t, 1, env.Fake.Count(http.MethodGet, backendfake.RouteAuthMe))
	require.Equal(t, api.Failed, env.Client.RefreshState())
	require.False(t, env.Session.IsAuthenticated())
	require.Equal(t, 0, env.Slot.Len())
}

func TestDo_RejectedRefreshTearsDown(t *testing.T) {
	env := backendfake.Start(t, nil)
	ctx := context.Background()
	env.Login(t, backendfake.RoleIDAdmin)

	env.Fake.RejectRefresh(true)
	env.Fake.RevokeAccessTokens()

	err := env.Client.GetJSON(ctx, backendfake.RouteAuthMe, nil, nil)
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, backendfake.RouteAuthMe, apiErr.Path)

	require.Equal(t, 1, env.Fake.Count(http.MethodPost, backendfake.RouteAuthRefresh))
	require.Equal(t, 1, env.Fake.Count(http.MethodGet, backendfake.RouteAuthMe))
	require.Equal(t, api.Failed, env.Client.RefreshState())
	require.False(t, env.Session.IsAuthenticated())
}

func TestDo_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	env := backendfake.Start(t, []backendfake.Option{backendfake.WithRefreshDelay(200 * time.Millisecond)})
	ctx := context.Background()
	env.Login(t, backendfake.RoleIDUser)
	env.Fake.RevokeAccessTokens()

	const workers = 5
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = env.Client.GetJSON(ctx, backendfake.RouteAuthMe, nil, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 1, env.Fake.Count(http.MethodPost, backendfake.RouteAuthRefresh))
	require.LessOrEqual(t, env.Fake.Count(http.MethodGet, backendfake.RouteAuthMe), 2*workers)
	require.True(t, env.Session.IsAuthenticated())
}

func TestDo_OtherErrorsPropagateUnchanged(t *testing.T) {
	env := backendfake.Start(t, nil)
	ctx := context.Background()
	env.Login(t, backendfake.RoleIDUser)

	env.Fake.Force(http.MethodGet, backendfake.RouteCategories, http.StatusBadRequest,
		`{"errors":{"name":"must not be blank","description":"too long"}}`, 1)

	err := env.Client.GetJSON(ctx, backendfake.RouteCategories, nil, nil)
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "description: too long, name: must not be blank", apiErr.Message)
	require.True(t, errors.Is(err, errors.ErrValidation))
	require.False(t, apiErr.Transient())

	require.Equal(t, 0, env.Fake.Count(http.MethodPost, backendfake.RouteAuthRefresh))
	require.True(t, env.Session.IsAuthenticated())
}

func TestDo_Forbidden(t *testing.T) {
	env := backendfake.Start(t, nil)
	env.Login(t, backendfake.RoleIDUser)

	err := env.Client.GetJSON(context.Background(), backendfake.RouteUsers, nil, nil)
	require.True(t, errors.Is(err, errors.ErrForbidden))
	require.True(t, env.Session.IsAuthenticated())
}

func TestDo_CircuitBreakerOpensOnServerErrors(t *testing.T) {
	env := backendfake.Start(t, nil, api.WithCircuitBreaker(2, time.Minute))
	ctx := context.Background()

	env.Fake.Force(http.MethodGet, backendfake.RouteCategories, http.StatusServiceUnavailable, "", 2)

	for range 2 {
		err := env.Client.GetJSON(ctx, backendfake.RouteCategories, nil, nil)
		var apiErr *api.Error
		require.True(t, errors.As(err, &apiErr))
		require.True(t, apiErr.Transient())
		require.Equal(t, api.GenericErrorMessage, apiErr.Message)
	}

	err := env.Client.GetJSON(ctx, backendfake.RouteCategories, nil, nil)
	require.True(t, errors.Is(err, gobreaker.ErrOpenState))
	require.Equal(t, 2, env.Fake.Count(http.MethodGet, backendfake.RouteCategories))
}

func TestDo_ClientErrorsDoNotTripBreaker(t *testing.T) {
	env := backendfake.Start(t, nil, api.WithCircuitBreaker(1, time.Minute))
	ctx := context.Background()

	env.Fake.Force(http.MethodGet, backendfake.RouteCategories, http.StatusNotFound, `{"message":"nope"}`, 3)
	for range 3 {
		err := env.Client.GetJSON(ctx, backendfake.RouteCategories, nil, nil)
		require.True(t, errors.Is(err, errors.ErrNotFound))
	}
}

func TestPostMultipart_SniffsImageType(t *testing.T) {
	env := backendfake.Start(t, nil)
	ctx := context.Background()
	env.Login(t, backendfake.RoleIDAdmin)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	form := api.NewForm().
		Set("title", "Go Meetup").
		Set("numberOfSeats", "10").
		Set("price", "0").
		Set("description", "").
		Attach("image", &api.File{Name: "poster.png", Data: png})

	var created struct {
		ID       int64  `json:"id"`
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, env.Client.PostMultipart(ctx, backendfake.RouteEvents, form, &created))
	require.NotZero(t, created.ID)
	require.Contains(t, created.ImageURL, "poster.png")
	require.Equal(t, "image/png", env.Fake.EventImageContentType(created.ID))

	reqs := env.Fake.Requests()
	require.Contains(t, reqs[len(reqs)-1].ContentType, "multipart/form-data")
}
