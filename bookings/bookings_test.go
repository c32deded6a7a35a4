package bookings_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/jrsteele09/go-events-client/bookings"
	"github.com/jrsteele09/go-events-client/categories"
	"github.com/jrsteele09/go-events-client/events"
	"github.com/jrsteele09/go-events-client/internal/backendfake"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/internal/paging"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	env     *backendfake.Env
	svc     *bookings.Service
	eventID int64
	userID  int64
}

// setupTestFixture creates an event as an organizer and then signs in as a plain user.
func setupTestFixture(t *testing.T, mode events.BookingType, seats int) *testFixture {
	t.Helper()
	env := backendfake.Start(t, nil)
	ctx := context.Background()

	env.Login(t, backendfake.RoleIDAdmin)
	c, err := categories.NewService(env.Client).Create(ctx, categories.Request{Name: "Concerts"})
	require.NoError(t, err)
	e, err := events.NewService(env.Client).Create(ctx, events.Request{
		Title:         "Symphony No. 9",
		Description:   "Beethoven in the park",
		NumberOfSeats: seats,
		Price:         20,
		Date:          "2026-12-01",
		Location:      "Riverside",
		BookingType:   mode,
		CategoryID:    c.ID,
	})
	require.NoError(t, err)
	require.NoError(t, env.Session.Teardown(ctx, "switch user"))

	u := env.Login(t, backendfake.RoleIDUser)
	return &testFixture{env: env, svc: bookings.NewService(env.Client), eventID: e.ID, userID: u.ID}
}

func TestCreateAndGet(t *testing.T) {
	f := setupTestFixture(t, events.BookingAutomatic, 10)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, bookings.Request{EventID: f.eventID, NumberOfTickets: 3})
	require.NoError(t, err)
	require.Equal(t, bookings.StatusConfirmed, b.Status)
	require.Equal(t, 60.0, b.TotalPrice)
	require.Equal(t, f.userID, b.User.ID)
	require.Equal(t, "Symphony No. 9", b.Event.Title)

	got, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)
}

func TestCreate_ManualApprovalIsPending(t *testing.T) {
	f := setupTestFixture(t, events.BookingManual, 10)

	b, err := f.svc.Create(context.Background(), bookings.Request{EventID: f.eventID, NumberOfTickets: 1})
	require.NoError(t, err)
	require.Equal(t, bookings.StatusPending, b.Status)
}

func TestCreate_Validation(t *testing.T) {
	f := setupTestFixture(t, events.BookingAutomatic, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, bookings.Request{EventID: f.eventID})
	require.True(t, errors.Is(err, errors.ErrValidation))
	require.Equal(t, 0, f.env.Fake.Count(http.MethodPost, "/v1/bookings"))

	_, err = f.svc.Create(ctx, bookings.Request{EventID: f.eventID, NumberOfTickets: 11})
	require.True(t, errors.Is(err, errors.ErrValidation))
	require.Contains(t, err.Error(), "numberOfTickets: only 10 seats left")
}

func TestByUserPaged(t *testing.T) {
	f := setupTestFixture(t, events.BookingAutomatic, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, bookings.Request{EventID: f.eventID, NumberOfTickets: 1})
		require.NoError(t, err)
	}

	page, err := f.svc.ByUser(ctx, f.userID, paging.Params{PageNum: 0, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	require.Equal(t, 3, page.TotalElements)
	require.True(t, page.First)

	req := f.env.Fake.Requests()
	last := req[len(req)-1]
	require.Equal(t, "/v1/bookings/user/"+strconv.FormatInt(f.userID, 10), last.Path)
}

func TestStatusByStaff(t *testing.T) {
	f := setupTestFixture(t, events.BookingManual, 10)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, bookings.Request{EventID: f.eventID, NumberOfTickets: 2})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, b.ID, bookings.StatusConfirmed)
	require.True(t, errors.Is(err, errors.ErrForbidden))

	require.NoError(t, f.env.Session.Teardown(ctx, "switch user"))
	f.env.Login(t, backendfake.RoleIDOrganizer)

	updated, err := f.svc.UpdateStatus(ctx, b.ID, bookings.StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, bookings.StatusConfirmed, updated.Status)

	_, err = f.svc.UpdateStatus(ctx, b.ID, "MAYBE")
	require.True(t, errors.Is(err, errors.ErrValidation))

	page, err := f.svc.ByEvent(ctx, f.eventID, paging.First())
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
}

func TestCancel(t *testing.T) {
	f := setupTestFixture(t, events.BookingAutomatic, 2)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, bookings.Request{EventID: f.eventID, NumberOfTickets: 2})
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, b.ID))

	got, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, bookings.StatusCancelled, got.Status)

	_, err = f.svc.Create(ctx, bookings.Request{EventID: f.eventID, NumberOfTickets: 2})
	require.NoError(t, err)
}
