package events_test

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/categories"
	"github.com/jrsteele09/go-events-client/events"
	"github.com/jrsteele09/go-events-client/internal/backendfake"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/internal/paging"
	"github.com/jrsteele09/go-events-client/internal/validation"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testFixture struct {
	env        *backendfake.Env
	svc        *events.Service
	categoryID int64
}

func setupTestFixture(t *testing.T, roleID int64) *testFixture {
	t.Helper()
	env := backendfake.Start(t, nil)
	ctx := context.Background()

	env.Login(t, backendfake.RoleIDAdmin)
	c, err := categories.NewService(env.Client).Create(ctx, categories.Request{Name: "Theatre"})
	require.NoError(t, err)

	if roleID != backendfake.RoleIDAdmin {
		require.NoError(t, env.Session.Teardown(ctx, "switch user"))
		env.Login(t, roleID)
	}
	env.Fake.Reset()

	return &testFixture{env: env, svc: events.NewService(env.Client), categoryID: c.ID}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(t *testing.T, s string) int64 {
	t.Helper()
	id, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)
	return id
}

func (f *testFixture) request(title string) events.Request {
	return events.Request{
		Title:         title,
		Description:   "An evening of something worth seeing",
		NumberOfSeats: 50,
		Price:         12.5,
		Date:          "2026-11-20T19:30:00",
		Location:      "Town Hall",
		BookingType:   events.BookingAutomatic,
		CategoryID:    f.categoryID,
	}
}

func TestCreateWithImage(t *testing.T) {
	f := setupTestFixture(t, backendfake.RoleIDOrganizer)
	ctx := context.Background()

	req := f.request("Hamlet")
	req.Image = &api.File{Name: "poster.png", Data: pngBytes}

	e, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "hamlet", e.Slug)
	require.Equal(t, 50, e.NumberOfSeats)
	require.Equal(t, 12.5, e.Price)
	require.Equal(t, "Theatre", e.Category.Name)
	require.Equal(t, f.env.Session.Current().UserID, formatID(e.Organiser.ID))
	require.Contains(t, e.ImageURL, "poster.png")
	require.Equal(t, "image/png", f.env.Fake.EventImageContentType(e.ID))

	reqs := f.env.Fake.Requests()
	require.Len(t, reqs, 1)
	require.Contains(t, reqs[0].ContentType, "multipart/form-data")
}

func TestCreate_Validation(t *testing.T) {
	f := setupTestFixture(t, backendfake.RoleIDOrganizer)

	req := f.request("Hi")
	req.Date = "next tuesday"
	req.BookingType = "SOMETIMES"
	req.Image = &api.File{Name: "notes.txt", Data: []byte("plain text, not an image")}

	_, err := f.svc.Create(context.Background(), req)
	var fields validation.Errors
	require.True(t, errors.As(err, &fields))
	require.Contains(t, fields, "title")
	require.Contains(t, fields, "date")
	require.Contains(t, fields, "bookingType")
	require.Contains(t, fields, "image")
	require.True(t, errors.Is(err, errors.ErrValidation))
	require.Empty(t, f.env.Fake.Requests())
}

func TestUserCannotCreate(t *testing.T) {
	f := setupTestFixture(t, backendfake.RoleIDUser)

	_, err := f.svc.Create(context.Background(), f.request("Macbeth"))
	require.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestListSearchAndOrganizer(t *testing.T) {
	f := setupTestFixture(t, backendfake.RoleIDOrganizer)
	ctx := context.Background()

	for _, title := range []string{"Hamlet", "Macbeth", "Othello", "Hamlet Revisited"} {
		_, err := f.svc.Create(ctx, f.request(title))
		require.NoError(t, err)
	}

	page, err := f.svc.List(ctx, paging.Params{PageNum: 0, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, page.Content, 3)
	require.Equal(t, 4, page.TotalElements)
	require.Equal(t, 2, page.TotalPages)
	require.True(t, page.HasNext())

	page, err = f.svc.List(ctx, page.NextParams())
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	require.True(t, page.Last)

	found, err := f.svc.SearchByTitle(ctx, "hamlet", paging.First())
	require.NoError(t, err)
	require.Len(t, found.Content, 2)

	organizerID := f.env.Session.Current().UserID
	mine, err := f.svc.ByOrganizer(ctx, parseID(t, organizerID), paging.First())
	require.NoError(t, err)
	require.Equal(t, 4, mine.TotalElements)
}

func TestUpdateModeToggleDelete(t *testing.T) {
	f := setupTestFixture(t, backendfake.RoleIDAdmin)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, f.request("Hamlet"))
	require.NoError(t, err)
	require.False(t, e.IsVerified)

	req := f.request("Hamlet, Prince of Denmark")
	req.NumberOfSeats = 80
	updated, err := f.svc.Update(ctx, e.ID, req)
	require.NoError(t, err)
	require.Equal(t, 80, updated.NumberOfSeats)
	require.Equal(t, "Hamlet, Prince of Denmark", updated.Title)

	require.NoError(t, f.svc.SetReservationApprovalMode(ctx, e.ID, events.BookingManual))
	require.NoError(t, f.svc.ToggleValidationStatus(ctx, e.ID))

	got, err := f.svc.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, events.BookingManual, got.BookingType)
	require.True(t, got.IsVerified)
	require.Equal(t, 1, f.env.Fake.Count(http.MethodGet, fmt.Sprintf("/v1/events/status/toggle/%d", e.ID)))

	require.Error(t, f.svc.SetReservationApprovalMode(ctx, e.ID, "SOMETIMES"))

	require.NoError(t, f.svc.Delete(ctx, e.ID))
	_, err = f.svc.Get(ctx, e.ID)
	require.True(t, errors.Is(err, errors.ErrNotFound))
}
