package users_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/internal/backendfake"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/users"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	env := backendfake.Start(t, nil)
	ctx := context.Background()
	admin := env.Login(t, backendfake.RoleIDAdmin)
	other := env.NewUser(t, backendfake.RoleIDUser)

	svc := users.NewService(env.Client)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, admin.ID, list[0].ID)

	u, err := svc.Get(ctx, other.ID)
	require.NoError(t, err)
	require.Equal(t, other.Email, u.Email)
	require.Equal(t, "USER", u.RoleName())
	require.Equal(t, users.StatusActive, u.Status)

	u, err = svc.Update(ctx, other.ID, users.UpdateRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		RoleID:    backendfake.RoleIDOrganizer,
	})
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", u.FullName())
	require.Equal(t, "ORGANIZER", u.RoleName())

	require.NoError(t, svc.Delete(ctx, other.ID))

	_, err = svc.Get(ctx, other.ID)
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestUserService_ValidatesBeforeSending(t *testing.T) {
	env := backendfake.Start(t, nil)
	env.Login(t, backendfake.RoleIDAdmin)

	_, err := users.NewService(env.Client).Update(context.Background(), 1, users.UpdateRequest{Email: "bad"})
	require.True(t, errors.Is(err, errors.ErrValidation))
	require.Equal(t, 0, env.Fake.Count(http.MethodPut, "/v1/users/1"))
}

func TestUserService_Forbidden(t *testing.T) {
	env := backendfake.Start(t, nil)
	env.Login(t, backendfake.RoleIDUser)

	_, err := users.NewService(env.Client).List(context.Background())
	require.True(t, errors.Is(err, errors.ErrForbidden))

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.True(t, env.Session.IsAuthenticated())
}

func TestRoleService(t *testing.T) {
	env := backendfake.Start(t, nil)
	ctx := context.Background()
	env.Login(t, backendfake.RoleIDAdmin)

	svc := users.NewRoleService(env.Client)

	roles, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 3)

	created, err := svc.Create(ctx, users.RoleRequest{Name: "MODERATOR"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	updated, err := svc.Update(ctx, created.ID, users.RoleRequest{Name: "REVIEWER"})
	require.NoError(t, err)
	require.Equal(t, "REVIEWER", updated.Name)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "REVIEWER", got.Name)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = svc.Create(ctx, users.RoleRequest{})
	require.True(t, errors.Is(err, errors.ErrValidation))
}
