package guard

import "github.com/jrsteele09/go-events-client/sessions"

// Route declares how a view is protected. Children inherit Protected and Roles
// from their parent; a child that declares its own Roles replaces the parent's.
type Route struct {
	Path string
	// Public routes are always reachable, even below a protected parent.
	Public    bool
	Protected bool
	Roles     []string
	Children  []Route
}

// Well known view paths.
const (
	PathHome         = "/"
	PathLogin        = "/login"
	PathUnauthorized = "/unauthorized"
	PathNotFound     = "/not-found"
	PathDashboard    = "/dashboard"
)

// DefaultRoutes is the client's route table.
func DefaultRoutes() []Route {
	return []Route{
		{
			Path: "/",
			Children: []Route{
				{Path: "/"},
				{Path: "/events"},
				{Path: "/events/:id"},
				{Path: "/home"},
			},
		},
		{Path: PathLogin, Public: true},
		{Path: "/register", Public: true},
		{Path: "/registration-success", Public: true},
		{Path: PathUnauthorized},
		{Path: PathNotFound},

		{Path: "/profile", Protected: true},
		{Path: "/change-password", Protected: true},

		{
			Path:      PathDashboard,
			Protected: true,
			Roles:     []string{sessions.RoleAdmin, sessions.RoleOrganizer},
			Children: []Route{
				{Path: PathDashboard},
				{Path: "/dashboard/categories"},
				{Path: "/dashboard/events"},
				{Path: "/dashboard/users", Roles: []string{sessions.RoleAdmin}},
			},
		},
	}
}
