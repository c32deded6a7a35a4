package backendfake

// Route path constants
const (
	// Auth Routes
	RouteAuth           = "/auth"
	RouteAuthLogin      = "/auth/login"
	RouteAuthRegister   = "/auth/register"
	RouteAuthRefresh    = "/auth/refresh"
	RouteAuthMe         = "/auth/me"
	RouteChangePassword = "/auth/change-password"

	// Resource Routes
	RouteCategories = "/v1/categories"
	RouteEvents     = "/v1/events"
	RouteUsers      = "/v1/users"
	RouteRoles      = "/v1/roles"
	RouteBookings   = "/v1/bookings"
)
