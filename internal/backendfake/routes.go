package backendfake

import "net/http"

func (s *Server) initRoutes() {
	staff := []func(http.HandlerFunc) http.HandlerFunc{s.RequireAuth(), s.RequireRole("ADMIN", "ORGANIZER")}
	admin := []func(http.HandlerFunc) http.HandlerFunc{s.RequireAuth(), s.RequireRole("ADMIN")}
	authed := []func(http.HandlerFunc) http.HandlerFunc{s.RequireAuth()}

	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteChangePassword, ChainMiddleware(s.ChangePasswordHandler(), s.APIMiddleware(authed...)...))
	s.RegisterRouteFunc("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(authed...)...))
	s.RegisterRouteFunc("PUT "+RouteAuth, ChainMiddleware(s.UpdateProfileHandler(), s.APIMiddleware(authed...)...))
	s.RegisterRouteFunc("DELETE "+RouteAuth, ChainMiddleware(s.DeleteAccountHandler(), s.APIMiddleware(authed...)...))

	// CATEGORIES
	s.RegisterRouteFunc("GET "+RouteCategories, ChainMiddleware(s.ListCategoriesHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteCategories+"/{id}", ChainMiddleware(s.GetCategoryHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteCategories, ChainMiddleware(s.SaveCategoryHandler(), s.APIMiddleware(admin...)...))
	s.RegisterRouteFunc("PUT "+RouteCategories+"/{id}", ChainMiddleware(s.SaveCategoryHandler(), s.APIMiddleware(admin...)...))
	s.RegisterRouteFunc("DELETE "+RouteCategories+"/{id}", ChainMiddleware(s.DeleteCategoryHandler(), s.APIMiddleware(admin...)...))

	// EVENTS
	s.RegisterRouteFunc("GET "+RouteEvents, ChainMiddleware(s.ListEventsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteEvents+"/{id}", ChainMiddleware(s.GetEventHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteEvents+"/organizer/{id}", ChainMiddleware(s.EventsByOrganizerHandler(), s.APIMiddleware(staff...)...))
	s.RegisterRouteFunc("GET "+RouteEvents+"/search/{title}", ChainMiddleware(s.SearchEventsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteEvents, ChainMiddleware(s.SaveEventHandler(), s.APIMiddleware(staff...)...))
	s.RegisterRouteFunc("PUT "+RouteEvents+"/{id}", ChainMiddleware(s.SaveEventHandler(), s.APIMiddleware(staff...)...))
	s.RegisterRouteFunc("DELETE "+RouteEvents+"/{id}", ChainMiddleware(s.DeleteEventHandler(), s.APIMiddleware(staff...)...))
	s.RegisterRouteFunc("GET "+RouteEvents+"/{id}/{bookingType}", ChainMiddleware(s.SetBookingTypeHandler(), s.APIMiddleware(staff...)...))
	s.RegisterRouteFunc("GET "+RouteEvents+"/status/toggle/{id}", ChainMiddleware(s.ToggleEventStatusHandler(), s.APIMiddleware(admin...)...))

	// USERS & ROLES
	s.RegisterRouteFunc("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), s.APIMiddleware(admin...)...))
	s.RegisterRouteFunc("GET "+RouteUsers+"/{id}", ChainMiddleware(s.GetUserHandler(), s.APIMiddleware(authed...)...))
	s.RegisterRouteFunc("PUT "+RouteUsers+"/{id}", ChainMiddleware(s.UpdateUserHandler(), s.APIMiddleware(admin...)...))
	s.RegisterRouteFunc("DELETE "+RouteUsers+"/{id}", ChainMiddleware(s.DeleteUserHandler(), s.APIMiddleware(admin...)...))
	s.RegisterRouteFunc("GET "+RouteRoles, ChainMiddleware(s.ListRolesHandler(), s.APIMiddleware(authed...)...))
	s.RegisterRouteFunc("GET "+RouteRoles+"/{id}", ChainMiddleware(s.GetRoleHandler(), s.APIMiddleware(authed...)...))
	s.RegisterRouteFunc("POST "+RouteRoles, ChainMiddleware(s.SaveRoleHandler(), s.APIMiddleware(admin...)...))
	s.RegisterRouteFunc("PUT "+RouteRoles+"/{id}", ChainMiddleware(s.SaveRoleHandler(), s.APIMiddleware(admin...)...))
	s.RegisterRouteFunc("DELETE "+RouteRoles+"/{id}", ChainMiddleware(s.DeleteRoleHandler(), s.APIMiddleware(admin...)...))

	// BOOKINGS
	s.RegisterRouteFunc("POST "+RouteBookings, ChainMiddleware(s.CreateBookingHandler(), s.APIMiddleware(authed...)...))
	s.RegisterRouteFunc("GET "+RouteBookings+"/{id}", ChainMiddleware(s.GetBookingHandler(), s.APIMiddleware(authed...)...))
	s.RegisterRouteFunc("GET "+RouteBookings+"/user/{id}", ChainMiddleware(s.BookingsByUserHandler(), s.APIMiddleware(authed...)...))
	s.RegisterRouteFunc("GET "+RouteBookings+"/event/{id}", ChainMiddleware(s.BookingsByEventHandler(), s.APIMiddleware(staff...)...))
	s.RegisterRouteFunc("PATCH "+RouteBookings+"/{id}/status", ChainMiddleware(s.UpdateBookingStatusHandler(), s.APIMiddleware(staff...)...))
	s.RegisterRouteFunc("DELETE "+RouteBookings+"/{id}", ChainMiddleware(s.CancelBookingHandler(), s.APIMiddleware(authed...)...))
}
