package backendfake

import (
	"net/http"
	"strconv"
	"strings"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type roleRequest struct {
	Name string `json:"name"`
}

type bookingRequest struct {
	EventID         int64 `json:"eventId"`
	UserID          int64 `json:"userId"`
	NumberOfTickets int   `json:"numberOfTickets"`
}

func (s *Server) notFound(w http.ResponseWriter, what string) {
	writeMessage(w, http.StatusNotFound, what+" not found")
}

// Categories

func (s *Server) ListCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.store.Categories())
	}
}

func (s *Server) GetCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		c, err := s.store.Category(id)
		if err != nil {
			s.notFound(w, "Category")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func (s *Server) SaveCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := decodeJSON(r, &req); err != nil {
			writeErrors(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeFieldErrors(w, map[string]string{"name": "must not be blank"})
			return
		}

		status := http.StatusCreated
		id, hasID := pathID(r, "id")
		if hasID {
			if _, err := s.store.Category(id); err != nil {
				s.notFound(w, "Category")
				return
			}
			status = http.StatusOK
		}
		writeJSON(w, status, s.store.UpsertCategory(Category{ID: id, Name: req.Name, Description: req.Description}))
	}
}

func (s *Server) DeleteCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		if err := s.store.DeleteCategory(id); err != nil {
			s.notFound(w, "Category")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Events

func (s *Server) ListEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, paginate(r, s.store.Events(nil)))
	}
}

func (s *Server) EventsByOrganizerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		events := s.store.Events(func(e *Event) bool { return e.Organiser.ID == id })
		writeJSON(w, http.StatusOK, paginate(r, events))
	}
}

func (s *Server) SearchEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := strings.ToLower(r.PathValue("title"))
		events := s.store.Events(func(e *Event) bool { return strings.Contains(strings.ToLower(e.Title), title) })
		writeJSON(w, http.StatusOK, paginate(r, events))
	}
}

func (s *Server) GetEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		e, err := s.store.Event(id)
		if err != nil {
			s.notFound(w, "Event")
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// SaveEventHandler accepts the multipart form used for create and update.
func (s *Server) SaveEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			writeErrors(w, http.StatusBadRequest, "Expected multipart form data")
			return
		}

		var existing *Event
		id, hasID := pathID(r, "id")
		if hasID {
			e, err := s.store.Event(id)
			if err != nil {
				s.notFound(w, "Event")
				return
			}
			existing = e
		}

		e := Event{ID: id, BookingType: "AUTOMATIC"}
		if existing != nil {
			e = *existing
		}

		fields := map[string]string{}
		if v := r.FormValue("title"); v != "" {
			e.Title = v
		} else if existing == nil {
			fields["title"] = "must not be blank"
		}
		if v := r.FormValue("description"); v != "" {
			e.Description = v
		}
		if v := r.FormValue("location"); v != "" {
			e.Location = v
		}
		if v := r.FormValue("date"); v != "" {
			e.Date = v
		}
		if v := r.FormValue("bookingType"); v != "" {
			e.BookingType = v
		}
		if v := r.FormValue("numberOfSeats"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				fields["numberOfSeats"] = "must be greater than 0"
			}
			e.NumberOfSeats = n
		}
		if v := r.FormValue("price"); v != "" {
			p, err := strconv.ParseFloat(v, 64)
			if err != nil || p < 0 {
				fields["price"] = "must not be negative"
			}
			e.Price = p
		}
		if v := r.FormValue("categoryId"); v != "" {
			cid, _ := strconv.ParseInt(v, 10, 64)
			c, err := s.store.Category(cid)
			if err != nil {
				fields["categoryId"] = "unknown category"
			} else {
				e.Category = NestedCategory{ID: c.ID, Name: c.Name, Slug: c.Slug}
			}
		}

		organizerID := userIDFrom(r)
		if v := r.FormValue("userId"); v != "" {
			organizerID, _ = strconv.ParseInt(v, 10, 64)
		}
		if existing == nil || r.FormValue("userId") != "" {
			u, err := s.users.GetByID(organizerID)
			if err != nil {
				fields["userId"] = "unknown user"
			} else {
				e.Organiser = nestedUser(u)
			}
		}

		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}

		if file, header, err := r.FormFile("image"); err == nil {
			_ = file.Close()
			e.ImageURL = "https://images.example.test/" + header.Filename
			e.ImageContentType = header.Header.Get("Content-Type")
		}

		status := http.StatusCreated
		if existing != nil {
			status = http.StatusOK
		}
		writeJSON(w, status, s.store.UpsertEvent(e))
	}
}

func (s *Server) DeleteEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		if err := s.store.DeleteEvent(id); err != nil {
			s.notFound(w, "Event")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) SetBookingTypeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		bookingType := strings.ToUpper(r.PathValue("bookingType"))
		if bookingType != "AUTOMATIC" && bookingType != "MANUAL" {
			writeFieldErrors(w, map[string]string{"bookingType": "must be AUTOMATIC or MANUAL"})
			return
		}
		if _, err := s.store.MutateEvent(id, func(e *Event) { e.BookingType = bookingType }); err != nil {
			s.notFound(w, "Event")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) ToggleEventStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		if _, err := s.store.MutateEvent(id, func(e *Event) { e.IsVerified = !e.IsVerified }); err != nil {
			s.notFound(w, "Event")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// EventImageContentType reports the content type the client sent for an event's image.
func (s *Server) EventImageContentType(id int64) string {
	e, err := s.store.Event(id)
	if err != nil {
		return ""
	}
	return e.ImageContentType
}

// Users and roles

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.users.List())
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		u, err := s.users.GetByID(id)
		if err != nil {
			s.notFound(w, "User")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		var req updateUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeErrors(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if _, err := s.users.GetByID(id); err != nil {
			s.notFound(w, "User")
			return
		}
		u, err := s.users.Update(id, req.FirstName, req.LastName, req.Email, req.RoleID)
		if err != nil {
			writeFieldErrors(w, map[string]string{"user": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		if err := s.users.Delete(id); err != nil {
			s.notFound(w, "User")
			return
		}
		s.refresh.RevokeUser(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListRolesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.users.Roles())
	}
}

func (s *Server) GetRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		role, err := s.users.Role(id)
		if err != nil {
			s.notFound(w, "Role")
			return
		}
		writeJSON(w, http.StatusOK, role)
	}
}

func (s *Server) SaveRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
			writeFieldErrors(w, map[string]string{"name": "must not be blank"})
			return
		}

		status := http.StatusCreated
		id, hasID := pathID(r, "id")
		if hasID {
			if _, err := s.users.Role(id); err != nil {
				s.notFound(w, "Role")
				return
			}
			status = http.StatusOK
		}
		writeJSON(w, status, s.users.UpsertRole(id, req.Name))
	}
}

func (s *Server) DeleteRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		if err := s.users.DeleteRole(id); err != nil {
			s.notFound(w, "Role")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Bookings

func (s *Server) CreateBookingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookingRequest
		if err := decodeJSON(r, &req); err != nil {
			writeErrors(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		e, err := s.store.Event(req.EventID)
		if err != nil {
			s.notFound(w, "Event")
			return
		}
		userID := req.UserID
		if userID == 0 {
			userID = userIDFrom(r)
		}
		u, err := s.users.GetByID(userID)
		if err != nil {
			s.notFound(w, "User")
			return
		}
		b, err := s.store.CreateBooking(e, u, req.NumberOfTickets)
		if err != nil {
			writeFieldErrors(w, map[string]string{"numberOfTickets": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

func (s *Server) GetBookingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		b, err := s.store.Booking(id)
		if err != nil {
			s.notFound(w, "Booking")
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func (s *Server) BookingsByUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		writeJSON(w, http.StatusOK, paginate(r, s.store.Bookings(func(b *Booking) bool { return b.User.ID == id })))
	}
}

func (s *Server) BookingsByEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		writeJSON(w, http.StatusOK, paginate(r, s.store.Bookings(func(b *Booking) bool { return b.Event.ID == id })))
	}
}

func (s *Server) UpdateBookingStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		status := strings.ToUpper(r.URL.Query().Get("status"))
		switch status {
		case "PENDING", "CONFIRMED", "REJECTED", "CANCELLED":
		default:
			writeFieldErrors(w, map[string]string{"status": "unknown booking status"})
			return
		}
		b, err := s.store.SetBookingStatus(id, status)
		if err != nil {
			s.notFound(w, "Booking")
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func (s *Server) CancelBookingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		if _, err := s.store.SetBookingStatus(id, "CANCELLED"); err != nil {
			s.notFound(w, "Booking")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
