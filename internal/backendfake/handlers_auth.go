package backendfake

import (
	"net/http"
	"time"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	RoleID    int64  `json:"roleId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authenticationResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	RoleID    int64  `json:"roleId"`
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeErrors(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		fields := map[string]string{}
		if req.Email == "" {
			fields["email"] = "must not be blank"
		}
		if len(req.Password) < 8 {
			fields["password"] = "size must be between 8 and 64"
		}
		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}

		u, err := s.users.Create(req.FirstName, req.LastName, req.Email, req.Password, req.RoleID)
		if err != nil {
			writeFieldErrors(w, map[string]string{"email": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeErrors(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		u, err := s.users.GetByEmail(req.Email)
		if err != nil || !checkPasswordHash(req.Password, u.PasswordHash) {
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		pair, err := s.issue(u)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, authenticationResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken, User: u})
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.refreshDelay > 0 {
			time.Sleep(s.refreshDelay)
		}

		s.lock.Lock()
		reject := s.rejectRefresh
		s.lock.Unlock()
		if reject {
			writeMessage(w, http.StatusUnauthorized, "Refresh token rejected")
			return
		}

		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
			writeErrors(w, http.StatusBadRequest, "refreshToken is required")
			return
		}

		userID, err := s.refresh.Consume(req.RefreshToken)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		u, err := s.users.GetByID(userID)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Unknown user")
			return
		}

		pair, err := s.issue(u)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, authenticationResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken})
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			writeErrors(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		u, err := s.users.GetByID(userIDFrom(r))
		if err != nil {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		if !checkPasswordHash(req.OldPassword, u.PasswordHash) {
			writeFieldErrors(w, map[string]string{"oldPassword": "does not match"})
			return
		}
		if err := s.users.SetPassword(u.ID, req.NewPassword); err != nil {
			writeMessage(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := s.users.GetByID(userIDFrom(r))
		if err != nil {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeErrors(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		// Users cannot change their own role.
		u, err := s.users.Update(userIDFrom(r), req.FirstName, req.LastName, req.Email, 0)
		if err != nil {
			writeFieldErrors(w, map[string]string{"email": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func (s *Server) DeleteAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := userIDFrom(r)
		if err := s.users.Delete(id); err != nil {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		s.refresh.RevokeUser(id)
		w.WriteHeader(http.StatusNoContent)
	}
}
