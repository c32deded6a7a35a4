package sessions

import (
	"strings"

	"github.com/jrsteele09/go-events-client/internal/utils"
	"github.com/jrsteele09/go-events-client/token"
)

// Roles issued by the backend, without the ROLE_ prefix some tokens carry.
const (
	RoleAdmin     = "ADMIN"
	RoleOrganizer = "ORGANIZER"
	RoleUser      = "USER"
)

// Session is the identity snapshot of the logged in user. It is persisted
// under storage.KeyUserData so that it survives process restarts.
type Session struct {
	UserID         string   `json:"userId"`
	Email          string   `json:"email,omitempty"`
	FirstName      string   `json:"firstName,omitempty"`
	LastName       string   `json:"lastName,omitempty"`
	DisplayName    string   `json:"displayName,omitempty"`
	Role           string   `json:"role,omitempty"`
	Authorities    []string `json:"authorities,omitempty"`
	HasAccessToken bool     `json:"-"`
}

// Profile is the mutable part of a session.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// NormalizeRole strips the ROLE_ prefix and upper-cases a role name.
func NormalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	return strings.TrimPrefix(role, "ROLE_")
}

// FromClaims derives a session from decoded token claims.
func FromClaims(c *token.Claims) *Session {
	if c == nil {
		return nil
	}
	s := &Session{
		UserID:      c.Subject,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Role:        NormalizeRole(c.Role),
		Authorities: append([]string(nil), c.Authorities...),
	}
	s.DisplayName = s.displayName()
	return s
}

func (s *Session) displayName() string {
	return utils.FirstNonEmpty(strings.TrimSpace(s.FirstName+" "+s.LastName), s.Email, s.UserID)
}

// HasRole reports whether the session's role, or any of its authorities, matches one of roles.
func (s *Session) HasRole(roles ...string) bool {
	if s == nil {
		return false
	}
	for _, want := range roles {
		want = NormalizeRole(want)
		if want == "" {
			continue
		}
		if s.Role == want {
			return true
		}
		for _, a := range s.Authorities {
			if NormalizeRole(a) == want {
				return true
			}
		}
	}
	return false
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Authorities = append([]string(nil), s.Authorities...)
	return &c
}
