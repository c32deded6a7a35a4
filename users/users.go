package users

import (
	"strings"
	"time"

	"github.com/jrsteele09/go-events-client/sessions"
)

// Status of a user account as reported by the backend.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusDeleted   Status = "DELETED"
)

// Role is the nested role carried on a user.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Status    Status    `json:"status,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// RoleName is the normalized role name, e.g. ADMIN for ROLE_ADMIN.
func (u *User) RoleName() string {
	return sessions.NormalizeRole(u.Role.Name)
}

// Profile converts the user into the fields a session tracks.
func (u *User) Profile() sessions.Profile {
	return sessions.Profile{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role.Name,
	}
}

// UpdateRequest is the body of a user update. RoleID zero leaves the role unchanged.
type UpdateRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	RoleID    int64  `json:"roleId,omitempty" validate:"gte=0"`
}

// RoleRequest is the body of a role create or update.
type RoleRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}
