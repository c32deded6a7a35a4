package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/internal/utils"
)

// Claims is the identity and authorization data carried in an access token.
// The backend has issued two payload shapes over time:
//
//	nested: {"id": {"value": "42"}, "name": {"firstName": "Ada", "lastName": "Lovelace"}, "authorities": ["ROLE_ADMIN"]}
//	flat:   {"sub": "42", "firstName": "Ada", "lastName": "Lovelace", "role": {"name": "ROLE_ADMIN"}}
//
// Decode accepts both.
type Claims struct {
	Subject     string    `json:"sub"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	Role        string    `json:"role,omitempty"`
	Authorities []string  `json:"authorities,omitempty"`
	ExpiresAt   time.Time `json:"exp,omitempty"`
	IssuedAt    time.Time `json:"iat,omitempty"`
}

// FullName joins first and last name, or returns "" when either is missing.
func (c *Claims) FullName() string {
	if c.FirstName == "" || c.LastName == "" {
		return ""
	}
	return c.FirstName + " " + c.LastName
}

// Expired reports whether the exp claim has passed. Tokens without exp never expire client-side.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}

// Decode extracts claims from a JWT without verifying its signature.
// Verification is the backend's job; the client only needs the payload.
func Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.ErrInvalidToken
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token.Decode: %s", err.Error())
	}

	mc, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token.Decode: unexpected claims type %T", parsed.Claims)
	}

	return fromMapClaims(mc), nil
}

// DecodeOrNil is Decode for callers that treat any failure as "no identity".
func DecodeOrNil(raw string) *Claims {
	c, err := Decode(raw)
	if err != nil {
		return nil
	}
	return c
}

func fromMapClaims(mc jwtlib.MapClaims) *Claims {
	c := &Claims{}

	c.Subject = subjectFrom(mc)
	c.Email, _ = mc["email"].(string)
	c.FirstName, c.LastName = namesFrom(mc)
	c.Role = roleFrom(mc)
	c.Authorities = authoritiesFrom(mc)

	if c.Role == "" && len(c.Authorities) > 0 {
		c.Role = c.Authorities[0]
	}
	if len(c.Authorities) == 0 && c.Role != "" {
		c.Authorities = []string{c.Role}
	}

	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	return c
}

func subjectFrom(mc jwtlib.MapClaims) string {
	switch id := mc["id"].(type) {
	case map[string]any:
		if v := utils.ToIDString(id["value"]); v != "" {
			return v
		}
	case string, float64:
		if v := utils.ToIDString(id); v != "" {
			return v
		}
	}
	sub, _ := mc["sub"].(string)
	return sub
}

func namesFrom(mc jwtlib.MapClaims) (string, string) {
	switch name := mc["name"].(type) {
	case map[string]any:
		first, _ := name["firstName"].(string)
		last, _ := name["lastName"].(string)
		return first, last
	case string:
		if _, hasFirst := mc["firstName"]; !hasFirst {
			first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
			return first, strings.TrimSpace(last)
		}
	}
	first, _ := mc["firstName"].(string)
	last, _ := mc["lastName"].(string)
	return first, last
}

func roleFrom(mc jwtlib.MapClaims) string {
	switch role := mc["role"].(type) {
	case map[string]any:
		name, _ := role["name"].(string)
		return name
	case string:
		return role
	}
	return ""
}

func authoritiesFrom(mc jwtlib.MapClaims) []string {
	for _, key := range []string{"authorities", "roles"} {
		if list, ok := mc[key].([]any); ok {
			if out := utils.ToStringSlice(list); len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func (c *Claims) String() string {
	return fmt.Sprintf("sub=%s email=%s role=%s", c.Subject, c.Email, c.Role)
}
