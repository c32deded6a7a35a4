package token

import (
	"time"

	"github.com/jrsteele09/go-events-client/internal/errors"
	"golang.org/x/oauth2"
)

// Pair is the credential pair returned by POST /auth/login and POST /auth/refresh.
// The JSON field names are the backend contract: {"token": "...", "refreshToken": "..."}.
type Pair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Validate checks that the backend actually returned both halves of the pair.
func (p Pair) Validate() error {
	if p.AccessToken == "" {
		return errors.Wrapf(errors.ErrInvalidToken, "missing access token")
	}
	if p.RefreshToken == "" {
		return errors.Wrapf(errors.ErrInvalidToken, "missing refresh token")
	}
	return nil
}

// OAuth2 converts the pair into a bearer token whose expiry comes from the access token's exp claim.
func (p Pair) OAuth2() *oauth2.Token {
	t := &oauth2.Token{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
	}
	if c := DecodeOrNil(p.AccessToken); c != nil {
		t.Expiry = c.ExpiresAt
	}
	return t
}

// NewPair builds a pair from the two raw tokens.
func NewPair(access, refresh string) Pair {
	return Pair{AccessToken: access, RefreshToken: refresh}
}

// Expired reports whether the access token's exp claim has passed.
// An undecodable access token counts as expired.
func (p Pair) Expired(now time.Time) bool {
	c := DecodeOrNil(p.AccessToken)
	if c == nil {
		return true
	}
	return c.Expired(now)
}
