package token_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/token"
	"github.com/stretchr/testify/require"
)

const secretStr = "1234"

func testClaims() token.Claims {
	now := time.Now().Truncate(time.Second)
	return token.Claims{
		Subject:     "42",
		Email:       "ada@example.com",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Role:        "ROLE_ADMIN",
		Authorities: []string{"ROLE_ADMIN"},
		IssuedAt:    now,
		ExpiresAt:   now.Add(15 * time.Minute),
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	signer := token.NewHMACSigner(secretStr)

	for name, shape := range map[string]token.Shape{
		"nested": token.ShapeNested,
		"flat":   token.ShapeFlat,
	} {
		t.Run(name, func(t *testing.T) {
			want := testClaims()
			raw, err := token.Encode(want, shape, signer)
			require.NoError(t, err)

			got, err := token.Decode(raw)
			require.NoError(t, err)
			require.Equal(t, want.Subject, got.Subject)
			require.Equal(t, want.Email, got.Email)
			require.Equal(t, want.FirstName, got.FirstName)
			require.Equal(t, want.LastName, got.LastName)
			require.Equal(t, want.Role, got.Role)
			require.Equal(t, want.Authorities, got.Authorities)
			require.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
			require.True(t, want.IssuedAt.Equal(got.IssuedAt))
			require.Equal(t, "Ada Lovelace", got.FullName())
		})
	}
}

func TestDecode_DerivesRoleAndAuthorities(t *testing.T) {
	signer := token.NewHMACSigner(secretStr)

	c := testClaims()
	c.Role = ""
	c.Authorities = []string{"ROLE_ORGANIZER", "ROLE_USER"}
	raw, err := token.Encode(c, token.ShapeNested, signer)
	require.NoError(t, err)
	got := token.DecodeOrNil(raw)
	require.NotNil(t, got)
	require.Equal(t, "ROLE_ORGANIZER", got.Role)

	c = testClaims()
	c.Authorities = nil
	c.Role = "USER"
	raw, err = token.Encode(c, token.ShapeFlat, signer)
	require.NoError(t, err)
	got = token.DecodeOrNil(raw)
	require.NotNil(t, got)
	require.Equal(t, []string{"USER"}, got.Authorities)
}

func TestDecode_NumericIDAndPlainName(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"id":17,"name":"Grace Hopper","roles":["ADMIN"]}`))
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	got, err := token.Decode(header + "." + payload + ".c2ln")
	require.NoError(t, err)
	require.Equal(t, "17", got.Subject)
	require.Equal(t, "Grace", got.FirstName)
	require.Equal(t, "Hopper", got.LastName)
	require.Equal(t, "ADMIN", got.Role)
}

func TestDecode_Malformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-jwt", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.!!!.sig"} {
		c, err := token.Decode(raw)
		require.Error(t, err, raw)
		require.True(t, errors.Is(err, errors.ErrInvalidToken), raw)
		require.Nil(t, c)
		require.Nil(t, token.DecodeOrNil(raw))
	}
}

func TestVerify(t *testing.T) {
	signer := token.NewHMACSigner(secretStr)
	raw, err := token.Encode(testClaims(), token.ShapeFlat, signer)
	require.NoError(t, err)

	c, err := token.Verify(raw, signer)
	require.NoError(t, err)
	require.Equal(t, "42", c.Subject)

	_, err = token.Verify(raw, token.NewHMACSigner("other"))
	require.Error(t, err)
}

func TestPair(t *testing.T) {
	signer := token.NewHMACSigner(secretStr)
	c := testClaims()
	raw, err := token.Encode(c, token.ShapeNested, signer)
	require.NoError(t, err)

	p := token.NewPair(raw, "refresh-1")
	require.NoError(t, p.Validate())
	require.False(t, p.Expired(time.Now()))
	require.True(t, p.Expired(c.ExpiresAt.Add(time.Second)))

	ot := p.OAuth2()
	require.Equal(t, "Bearer", ot.TokenType)
	require.Equal(t, "refresh-1", ot.RefreshToken)
	require.True(t, c.ExpiresAt.Equal(ot.Expiry))

	require.Error(t, token.NewPair("", "r").Validate())
	require.Error(t, token.NewPair(raw, "").Validate())
	require.True(t, token.NewPair("garbage", "r").Expired(time.Now()))
}
