package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signer is an interface for signing and verifying JWT tokens
type Signer interface {
	// Sign creates a signed JWT token from claims
	Sign(claims jwt.MapClaims) (string, error)

	// Verify parses and validates a JWT token, returning the signing key for verification
	GetVerificationKey(token *jwt.Token) (any, error)

	// GetSigningMethod returns the JWT signing method used
	GetSigningMethod() jwt.SigningMethod
}

// HMACsigner implements Signer using symmetric HMAC-SHA256
type HMACsigner struct {
	secret []byte
}

// NewHMACSigner creates a new HMAC signer with the given secret
func NewHMACSigner(secret string) *HMACsigner {
	return &HMACsigner{
		secret: []byte(secret),
	}
}

func (h *HMACsigner) Sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with HMAC: %w", err)
	}
	return signedToken, nil
}

func (h *HMACsigner) GetVerificationKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACsigner) GetSigningMethod() jwt.SigningMethod {
	return jwt.SigningMethodHS256
}

// Shape selects the payload layout Encode writes.
type Shape int

const (
	ShapeNested Shape = iota // id.value, name.firstName/lastName, authorities
	ShapeFlat                // sub, firstName/lastName, role.name
)

// Encode signs claims in the requested payload shape. It is the inverse of Decode
// and is used by fixtures and the in-process fake backend.
func Encode(c Claims, shape Shape, signer Signer) (string, error) {
	mc := jwt.MapClaims{
		"email": c.Email,
		"jti":   uuid.New().String(),
	}
	if !c.ExpiresAt.IsZero() {
		mc["exp"] = c.ExpiresAt.Unix()
	}
	if !c.IssuedAt.IsZero() {
		mc["iat"] = c.IssuedAt.Unix()
	}

	switch shape {
	case ShapeNested:
		mc["id"] = map[string]any{"value": c.Subject}
		mc["name"] = map[string]any{"firstName": c.FirstName, "lastName": c.LastName}
		authorities := c.Authorities
		if len(authorities) == 0 && c.Role != "" {
			authorities = []string{c.Role}
		}
		mc["authorities"] = authorities
	case ShapeFlat:
		mc["sub"] = c.Subject
		mc["firstName"] = c.FirstName
		mc["lastName"] = c.LastName
		if c.Role != "" {
			mc["role"] = map[string]any{"name": c.Role}
		}
		if len(c.Authorities) > 0 {
			mc["authorities"] = c.Authorities
		}
	default:
		return "", fmt.Errorf("token.Encode: unknown shape %d", shape)
	}

	return signer.Sign(mc)
}

// Verify parses a token and checks its signature and time claims.
func Verify(raw string, signer Signer) (*Claims, error) {
	parsed, err := jwt.Parse(raw, signer.GetVerificationKey, jwt.WithValidMethods([]string{signer.GetSigningMethod().Alg()}))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("token.Verify: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("token.Verify: error extracting claims")
	}
	return fromMapClaims(mc), nil
}
