package backendfake

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// refreshTokenLength is the number of random bytes in a refresh token.
const refreshTokenLength = 32

type storedRefreshToken struct {
	Token  string
	UserID int64
	Iat    time.Time
}

// refreshManager issues opaque refresh tokens, one per user, and rotates them on use.
type refreshManager struct {
	tokens  map[string]*storedRefreshToken
	userIDs map[int64]string
	expiry  time.Duration
	nowFunc func() time.Time
	lock    sync.Mutex
}

func newRefreshManager(expiry time.Duration, now func() time.Time) *refreshManager {
	return &refreshManager{
		tokens:  make(map[string]*storedRefreshToken),
		userIDs: make(map[int64]string),
		expiry:  expiry,
		nowFunc: now,
	}
}

// Create generates a new refresh token for userID, replacing any existing one.
func (m *refreshManager) Create(userID int64) (string, error) {
	tokenBytes := make([]byte, refreshTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	tokenStr := hex.EncodeToString(tokenBytes)

	m.lock.Lock()
	defer m.lock.Unlock()

	if existing, ok := m.userIDs[userID]; ok {
		delete(m.tokens, existing)
	}
	m.tokens[tokenStr] = &storedRefreshToken{Token: tokenStr, UserID: userID, Iat: m.nowFunc()}
	m.userIDs[userID] = tokenStr
	return tokenStr, nil
}

// Consume validates and deletes token, returning its owner.
func (m *refreshManager) Consume(token string) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	rt, ok := m.tokens[token]
	if !ok {
		return 0, errNotFound
	}
	delete(m.tokens, token)
	delete(m.userIDs, rt.UserID)

	if m.nowFunc().Sub(rt.Iat) > m.expiry {
		return 0, fmt.Errorf("refresh token expired")
	}
	return rt.UserID, nil
}

// RevokeUser deletes userID's refresh token.
func (m *refreshManager) RevokeUser(userID int64) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if tok, ok := m.userIDs[userID]; ok {
		delete(m.tokens, tok)
		delete(m.userIDs, userID)
	}
}
