package storage

import (
	"context"
	"time"

	"github.com/jrsteele09/go-events-client/internal/errors"
)

// Keys held in the persisted client slot.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserData     = "user_data"
)

// DefaultTTL is how long stored credentials survive without being rewritten.
const DefaultTTL = 7 * 24 * time.Hour

// ErrNotFound is returned for keys that were never set, were deleted or have expired.
var ErrNotFound = errors.ErrNotFound

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Slot is an expiring key/value store for client credentials and the identity snapshot.
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Clear deletes every key the session owns, returning the first error.
func Clear(ctx context.Context, s Slot) error {
	var errs []error
	for _, k := range []string{KeyAccessToken, KeyRefreshToken, KeyUserData} {
		if err := s.Delete(ctx, k); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

func (e entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return NowTimeFunc().Add(ttl)
}
