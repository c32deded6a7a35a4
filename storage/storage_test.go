package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-events-client/internal/config"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func withClock(t *testing.T, now time.Time) *time.Time {
	t.Helper()
	clock := now
	orig := storage.NowTimeFunc
	storage.NowTimeFunc = func() time.Time { return clock }
	t.Cleanup(func() { storage.NowTimeFunc = orig })
	return &clock
}

func exerciseSlot(t *testing.T, s storage.Slot) {
	t.Helper()
	ctx := context.Background()
	clock := withClock(t, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))

	_, err := s.Get(ctx, storage.KeyAccessToken)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, storage.KeyAccessToken, "access", time.Hour))
	require.NoError(t, s.Set(ctx, storage.KeyRefreshToken, "refresh", 0))
	require.NoError(t, s.Set(ctx, storage.KeyUserData, `{"userId":"1"}`, storage.DefaultTTL))

	v, err := s.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "access", v)

	*clock = clock.Add(2 * time.Hour)
	_, err = s.Get(ctx, storage.KeyAccessToken)
	require.ErrorIs(t, err, storage.ErrNotFound)

	v, err = s.Get(ctx, storage.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "refresh", v)

	require.NoError(t, storage.Clear(ctx, s))
	for _, k := range []string{storage.KeyAccessToken, storage.KeyRefreshToken, storage.KeyUserData} {
		_, err = s.Get(ctx, k)
		require.ErrorIs(t, err, storage.ErrNotFound, k)
	}

	require.NoError(t, s.Delete(ctx, "never-set"))
}

func TestMemory(t *testing.T) {
	m := storage.NewMemory()
	exerciseSlot(t, m)
	require.Equal(t, 0, m.Len())
}

func TestFile_Plaintext(t *testing.T) {
	f, err := storage.NewFile(filepath.Join(t.TempDir(), "nested", "session.json"))
	require.NoError(t, err)
	exerciseSlot(t, f)
}

func TestFile_Sealed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	f, err := storage.NewFile(path, storage.WithSecret("s3cret"))
	require.NoError(t, err)
	exerciseSlot(t, f)

	ctx := context.Background()
	require.NoError(t, f.Set(ctx, storage.KeyRefreshToken, "refresh-token-value", 0))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(b), "refresh-token-value"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := storage.NewFile(path, storage.WithSecret("s3cret"))
	require.NoError(t, err)
	v, err := reopened.Get(ctx, storage.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "refresh-token-value", v)

	wrongKey, err := storage.NewFile(path, storage.WithSecret("other"))
	require.NoError(t, err)
	_, err = wrongKey.Get(ctx, storage.KeyRefreshToken)
	require.True(t, errors.Is(err, errors.ErrSealed))
}

func TestNewFile_RequiresPath(t *testing.T) {
	_, err := storage.NewFile("")
	require.Error(t, err)
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	r, err := storage.NewRedis(rc, "evclient:")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.Get(ctx, storage.KeyAccessToken)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, r.Set(ctx, storage.KeyAccessToken, "access", time.Hour))
	require.NoError(t, r.Set(ctx, storage.KeyRefreshToken, "refresh", -time.Minute))
	require.NoError(t, r.Set(ctx, storage.KeyUserData, `{"userId":"1"}`, storage.DefaultTTL))

	stored, err := mr.Get("evclient:" + storage.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "access", stored)
	require.Equal(t, time.Hour, mr.TTL("evclient:"+storage.KeyAccessToken))
	require.Zero(t, mr.TTL("evclient:"+storage.KeyRefreshToken))

	v, err := r.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "access", v)

	mr.FastForward(2 * time.Hour)
	_, err = r.Get(ctx, storage.KeyAccessToken)
	require.ErrorIs(t, err, storage.ErrNotFound)

	v, err = r.Get(ctx, storage.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "refresh", v)

	require.NoError(t, storage.Clear(ctx, r))
	for _, k := range []string{storage.KeyAccessToken, storage.KeyRefreshToken, storage.KeyUserData} {
		_, err = r.Get(ctx, k)
		require.ErrorIs(t, err, storage.ErrNotFound, k)
	}
	require.NoError(t, r.Delete(ctx, "never-set"))

	mr.Close()
	_, err = r.Get(ctx, storage.KeyAccessToken)
	require.Error(t, err)
	require.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestNewRedis_RequiresClient(t *testing.T) {
	_, err := storage.NewRedis(nil, "x:")
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := storage.Open(config.Storage{Driver: config.StorageDriverMemory})
	require.NoError(t, err)
	require.IsType(t, &storage.Memory{}, s)

	s, err = storage.Open(config.Storage{Driver: config.StorageDriverFile, FilePath: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	require.IsType(t, &storage.File{}, s)

	s, err = storage.Open(config.Storage{Driver: config.StorageDriverRedis, RedisAddr: "localhost:0", RedisPrefix: "t:"})
	require.NoError(t, err)
	require.Equal(t, "t:access_token", s.(*storage.Redis).Key(storage.KeyAccessToken))

	_, err = storage.Open(config.Storage{Driver: "etcd"})
	require.Error(t, err)
}
