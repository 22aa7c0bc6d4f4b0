package otp

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRedisStore connects to REDIS_TEST_ADDR and skips when it is unset.
func newRedisStore(t *testing.T, maxAttempts int) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return NewRedisStore(rdb, time.Minute, maxAttempts)
}

func TestRedisStore_IssueVerify(t *testing.T) {
	s := newRedisStore(t, 3)
	ctx := context.Background()
	key := "+91" + uuid.NewString()

	code, err := s.Issue(ctx, key)
	require.NoError(t, err)

	_, err = s.Issue(ctx, key)
	assert.ErrorIs(t, err, ErrCooldown)

	ok, err := s.Verify(ctx, key, code)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Verify(ctx, key, code)
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestRedisStore_AttemptsExhaust(t *testing.T) {
	s := newRedisStore(t, 2)
	ctx := context.Background()
	key := "+91" + uuid.NewString()

	code, err := s.Issue(ctx, key)
	require.NoError(t, err)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for i := 0; i < 2; i++ {
		ok, err := s.Verify(ctx, key, wrong)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	_, err = s.Verify(ctx, key, code)
	assert.ErrorIs(t, err, ErrNoCode)
}
