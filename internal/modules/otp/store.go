package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const codeDigits = 6

var (
	// ErrNoCode means nothing is pending for the key: never issued, expired or exhausted.
	ErrNoCode = errors.New("no pending verification code")
	// ErrCooldown means a code was issued for the key too recently.
	ErrCooldown = errors.New("verification code requested too recently")
)

// Store issues and checks one-time codes keyed by phone number.
type Store interface {
	Issue(ctx context.Context, key string) (string, error)
	Verify(ctx context.Context, key, code string) (bool, error)
}

// verifyScript compares the stored code and counts wrong guesses in one round trip.
// Returns -1 when no code is pending, 0 on a mismatch, 1 on success.
var verifyScript = redis.NewScript(`
	local code = redis.call('HGET', KEYS[1], 'code')
	if not code then
		return -1
	end
	if code == ARGV[1] then
		redis.call('DEL', KEYS[1])
		return 1
	end
	local attempts = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
	if attempts >= tonumber(ARGV[2]) then
		redis.call('DEL', KEYS[1])
	end
	return 0
`)

type RedisStore struct {
	rdb         *redis.Client
	ttl         time.Duration
	cooldown    time.Duration
	maxAttempts int
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration, maxAttempts int) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, cooldown: 30 * time.Second, maxAttempts: maxAttempts}
}

func codeKey(key string) string     { return "otp:code:" + key }
func cooldownKey(key string) string { return "otp:cooldown:" + key }

// Issue replaces any pending code for key with a fresh one.
func (s *RedisStore) Issue(ctx context.Context, key string) (string, error) {
	fresh, err := s.rdb.SetNX(ctx, cooldownKey(key), 1, s.cooldown).Result()
	if err != nil {
		return "", fmt.Errorf("otp cooldown: %w", err)
	}
	if !fresh {
		return "", ErrCooldown
	}

	code, err := GenerateCode()
	if err != nil {
		return "", err
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, codeKey(key))
		p.HSet(ctx, codeKey(key), "code", code, "attempts", 0)
		p.Expire(ctx, codeKey(key), s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("otp store: %w", err)
	}
	return code, nil
}

func (s *RedisStore) Verify(ctx context.Context, key, code string) (bool, error) {
	res, err := verifyScript.Run(ctx, s.rdb, []string{codeKey(key)}, code, s.maxAttempts).Int()
	if err != nil {
		return false, fmt.Errorf("otp verify: %w", err)
	}
	switch res {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, ErrNoCode
	}
}

// GenerateCode returns a uniformly random zero-padded 6 digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
