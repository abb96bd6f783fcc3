package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
		IsRetryable:  func(error) bool { return true },
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		return boom
	})

	assert.Equal(t, 3, calls)
	require.ErrorIs(t, err, ErrMaxAttemptsExceeded)
	require.ErrorIs(t, err, boom)
}

func TestDo_NonRetryableReturnsImmediately(t *testing.T) {
	boom := errors.New("invalid payload")
	cfg := fastConfig(5)
	cfg.IsRetryable = DefaultIsRetryable

	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		return boom
	})

	assert.Equal(t, 1, calls)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrMaxAttemptsExceeded)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(3), func() error {
		t.Fatal("fn must not run with a cancelled context")
		return nil
	})

	require.ErrorIs(t, err, ErrContextCancelled)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := fastConfig(3)
	cfg.InitialDelay = time.Second
	cfg.MaxDelay = time.Second

	err := Do(ctx, cfg, func() error {
		cancel()
		return errors.New("timeout")
	})

	require.ErrorIs(t, err, ErrContextCancelled)
}

func TestDefaultIsRetryable(t *testing.T) {
	assert.False(t, DefaultIsRetryable(nil))
	assert.True(t, DefaultIsRetryable(errors.New("dial tcp: i/o timeout")))
	assert.True(t, DefaultIsRetryable(errors.New("connection reset by peer")))
	assert.True(t, DefaultIsRetryable(errors.New("lookup llm: no such host")))
	assert.False(t, DefaultIsRetryable(errors.New("unexpected status 400")))
}
