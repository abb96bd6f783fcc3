package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail(b *Breaker, n int) {
	for i := 0; i < n; i++ {
		_ = b.Execute(func() error { return errBoom })
	}
}

func TestBreaker_StartsClosed(t *testing.T) {
	b := New(Config{})
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New(Config{FailureThreshold: 3, Timeout: time.Minute})

	fail(b, 2)
	assert.Equal(t, StateClosed, b.State())

	fail(b, 1)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_OpenFailsFast(t *testing.T) {
	b := New(Config{FailureThreshold: 1, Timeout: time.Minute})
	fail(b, 1)

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "open circuit must not invoke fn")
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New(Config{FailureThreshold: 3, Timeout: time.Minute})

	fail(b, 2)
	require.NoError(t, b.Execute(func() error { return nil }))
	fail(b, 2)

	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenProbeCloses(t *testing.T) {
	b := New(Config{FailureThreshold: 1, SuccessThreshold: 2, Timeout: 10 * time.Millisecond})
	fail(b, 1)
	require.Equal(t, StateOpen, b.State())

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := New(Config{FailureThreshold: 1, Timeout: 10 * time.Millisecond})
	fail(b, 1)

	time.Sleep(20 * time.Millisecond)

	require.ErrorIs(t, b.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	b := New(Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          10 * time.Millisecond,
		OnStateChange: func(from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	fail(b, 1)
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, b.Execute(func() error { return nil }))

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(99).String())
}
