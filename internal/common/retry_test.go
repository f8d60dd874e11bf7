package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/kategori/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		wantErr   error
		failures  []error
		name      string
		wantCalls int
	}{
		{name: "succeeds first time", wantCalls: 1},
		{name: "succeeds after failures", failures: []error{boom, boom}, wantCalls: 3},
		{name: "gives up", failures: []error{boom, boom, boom, boom}, wantCalls: 3, wantErr: ErrMaxRetries},
		{
			name:      "stops on non-retryable error",
			failures:  []error{&RetryableError{Err: boom, Retryable: false}},
			wantCalls: 1,
			wantErr:   boom,
		},
		{name: "rate limit is retried", failures: []error{ErrRateLimit}, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			}, fastRetry(3))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWithRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error { return errors.New("down") }, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Hour,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "", "WARN", "error"} {
		_, err := ParseLevel(level)
		assert.NoError(t, err, level)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestUserError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewUserError("Could not save", cause)

	assert.Equal(t, "Could not save: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Could not save", userErr.UserMessage)
}

func TestRowError(t *testing.T) {
	err := NewRowError(4, "KIWI", ErrMalformedRow)
	assert.Equal(t, `row 4 ("KIWI"): malformed row`, err.Error())
	assert.ErrorIs(t, err, ErrMalformedRow)
}
