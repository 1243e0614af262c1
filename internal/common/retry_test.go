package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/evgengiga/dashbord/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quick = service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		err       func(attempt int) error
		wantErr   error
		name      string
		wantCalls int
	}{
		{
			name:      "succeeds first time",
			err:       func(int) error { return nil },
			wantCalls: 1,
		},
		{
			name: "succeeds after transient failures",
			err: func(attempt int) error {
				if attempt < 3 {
					return Transient(ErrBackendUnavailable)
				}
				return nil
			},
			wantCalls: 3,
		},
		{
			name:      "permanent error stops immediately",
			err:       func(int) error { return Permanent(ErrUnauthorized) },
			wantErr:   ErrUnauthorized,
			wantCalls: 1,
		},
		{
			name:      "exhausts attempts",
			err:       func(int) error { return Transient(ErrBackendUnavailable) },
			wantErr:   ErrMaxRetries,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				return tt.err(calls)
			}, quick)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error { return Transient(ErrBackendUnavailable) },
		service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrBackendUnavailable))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.True(t, IsRetryable(Transient(errors.New("flaky"))))
	assert.False(t, IsRetryable(Permanent(errors.New("bad request"))))
	assert.False(t, IsRetryable(Transient(ErrUnauthorized)))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewUserError("Нет связи", ErrBackendUnavailable))
	assert.Equal(t, "Нет связи", UserMessage(err, "fallback"))
	assert.Equal(t, "Сессия истекла, выполните вход заново", UserMessage(ErrUnauthorized, "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("x"), "fallback"))

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Нет связи: dashboard backend unavailable", userErr.Error())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("debug").String())
	assert.Equal(t, "WARN", ParseLevel("warning").String())
	assert.Equal(t, "INFO", ParseLevel("nonsense").String())
}

func TestSetupLoggerTo_UnknownFormat(t *testing.T) {
	assert.ErrorIs(t, SetupLoggerTo(nil, ParseLevel("info"), "xml"), ErrInvalidConfig)
}
