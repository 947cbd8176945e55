package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRetryWithBackoff(t *testing.T) {
	errTemp := errors.New("temporary error")
	tests := []struct {
		name         string
		failures     int
		maxAttempts  int
		wantErr      error
		wantAttempts int
	}{
		{name: "first try", failures: 0, maxAttempts: 3, wantAttempts: 1},
		{name: "eventual success", failures: 2, maxAttempts: 5, wantAttempts: 3},
		{name: "all attempts fail", failures: 10, maxAttempts: 3, wantErr: errTemp, wantAttempts: 3},
		{name: "single attempt", failures: 1, maxAttempts: 1, wantErr: errTemp, wantAttempts: 1},
		{name: "zero attempts", failures: 10, maxAttempts: 0, wantErr: ErrInvalidMaxAttempts, wantAttempts: 0},
		{name: "negative attempts", failures: 10, maxAttempts: -1, wantErr: ErrInvalidMaxAttempts, wantAttempts: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := retryWithBackoff(context.Background(), quietLogger, func() error {
				attempts++
				if attempts <= tt.failures {
					return errTemp
				}
				return nil
			}, tt.maxAttempts, time.Millisecond)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAttempts, attempts)
		})
	}
}

func TestRetryWithBackoff_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := retryWithBackoff(ctx, quietLogger, func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("tagger busy")
	}, 10, 10*time.Millisecond)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}

func TestRetryWithBackoff_Doubles(t *testing.T) {
	attempts := 0
	var delays []time.Duration
	last := time.Now()

	err := retryWithBackoff(context.Background(), quietLogger, func() error {
		attempts++
		if attempts > 1 {
			delays = append(delays, time.Since(last))
		}
		last = time.Now()
		if attempts < 4 {
			return errors.New("tagger busy")
		}
		return nil
	}, 5, 10*time.Millisecond)

	require.NoError(t, err)
	require.Len(t, delays, 3)
	assert.GreaterOrEqual(t, delays[0], 10*time.Millisecond)
	assert.GreaterOrEqual(t, delays[1], 20*time.Millisecond)
	assert.GreaterOrEqual(t, delays[2], 40*time.Millisecond)
}
