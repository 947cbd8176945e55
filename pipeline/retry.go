// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// retryWithBackoff calls operation up to maxAttempts times, sleeping
// baseDelay before the second attempt and doubling the delay after that.
// It returns nil on the first success, otherwise the last error.
// A canceled context stops retrying and returns the context error.
func retryWithBackoff(ctx context.Context, logger *slog.Logger, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var err error
	delay := baseDelay
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = operation(); err == nil {
			if attempt > 1 {
				logger.Debug("tagging succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if attempt == maxAttempts {
			return err
		}

		logger.Debug("tagging failed, retrying", "attempt", attempt, "max_attempts", maxAttempts, "delay", delay, "error", err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
