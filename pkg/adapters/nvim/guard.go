package nvim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// guard runs fn and gives up after timeout or when ctx ends, reporting
// abandoned=true in that case. fn keeps running in the background; callers
// must make it return by tearing down whatever it blocks on.
func guard(ctx context.Context, timeout time.Duration, fn func() error) (abandoned bool, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		if err != nil {
			return false, fmt.Errorf("%w: %w", domain.ErrLifecycle, err)
		}
		return false, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return true, fmt.Errorf("%w after %s", domain.ErrTimeout, timeout)
		}
		return true, fmt.Errorf("%w: %w", domain.ErrLifecycle, ctx.Err())
	}
}
