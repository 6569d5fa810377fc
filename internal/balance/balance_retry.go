package balance

import (
	"context"
	"errors"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/shared/metrics"

	"github.com/cenkalti/backoff/v4"
)

// RetryOnConflict runs op again while it fails with ErrBalanceConflict, up to
// maxRetries extra attempts. Any other error stops immediately and is
// returned as is.
func RetryOnConflict(ctx context.Context, maxRetries uint64, op func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 20 * time.Millisecond
	eb.MaxInterval = 500 * time.Millisecond
	eb.MaxElapsedTime = 5 * time.Second

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, maxRetries), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		if attempt > 1 {
			metrics.LedgerRetry()
		}
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, balanceerrors.ErrBalanceConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}
