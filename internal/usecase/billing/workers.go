package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

// runPool fans work units out to a bounded pool and collects one ItemDetail
// per unit. Item failures stay inside the detail; the pool only stops early
// when the context is cancelled.
func runPool[T any](ctx context.Context, workers int, items []T, process func(ctx context.Context, item T) ItemDetail) []ItemDetail {
	if workers < 1 {
		workers = 1
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		details = make([]ItemDetail, 0, len(items))
		sem     = make(chan struct{}, workers)
	)

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(item T) {
			defer wg.Done()
			defer func() { <-sem }()

			detail := process(ctx, item)

			mu.Lock()
			details = append(details, detail)
			mu.Unlock()
		}(item)
	}

	wg.Wait()
	return details
}

const retryBaseDelay = 500 * time.Millisecond

// retryGateway retries fn with exponential backoff, but only when the
// gateway reported rate limiting. Every other failure surfaces immediately.
func retryGateway(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrGatewayRateLimited) {
			return err
		}
	}
	return err
}
