package data

import (
	"context"
	"sync"
	"time"
)

// Rate-limit budget for multi-wallet refreshes: small fixed concurrency per
// batch, fixed pause between batches.
const (
	fetchBatchSize  = 3
	fetchBatchDelay = 1100 * time.Millisecond
)

// TradesForWallets fetches every wallet's full fill history in batches of
// three concurrent requests separated by ~1.1s, respecting the Data-API rate
// limit. The first error aborts the remaining batches.
func (c *clientImpl) TradesForWallets(ctx context.Context, users []string) (map[string][]Trade, error) {
	results := make(map[string][]Trade, len(users))
	var (
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(users); start += fetchBatchSize {
		if start > 0 {
			timer := time.NewTimer(fetchBatchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		end := start + fetchBatchSize
		if end > len(users) {
			end = len(users)
		}

		var wg sync.WaitGroup
		for _, user := range users[start:end] {
			wg.Add(1)
			go func(user string) {
				defer wg.Done()
				trades, err := c.TradesAll(ctx, &TradesRequest{User: user})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return
				}
				results[user] = trades
			}(user)
		}
		wg.Wait()

		mu.Lock()
		err := firstErr
		mu.Unlock()
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
