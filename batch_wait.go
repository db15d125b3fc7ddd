package renderscreenshot

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

const (
	defaultBatchWaitTimeout = 10 * time.Minute

	batchPollInitialInterval   = 2 * time.Second
	batchPollMaxBackoff        = 30 * time.Second
	batchPollBackoffMultiplier = 1.5
	batchPollJitterFactor      = 0.3
)

// WaitForBatch polls a batch job until it completes or fails. The interval
// starts at the poll interval, grows by half while the job makes no progress
// and resets when it does.
//
// Any error from a status check ends the wait; use a RetryPolicy around
// WaitForBatch to tolerate transient failures.
//
// Example:
//
//	batch, err := client.WaitForBatch(ctx, job.ID,
//	    renderscreenshot.WithProgress(func(b *renderscreenshot.BatchResponse) {
//	        fmt.Printf("%d/%d done\n", b.Completed+b.Failed, b.Total)
//	    }),
//	)
func (c *Client) WaitForBatch(ctx context.Context, id string, opts ...WaitOption) (*BatchResponse, error) {
	cfg := &waitConfig{
		timeout:      defaultBatchWaitTimeout,
		pollInterval: batchPollInitialInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.pollInterval <= 0 {
		cfg.pollInterval = batchPollInitialInterval
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	interval := cfg.pollInterval
	lastProgress := -1

	for {
		batch, err := c.GetBatch(ctx, id)
		if err != nil {
			return nil, err
		}

		if progress := batch.Completed + batch.Failed; progress != lastProgress {
			lastProgress = progress
			interval = cfg.pollInterval
			if cfg.onProgress != nil {
				cfg.onProgress(batch)
			}
		} else {
			interval = nextPollInterval(interval, cfg.pollInterval)
		}

		if batch.IsComplete() {
			return batch, nil
		}

		timer := time.NewTimer(withJitter(interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, Timeout(ctx.Err())
			}
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// nextPollInterval backs off from current, capped at the larger of the
// default ceiling and the caller's base interval.
func nextPollInterval(current, base time.Duration) time.Duration {
	next := time.Duration(float64(current) * batchPollBackoffMultiplier)
	ceiling := max(batchPollMaxBackoff, base)
	if next > ceiling {
		next = ceiling
	}
	return next
}

// withJitter spreads concurrent pollers apart.
func withJitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Float64()*batchPollJitterFactor*float64(d))
}
