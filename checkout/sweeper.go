package checkout

import (
	"context"
	"log"
	"time"
)

// StaleLedger is the slice of the ledger the sweeper needs.
type StaleLedger interface {
	FailStale(ctx context.Context, maxAge time.Duration) (int64, error)
}

// StaleSweeper times out pending ledger records whose attempt died between
// claiming the key and finishing. Without it a crashed attempt would block
// retries for that payment forever.
type StaleSweeper struct {
	ledger   StaleLedger
	interval time.Duration
	maxAge   time.Duration
}

func NewStaleSweeper(ledger StaleLedger, interval, maxAge time.Duration) *StaleSweeper {
	return &StaleSweeper{ledger: ledger, interval: interval, maxAge: maxAge}
}

// Run blocks until ctx is cancelled.
func (s *StaleSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.ledger.FailStale(ctx, s.maxAge)
			if err != nil {
				log.Printf("ledger sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("ledger sweep: timed out %d stale pending records", n)
			}
		}
	}
}
