package engine

import (
	"context"
	"time"
)

// TickSource sends Tick to out every interval until ctx is done. It shares
// out with user commands so ticks are ordered with them.
func TickSource(ctx context.Context, interval time.Duration, out chan<- Command) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			select {
			case out <- Tick{}:
			case <-ctx.Done():
				return
			}
		}
	}
}
