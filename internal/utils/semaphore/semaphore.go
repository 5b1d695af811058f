package semaphore

import (
	"context"
	"fmt"
	"time"

	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

type Semaphore struct {
	semaCh chan struct{}
}

func New(maxCount uint64) *Semaphore {
	return &Semaphore{
		semaCh: make(chan struct{}, maxCount),
	}
}

// AcquireWithTimeout gives up after timeout or when ctx is done.
func (s *Semaphore) AcquireWithTimeout(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
		return serviceerrs.ErrSemaphoreTimeoutExceeded
	case <-ctx.Done():
		return fmt.Errorf("semaphore acquire: %w", ctx.Err())
	case s.semaCh <- struct{}{}:
		return nil
	}
}

func (s *Semaphore) Release() {
	<-s.semaCh
}
