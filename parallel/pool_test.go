package parallel

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestPool(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("workers_%d", workers), func(t *testing.T) {
			pool := Start(workers)

			var ran atomic.Int64
			errOdd := errors.New("odd")
			for i := range 100 {
				pool.Do(func() error {
					ran.Add(1)
					if i%2 == 1 {
						return fmt.Errorf("task %d: %w", i, errOdd)
					}
					return nil
				})
			}

			err := pool.Wait(true)
			if ran.Load() != 100 {
				t.Errorf("ran %d tasks, want 100", ran.Load())
			}
			if !errors.Is(err, errOdd) {
				t.Errorf("Wait: got %v, want errOdd", err)
			}
			if pool.Failed() != 50 {
				t.Errorf("Failed: got %d, want 50", pool.Failed())
			}
		})
	}
}

func TestPool_NoErrors(t *testing.T) {
	pool := Start(3)
	for range 10 {
		pool.Do(func() error { return nil })
	}
	if err := pool.Wait(true); err != nil {
		t.Errorf("Wait: %v", err)
	}
	// Closing twice is harmless.
	pool.Cancel()
}
