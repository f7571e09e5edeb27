package detector

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Scheduler invokes tick repeatedly until ctx is done.
type Scheduler interface {
	Run(ctx context.Context, interval time.Duration, tick func(context.Context))
}

// IntervalScheduler runs ticks on a fixed cadence. The first tick runs
// immediately. Ticks never overlap.
type IntervalScheduler struct {
	// Sliding measures the interval from the end of a tick. Otherwise it is
	// measured from the start of the previous tick, so a slow tick is
	// followed immediately by the next.
	Sliding bool
}

// Run blocks until ctx is done.
func (s IntervalScheduler) Run(ctx context.Context, interval time.Duration, tick func(context.Context)) {
	if s.Sliding {
		wait.UntilWithContext(ctx, tick, interval)
		return
	}
	wait.NonSlidingUntilWithContext(ctx, tick, interval)
}
