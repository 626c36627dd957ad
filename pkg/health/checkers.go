package health

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
)

// MaxGoroutines returns a liveness Check that fails once the process holds
// more than limit goroutines, catching goroutine leaks before the OOM killer
// does.
func MaxGoroutines(limit int) Check {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > limit {
			return errors.Errorf("goroutine count %d exceeds limit %d", n, limit)
		}
		return nil
	}
}

// MaxGCPause returns a liveness Check that fails when any observed
// stop-the-world GC pause exceeded limit.
func MaxGCPause(limit time.Duration) Check {
	return func(context.Context) error {
		var stats debug.GCStats
		debug.ReadGCStats(&stats)
		for _, pause := range stats.Pause {
			if pause > limit {
				return errors.Errorf("GC pause %s exceeds limit %s", pause, limit)
			}
		}
		return nil
	}
}
