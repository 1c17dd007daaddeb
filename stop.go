package portping

import (
	"sync"
	"sync/atomic"
)

// StopFlag is the shared "keep running" handle between the probe loop and an
// external stop source such as a signal handler. It flips exactly once;
// further Stop calls are no-ops. The flag is polled via Running at the loop's
// checkpoints, and Done makes the inter-probe wait interruptible.
type StopFlag struct {
	stopped atomic.Bool
	done    chan struct{}
	once    sync.Once
}

// NewStopFlag returns a flag in the running state.
func NewStopFlag() *StopFlag {
	return &StopFlag{done: make(chan struct{})}
}

// Stop requests a graceful stop: the current probe finishes, any pending
// wait is skipped, and no further probe starts.
func (f *StopFlag) Stop() {
	f.once.Do(func() {
		f.stopped.Store(true)
		close(f.done)
	})
}

// Running reports whether probing may continue.
func (f *StopFlag) Running() bool {
	return !f.stopped.Load()
}

// Done returns a channel closed on the first Stop call.
func (f *StopFlag) Done() <-chan struct{} {
	return f.done
}
