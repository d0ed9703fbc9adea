package commands

import (
	"errors"
	"sync/atomic"
)

// ErrSubmissionInFlight is returned when a command is invoked while an
// earlier invocation is still running. Double-clicked submit buttons land
// here instead of producing duplicate orders or bookings.
var ErrSubmissionInFlight = errors.New("commands: submission already in flight")

// inflightGuard serializes a command's submissions. The raw service methods
// stay guard-free; only the command layer enforces single-flight.
type inflightGuard struct {
	busy atomic.Bool
}

func (g *inflightGuard) acquire() error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	return nil
}

func (g *inflightGuard) release() {
	g.busy.Store(false)
}
