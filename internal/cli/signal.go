package cli

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SignalContext is a context cancelled on SIGINT or SIGTERM that remembers
// which signal arrived, so commands can tell an interrupt from a normal exit.
type SignalContext struct {
	context.Context
	Cancel   context.CancelFunc
	received atomic.Pointer[os.Signal]
}

// NewSignalContext starts listening immediately. Call Cancel to release the
// signal handler.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, shutdownSignals...)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.received.Store(&sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	if sig := sc.received.Load(); sig != nil {
		return *sig
	}
	return nil
}
