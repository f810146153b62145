package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SIGINT/SIGTERMでキャンセルされるcontext
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
