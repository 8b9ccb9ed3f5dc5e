package main

import (
	"context"
	"os/signal"
)

// notifyContext is canceled by the first shutdown signal. Renders in flight
// observe it and kill their renderer process groups; a second signal gets
// the default behavior and terminates the CLI.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
