//go:build windows

package main

import "os"

// Windows delivers no SIGTERM.
var shutdownSignals = []os.Signal{os.Interrupt}
