//go:build !windows

package server

import (
	"os"
	"os/signal"
	"syscall"
)

// onConfigurationSignal calls print on every SIGUSR1 until the returned stop function is called
func onConfigurationSignal(print func()) (stop func()) {
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})

	signal.Notify(signals, syscall.SIGUSR1)

	go func() {
		for {
			select {
			case <-signals:
				print()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(signals)
		close(done)
	}
}
