//go:build linux

package main

import (
	"os"
	_ "time/tzdata"

	reaper "github.com/ramr/go-reaper"
)

// reap exited delv and dnsviz processes when running as container init
//
//nolint:gochecknoinits
func init() {
	if os.Getpid() == 1 {
		go reaper.Reap()
	}
}
