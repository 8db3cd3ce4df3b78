//go:build windows

package server

func onConfigurationSignal(_ func()) (stop func()) {
	return func() {}
}
