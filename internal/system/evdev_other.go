//go:build !linux

package system

import "context"

type KeyFunc func(code uint16, pressed bool)

func WatchKeys(ctx context.Context, l logger, onKey KeyFunc) {
	if l != nil {
		l.Infof("input", "evdev input not supported on this platform")
	}
}
