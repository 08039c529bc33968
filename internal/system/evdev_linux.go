//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const evKey = 0x01

// KeyFunc receives key transitions. pressed is false on release; autorepeat
// events are dropped.
type KeyFunc func(code uint16, pressed bool)

// WatchKeys reads key events from every evdev device under
// /dev/input/event* until ctx is done.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchKeys(ctx context.Context, l logger, onKey KeyFunc) {
	if onKey == nil {
		return
	}

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := int(binary.Size(unix.Timeval{}))
	eventSize := tvSize + 2 + 2 + 4
	if eventSize <= 0 {
		eventSize = 24
	}

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if l != nil {
			l.Infof("input", "no evdev devices found")
		}
		return
	}

	events := make(chan [2]uint16, 16)
	for _, path := range paths {
		go readDevice(ctx, path, tvSize, eventSize, events)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				onKey(ev[0], ev[1] == 1)
			}
		}
	}()
	if l != nil {
		l.Infof("input", "watching %d evdev devices", len(paths))
	}
}

func readDevice(ctx context.Context, path string, tvSize, eventSize int, out chan<- [2]uint16) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			rec := buf[off : off+eventSize]
			typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
			code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
			value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
			if typ != evKey || value > 1 {
				continue
			}
			select {
			case out <- [2]uint16{code, uint16(value)}:
			case <-ctx.Done():
				return
			}
		}
	}
}
