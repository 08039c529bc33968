package sensor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.bug.st/serial"
)

const DefaultBaudRate = 115200

type logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// SerialADC reads samples streamed by a microcontroller bridge, one per
// line, formatted "A:<raw>" or as a bare integer. Read returns the most
// recent value without blocking.
type SerialADC struct {
	Port     string
	BaudRate int
	Logger   logger

	mu     sync.Mutex
	conn   serial.Port
	cancel context.CancelFunc
	latest atomic.Int64
	seen   atomic.Bool
}

func NewSerialADC(port string, baudRate int) *SerialADC {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	return &SerialADC{Port: port, BaudRate: baudRate}
}

func (a *SerialADC) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn != nil {
		return fmt.Errorf("already connected")
	}
	port, err := serial.Open(a.Port, &serial.Mode{BaudRate: a.BaudRate})
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", a.Port, err)
	}
	a.conn = port

	readCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	go a.readLines(readCtx, port)
	return nil
}

func (a *SerialADC) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return nil
	}
	a.cancel()
	err := a.conn.Close()
	a.conn = nil
	return err
}

func (a *SerialADC) Read() (int, error) {
	if !a.seen.Load() {
		return 0, ErrNoSample
	}
	return int(a.latest.Load()), nil
}

func (a *SerialADC) readLines(ctx context.Context, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		raw, err := parseSample(line)
		if err != nil {
			if a.Logger != nil {
				a.Logger.Errorf("sensor", "bad line %q: %v", line, err)
			}
			continue
		}
		a.latest.Store(int64(raw))
		a.seen.Store(true)
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil && a.Logger != nil {
		a.Logger.Errorf("sensor", "serial read: %v", err)
	}
}

func parseSample(line string) (int, error) {
	line = strings.TrimPrefix(line, "A:")
	raw, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("invalid sample: %w", err)
	}
	if raw < 0 || raw > 4095 {
		return 0, fmt.Errorf("sample out of range: %d (max 4095)", raw)
	}
	return raw, nil
}
