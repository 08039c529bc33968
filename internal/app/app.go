package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/warnsign/internal/actuator"
	"github.com/rook-computer/warnsign/internal/buttons"
	"github.com/rook-computer/warnsign/internal/config"
	"github.com/rook-computer/warnsign/internal/menu"
	"github.com/rook-computer/warnsign/internal/render"
	"github.com/rook-computer/warnsign/internal/sched"
	"github.com/rook-computer/warnsign/internal/sensor"
	"github.com/rook-computer/warnsign/internal/state"
	"github.com/rook-computer/warnsign/internal/system"
	"github.com/rook-computer/warnsign/internal/web"
)

const heartbeatInterval = time.Second

type App struct {
	Config     *config.Config
	Store      *state.Store
	Display    render.Display
	Mapper     *render.Mapper
	Compositor *render.Compositor
	Machine    *menu.Machine
	// Sensor is nil when no ADC is attached.
	Sensor   *sensor.Reader
	Actuator actuator.Sink
	Buttons  buttons.Buttons
	Web      web.Server
	Logger   Logger
	// Console switches the VT into graphics mode while running.
	Console bool

	sched    *sched.Scheduler
	stale    sched.Debouncer
	localSel int
	beatAt   time.Time
	beatBase uint64

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(cfg *config.Config, store *state.Store, display render.Display, raster render.Rasterizer) *App {
	_, height := display.Size()
	return &App{
		Config:  cfg,
		Store:   store,
		Display: display,
		Mapper: &render.Mapper{
			Raster:           raster,
			Height:           height,
			Margin:           cfg.Display.CanvasMargin,
			MaxPixels:        cfg.Display.MaxCanvasPixels,
			BottomHalfOffset: cfg.Display.BottomHalfOffset,
		},
		Compositor: render.NewCompositor(display),
		Machine:    menu.NewMachine(state.DefaultSettings()),
		Actuator:   actuator.NoopSink{},
		Buttons:    buttons.NewNoopButtons(),
		Web:        &web.NoopServer{},
		Logger:     NoopLogger{},
		localSel:   -1,
		exitCh:     make(chan error, 1),
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Boot applies the startup outputs, builds the first canvas and registers
// the periodic tasks. Start calls it; tests drive Step directly after it.
func (app *App) Boot() {
	app.Mapper.Logger = app.Logger
	app.stale.Window = app.Config.Menu.Debounce

	settings := app.Machine.Settings()
	app.Display.SetBrightness(uint8(settings.Brightness))
	app.actuate(app.Actuator.SetControlLine(false), "control line")
	app.actuate(app.Actuator.SetDuty(0), "buzzer duty")
	app.Store.PublishSettings(settings)
	app.regenerate()

	app.sched = sched.New(
		&sched.Task{Name: "input", Run: app.pollInput},
		&sched.Task{Name: "sample", Period: app.Config.Sensor.Interval, Run: app.sample},
		&sched.Task{Name: "regenerate", Run: app.regenerateIfStale},
		&sched.Task{Name: "animate", Period: app.Config.Display.FrameInterval, Run: app.animate},
	)
}

// Step runs every task due at now.
func (app *App) Step(now time.Time) {
	if app.sched == nil {
		app.Boot()
	}
	app.sched.Step(now)
}

func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)

	if dev, ok := app.Display.(render.Device); ok {
		if err := dev.Start(ctx); err != nil {
			app.Logger.Errorf("app", "display start error: %v", err)
			return err
		}
		defer dev.Stop()
	}
	if app.Console {
		system.EnterPanelMode(app.Logger)
		defer system.LeavePanelMode(app.Logger)
	}

	if err := app.Buttons.Start(ctx); err != nil {
		app.Logger.Errorf("app", "buttons start error: %v", err)
	} else {
		defer app.Buttons.Stop()
	}
	if err := app.Web.Start(ctx); err != nil {
		app.Logger.Errorf("app", "web start error: %v", err)
	} else {
		defer app.Web.Stop()
	}

	app.Boot()

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sched.Run(loopCtx)
	}()

	var err error
	for done := false; !done; {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			done = true
		case err = <-app.exitCh:
			done = true
		case ev := <-app.Buttons.Events():
			if ev == buttons.Exit {
				app.Logger.Infof("app", "exit requested from local input")
				app.Exit(nil)
			}
		}
	}
	cancel()
	wg.Wait()

	app.actuate(app.Actuator.SetDuty(0), "buzzer duty")
	return err
}

func (app *App) pollInput(now time.Time) {
	in := app.Store.PollInputs()

	local := app.Buttons.Levels()
	in.ButtonA = in.ButtonA || local.A
	in.ButtonB = in.ButtonB || local.B
	if local.Selector != app.localSel {
		app.localSel = local.Selector
		if local.Selector >= 0 {
			app.Store.SetSelector(local.Selector)
			in.Selector = local.Selector
		}
	}

	var env menu.Env
	if snap := app.Store.Snapshot(); snap.HasReading {
		env.Reading = &snap.Reading
	}
	effects := app.Machine.Step(in, env)
	for _, effect := range effects {
		app.apply(effect, now)
	}
	app.Store.PublishSettings(app.Machine.Settings())
}

func (app *App) apply(effect menu.Effect, now time.Time) {
	switch e := effect.(type) {
	case menu.SetControlLine:
		app.actuate(app.Actuator.SetControlLine(e.High), "control line")
	case menu.SetDuty:
		app.actuate(app.Actuator.SetDuty(e.Duty), "buzzer duty")
	case menu.SetBrightness:
		app.Display.SetBrightness(e.Level)
	case menu.MarkStale:
		app.stale.Mark(now)
	case menu.Readout:
		app.Store.SetOutputs(e.Value, e.Description)
	}
}

func (app *App) actuate(err error, what string) {
	if err != nil {
		app.Logger.Errorf("actuator", "%s: %v", what, err)
	}
}

func (app *App) sample(time.Time) {
	settings := app.Machine.Settings()
	if app.Sensor == nil || !settings.SensorActive() {
		return
	}
	reading, err := app.Sensor.Sample()
	if err != nil {
		if !errors.Is(err, sensor.ErrNoSample) {
			app.Logger.Errorf("sensor", "sample: %v", err)
		}
		return
	}
	app.Store.UpdateReading(reading)
	if app.Machine.Pane() == menu.PaneSensor {
		app.Store.SetOutputs(settings.SensorMode.String(), menu.SensorText(settings.SensorMode, reading))
	}
}

func (app *App) regenerateIfStale(now time.Time) {
	if app.stale.Fire(now) {
		app.regenerate()
	}
}

func (app *App) regenerate() {
	s := app.Machine.Settings()
	app.Compositor.Reset(app.Mapper.Regenerate(s.Content(), s.GlyphSize, s.ColorIndex))
}

func (app *App) animate(now time.Time) {
	if err := app.Compositor.Tick(app.Machine.Settings().ScrollSpeed); err != nil {
		app.Logger.Errorf("render", "present: %v", err)
	}
	app.Store.AddFrame()

	if app.beatAt.IsZero() {
		app.beatAt = now
		return
	}
	if now.Sub(app.beatAt) >= heartbeatInterval {
		frames := app.Store.Snapshot().Frames
		width := 0
		if c := app.Compositor.Canvas(); c != nil {
			width = c.Width
		}
		app.Logger.Infof("render", "heartbeat frames=%d (+%d) canvas_width=%d cursor=%.0f",
			frames, frames-app.beatBase, width, app.Compositor.Cursor())
		app.beatAt = now
		app.beatBase = frames
	}
}

// Logger interface and implementations
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

type FileLogger struct{ w io.Writer }

func NewFileLogger(w io.Writer) FileLogger { return FileLogger{w: w} }
func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	writeLog(l.w, "INFO", component, format, args...)
}
func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	writeLog(l.w, "ERROR", component, format, args...)
}

func writeLog(w io.Writer, level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	_, _ = io.WriteString(w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}
