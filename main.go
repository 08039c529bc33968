package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"periph.io/x/conn/v3/physic"

	"github.com/rook-computer/warnsign/internal/actuator"
	"github.com/rook-computer/warnsign/internal/app"
	"github.com/rook-computer/warnsign/internal/buttons"
	"github.com/rook-computer/warnsign/internal/config"
	"github.com/rook-computer/warnsign/internal/render"
	"github.com/rook-computer/warnsign/internal/sensor"
	"github.com/rook-computer/warnsign/internal/state"
	"github.com/rook-computer/warnsign/internal/system"
	"github.com/rook-computer/warnsign/internal/web"
)

const badgeSize = 48

func main() {
	fmt.Println("Warnsign starting")

	// Flags
	configPath := flag.String("config", "/etc/warnsign.yaml", "path to the YAML configuration file")
	debug := flag.Bool("debug", false, "enable debug logging to ./warnsign-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via WARNSIGN_STDIO_LOG")
	listen := flag.String("listen", "", "override the web listen address")
	noFB := flag.Bool("no-fb", false, "do not mirror the panel to the framebuffer")
	flag.Parse()

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("WARNSIGN_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	// Local file logger when debug enabled
	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./warnsign-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Web.Listen = *listen
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raster, err := newRasterizer(cfg.Font)
	if err != nil {
		fmt.Println("font error:", err)
		os.Exit(1)
	}

	// Panel sink; the framebuffer mirror is optional on bench setups.
	var display render.Display
	var frames web.FrameSource
	if cfg.Display.Framebuffer != "" && !*noFB {
		fbDisplay := render.NewFramebufferDisplay(cfg.Display.Width, cfg.Display.Height)
		fbDisplay.Path = cfg.Display.Framebuffer
		fbDisplay.Logger = logger
		display, frames = fbDisplay, fbDisplay
	} else {
		mem := render.NewMemoryDisplay(cfg.Display.Width, cfg.Display.Height)
		display, frames = mem, mem
	}

	store := state.NewStore()
	a := app.New(cfg, store, display, raster)
	a.Logger = logger
	a.Console = cfg.Display.Framebuffer != "" && !*noFB

	// Sensor bridge
	if cfg.Sensor.Port != "" {
		adc := sensor.NewSerialADC(cfg.Sensor.Port, cfg.Sensor.BaudRate)
		adc.Logger = logger
		if err := adc.Connect(ctx); err != nil {
			logger.Errorf("main", "sensor disabled: %v", err)
		} else {
			defer adc.Close()
			a.Sensor = sensor.NewReader(adc, cfg.Sensor.Calibration)
		}
	}

	// Actuators and local buttons
	inputs := []buttons.Buttons{buttons.NewKeypad(logger)}
	if cfg.GPIO.Enabled {
		gpio := &actuator.GPIO{
			Chip:            cfg.GPIO.Chip,
			ControlOffset:   cfg.GPIO.ControlLine,
			BuzzerPin:       cfg.GPIO.BuzzerPin,
			BuzzerFrequency: physic.Frequency(cfg.GPIO.BuzzerFrequency) * physic.Hertz,
			Logger:          logger,
		}
		if err := gpio.Open(); err != nil {
			logger.Errorf("main", "gpio disabled: %v", err)
		} else {
			defer gpio.Close()
			a.Actuator = gpio
		}
		inputs = append(inputs, buttons.NewGPIOButtons(cfg.GPIO.Chip, cfg.GPIO.ButtonA, cfg.GPIO.ButtonB))
	}
	a.Buttons = buttons.Merge(inputs...)

	// Web
	srvCfg, err := web.DefaultServerConfigFromEnv(cfg.Web.Listen)
	if err != nil {
		fmt.Println("web config error:", err)
		os.Exit(1)
	}
	deps := web.APIV1Deps{
		Link:   store,
		Frames: frames,
		Net:    system.HostNetInfo{Runner: system.ShellRunner{}},
		Port:   srvCfg.Port(),
	}
	if badge, err := render.WarningIcon(badgeSize); err == nil {
		deps.Badge = badge
	} else {
		logger.Errorf("main", "warning icon: %v", err)
	}
	mux := web.NewDefaultMux("", web.APIV1Config{Deps: deps})
	var handler http.Handler = mux
	if srvCfg.DevMode {
		handler = web.WithDevCORS(mux)
	}
	server := web.NewHTTPServer(srvCfg.ListenAddr, handler)
	server.Logger = logger
	a.Web = server

	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
	fmt.Println("Warnsign stopped")
}

func newRasterizer(cfg config.FontConfig) (render.Rasterizer, error) {
	var data []byte
	if cfg.Path != "" {
		b, err := os.ReadFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		data = b
	}
	return render.NewRasterizer(cfg.Backend, data)
}
