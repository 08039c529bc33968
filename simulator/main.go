package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

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

const badgeSize = 96

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, embedded web UI assets are served")
	configPath := flag.String("config", "", "optional YAML configuration file")
	headless := flag.Bool("headless", false, "run without a window; use the web UI only")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for the simulated sensor")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Println("config error:", err)
			os.Exit(2)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if *verbose {
		logger = app.NewFileLogger(os.Stderr)
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raster, err := render.NewRasterizer(cfg.Font.Backend, nil)
	if err != nil {
		fmt.Println("font error:", err)
		os.Exit(2)
	}

	store := state.NewStore()
	display := render.NewMemoryDisplay(cfg.Display.Width, cfg.Display.Height)
	adc := NewSimADC(*seed)
	sink := &actuator.MemorySink{}

	a := app.New(cfg, store, display, raster)
	a.Logger = logger
	a.Sensor = sensor.NewReader(adc, cfg.Sensor.Calibration)
	a.Actuator = sink

	badge, err := render.WarningIcon(badgeSize)
	if err != nil {
		fmt.Println("warning icon error:", err)
		os.Exit(2)
	}

	mux := web.NewDefaultMux(*staticDir, web.APIV1Config{Deps: web.APIV1Deps{
		Link:   store,
		Frames: display,
		Net:    fixedNetInfo("127.0.0.1"),
		Badge:  badge,
		Port:   web.ServerConfig{ListenAddr: *listenAddr}.Port(),
	}})
	registerSimEndpoints(mux, adc, sink)
	server := web.NewHTTPServer(*listenAddr, mux)
	if *devMode {
		server.Handler = web.WithDevCORS(mux)
	}
	server.Logger = logger
	a.Web = server

	input := newWindowInput()
	if !*headless {
		a.Buttons = input
	}

	fmt.Println("Warnsign simulator listening on", *listenAddr)
	fmt.Println("Keys: 1-9 select a pane, left/right are buttons A/B, Esc exits")

	appCtx, cancel := context.WithCancel(processCtx)
	defer cancel()
	done := make(chan struct{})
	var appErr error
	go func() {
		defer close(done)
		appErr = a.Start(appCtx)
	}()

	if !*headless {
		blank := image.NewRGBA(badge.Bounds())
		game := &panelGame{
			display: display,
			store:   store,
			input:   input,
			badge:   badge,
			blank:   blank,
			done:    done,
			size:    render.Preview(display.Image(), previewScale, blank).Bounds().Size(),
		}
		ebiten.SetWindowTitle("Warnsign simulator")
		ebiten.SetWindowSize(game.size.X, game.size.Y)
		ebiten.SetTPS(60)
		if err := ebiten.RunGame(game); err != nil {
			fmt.Println("window error:", err)
		}
		cancel()
	}

	<-done
	if appErr != nil && !errors.Is(appErr, context.Canceled) {
		fmt.Println("app error:", appErr)
		os.Exit(1)
	}
}

// fixedNetInfo reports a constant address for the QR code.
type fixedNetInfo string

func (f fixedNetInfo) IP(context.Context) (string, error) { return string(f), nil }

var _ system.NetInfo = fixedNetInfo("")
var _ buttons.Buttons = (*windowInput)(nil)
