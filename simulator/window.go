package main

import (
	"context"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/rook-computer/warnsign/internal/buttons"
	"github.com/rook-computer/warnsign/internal/render"
	"github.com/rook-computer/warnsign/internal/state"
)

const previewScale = 8

var paneKeys = [...]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// windowInput exposes the window keyboard as local buttons.
type windowInput struct {
	mu     sync.Mutex
	levels buttons.Levels
	events chan buttons.Event
}

func newWindowInput() *windowInput {
	return &windowInput{levels: buttons.Levels{Selector: -1}, events: make(chan buttons.Event, 1)}
}

func (w *windowInput) Start(ctx context.Context) error { return nil }
func (w *windowInput) Stop() error                     { return nil }
func (w *windowInput) Events() <-chan buttons.Event    { return w.events }

func (w *windowInput) Levels() buttons.Levels {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.levels
}

func (w *windowInput) poll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, key := range paneKeys {
		if ebiten.IsKeyPressed(key) {
			w.levels.Selector = i
		}
	}
	w.levels.A = ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	w.levels.B = ebiten.IsKeyPressed(ebiten.KeyArrowRight)
}

func (w *windowInput) requestExit() {
	select {
	case w.events <- buttons.Exit:
	default:
	}
}

// panelGame draws the last presented panel frame, with the warning badge
// strip below it.
type panelGame struct {
	display *render.MemoryDisplay
	store   *state.Store
	input   *windowInput
	badge   image.Image
	blank   image.Image
	done    <-chan struct{}
	size    image.Point

	img *ebiten.Image
}

func (g *panelGame) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.input.requestExit()
	}
	g.input.poll()
	return nil
}

func (g *panelGame) Draw(screen *ebiten.Image) {
	badge := g.blank
	if g.store.Snapshot().Settings.AlarmActive {
		badge = g.badge
	}
	frame := render.Preview(g.display.Image(), previewScale, badge)
	if g.img == nil || g.img.Bounds() != frame.Bounds() {
		g.img = ebiten.NewImage(frame.Bounds().Dx(), frame.Bounds().Dy())
	}
	g.img.WritePixels(frame.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *panelGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size.X, g.size.Y
}
