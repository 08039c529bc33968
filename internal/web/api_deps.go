package web

import (
	"image"

	"github.com/rook-computer/warnsign/internal/state"
	"github.com/rook-computer/warnsign/internal/system"
)

// LinkStore abstracts the shared state the API reads and writes.
//
// The concrete implementation is *state.Store.
type LinkStore interface {
	Snapshot() state.State
	Touch()
	SetSelector(selector int)
	SetText(text string)
	SetButton(button state.Button, pressed bool)
}

// FrameSource exposes the last presented panel frame.
type FrameSource interface {
	Image() *image.RGBA
}

type logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type APIV1Deps struct {
	Link   LinkStore
	Frames FrameSource
	Net    system.NetInfo
	// Badge is overlaid on frame previews while the warning light is on.
	Badge image.Image
	// Port is appended to the host address in the QR code URL.
	Port string
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Link == nil {
		out.Link = state.NewStore()
	}
	if out.Frames == nil {
		out.Frames = NoopFrameSource{Width: 64, Height: 64}
	}
	if out.Net == nil {
		out.Net = system.NoopNetInfo{}
	}
	return out
}

// NoopFrameSource returns a blank frame.
type NoopFrameSource struct{ Width, Height int }

func (n NoopFrameSource) Image() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, n.Width, n.Height))
}
