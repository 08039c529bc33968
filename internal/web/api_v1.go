package web

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/rook-computer/warnsign/internal/render"
	"github.com/rook-computer/warnsign/internal/state"
)

const (
	maxLinkBody     = 4 << 10
	maxPreviewScale = 16
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type linkResponse struct {
	state.LinkInputs
	state.LinkOutputs
}

// linkRequest fields are optional; absent fields keep their value.
type linkRequest struct {
	Selector *int    `json:"selector"`
	ButtonA  *bool   `json:"buttonA"`
	ButtonB  *bool   `json:"buttonB"`
	Text     *string `json:"text"`
}

type settingsResponse struct {
	state.Settings
	Content string   `json:"content"`
	Color   string   `json:"color"`
	Presets []string `json:"presets"`
	Palette []string `json:"palette"`
	Frames  uint64   `json:"frames"`
}

type sensorResponse struct {
	Mode      string     `json:"mode"`
	Active    bool       `json:"active"`
	Available bool       `json:"available"`
	Raw       int        `json:"raw"`
	Voltage   float32    `json:"voltage"`
	PPM       float32    `json:"ppm"`
	MgL       float32    `json:"mgL"`
	Text      string     `json:"text"`
	At        *time.Time `json:"at,omitempty"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/link", func(w http.ResponseWriter, r *http.Request) { handleLink(w, r, deps) })
	mux.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) { handleSettings(w, r, deps) })
	mux.HandleFunc("/sensor", func(w http.ResponseWriter, r *http.Request) { handleSensor(w, r, deps) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, deps) })
	mux.HandleFunc("/qr.png", func(w http.ResponseWriter, r *http.Request) { handleQRCode(w, r, deps) })
	return mux
}

func handleLink(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req linkRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLinkBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		if req.Selector != nil {
			deps.Link.SetSelector(*req.Selector)
		}
		if req.ButtonA != nil {
			deps.Link.SetButton(state.ButtonA, *req.ButtonA)
		}
		if req.ButtonB != nil {
			deps.Link.SetButton(state.ButtonB, *req.ButtonB)
		}
		if req.Text != nil {
			deps.Link.SetText(*req.Text)
		}
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	deps.Link.Touch()
	snap := deps.Link.Snapshot()
	writeJSON(w, http.StatusOK, linkResponse{LinkInputs: snap.Inputs, LinkOutputs: snap.Outputs})
}

func handleSettings(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	snap := deps.Link.Snapshot()
	resp := settingsResponse{
		Settings: snap.Settings,
		Content:  snap.Settings.Content(),
		Color:    snap.Settings.Color().Name,
		Presets:  state.Presets[:],
		Frames:   snap.Frames,
	}
	for _, entry := range state.Palette {
		resp.Palette = append(resp.Palette, entry.Name)
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleSensor(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	snap := deps.Link.Snapshot()
	resp := sensorResponse{
		Mode:      snap.Settings.SensorMode.String(),
		Active:    snap.Settings.SensorActive(),
		Available: snap.HasReading,
	}
	if snap.HasReading {
		reading := snap.Reading
		resp.Raw = reading.Raw
		resp.Voltage = reading.Voltage
		resp.PPM = reading.PPM
		resp.MgL = reading.MgL
		resp.At = &reading.At
		if snap.Settings.SensorMode == state.SensorPPM {
			resp.Text = reading.PPMText()
		} else {
			resp.Text = reading.MgLText()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleFrame(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	scale := 4
	if raw := r.URL.Query().Get("scale"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPreviewScale {
			writeAPIError(w, http.StatusBadRequest, "bad_scale", "scale must be between 1 and 16")
			return
		}
		scale = parsed
	}

	badge := deps.Badge
	if !deps.Link.Snapshot().Settings.AlarmActive {
		badge = nil
	}
	img := render.Preview(deps.Frames.Image(), scale, badge)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func handleQRCode(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	ip, err := deps.Net.IP(r.Context())
	if err != nil || ip == "" {
		writeAPIError(w, http.StatusServiceUnavailable, "no_address", "device address unknown")
		return
	}
	data, err := render.QRCodePNG("http://"+ip+deps.Port+"/", 0)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
