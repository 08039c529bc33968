package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/warnsign/internal/sensor"
	"github.com/rook-computer/warnsign/internal/state"
)

type fakeNet struct {
	ip  string
	err error
}

func (f fakeNet) IP(context.Context) (string, error) { return f.ip, f.err }

func newTestMux(store *state.Store, deps APIV1Deps) *http.ServeMux {
	deps.Link = store
	return NewDefaultMux("", APIV1Config{Deps: deps})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestLink_PostAndGet(t *testing.T) {
	store := state.NewStore()
	mux := newTestMux(store, APIV1Deps{})

	rec, out := doJSON(t, mux, http.MethodPost, "/api/v1/link", `{"selector": 4, "text": "Road closed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), out["selector"])
	assert.Equal(t, "Road closed", out["text"])
	assert.Equal(t, true, out["connected"])

	store.SetOutputs("Mode 1", state.Presets[0])
	rec, out = doJSON(t, mux, http.MethodGet, "/api/v1/link", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mode 1", out["value"])
	assert.Equal(t, state.Presets[0], out["description"])
}

func TestLink_ButtonTapIsLatched(t *testing.T) {
	store := state.NewStore()
	mux := newTestMux(store, APIV1Deps{})

	doJSON(t, mux, http.MethodPost, "/api/v1/link", `{"buttonB": true}`)
	doJSON(t, mux, http.MethodPost, "/api/v1/link", `{"buttonB": false}`)

	in := store.PollInputs()
	assert.True(t, in.ButtonB)
	assert.False(t, store.PollInputs().ButtonB)
}

func TestLink_BadRequests(t *testing.T) {
	mux := newTestMux(state.NewStore(), APIV1Deps{})

	rec, out := doJSON(t, mux, http.MethodPost, "/api/v1/link", `{"selector": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", out["error"])

	rec, _ = doJSON(t, mux, http.MethodPost, "/api/v1/link", `{"volume": 3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = doJSON(t, mux, http.MethodDelete, "/api/v1/link", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", out["error"])
}

func TestSettings(t *testing.T) {
	store := state.NewStore()
	mux := newTestMux(store, APIV1Deps{})

	rec, out := doJSON(t, mux, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(60), out["brightness"])
	assert.Equal(t, float64(48), out["glyphSize"])
	assert.Equal(t, "Rainbow", out["color"])
	assert.Equal(t, state.Presets[0], out["content"])
	assert.Len(t, out["palette"], state.PaletteSize)
}

func TestSensor(t *testing.T) {
	store := state.NewStore()
	mux := newTestMux(store, APIV1Deps{})

	_, out := doJSON(t, mux, http.MethodGet, "/api/v1/sensor", "")
	assert.Equal(t, false, out["available"])
	assert.Equal(t, "mg/L", out["mode"])

	store.UpdateReading(sensor.DefaultCalibration().Convert(4095))
	_, out = doJSON(t, mux, http.MethodGet, "/api/v1/sensor", "")
	assert.Equal(t, true, out["available"])
	assert.Equal(t, float64(4095), out["raw"])
	assert.Contains(t, out["text"], "mg/L")
}

func TestFramePNG(t *testing.T) {
	mux := newTestMux(state.NewStore(), APIV1Deps{Frames: NoopFrameSource{Width: 64, Height: 32}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/frame.png?scale=2", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(128, 64), img.Bounds().Size())

	rec2, _ := doJSON(t, mux, http.MethodGet, "/api/v1/frame.png?scale=99", "")
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestQRCode(t *testing.T) {
	store := state.NewStore()
	mux := newTestMux(store, APIV1Deps{Net: fakeNet{ip: "192.168.4.1"}, Port: ":8080"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/qr.png", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)

	mux = newTestMux(store, APIV1Deps{Net: fakeNet{err: errors.New("offline")}})
	rec2, out := doJSON(t, mux, http.MethodGet, "/api/v1/qr.png", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec2.Code)
	assert.Equal(t, "no_address", out["error"])
}

func TestStaticUI(t *testing.T) {
	mux := newTestMux(state.NewStore(), APIV1Deps{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "api/v1/link")
}

func TestDevCORS(t *testing.T) {
	h := WithDevCORS(newTestMux(state.NewStore(), APIV1Deps{}))
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/link", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerConfig(t *testing.T) {
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvDevMode, "true")
	cfg, err := DefaultServerConfigFromEnv(":8080")
	require.NoError(t, err)
	assert.Equal(t, ServerConfig{ListenAddr: ":8080", DevMode: true}, cfg)
	assert.Equal(t, ":8080", cfg.Port())
	assert.Equal(t, "", ServerConfig{ListenAddr: ":80"}.Port())

	t.Setenv(EnvDevMode, "maybe")
	_, err = DefaultServerConfigFromEnv(":80")
	assert.Error(t, err)
}

func TestHTTPServer_StartStop(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", newTestMux(state.NewStore(), APIV1Deps{}))
	require.NoError(t, srv.Start(context.Background()))

	res, err := http.Get("http://" + srv.ListenAddr() + "/api/v1/settings")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	require.NoError(t, srv.Stop())
	assert.Error(t, srv.Start(context.Background()))
}
