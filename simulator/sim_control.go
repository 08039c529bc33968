package main

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"sync"

	"github.com/rook-computer/warnsign/internal/actuator"
	"github.com/rook-computer/warnsign/internal/sensor"
)

type SimFaults struct {
	// ADCFail makes every sensor read fail.
	ADCFail bool `json:"adcFail"`
	// ADCSilent makes the ADC report no sample yet.
	ADCSilent bool `json:"adcSilent"`
}

// SimADC is a random-walk stand-in for the serial sensor bridge.
type SimADC struct {
	mu     sync.Mutex
	raw    int
	base   int
	drift  int
	held   bool
	faults SimFaults
	rng    *rand.Rand
}

const (
	defaultSimBase  = 600
	defaultSimDrift = 40
	adcMax          = 4095
)

func NewSimADC(seed int64) *SimADC {
	return &SimADC{
		raw:   defaultSimBase,
		base:  defaultSimBase,
		drift: defaultSimDrift,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

var errSimADC = errors.New("simulated adc failure")

func (a *SimADC) Read() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.faults.ADCFail:
		return 0, errSimADC
	case a.faults.ADCSilent:
		return 0, sensor.ErrNoSample
	}
	if !a.held && a.drift > 0 {
		a.raw += a.rng.Intn(2*a.drift+1) - a.drift
		// Pull back toward the baseline so the walk stays near it.
		a.raw += (a.base - a.raw) / 8
	}
	a.raw = clampRaw(a.raw)
	return a.raw, nil
}

// Set pins the output to raw, or releases it into a walk around raw when
// hold is false.
func (a *SimADC) Set(raw int, hold bool) {
	a.mu.Lock()
	a.raw = clampRaw(raw)
	a.base = a.raw
	a.held = hold
	a.mu.Unlock()
}

func (a *SimADC) Reset() {
	a.mu.Lock()
	a.raw, a.base, a.drift, a.held = defaultSimBase, defaultSimBase, defaultSimDrift, false
	a.faults = SimFaults{}
	a.mu.Unlock()
}

func (a *SimADC) Faults() SimFaults {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.faults
}

func (a *SimADC) SetFaults(v SimFaults) {
	a.mu.Lock()
	a.faults = v
	a.mu.Unlock()
}

type adcStatus struct {
	Raw   int  `json:"raw"`
	Base  int  `json:"base"`
	Drift int  `json:"drift"`
	Held  bool `json:"held"`
}

func (a *SimADC) status() adcStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return adcStatus{Raw: a.raw, Base: a.base, Drift: a.drift, Held: a.held}
}

func clampRaw(v int) int {
	if v < 0 {
		return 0
	}
	if v > adcMax {
		return adcMax
	}
	return v
}

func registerSimEndpoints(mux *http.ServeMux, adc *SimADC, sink *actuator.MemorySink) {
	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		adc.Reset()
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/adc", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, adc.status())
		case http.MethodPost:
			var req struct {
				Raw  *int `json:"raw"`
				Hold bool `json:"hold"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Raw == nil {
				writeSimError(w, http.StatusBadRequest, "raw is required")
				return
			}
			adc.Set(*req.Raw, req.Hold)
			writeSimJSON(w, http.StatusOK, adc.status())
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/sim/actuator", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		duty, high := sink.State()
		writeSimJSON(w, http.StatusOK, map[string]any{"duty": duty, "controlLineHigh": high, "writes": sink.Writes()})
	})

	mux.HandleFunc("/sim/faults", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, adc.Faults())
		case http.MethodPost:
			var patch struct {
				ADCFail   *bool `json:"adcFail"`
				ADCSilent *bool `json:"adcSilent"`
			}
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			current := adc.Faults()
			if patch.ADCFail != nil {
				current.ADCFail = *patch.ADCFail
			}
			if patch.ADCSilent != nil {
				current.ADCSilent = *patch.ADCSilent
			}
			adc.SetFaults(current)
			writeSimJSON(w, http.StatusOK, current)
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
