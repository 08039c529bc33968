package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/warnsign/internal/actuator"
	"github.com/rook-computer/warnsign/internal/sensor"
)

func TestSimADC_WalkStaysInRange(t *testing.T) {
	adc := NewSimADC(1)
	adc.Set(4090, false)
	for i := 0; i < 1000; i++ {
		raw, err := adc.Read()
		require.NoError(t, err)
		require.GreaterOrEqual(t, raw, 0)
		require.LessOrEqual(t, raw, adcMax)
	}
}

func TestSimADC_HoldAndFaults(t *testing.T) {
	adc := NewSimADC(1)
	adc.Set(1234, true)
	for i := 0; i < 10; i++ {
		raw, err := adc.Read()
		require.NoError(t, err)
		assert.Equal(t, 1234, raw)
	}

	adc.SetFaults(SimFaults{ADCSilent: true})
	_, err := adc.Read()
	assert.ErrorIs(t, err, sensor.ErrNoSample)

	adc.SetFaults(SimFaults{ADCFail: true})
	_, err = adc.Read()
	assert.ErrorIs(t, err, errSimADC)

	adc.Reset()
	assert.Equal(t, SimFaults{}, adc.Faults())
	assert.Equal(t, adcStatus{Raw: defaultSimBase, Base: defaultSimBase, Drift: defaultSimDrift}, adc.status())
}

func TestSimEndpoints(t *testing.T) {
	adc := NewSimADC(1)
	sink := &actuator.MemorySink{}
	_ = sink.SetControlLine(true)
	mux := http.NewServeMux()
	registerSimEndpoints(mux, adc, sink)

	req := httptest.NewRequest(http.MethodPost, "/sim/adc", strings.NewReader(`{"raw": 5000, "hold": true}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"raw":4095,"base":4095,"drift":40,"held":true}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/sim/adc", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/sim/actuator", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"duty":0,"controlLineHigh":true,"writes":1}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/sim/faults", strings.NewReader(`{"adcFail": true}`))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, adc.Faults().ADCFail)
}
