package psk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBPSKLoopLocksFrequency starts the NCO a few Hz off the true carrier
// and checks the loop actually pulls in: a locked BPSK Costas loop drives
// its error term I*Q toward zero, which means Q collapses relative to I in
// the steady state.
func TestBPSKLoopLocksFrequency(t *testing.T) {
	const sampleRate = 9600.0
	const carrier = 1500.0

	cfg := NewDefaultConfig(sampleRate, BPSK)
	cfg.CenterFreq = carrier - 5 // small offset within the loop's capture range
	cfg.SymbolRate = 300
	d := New(cfg)

	n := 8000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Cos(2 * math.Pi * carrier * float64(i) / sampleRate)
	}

	out := d.Demod(samples)
	require.NotEmpty(t, out)

	tail := out[len(out)*3/4:]
	var sumAbsI, sumAbsQ float64
	for _, s := range tail {
		sumAbsI += math.Abs(s.I)
		sumAbsQ += math.Abs(s.Q)
	}
	require.Greater(t, sumAbsI, 0.0)
	assert.Less(t, sumAbsQ/sumAbsI, 0.5, "locked BPSK loop should collapse Q relative to I")
}

func TestWrapPhaseStaysInRange(t *testing.T) {
	cases := []float64{0, math.Pi, -math.Pi, 3 * math.Pi, -3 * math.Pi, 0.1}
	for _, c := range cases {
		w := WrapPhase(c)
		assert.GreaterOrEqual(t, w, -math.Pi)
		assert.Less(t, w, math.Pi+1e-9)
	}
}

func TestPhaseErrorSignsForBPSK(t *testing.T) {
	assert.Greater(t, phaseError(1, 1, BPSK), 0.0)
	assert.Less(t, phaseError(1, -1, BPSK), 0.0)
}

func TestMPSKAngleErrorNearZeroAtConstellationPoint(t *testing.T) {
	// MPSK8's constellation points sit at 22.5 + k*45 degrees; a point
	// exactly on one should read (near) zero error.
	angle := 22.5 * math.Pi / 180
	i, q := math.Cos(angle), math.Sin(angle)
	assert.InDelta(t, 0.0, mpskAngleError(i, q, MPSK8), 1e-6)
}

func TestMPSKAngleErrorAtDecisionBoundary(t *testing.T) {
	// Halfway between two adjacent constellation points (0 degrees) is the
	// maximum-error decision boundary, +/-22.5 degrees from either point.
	i, q := 1.0, 0.0
	errDeg := mpskAngleError(i, q, MPSK8)
	assert.InDelta(t, 22.5, math.Abs(errDeg), 1e-6)
}

func TestDemodulatorUsesHilbertPathForMPSK(t *testing.T) {
	cfg := NewDefaultConfig(9600, MPSK8)
	cfg.CenterFreq = 1800
	d := New(cfg)
	assert.NotNil(t, d.hilbert)
	assert.Nil(t, d.iLPF)
}

func TestDemodulatorUsesRealMixerPathForQPSK(t *testing.T) {
	cfg := NewDefaultConfig(9600, QPSK)
	d := New(cfg)
	assert.Nil(t, d.hilbert)
	assert.NotNil(t, d.iLPF)
}
