package afsk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkToneDemodulatesPositive(t *testing.T) {
	cfg := NewDefaultConfig(9600)
	d := New(cfg)

	n := 4000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * cfg.MarkFreq * float64(i) / cfg.SampleRate)
	}

	out := d.Demod(samples)
	require.NotEmpty(t, out)

	tail := out[len(out)/2:]
	positive := 0
	for _, v := range tail {
		if v > 0 {
			positive++
		}
	}
	assert.Greater(t, positive, len(tail)*9/10)
}

func TestSpaceToneDemodulatesNegative(t *testing.T) {
	cfg := NewDefaultConfig(9600)
	d := New(cfg)

	n := 4000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * cfg.SpaceFreq * float64(i) / cfg.SampleRate)
	}

	out := d.Demod(samples)
	require.NotEmpty(t, out)

	tail := out[len(out)/2:]
	negative := 0
	for _, v := range tail {
		if v < 0 {
			negative++
		}
	}
	assert.Greater(t, negative, len(tail)*9/10)
}

// TestSpaceGainScalesSpaceCorrelator checks that raising SpaceGain biases
// the mark-minus-space output further negative on a pure space tone, the
// de-emphasis correction afsk.py's space_gain exists for.
func TestSpaceGainScalesSpaceCorrelator(t *testing.T) {
	n := 4000
	samples := make([]float64, n)
	cfg := NewDefaultConfig(9600)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * cfg.SpaceFreq * float64(i) / cfg.SampleRate)
	}

	unityOut := New(cfg).Demod(samples)

	boosted := NewDefaultConfig(9600)
	boosted.SpaceGain = 1.7
	boostedOut := New(boosted).Demod(samples)

	require.NotEmpty(t, unityOut)
	require.NotEmpty(t, boostedOut)

	tailUnity := unityOut[len(unityOut)/2:]
	tailBoosted := boostedOut[len(boostedOut)/2:]

	var sumUnity, sumBoosted float64
	for _, v := range tailUnity {
		sumUnity += v
	}
	for _, v := range tailBoosted {
		sumBoosted += v
	}
	assert.Less(t, sumBoosted, sumUnity)
}

// TestCorrelatorSpanChangesReferenceLength checks CorrelatorSpan scales the
// quadrature correlator reference length in symbols, per afsk.py's
// correlator_span.
func TestCorrelatorSpanChangesReferenceLength(t *testing.T) {
	cfg := NewDefaultConfig(9600)
	cfg.CorrelatorSpan = 2.0
	d := New(cfg)
	assert.Len(t, d.markCos, int(cfg.SampleRate*cfg.CorrelatorSpan/cfg.BaudRate))
}
