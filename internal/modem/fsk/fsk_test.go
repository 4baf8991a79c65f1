package fsk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscriminatorTracksToneAboveCenter(t *testing.T) {
	const sampleRate, center = 9600.0, 1700.0
	const tone = 1900.0

	cfg := NewDefaultConfig(sampleRate, center)
	d := New(cfg)

	n := 4000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Cos(2 * math.Pi * tone * float64(i) / sampleRate)
	}

	out := d.Demod(samples)
	require.NotEmpty(t, out)

	tail := out[len(out)/2:]
	var sum float64
	for _, v := range tail {
		sum += v
	}
	avg := sum / float64(len(tail))
	assert.InDelta(t, tone-center, avg, 100)
}
