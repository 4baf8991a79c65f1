package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIRConvolveLength(t *testing.T) {
	f := NewFIR([]float64{1, 0, 0})
	out := f.Convolve([]float64{1, 2, 3, 4, 5})
	require.Len(t, out, 3)
	assert.InDeltaSlice(t, []float64{3, 4, 5}, out, 1e-9)
}

func TestLowpassTapsNormalized(t *testing.T) {
	taps := LowpassTaps(31, 1000, 8000, "")
	var sumSq float64
	for _, v := range taps {
		sumSq += v * v
	}
	assert.InDelta(t, 1.0, sumSq, 1e-6)
}

func TestOnePoleLowpassDC(t *testing.T) {
	f := NewOnePoleLowpass(100, 8000, 1.0)
	var y float64
	for i := 0; i < 10000; i++ {
		y = f.Update(1.0)
	}
	assert.InDelta(t, 1.0, y, 1e-3)
}

func TestNCOWrapsAndQuadrature(t *testing.T) {
	n := NewNCO(8000, 1.0, 1000)
	for i := 0; i < 100; i++ {
		n.Update()
	}
	mag := n.Sine*n.Sine + n.Cosine*n.Cosine
	assert.InDelta(t, 1.0, mag, 0.05)
}

func TestAGCDrivesToTarget(t *testing.T) {
	a := NewAGC(500, 50, 1.0, 8000, 10000)
	buf := make([]float64, 4000)
	for i := range buf {
		buf[i] = 5000 * math.Sin(2*math.Pi*300*float64(i)/8000)
	}
	a.Apply(buf)
	var peak float64
	for _, v := range buf[len(buf)/2:] {
		if math.Abs(v) > peak {
			peak = math.Abs(v)
		}
	}
	assert.InDelta(t, 10000, peak, 3000)
}

func TestPIControllerResetVariant(t *testing.T) {
	c := NewPIController(0.1, 0.1, 10, 1000, false)
	for i := 0; i < 5; i++ {
		c.Update(1.0)
	}
	assert.Equal(t, 0.0, c.Integral)
}

func TestPIControllerSaturateVariant(t *testing.T) {
	c := NewPIController(0.1, 0.1, 10, 1000, true)
	for i := 0; i < 5; i++ {
		c.Update(1.0)
	}
	assert.Equal(t, 10.0, c.Integral)
}

func TestHilbertPairAligned(t *testing.T) {
	h := NewHilbert(21, "")
	input := make([]float64, 200)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * 500 * float64(i) / 8000)
	}
	real, imag := h.Analytic(input)
	require.Equal(t, len(real), len(imag))
	require.Greater(t, len(real), 0)
}
