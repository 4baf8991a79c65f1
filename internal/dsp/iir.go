package dsp

import "math"

// OnePole is a one-pole low-pass IIR filter built with the bilinear
// transform and a prewarped cutoff frequency.
type OnePole struct {
	b0, b1, a1 float64
	x1, y1     float64
}

// NewOnePoleLowpass builds a one-pole low-pass filter with the given cutoff
// (Hz), sample rate (Hz), and output gain.
func NewOnePoleLowpass(cutoff, sampleRate, gain float64) *OnePole {
	radianCutoff := 2 * math.Pi * cutoff
	warped := 2 * sampleRate * math.Tan(radianCutoff/(2*sampleRate))
	omegaT := warped / sampleRate
	a1 := (2 - omegaT) / (2 + omegaT)
	b0 := omegaT / (2 + omegaT)
	return &OnePole{b0: gain * b0, b1: gain * b0, a1: a1}
}

// Update advances the filter by one sample and returns the output.
func (f *OnePole) Update(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.a1*f.y1
	f.x1 = x
	f.y1 = y
	return y
}

// Reset clears the delay registers.
func (f *OnePole) Reset() {
	f.x1, f.y1 = 0, 0
}
