package dsp

import "math"

// Hilbert is an odd-length Hilbert transform FIR paired with a matched
// delay FIR so a real signal can be complexified: Imag = Hilbert(x),
// Real = Delay(x), both carrying the same group delay.
type Hilbert struct {
	Taps      []float64
	DelayTaps []float64
	Delay     int
}

// NewHilbert builds a tap_count-tap (must be odd) Hilbert pair windowed
// with the named window (Hann by default).
func NewHilbert(tapCount int, window string) *Hilbert {
	if window == "" {
		window = WindowHann
	}
	delay := tapCount / 2
	taps := make([]float64, tapCount)
	for i := 0; i < tapCount; i++ {
		n := i - delay
		if n%2 != 0 {
			taps[i] = 2 / (math.Pi * float64(n))
		}
	}
	win := Coefficients(window, tapCount)
	for i := range taps {
		taps[i] *= win[i]
	}
	delayTaps := make([]float64, delay+1)
	delayTaps[0] = 1
	return &Hilbert{Taps: taps, DelayTaps: delayTaps, Delay: delay}
}

// Analytic convolves input with both the Hilbert and delay FIRs, returning
// aligned real and imaginary streams (both len(input) - 2*Delay samples).
func (h *Hilbert) Analytic(input []float64) (real, imag []float64) {
	imag = NewFIR(h.Taps).Convolve(input)
	realFull := NewFIR(h.DelayTaps).Convolve(input)
	// realFull is longer than imag by Delay samples in total. Output i of
	// both streams is already centred on input[i+Delay], so the extra
	// samples are dropped from the end.
	if len(realFull) > len(imag) {
		realFull = realFull[:len(imag)]
	}
	return realFull, imag
}
