package dsp

import "math"

// FIR is a fixed finite-impulse-response filter.
type FIR struct {
	Taps []float64
}

// NewFIR wraps a precomputed tap array.
func NewFIR(taps []float64) *FIR {
	return &FIR{Taps: taps}
}

// Convolve returns the valid-region convolution of input with the filter's
// taps: len(input) - len(taps) + 1 samples, or nil if input is too short.
func (f *FIR) Convolve(input []float64) []float64 {
	n := len(input) - len(f.Taps) + 1
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j, tap := range f.Taps {
			// direct-form convolution: tap 0 weights the newest sample of
			// the window, input[i+len(f.Taps)-1].
			sum += tap * input[i+len(f.Taps)-1-j]
		}
		out[i] = sum
	}
	return out
}

// BandpassTaps generates window-method FIR taps for a band-pass filter
// between low and high cutoff frequencies (Hz) at the given sample rate,
// using the named window (Hamming by default when name is empty).
func BandpassTaps(tapCount int, low, high, sampleRate float64, window string) []float64 {
	if window == "" {
		window = "hamming"
	}
	taps := make([]float64, tapCount)
	m := float64(tapCount - 1)
	wLow := 2 * math.Pi * low / sampleRate
	wHigh := 2 * math.Pi * high / sampleRate
	for n := 0; n < tapCount; n++ {
		k := float64(n) - m/2
		var ideal float64
		if k == 0 {
			ideal = (wHigh - wLow) / math.Pi
		} else {
			ideal = (math.Sin(wHigh*k) - math.Sin(wLow*k)) / (math.Pi * k)
		}
		taps[n] = ideal * windowSample(window, n, tapCount)
	}
	normalizeL2(taps)
	return taps
}

// LowpassTaps generates window-method FIR taps for a low-pass filter at the
// given cutoff frequency (Hz) and sample rate.
func LowpassTaps(tapCount int, cutoff, sampleRate float64, window string) []float64 {
	if window == "" {
		window = "hamming"
	}
	taps := make([]float64, tapCount)
	m := float64(tapCount - 1)
	wc := 2 * math.Pi * cutoff / sampleRate
	for n := 0; n < tapCount; n++ {
		k := float64(n) - m/2
		var ideal float64
		if k == 0 {
			ideal = wc / math.Pi
		} else {
			ideal = math.Sin(wc*k) / (math.Pi * k)
		}
		taps[n] = ideal * windowSample(window, n, tapCount)
	}
	normalizeL2(taps)
	return taps
}

// windowSample evaluates a named window (adding "hamming" on top of the
// shared Coefficients set, since it is the classic firwin default) at
// sample index n of an N-tap window.
func windowSample(name string, n, tapCount int) float64 {
	if name == "hamming" {
		N := float64(tapCount - 1)
		return 0.54 - 0.46*math.Cos(2*math.Pi*float64(n)/N)
	}
	return Coefficients(name, tapCount)[n]
}
