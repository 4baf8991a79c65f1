// Package fsk demodulates generic (non-audio-tone) frequency-shift-keyed
// signals with a phase-difference discriminator: the input is complexified
// via a Hilbert pair, and the sample-to-sample phase rotation is converted
// directly to instantaneous frequency, the way an FM discriminator works.
package fsk

import (
	"math"

	"github.com/cwsl/pktsdr/internal/dsp"
)

// Config parameterizes an FSK discriminator.
type Config struct {
	SampleRate float64
	CenterFreq float64

	HilbertTaps int
	Window      string

	LowpassTaps   int
	LowpassCutoff float64
}

// NewDefaultConfig returns a starting configuration for a discriminator
// centered on centerFreq.
func NewDefaultConfig(sampleRate, centerFreq float64) Config {
	return Config{
		SampleRate:    sampleRate,
		CenterFreq:    centerFreq,
		HilbertTaps:   65,
		Window:        dsp.WindowHann,
		LowpassTaps:   65,
		LowpassCutoff: centerFreq / 2,
	}
}

// Discriminator is a stateful FM-style phase-difference FSK demodulator.
type Discriminator struct {
	cfg     Config
	hilbert *dsp.Hilbert
	lowpass dsp.FIR
}

// New builds a Discriminator. The lowpass taps are rescaled to unit DC gain
// so that Demod's output stays in Hz.
func New(cfg Config) *Discriminator {
	taps := dsp.LowpassTaps(cfg.LowpassTaps, cfg.LowpassCutoff, cfg.SampleRate, cfg.Window)
	var dcGain float64
	for _, v := range taps {
		dcGain += v
	}
	if dcGain != 0 {
		for i := range taps {
			taps[i] /= dcGain
		}
	}
	return &Discriminator{
		cfg:     cfg,
		hilbert: dsp.NewHilbert(cfg.HilbertTaps, cfg.Window),
		lowpass: dsp.FIR{Taps: taps},
	}
}

// Demod returns the instantaneous frequency deviation (Hz, relative to
// CenterFreq) at each sample after complexifying the input and
// differencing consecutive phase angles, lowpass filtered to suppress
// differentiation noise.
func (d *Discriminator) Demod(input []float64) []float64 {
	real, imag := d.hilbert.Analytic(input)
	if len(real) < 2 {
		return nil
	}

	deviation := make([]float64, len(real)-1)
	scale := d.cfg.SampleRate / (2 * math.Pi)
	for n := 1; n < len(real); n++ {
		// phase(n) - phase(n-1), via the conjugate-product trick so no
		// phase unwrapping is needed across +/-pi boundaries.
		dotReal := real[n]*real[n-1] + imag[n]*imag[n-1]
		dotImag := imag[n]*real[n-1] - real[n]*imag[n-1]
		deviation[n-1] = math.Atan2(dotImag, dotReal)*scale - d.cfg.CenterFreq
	}

	return d.lowpass.Convolve(deviation)
}
