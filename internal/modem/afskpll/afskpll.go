// Package afskpll demodulates Bell 202 style AFSK with a phase-locked
// loop instead of the quadrature correlator pair in package afsk: an NCO
// centered between the mark and space tones is steered by a phase
// detector against the incoming signal, and the loop's own frequency
// correction term becomes the baseband output — tracking error toward
// space is a positive correction, toward mark a negative one.
package afskpll

import "github.com/cwsl/pktsdr/internal/dsp"

// Config parameterizes a PLL-based AFSK demodulator.
type Config struct {
	SampleRate float64
	MarkFreq   float64
	SpaceFreq  float64

	LoopP, LoopI, LoopILimit float64
	LoopSaturate             bool

	LowpassTaps   int
	LowpassCutoff float64
	Window        string
}

// NewDefaultConfig returns the standard Bell 202 PLL-tracking preset.
func NewDefaultConfig(sampleRate float64) Config {
	return Config{
		SampleRate:    sampleRate,
		MarkFreq:      1200,
		SpaceFreq:     2200,
		LoopP:         0.05,
		LoopI:         0.005,
		LoopILimit:    (2200 - 1200) / 2,
		LoopSaturate:  true,
		LowpassTaps:   65,
		LowpassCutoff: 1200,
		Window:        "hann",
	}
}

// Demodulator is a stateful PLL AFSK tone tracker.
type Demodulator struct {
	cfg Config

	nco     *dsp.NCO
	loop    *dsp.PIController
	lowpass dsp.FIR
}

// New tunes a Demodulator whose NCO free-runs at the tone midpoint and
// whose PI loop is scaled to the half mark/space separation.
func New(cfg Config) *Demodulator {
	center := (cfg.MarkFreq + cfg.SpaceFreq) / 2
	d := &Demodulator{
		cfg:  cfg,
		nco:  dsp.NewNCO(cfg.SampleRate, 1, center),
		loop: dsp.NewPIController(cfg.LoopP, cfg.LoopI, cfg.LoopILimit, 1, cfg.LoopSaturate),
	}
	d.lowpass = dsp.FIR{Taps: dsp.LowpassTaps(cfg.LowpassTaps, cfg.LowpassCutoff, cfg.SampleRate, cfg.Window)}
	return d
}

// Demod drives the PLL across input and returns the lowpass-filtered
// frequency-correction term: positive samples indicate the input tone
// sits above the mark/space midpoint (space), negative indicate mark.
func (d *Demodulator) Demod(input []float64) []float64 {
	raw := make([]float64, len(input))
	for n, x := range input {
		d.nco.Update()
		// phase detector: multiply input against the NCO's quadrature
		// output, a standard PLL phase comparator.
		err := x * d.nco.Sine
		correction := d.loop.Update(err)
		d.nco.Control = correction
		raw[n] = correction
	}
	return d.lowpass.Convolve(raw)
}
