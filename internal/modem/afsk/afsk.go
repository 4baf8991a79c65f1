// Package afsk demodulates Bell 202 style Audio Frequency Shift Keying
// using a quadrature correlator pair per tone, the way a hardware FSK
// discriminator would: bandpass to the signal passband, correlate against
// four mark/space quadrature references, then lowpass the mark-minus-space
// envelope difference into a baseband symbol stream.
package afsk

import (
	"math"

	"github.com/cwsl/pktsdr/internal/dsp"
)

// Config parameterizes an AFSK demodulator. The zero value is invalid;
// use NewDefaultConfig for the common Bell 202 1200-baud preset.
type Config struct {
	SampleRate float64
	MarkFreq   float64
	SpaceFreq  float64
	BaudRate   float64

	BandpassTaps  int
	LowpassTaps   int
	LowpassCutoff float64
	Window        string

	SpaceGain        float64 // gain correction for the space-tone correlator, for de-emphasized audio
	CorrelatorSpan   float64 // correlator reference length, in symbols
	CorrelatorOffset float64 // Hz added to both mark and space correlator frequencies
}

// NewDefaultConfig returns the standard 1200-baud Bell 202 AFSK
// configuration (mark 1200Hz, space 2200Hz) at the given sample rate.
func NewDefaultConfig(sampleRate float64) Config {
	return Config{
		SampleRate:    sampleRate,
		MarkFreq:      1200,
		SpaceFreq:     2200,
		BaudRate:      1200,
		BandpassTaps:  129,
		LowpassTaps:   65,
		LowpassCutoff: 1200,
		Window:        "hann",

		SpaceGain:        1.0,
		CorrelatorSpan:   1.0,
		CorrelatorOffset: 0,
	}
}

// Demodulator holds the tuned filter taps and correlator references built
// from a Config; build once, call Demod repeatedly on successive sample
// blocks.
type Demodulator struct {
	cfg Config

	bandpass dsp.FIR
	lowpass  dsp.FIR

	markCos, markSin   []float64
	spaceCos, spaceSin []float64
}

// New tunes a Demodulator: builds the bandpass filter spanning mark and
// space tones, the lowpass filter for the output envelope difference, and
// the four quadrature correlator reference waveforms, each CorrelatorSpan
// symbol periods long.
func New(cfg Config) *Demodulator {
	low, high := cfg.MarkFreq, cfg.SpaceFreq
	if low > high {
		low, high = high, low
	}
	bpLow := low - cfg.BaudRate
	bpHigh := high + cfg.BaudRate
	if bpLow < 1 {
		bpLow = 1
	}

	d := &Demodulator{cfg: cfg}
	d.bandpass = dsp.FIR{Taps: dsp.BandpassTaps(cfg.BandpassTaps, bpLow, bpHigh, cfg.SampleRate, cfg.Window)}
	d.lowpass = dsp.FIR{Taps: dsp.LowpassTaps(cfg.LowpassTaps, cfg.LowpassCutoff, cfg.SampleRate, cfg.Window)}

	symbolSamples := int(math.Ceil(cfg.CorrelatorSpan * cfg.SampleRate / cfg.BaudRate))
	if symbolSamples < 1 {
		symbolSamples = 1
	}
	d.markCos = tone(cfg.SampleRate, cfg.MarkFreq+cfg.CorrelatorOffset, symbolSamples, false)
	d.markSin = tone(cfg.SampleRate, cfg.MarkFreq+cfg.CorrelatorOffset, symbolSamples, true)
	d.spaceCos = scale(tone(cfg.SampleRate, cfg.SpaceFreq+cfg.CorrelatorOffset, symbolSamples, false), cfg.SpaceGain)
	d.spaceSin = scale(tone(cfg.SampleRate, cfg.SpaceFreq+cfg.CorrelatorOffset, symbolSamples, true), cfg.SpaceGain)

	return d
}

func scale(v []float64, gain float64) []float64 {
	for i := range v {
		v[i] *= gain
	}
	return v
}

func tone(sampleRate, freq float64, n int, quadrature bool) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		phase := 2 * math.Pi * freq * float64(i) / sampleRate
		if quadrature {
			out[i] = math.Sin(phase)
		} else {
			out[i] = math.Cos(phase)
		}
	}
	return out
}

// correlate performs a sliding dot-product of signal against reference,
// producing len(signal)-len(reference)+1 correlator samples — identical
// in shape to a matched-filter FIR convolution with time-reversed taps,
// since the references here are not linear-phase symmetric.
func correlate(signal, reference []float64) []float64 {
	if len(signal) < len(reference) {
		return nil
	}
	out := make([]float64, len(signal)-len(reference)+1)
	for i := range out {
		var sum float64
		for j, r := range reference {
			sum += signal[i+j] * r
		}
		out[i] = sum
	}
	return out
}

// Demod filters input through the bandpass, correlates against the four
// mark/space quadrature references, forms the mark-energy-minus-space-
// energy difference, and lowpass-filters the result. Positive output
// samples indicate mark, negative indicate space.
func (d *Demodulator) Demod(input []float64) []float64 {
	band := d.bandpass.Convolve(input)

	markI := correlate(band, d.markCos)
	markQ := correlate(band, d.markSin)
	spaceI := correlate(band, d.spaceCos)
	spaceQ := correlate(band, d.spaceSin)

	n := len(markI)
	if len(spaceI) < n {
		n = len(spaceI)
	}
	diff := make([]float64, n)
	for i := 0; i < n; i++ {
		markEnergy := markI[i]*markI[i] + markQ[i]*markQ[i]
		spaceEnergy := spaceI[i]*spaceI[i] + spaceQ[i]*spaceQ[i]
		diff[i] = math.Sqrt(markEnergy) - math.Sqrt(spaceEnergy)
	}
	return d.lowpass.Convolve(diff)
}
