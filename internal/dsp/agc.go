package dsp

import "math"

// AGC is an automatic gain control with attack/decay envelope tracking and
// a sustain timer, using an absolute-value peak detector.
type AGC struct {
	AttackRate      float64 // full scale per second
	DecayRate       float64
	SustainTime     float64
	SampleRate      float64
	TargetAmplitude float64

	scaledAttack float64
	scaledDecay  float64
	sustainIncr  float64

	Envelope     float64
	sustainCount float64
	normal       float64
}

// NewAGC builds an AGC tuned for sampleRate.
func NewAGC(attackRate, decayRate, sustainTime, sampleRate, targetAmplitude float64) *AGC {
	a := &AGC{
		AttackRate: attackRate, DecayRate: decayRate, SustainTime: sustainTime,
		SampleRate: sampleRate, TargetAmplitude: targetAmplitude, normal: 1,
	}
	a.scaledAttack = attackRate / sampleRate
	a.scaledDecay = decayRate / sampleRate
	a.sustainIncr = sustainTime / sampleRate
	return a
}

// PeakDetect updates the envelope from a single sample using an
// absolute-value peak detector.
func (a *AGC) PeakDetect(sample float64) {
	compare := math.Abs(sample)
	if compare > a.Envelope {
		a.Envelope += a.scaledAttack * a.normal
		if a.Envelope > compare {
			a.Envelope = compare
		}
		a.sustainCount = 0
	}
	if a.sustainCount >= a.SustainTime {
		a.Envelope -= a.scaledDecay * a.normal
		if a.Envelope < 0 {
			a.Envelope = 0
		}
	}
	a.sustainCount += a.sustainIncr
}

// Apply scales buffer in place to TargetAmplitude using the tracked
// envelope; normal is set to the peak absolute value observed in buffer,
// corrected from the original's buggy plain max().
func (a *AGC) Apply(buffer []float64) {
	var peak float64
	for _, s := range buffer {
		if m := math.Abs(s); m > peak {
			peak = m
		}
	}
	a.normal = peak
	for i, s := range buffer {
		a.PeakDetect(s)
		if a.Envelope != 0 {
			buffer[i] = a.TargetAmplitude * s / a.Envelope
		}
	}
}

// DualEnvelope tracks independent fast and slow AGC envelopes over the same
// input. The four-level slicer keeps its own threshold tracking and does not
// use it.
type DualEnvelope struct {
	Fast *AGC
	Slow *AGC
}

// NewDualEnvelope builds a fast/slow envelope pair.
func NewDualEnvelope(fast, slow *AGC) *DualEnvelope {
	return &DualEnvelope{Fast: fast, Slow: slow}
}

// Update feeds one sample to both envelope detectors.
func (d *DualEnvelope) Update(sample float64) {
	d.Fast.PeakDetect(sample)
	d.Slow.PeakDetect(sample)
}
