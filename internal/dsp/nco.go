package dsp

import "math"

// WavetableSize is the number of entries in the NCO's sine lookup table.
const WavetableSize = 256

// NCO is a numerically controlled oscillator with a 256-entry sine
// wavetable and a quarter-table cosine offset.
type NCO struct {
	SampleRate   float64
	Amplitude    float64
	SetFrequency float64
	Control      float64

	phase     float64 // radians, [0, 2pi)
	wavetable [WavetableSize]float64

	Sine   float64
	Cosine float64
}

// NewNCO builds an NCO running at sampleRate with the given amplitude and
// initial set frequency (Hz).
func NewNCO(sampleRate, amplitude, setFrequency float64) *NCO {
	n := &NCO{SampleRate: sampleRate, Amplitude: amplitude, SetFrequency: setFrequency}
	for i := 0; i < WavetableSize; i++ {
		n.wavetable[i] = amplitude * math.Sin(float64(i)*2*math.Pi/WavetableSize)
	}
	return n
}

// Update advances the phase accumulator by one sample period and refreshes
// Sine/Cosine from the wavetable.
func (n *NCO) Update() {
	n.phase += 2 * math.Pi * (n.SetFrequency + n.Control) / n.SampleRate
	for n.phase >= 2*math.Pi {
		n.phase -= 2 * math.Pi
	}
	for n.phase < 0 {
		n.phase += 2 * math.Pi
	}
	idx := int(n.phase * WavetableSize / (2 * math.Pi))
	n.Sine = n.wavetable[idx]
	cosIdx := (idx + WavetableSize/4) % WavetableSize
	n.Cosine = n.wavetable[cosIdx]
}

// Reset zeroes the phase accumulator and control input.
func (n *NCO) Reset() {
	n.phase = 0
	n.Control = 0
}
