// Package slicer converts demodulated baseband samples into symbol bits
// using a zero-crossing phase-locked clock: a phase accumulator advances
// one symbol per clock rollover, and every zero crossing nudges the
// accumulator toward the ideal mid-symbol sampling instant.
package slicer

// Symbol is one sliced data bit (or a two-bit pair, for multi-level
// slicers) tagged with the input sample address it was sliced from.
type Symbol struct {
	Bits    []bool
	Address uint64
}

// clock implements the shared zero-crossing phase recovery: phase_clock
// advances by 1 each sample and fires a sampling instant once it reaches
// samples_per_symbol/2 - 0.5, wrapping by subtracting samples_per_symbol.
// Every detected zero crossing rescales phase_clock by lockRate, pulling
// it toward re-centering on the crossing (0 < lockRate < 1; values near 1
// lock more slowly but more stably).
type clock struct {
	samplesPerSymbol float64
	fireThreshold    float64
	lockRate         float64

	phase    float64
	lastSign bool
	haveLast bool
}

func newClock(sampleRate, baudRate, lockRate float64) *clock {
	sps := sampleRate / baudRate
	return &clock{
		samplesPerSymbol: sps,
		fireThreshold:    sps/2 - 0.5,
		lockRate:         lockRate,
	}
}

// step advances the clock by one sample and reports whether a symbol
// decision is due this sample.
func (c *clock) step(sample float64) bool {
	sign := sample >= 0
	if c.haveLast && sign != c.lastSign {
		c.phase *= c.lockRate
	}
	c.lastSign = sign
	c.haveLast = true

	c.phase += 1
	if c.phase >= c.fireThreshold {
		c.phase -= c.samplesPerSymbol
		return true
	}
	return false
}

// Binary is the simplest slicer: one bit per symbol decision, the sign of
// the sample at the decision instant.
type Binary struct {
	clock *clock
}

// NewBinary builds a binary slicer for the given sample/baud rates and
// zero-crossing lock rate (1 disables clock recovery nudging; 0 resets the
// clock phase to zero at every crossing).
func NewBinary(sampleRate, baudRate, lockRate float64) *Binary {
	return &Binary{clock: newClock(sampleRate, baudRate, lockRate)}
}

// SliceFloat consumes addressed baseband samples and emits a bit per
// decision instant.
func (b *Binary) SliceFloat(samples []float64, addresses []uint64) []Symbol {
	var out []Symbol
	for i, s := range samples {
		if b.clock.step(s) {
			out = append(out, Symbol{Bits: []bool{s >= 0}, Address: addresses[i]})
		}
	}
	return out
}

// Quadrature slices an I/Q sample pair per decision into a Gray-coded
// di-bit, for QPSK-style four-symbol constellations.
type Quadrature struct {
	clock *clock
	// demap holds the Gray-code mapping from (Ipositive,Qpositive) to the
	// two output bits, indexed [Ipositive][Qpositive].
	demap [2][2][2]bool
}

// NewQuadrature builds a quadrature slicer with the standard Gray-coded
// quadrant mapping (00 top-right, going counclockwise).
func NewQuadrature(sampleRate, baudRate, lockRate float64) *Quadrature {
	q := &Quadrature{clock: newClock(sampleRate, baudRate, lockRate)}
	q.demap[1][1] = [2]bool{false, false}
	q.demap[0][1] = [2]bool{false, true}
	q.demap[0][0] = [2]bool{true, true}
	q.demap[1][0] = [2]bool{true, false}
	return q
}

// SliceFloat consumes parallel I and Q sample streams and emits a di-bit
// Symbol per decision instant, using I's zero crossings to drive the
// shared recovery clock.
func (q *Quadrature) SliceFloat(i, qs []float64, addresses []uint64) []Symbol {
	var out []Symbol
	for n := range i {
		if q.clock.step(i[n]) {
			ip := 0
			if i[n] >= 0 {
				ip = 1
			}
			qp := 0
			if qs[n] >= 0 {
				qp = 1
			}
			bits := q.demap[ip][qp]
			out = append(out, Symbol{Bits: []bool{bits[0], bits[1]}, Address: addresses[n]})
		}
	}
	return out
}

// fourLevelThresholdDepth is the length of the rollover-magnitude buffer
// the decision threshold is averaged from each time it updates.
const fourLevelThresholdDepth = 8

// fourLevelDemap maps a symbol index (0 = most negative level, 3 = most
// positive) to its Gray-coded two-bit value, for the [1, 3, -1, -3]
// symbol-level ordering.
var fourLevelDemap = [4]int{3, 2, 0, 1}

// FourLevel slices a single baseband stream carrying four amplitude levels
// (two bits per symbol). Unlike Binary/Quadrature, the decision threshold
// is not tracked continuously: a 16-bit shift register is fed the sign of
// every rollover-instant sample, and only when it reads the alternating
// preamble pattern 0x5555 or 0xCCCC is the threshold reset, to the mean of
// a short buffer of recent rollover magnitudes. A second clock performs the
// actual symbol decisions and is snapped to the sync-detecting clock's
// phase every time the pattern recurs.
type FourLevel struct {
	samplesPerSymbol float64
	fireThreshold    float64
	lockRate         float64

	phase       float64
	symbolPhase float64
	lastSign    bool
	haveLast    bool

	syncRegister uint16
	thresholdBuf [fourLevelThresholdDepth]float64
	thresholdIdx int
	threshold    float64
}

// NewFourLevel builds a four-level slicer for the given sample/baud rates
// and zero-crossing lock rate.
func NewFourLevel(sampleRate, baudRate, lockRate float64) *FourLevel {
	sps := sampleRate / baudRate
	return &FourLevel{
		samplesPerSymbol: sps,
		fireThreshold:    sps/2 - 0.5,
		lockRate:         lockRate,
	}
}

// SliceFloat consumes a baseband amplitude stream and emits a two-bit
// Symbol per decision instant.
func (f *FourLevel) SliceFloat(samples []float64, addresses []uint64) []Symbol {
	var out []Symbol
	for n, s := range samples {
		f.phase++
		if f.phase > f.fireThreshold {
			f.phase -= f.samplesPerSymbol

			f.thresholdIdx = (f.thresholdIdx + 1) % fourLevelThresholdDepth
			f.thresholdBuf[f.thresholdIdx] = absFloat(s) * 2.0 / 3.0

			f.syncRegister <<= 1
			if s > 0 {
				f.syncRegister |= 1
			}
			if f.syncRegister == 0x5555 || f.syncRegister == 0xCCCC {
				var sum float64
				for _, v := range f.thresholdBuf {
					sum += v
				}
				f.threshold = sum / fourLevelThresholdDepth
				f.symbolPhase = f.phase
			}
		}

		f.symbolPhase++
		if f.symbolPhase > f.fireThreshold {
			f.symbolPhase -= f.samplesPerSymbol

			var symbol int
			switch {
			case s > 0 && s >= f.threshold:
				symbol = 3
			case s > 0:
				symbol = 2
			case s <= -f.threshold:
				symbol = 0
			default:
				symbol = 1
			}
			value := fourLevelDemap[symbol]
			out = append(out, Symbol{Bits: []bool{value&2 != 0, value&1 != 0}, Address: addresses[n]})
		}

		sign := s >= 0
		if f.haveLast && sign != f.lastSign {
			f.phase *= f.lockRate
		}
		f.lastSign = sign
		f.haveLast = true
	}
	return out
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
