// Package psk demodulates BPSK/QPSK/MPSK signals with a decision-directed
// Costas loop: a band-pass pre-filter and AGC condition the input, an NCO
// mixes the carrier to baseband, a phase detector measures the
// constellation's rotational error, and a PI controller steers the NCO to
// track residual carrier offset and drift. The recovered I/Q is matched-
// filtered with an RRC filter before being handed to a symbol slicer.
package psk

import (
	"math"

	"github.com/cwsl/pktsdr/internal/dsp"
)

// Order selects the constellation size the phase detector assumes.
type Order int

const (
	BPSK  Order = 2
	QPSK  Order = 4
	MPSK8 Order = 8
)

// Config parameterizes a Costas-loop PSK demodulator.
type Config struct {
	SampleRate float64
	Order      Order
	CenterFreq float64 // carrier/NCO starting frequency, Hz
	SymbolRate float64 // baud, drives bandpass/RRC tap-span sizing

	BandpassTaps             int
	BandpassLow, BandpassHigh float64
	Window                    string

	AGCAttackRate, AGCDecayRate, AGCSustainTime, AGCTargetAmplitude float64

	IQLowpassCutoff float64 // BPSK/QPSK real-mixer I/Q lowpass (psk.py's I_LPF/Q_LPF)
	IQLowpassGain   float64
	LoopLowpassCutoff float64 // phase-error lowpass before the PI controller (Loop_LPF)
	LoopLowpassGain   float64

	LoopP, LoopI, LoopILimit, LoopGain float64
	LoopSaturate                       bool

	HilbertTaps int // MPSK complexification only

	RRCSpan    int
	RRCRolloff float64
}

// NewDefaultConfig returns a reasonable starting configuration for the
// given constellation order at sampleRate, centered on 1500 Hz and running
// at 300 baud. Filter spans and loop constants are scaled from the 300-baud
// BPSK tuning in the reference decoder.
func NewDefaultConfig(sampleRate float64, order Order) Config {
	return Config{
		SampleRate: sampleRate,
		Order:      order,
		CenterFreq: 1500,
		SymbolRate: 300,

		BandpassTaps: 129,
		BandpassLow:  900,
		BandpassHigh: 2100,
		Window:       "hamming",

		AGCAttackRate:      500,
		AGCDecayRate:       50,
		AGCSustainTime:     1,
		AGCTargetAmplitude: 1,

		IQLowpassCutoff:   300,
		IQLowpassGain:     4,
		LoopLowpassCutoff: 100,
		LoopLowpassGain:   2,

		LoopP:        0.05,
		LoopI:        0.0001,
		LoopILimit:   50,
		LoopGain:     50,
		LoopSaturate: false,

		HilbertTaps: 65,

		RRCSpan:    3,
		RRCRolloff: 0.35,
	}
}

// Demodulator is a stateful Costas-loop carrier tracker plus matched
// filtering, run one input block at a time.
type Demodulator struct {
	cfg Config

	bandpass dsp.FIR
	agc      *dsp.AGC

	nco     *dsp.NCO
	iLPF    *dsp.OnePole // BPSK/QPSK real-mixer path only
	qLPF    *dsp.OnePole
	loopLPF *dsp.OnePole
	loop    *dsp.PIController

	hilbert *dsp.Hilbert // MPSK complex-mixer path only

	rrcI, rrcQ dsp.FIR
}

// New builds a Demodulator for the given Config.
func New(cfg Config) *Demodulator {
	d := &Demodulator{
		cfg: cfg,
		bandpass: dsp.FIR{Taps: dsp.BandpassTaps(cfg.BandpassTaps, cfg.BandpassLow, cfg.BandpassHigh, cfg.SampleRate, cfg.Window)},
		agc:      dsp.NewAGC(cfg.AGCAttackRate, cfg.AGCDecayRate, cfg.AGCSustainTime, cfg.SampleRate, cfg.AGCTargetAmplitude),
		nco:      dsp.NewNCO(cfg.SampleRate, 1, cfg.CenterFreq),
		loopLPF:  dsp.NewOnePoleLowpass(cfg.LoopLowpassCutoff, cfg.SampleRate, cfg.LoopLowpassGain),
		loop:     dsp.NewPIController(cfg.LoopP, cfg.LoopI, cfg.LoopILimit, cfg.LoopGain, cfg.LoopSaturate),
	}

	if cfg.Order == MPSK8 {
		d.hilbert = dsp.NewHilbert(cfg.HilbertTaps, cfg.Window)
	} else {
		d.iLPF = dsp.NewOnePoleLowpass(cfg.IQLowpassCutoff, cfg.SampleRate, cfg.IQLowpassGain)
		d.qLPF = dsp.NewOnePoleLowpass(cfg.IQLowpassCutoff, cfg.SampleRate, cfg.IQLowpassGain)
	}

	rrcTaps := dsp.RRCTaps(cfg.SampleRate, cfg.SymbolRate, cfg.RRCSpan, cfg.RRCRolloff, cfg.Window)
	d.rrcI = dsp.FIR{Taps: rrcTaps}
	d.rrcQ = dsp.FIR{Taps: append([]float64(nil), rrcTaps...)}

	return d
}

// Sample is one baseband I/Q decision, post carrier-tracking and RRC
// matched filtering.
type Sample struct {
	I, Q float64
}

// Demod band-pass filters and AGCs a real passband input block, runs the
// Costas loop (real per-sample cos/sin mixing for BPSK/QPSK, complex
// Hilbert-pair mixing for MPSK), and RRC matched-filters the resulting I/Q.
func (d *Demodulator) Demod(input []float64) []Sample {
	passband := d.bandpass.Convolve(input)
	if passband == nil {
		return nil
	}
	d.agc.Apply(passband)

	var mixedI, mixedQ []float64
	if d.cfg.Order == MPSK8 {
		mixedI, mixedQ = d.demodMPSK(passband)
	} else {
		mixedI, mixedQ = d.demodPSK(passband)
	}

	filteredI := d.rrcI.Convolve(mixedI)
	filteredQ := d.rrcQ.Convolve(mixedQ)

	n := len(filteredI)
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		out[i] = Sample{I: filteredI[i], Q: filteredQ[i]}
	}
	return out
}

// demodPSK runs the BPSK/QPSK branch: each passband sample is mixed
// directly against the NCO's cosine and negated sine outputs (the same
// conjugate down-conversion as demodMPSK), lowpass filtered, and the
// resulting I/Q drives a sign-based decision-directed phase detector.
func (d *Demodulator) demodPSK(passband []float64) (mixedI, mixedQ []float64) {
	mixedI = make([]float64, len(passband))
	mixedQ = make([]float64, len(passband))
	for n, x := range passband {
		d.nco.Update()
		i := d.iLPF.Update(x * d.nco.Cosine)
		q := d.qLPF.Update(-x * d.nco.Sine)
		mixedI[n], mixedQ[n] = i, q

		err := phaseError(i, q, d.cfg.Order)
		errF := d.loopLPF.Update(err)
		d.nco.Control = d.loop.Update(errF)
	}
	return mixedI, mixedQ
}

// demodMPSK runs the MPSK branch: the passband signal is complexified with
// a Hilbert pair, then mixed against the NCO's complex exponential, with
// the phase error read from the constellation's nearest-point angle.
func (d *Demodulator) demodMPSK(passband []float64) (mixedI, mixedQ []float64) {
	real, imag := d.hilbert.Analytic(passband)
	mixedI = make([]float64, len(real))
	mixedQ = make([]float64, len(real))
	for n := range real {
		d.nco.Update()
		// Down-convert by multiplying the analytic signal by the NCO's
		// conjugate complex exponential: (real+j*imag)*(cos-j*sin).
		i := real[n]*d.nco.Cosine + imag[n]*d.nco.Sine
		q := imag[n]*d.nco.Cosine - real[n]*d.nco.Sine
		mixedI[n], mixedQ[n] = i, q

		err := mpskAngleError(i, q, d.cfg.Order)
		errF := d.loopLPF.Update(err)
		d.nco.Control = d.loop.Update(errF)
	}
	return mixedI, mixedQ
}

// phaseError computes a decision-directed Costas-loop error term for the
// real-mixer path: BPSK uses the classic I*Q product, QPSK the
// sign(I)*Q - sign(Q)*I four-quadrant form.
func phaseError(i, q float64, order Order) float64 {
	switch order {
	case BPSK:
		return i * q
	default:
		return sign(i)*q - sign(q)*i
	}
}

// mpskAngleError computes the angle (in degrees) between the instantaneous
// I/Q phase and the nearest ideal constellation point, spaced 360/order
// degrees apart with the same half-step offset QPSK's 45-degree
// constellation uses. This is the direct-atan2 equivalent of the
// precomputed quantized (I, Q) lookup table the reference decoder's phase
// detector builds; both produce the same angle-error curve at the
// decoder's quantization.
func mpskAngleError(i, q float64, order Order) float64 {
	angleDeg := math.Atan2(q, i) * 180 / math.Pi
	step := 360.0 / float64(order)
	offset := step / 2

	shifted := angleDeg - offset
	k := math.Round(shifted / step)
	nearest := k*step + offset

	errDeg := angleDeg - nearest
	for errDeg > 180 {
		errDeg -= 360
	}
	for errDeg <= -180 {
		errDeg += 360
	}
	return errDeg
}

func sign(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return -1
}

// WrapPhase normalizes a phase to [-pi, pi), used by differential decoders
// built atop this package's Sample stream.
func WrapPhase(phase float64) float64 {
	for phase >= math.Pi {
		phase -= 2 * math.Pi
	}
	for phase < -math.Pi {
		phase += 2 * math.Pi
	}
	return phase
}
