// Package diagnostics provides optional, non-decision-path observability:
// host resource snapshots and a pre-run spectrum summary. Neither
// participates in the demodulation pipeline itself.
package diagnostics

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"gonum.org/v1/gonum/dsp/fourier"
)

// HostSnapshot captures host CPU/memory usage at a point in time.
type HostSnapshot struct {
	CPUPercent float64
	MemUsedPct float64
}

// CaptureHost samples current host CPU and memory usage.
func CaptureHost() (HostSnapshot, error) {
	percents, err := cpu.Percent(0, false)
	if err != nil {
		return HostSnapshot{}, fmt.Errorf("failed to read CPU usage: %w", err)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return HostSnapshot{}, fmt.Errorf("failed to read memory usage: %w", err)
	}
	var cpuPct float64
	if len(percents) > 0 {
		cpuPct = percents[0]
	}
	return HostSnapshot{CPUPercent: cpuPct, MemUsedPct: vm.UsedPercent}, nil
}

// SpectrumPeak is one detected energy peak near a chain's configured tone
// or carrier frequency.
type SpectrumPeak struct {
	FrequencyHz float64
	Magnitude   float64
}

// SpectrumReport runs a single FFT over samples and reports the peak
// magnitude within +/-tolerance Hz of each frequency of interest. This is
// a diagnostic log line only — every streaming demodulation kernel in this
// repository remains the hand-rolled FIR/IIR/NCO chain the core pipeline
// requires; gonum's FFT operates on a whole buffer and cannot replace them.
func SpectrumReport(samples []float64, sampleRate float64, frequenciesOfInterest []float64, tolerance float64) []SpectrumPeak {
	if len(samples) == 0 {
		return nil
	}
	fft := fourier.NewFFT(len(samples))
	coeffs := fft.Coefficients(nil, samples)

	binHz := sampleRate / float64(len(samples))
	peaks := make([]SpectrumPeak, 0, len(frequenciesOfInterest))
	for _, f := range frequenciesOfInterest {
		lowBin := int(math.Max(0, (f-tolerance)/binHz))
		highBin := int(math.Min(float64(len(coeffs)-1), (f+tolerance)/binHz))
		var best float64
		for b := lowBin; b <= highBin; b++ {
			if m := cmplx.Abs(coeffs[b]); m > best {
				best = m
			}
		}
		peaks = append(peaks, SpectrumPeak{FrequencyHz: f, Magnitude: best})
	}
	return peaks
}
