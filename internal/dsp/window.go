// Package dsp implements the streaming digital-signal-processing primitives
// shared by every modem: FIR/IIR filters, window generation, a Hilbert pair,
// a numerically controlled oscillator, automatic gain control, and a PI
// feedback controller.
package dsp

import "math"

// Window names accepted by RRC tap generation.
const (
	WindowRect           = "rect"
	WindowHann           = "hann"
	WindowBlackman       = "blackman"
	WindowBlackmanHarris = "blackman-harris"
	WindowFlatTop        = "flattop"
	WindowTukey          = "tukey"
)

// Coefficients generates a window of length n for the named window type.
// Unknown names fall back to a rectangular window.
func Coefficients(name string, n int) []float64 {
	w := make([]float64, n)
	if n == 0 {
		return w
	}
	N := float64(n - 1)
	switch name {
	case WindowHann:
		for i := range w {
			s := math.Sin(math.Pi * float64(i) / N)
			w[i] = s * s
		}
	case WindowBlackman:
		const a0, a1, a2 = 0.42, 0.5, 0.08
		for i := range w {
			x := 2 * math.Pi * float64(i) / N
			w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
		}
	case WindowBlackmanHarris:
		const a0, a1, a2, a3 = 0.35875, 0.48829, 0.14128, 0.01168
		for i := range w {
			x := float64(i)
			w[i] = a0 - a1*math.Cos(2*math.Pi*x/N) + a2*math.Cos(4*math.Pi*x/N) - a3*math.Cos(6*math.Pi*x/N)
		}
	case WindowFlatTop:
		const a0, a1, a2, a3, a4 = 0.21557895, 0.41663158, 0.277263158, 0.083578947, 0.006947368
		for i := range w {
			x := float64(i)
			w[i] = a0 - a1*math.Cos(2*math.Pi*x/N) + a2*math.Cos(4*math.Pi*x/N) - a3*math.Cos(6*math.Pi*x/N) + a4*math.Cos(8*math.Pi*x/N)
		}
	case WindowTukey:
		alpha := 0.25
		edge := alpha * N / 2
		for i := range w {
			x := float64(i)
			switch {
			case x < edge:
				w[i] = 0.5 * (1 - math.Cos(2*math.Pi*x/(alpha*N)))
			case x <= N/2:
				w[i] = 1
			default:
				w[i] = w[n-1-i]
			}
		}
	case WindowRect, "":
		for i := range w {
			w[i] = 1
		}
	default:
		for i := range w {
			w[i] = 1
		}
	}
	return w
}

// normalizeL2 scales taps to unit L2 norm in place.
func normalizeL2(taps []float64) {
	var sumSq float64
	for _, t := range taps {
		sumSq += t * t
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return
	}
	for i := range taps {
		taps[i] /= norm
	}
}
