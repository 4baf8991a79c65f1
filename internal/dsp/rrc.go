package dsp

import "math"

// RRCTaps generates root-raised-cosine matched-filter taps.
//
// sampleRate/symbolRate determine the oversampling factor; span is the
// number of symbol periods spanned by the filter (span*oversample+1 taps,
// where oversample is sampleRate/symbolRate truncated); rolloff is
// beta in (0, 1]; window selects one of the Coefficients window types
// (rect by default) applied on top of the ideal RRC impulse response.
func RRCTaps(sampleRate, symbolRate float64, span int, rolloff float64, window string) []float64 {
	oversample := int(sampleRate / symbolRate)
	tapCount := span*oversample + 1
	symbolTime := 1.0 / symbolRate
	timeStep := 1.0 / sampleRate

	taps := make([]float64, tapCount)
	half := float64(tapCount) * timeStep / 2

	asymptote := symbolTime / (4 * rolloff)
	const eps = 1e-9

	for i := 0; i < tapCount; i++ {
		t := float64(i)*timeStep - half + timeStep/2
		switch {
		case math.Abs(t-asymptote) < eps || math.Abs(t+asymptote) < eps:
			num := rolloff * ((1+2/math.Pi)*math.Sin(math.Pi/(4*rolloff)) + (1-2/math.Pi)*math.Cos(math.Pi/(4*rolloff)))
			den := symbolTime * math.Sqrt2
			taps[i] = num / den
		case math.Abs(t) < eps:
			taps[i] = (1 - rolloff + 4*rolloff/math.Pi) / symbolTime
		default:
			num := math.Sin(math.Pi*t*(1-rolloff)/symbolTime) +
				4*rolloff*t*math.Cos(math.Pi*t*(1+rolloff)/symbolTime)/symbolTime
			den := math.Pi * t * (1 - math.Pow(4*rolloff*t/symbolTime, 2)) / symbolTime
			if math.Abs(den) < eps {
				taps[i] = 0
				continue
			}
			taps[i] = num / (den * symbolTime)
		}
	}

	win := Coefficients(window, tapCount)
	for i := range taps {
		taps[i] *= win[i]
	}
	normalizeL2(taps)
	return taps
}
