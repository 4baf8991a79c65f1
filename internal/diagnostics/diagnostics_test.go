package diagnostics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpectrumReportFindsToneNearFrequency(t *testing.T) {
	const sampleRate = 9600.0
	const tone = 1200.0

	n := 4096
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * tone * float64(i) / sampleRate)
	}

	peaks := SpectrumReport(samples, sampleRate, []float64{tone, 2200}, 50)
	assert.Len(t, peaks, 2)
	assert.Greater(t, peaks[0].Magnitude, peaks[1].Magnitude)
}

func TestSpectrumReportEmptyInput(t *testing.T) {
	peaks := SpectrumReport(nil, 9600, []float64{1200}, 50)
	assert.Nil(t, peaks)
}
