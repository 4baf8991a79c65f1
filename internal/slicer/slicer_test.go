package slicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addrRange(n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(i)
	}
	return out
}

func TestBinarySlicerLocksOntoSquareWave(t *testing.T) {
	const sampleRate, baud = 9600.0, 1200.0
	samplesPerSymbol := int(sampleRate / baud)

	var samples []float64
	for i := 0; i < 20; i++ {
		level := 1.0
		if i%2 == 0 {
			level = -1.0
		}
		for j := 0; j < samplesPerSymbol; j++ {
			samples = append(samples, level)
		}
	}

	b := NewBinary(sampleRate, baud, 0.75)
	out := b.SliceFloat(samples, addrRange(len(samples)))
	require.NotEmpty(t, out)

	// the decided bits should alternate, matching the alternating levels.
	alternations := 0
	for i := 1; i < len(out); i++ {
		if out[i].Bits[0] != out[i-1].Bits[0] {
			alternations++
		}
	}
	assert.Greater(t, alternations, len(out)/3)
}

func TestQuadratureSlicerDemapsQuadrants(t *testing.T) {
	const sampleRate, baud = 9600.0, 1200.0
	q := NewQuadrature(sampleRate, baud, 0.75)

	samplesPerSymbol := int(sampleRate / baud)
	n := samplesPerSymbol * 8
	i := make([]float64, n)
	qs := make([]float64, n)
	for idx := range i {
		i[idx] = 1
		qs[idx] = 1
	}
	out := q.SliceFloat(i, qs, addrRange(n))
	require.NotEmpty(t, out)
	for _, sym := range out {
		assert.Equal(t, []bool{false, false}, sym.Bits)
	}
}

// fourLevelAlternatingSamples builds a symbol stream alternating -3/+3,
// starting negative so the sync register's sign bits read 0101...=0x5555
// once 16 symbols have elapsed, the way an AX.25 alternating preamble
// would.
func fourLevelAlternatingSamples(samplesPerSymbol, symbolCount int) []float64 {
	samples := make([]float64, 0, samplesPerSymbol*symbolCount)
	for s := 0; s < symbolCount; s++ {
		level := 3.0
		if s%2 == 0 {
			level = -3.0
		}
		for j := 0; j < samplesPerSymbol; j++ {
			samples = append(samples, level)
		}
	}
	return samples
}

func TestFourLevelSlicerEmitsTwoBitsPerSymbol(t *testing.T) {
	const sampleRate, baud = 9600.0, 1200.0
	f := NewFourLevel(sampleRate, baud, 0.75)

	samplesPerSymbol := int(sampleRate / baud)
	samples := fourLevelAlternatingSamples(samplesPerSymbol, 40)
	out := f.SliceFloat(samples, addrRange(len(samples)))
	require.NotEmpty(t, out)
	for _, sym := range out {
		require.Len(t, sym.Bits, 2)
	}
}

// TestFourLevelSlicerGatesThresholdOnSyncPattern checks the threshold stays
// at its zero initial value until the alternating sync pattern has been
// seen in the sync register, and is nonzero afterward.
func TestFourLevelSlicerGatesThresholdOnSyncPattern(t *testing.T) {
	const sampleRate, baud = 9600.0, 1200.0
	f := NewFourLevel(sampleRate, baud, 0.75)
	assert.Zero(t, f.threshold)

	samplesPerSymbol := int(sampleRate / baud)
	// Fewer than 16 alternating symbols: the sync register cannot yet
	// equal 0x5555/0xCCCC.
	short := fourLevelAlternatingSamples(samplesPerSymbol, 10)
	f.SliceFloat(short, addrRange(len(short)))
	assert.Zero(t, f.threshold)

	more := fourLevelAlternatingSamples(samplesPerSymbol, 30)
	f.SliceFloat(more, addrRange(len(more)))
	assert.NotZero(t, f.threshold)
	assert.InDelta(t, 2.0, f.threshold, 0.5) // abs(3)*2/3
}
