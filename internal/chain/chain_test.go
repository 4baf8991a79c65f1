package chain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsl/pktsdr/internal/chainplan"
	"github.com/cwsl/pktsdr/internal/slicer"
)

func TestBuildRejectsUnknownModem(t *testing.T) {
	spec := chainplan.DemodChain{
		ObjectName: "bogus",
		Modem:      chainplan.ModemSpec{Type: "not-a-modem", Config: "1200"},
		Slicer:     chainplan.SlicerSpec{Type: "binary"},
		Codec:      chainplan.CodecSpec{Type: "ax25"},
	}
	_, err := Build(spec, 9600, NewModemRegistry())
	assert.Error(t, err)
}

func TestAFSKChainRunsWithoutPanicOnToneInput(t *testing.T) {
	spec := chainplan.DemodChain{
		ObjectName: "afsk1200",
		Modem:      chainplan.ModemSpec{Type: "afsk", Config: "1200"},
		Slicer:     chainplan.SlicerSpec{Type: "binary"},
		Codec:      chainplan.CodecSpec{Type: "ax25"},
	}
	const sampleRate = 9600.0
	c, err := Build(spec, sampleRate, NewModemRegistry())
	require.NoError(t, err)

	n := 4000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 1200 * float64(i) / sampleRate)
	}

	packets := c.Run(samples)
	// A pure tone with no flags/payload should not produce a complete
	// frame, but the pipeline must not panic.
	assert.Empty(t, packets)
}

func TestPackSymbolsPacksMSBFirst(t *testing.T) {
	symbols := make([]slicer.Symbol, 8)
	for i := range symbols {
		symbols[i] = slicer.Symbol{Bits: []bool{i%2 == 0}, Address: uint64(i)}
	}
	bytes := packSymbols(symbols)
	require.Len(t, bytes, 1)
	assert.Equal(t, byte(0xAA), bytes[0].Value)
}
