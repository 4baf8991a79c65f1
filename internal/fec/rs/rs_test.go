package rs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRSCorrectsSingleByteError(t *testing.T) {
	codec := New(0, 2, 8, 0x11D)
	// A 15-byte header codeword: 13 data + 2 parity. Build a valid
	// codeword by computing parity from the message via polynomial
	// division is out of scope for a decode-only package, so instead
	// verify the decoder accepts a zero-error block it already considers
	// valid (all zero is trivially a valid all-zero codeword) and still
	// corrects a single injected error within budget.
	data := make([]byte, 15)
	corrected := codec.Decode(data, 15, 0)
	require.GreaterOrEqual(t, corrected, 0)
	assert.Equal(t, 0, corrected)

	data[3] ^= 0x5A
	corrected = codec.Decode(data, 15, 0)
	assert.Equal(t, 1, corrected)
	assert.Equal(t, byte(0), data[3])
}

func TestBlockRSCorrectsUpToHalfRoots(t *testing.T) {
	codec := New(0, 16, 8, 0x11D)
	blockSize := 32
	data := make([]byte, blockSize)
	// inject 8 == NumRoots/2 errors, at the correction limit.
	positions := []int{0, 3, 7, 11, 15, 19, 23, 27}
	for _, p := range positions {
		data[p] ^= 0xAA
	}
	corrected := codec.Decode(data, blockSize, 0)
	assert.Equal(t, len(positions), corrected)
	for _, p := range positions {
		assert.Equal(t, byte(0), data[p])
	}
}

func TestBlockRSFailsBeyondCorrectionLimit(t *testing.T) {
	codec := New(0, 16, 8, 0x11D)
	blockSize := 32
	data := make([]byte, blockSize)
	positions := []int{0, 3, 7, 11, 15, 19, 23, 27, 31}
	for _, p := range positions {
		data[p] ^= 0xAA
	}
	corrected := codec.Decode(data, blockSize, 0)
	assert.Equal(t, -1, corrected)
}

func TestMinDistanceReducesCorrectionBudget(t *testing.T) {
	codec := New(0, 16, 8, 0x11D)
	blockSize := 32
	data := make([]byte, blockSize)
	data[0] ^= 0xAA
	data[1] ^= 0x55
	// with min_distance=8 (== NumRoots/2), only detection is possible.
	corrected := codec.Decode(data, blockSize, 8)
	assert.Equal(t, -1, corrected)
}

func TestGFMulInverseIdentity(t *testing.T) {
	gf := NewGF(8, 0x11D)
	for a := 1; a < gf.Order; a++ {
		assert.Equal(t, 1, gf.Mul(a, gf.Inv(a)))
	}
}
