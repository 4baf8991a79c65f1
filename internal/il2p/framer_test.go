package il2p

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwsl/pktsdr/internal/addrbyte"
)

func bytesToAddrBits(data []byte) []addrbyte.Byte {
	out := make([]addrbyte.Byte, len(data))
	for i, b := range data {
		out[i] = addrbyte.Byte{Value: b, Address: uint64(i)}
	}
	return out
}

func TestSyncToleranceAcceptsOneBitError(t *testing.T) {
	codec := NewCodec("chain-a", true, true, 0, 1)
	sync := []byte{0xF1, 0x5E, 0x4A} // one bit off from 0xF15E48
	stream := bytesToAddrBits(sync)
	codec.Decode(stream)
	assert.Equal(t, stateRxHeader, codec.st)
}

func TestSyncToleranceZeroRejectsOneBitError(t *testing.T) {
	codec := NewCodec("chain-a", true, true, 0, 0)
	// NewCodec maps a tolerance argument of 0 to its default of 1, so exact
	// matching is selected by setting the field directly.
	codec.SyncTolerance = 0
	sync := []byte{0xF1, 0x5E, 0x4A} // one bit off from 0xF15E48
	stream := bytesToAddrBits(sync)
	codec.Decode(stream)
	assert.Equal(t, stateSyncSearch, codec.st)
}

func TestHeaderRSDisabledSkipsCorrection(t *testing.T) {
	// Two corrupted bytes in an otherwise all-zero header are more than
	// the header's RS(15,13) code can correct.
	header := make([]byte, 15)
	header[0], header[1] = 0xFF, 0xFF
	stream := bytesToAddrBits(append([]byte{0xF1, 0x5E, 0x48}, header...))

	checked := NewCodec("chain-a", true, false, 0, 1)
	checked.Decode(stream)
	assert.Equal(t, stateSyncSearch, checked.st)

	codec := NewCodec("chain-a", true, true, 0, 1)
	assert.True(t, codec.DisableRS)
	codec.Decode(stream)
	assert.NotEqual(t, stateSyncSearch, codec.st)
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 1, ceilDiv(239, 239))
	assert.Equal(t, 2, ceilDiv(240, 239))
	assert.Equal(t, 1, ceilDiv(1, 239))
}
