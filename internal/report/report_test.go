package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsl/pktsdr/internal/packet"
)

func samplePacket() packet.Packet {
	data := make([]byte, 16)
	// dest "APRS  " shifted left 1, source "N0CALL" shifted left 1 with SSID, control, PID
	copy(data[0:6], shiftCallsign("APRS  "))
	data[6] = 0x60
	copy(data[7:13], shiftCallsign("N0CALL"))
	data[13] = 0x61
	data[14] = 0x03
	data[15] = 0xF0
	return packet.Packet{
		ID:               uuid.New(),
		Data:             data,
		StreamAddress:    100,
		SourceChain:      "afsk1200",
		CorrelatedChains: []string{"afsk1200"},
	}
}

func shiftCallsign(s string) []byte {
	out := make([]byte, 6)
	for i := 0; i < 6; i++ {
		out[i] = s[i] << 1
	}
	return out
}

func TestWriteRawIncludesHex(t *testing.T) {
	agg := packet.NewAggregator()
	agg.UniquePackets = []packet.Packet{samplePacket()}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, StyleRaw, agg))
	assert.Contains(t, buf.String(), "stream_addr=100")
}

func TestWriteDecodedHeadersParsesCallsigns(t *testing.T) {
	agg := packet.NewAggregator()
	agg.UniquePackets = []packet.Packet{samplePacket()}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, StyleDecodedHeaders, agg))
	assert.Contains(t, buf.String(), "APRS")
	assert.Contains(t, buf.String(), "N0CALL")
}

func TestWriteArchiveProducesNonEmptyFile(t *testing.T) {
	agg := packet.NewAggregator()
	agg.Add([]packet.Packet{samplePacket()})

	path := filepath.Join(t.TempDir(), "archive.jsonl.zst")
	require.NoError(t, WriteArchive(path, agg))
}

func TestRawBadListsOnlyInvalidCRC(t *testing.T) {
	good := samplePacket()
	good.ValidCRC = true
	bad := samplePacket()
	bad.ValidCRC = false

	agg := packet.NewAggregator()
	agg.Add([]packet.Packet{good, bad})

	var buf bytes.Buffer
	RawBad(&buf, agg)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("[bad]")))
}
