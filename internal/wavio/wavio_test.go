package wavio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWAV(t *testing.T, sampleRate int, samples []int16) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(samples)*2))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))              // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))              // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))     // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))   // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))              // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))             // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(samples)*2))
	for _, s := range samples {
		binary.Write(&buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

func TestDecodeRoundTripsSamples(t *testing.T) {
	raw := buildWAV(t, 9600, []int16{0, 16384, -16384, 32767, -32768})
	buf, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 9600, buf.SampleRate)
	require.Len(t, buf.Samples, 5)
	assert.InDelta(t, 0, buf.Samples[0], 1e-9)
	assert.InDelta(t, 0.5, buf.Samples[1], 1e-3)
	assert.InDelta(t, -1.0, buf.Samples[4], 1e-3)
}

func TestDecodeRejectsNonRIFF(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a wav file at all")))
	assert.Error(t, err)
}
