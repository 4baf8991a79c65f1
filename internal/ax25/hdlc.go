// Package ax25 implements the AX.25 HDLC bit-stream framer: flag
// detection, zero-bit unstuffing, and abort-sequence handling.
package ax25

import (
	"github.com/cwsl/pktsdr/internal/addrbyte"
	"github.com/cwsl/pktsdr/internal/packet"
)

// Flag is the HDLC flag byte, bit pattern 01111110.
const Flag = 0x7E

// Framer is a stateful bit-stream consumer that reconstructs AX.25 frames
// from a descrambled (or directly sliced) addressed-byte stream. A Framer
// is owned exclusively by one chain; it must not be shared across
// goroutines.
type Framer struct {
	MinPacketLength int
	MaxPacketLength int
	SourceChain     string

	workingByte byte
	bitIndex    int
	byteIndex   int
	oneCount    int
	data        []byte
}

// NewFramer builds an HDLC framer. minLen/maxLen of 0 fall back to the
// reference decoder's defaults of 18 and 1023 bytes.
func NewFramer(sourceChain string, minLen, maxLen int) *Framer {
	if minLen == 0 {
		minLen = 18
	}
	if maxLen == 0 {
		maxLen = 1023
	}
	return &Framer{MinPacketLength: minLen, MaxPacketLength: maxLen, SourceChain: sourceChain}
}

func (f *Framer) resetFrame() {
	f.data = nil
	f.byteIndex = 0
	f.bitIndex = 0
}

// Decode consumes a stream of addressed bytes and returns every complete
// frame found, byte-aligned on a closing flag between MinPacketLength and
// MaxPacketLength bytes. Transient bit errors (aborts, over-length frames,
// non-byte-aligned flags) are discarded silently; no error is returned, per
// the "no exceptions leak out of DSP or framer kernels" rule.
func (f *Framer) Decode(stream []addrbyte.Byte) []packet.Packet {
	var result []packet.Packet
	for _, ab := range stream {
		input := ab.Value
		for i := 0; i < 8; i++ {
			bit := input&0x80 != 0
			input <<= 1
			if bit {
				f.workingByte >>= 1
				f.workingByte |= 0x80
				f.oneCount++
				f.bitIndex++
				if f.oneCount > 6 {
					// Abort: discard the in-progress frame and realign.
					f.resetFrame()
				}
				if f.bitIndex == 8 {
					f.bitIndex = 0
					f.data = append(f.data, f.workingByte)
					f.byteIndex++
					if f.byteIndex > f.MaxPacketLength {
						f.resetFrame()
						f.oneCount = 0
					}
				}
			} else {
				switch {
				case f.oneCount < 5:
					f.workingByte >>= 1
					f.bitIndex++
					if f.bitIndex == 8 {
						f.bitIndex = 0
						f.data = append(f.data, f.workingByte)
						f.byteIndex++
						if f.byteIndex > f.MaxPacketLength {
							f.resetFrame()
						}
					}
				case f.oneCount == 5:
					// stuffed zero, discard
				case f.oneCount == 6:
					// flag byte 0x7E just completed
					if f.byteIndex >= f.MinPacketLength && f.bitIndex == 7 {
						p := packet.Packet{
							Data:        append([]byte(nil), f.data...),
							StreamAddress: ab.Address,
							SourceChain: f.SourceChain,
						}
						result = append(result, p.Copy())
					}
					f.resetFrame()
				}
				f.oneCount = 0
			}
		}
	}
	return result
}
