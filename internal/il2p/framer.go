// Package il2p implements the Improved Layer 2 Protocol framer: 24-bit
// sync search with Hamming-distance tolerance, RS-protected header and data
// blocks, LFSR descrambling reinitialized at every block boundary, and a
// Hamming(7,4)-protected trailing CRC.
package il2p

import (
	"github.com/cwsl/pktsdr/internal/addrbyte"
	"github.com/cwsl/pktsdr/internal/crc"
	"github.com/cwsl/pktsdr/internal/descrambler"
	"github.com/cwsl/pktsdr/internal/fec/rs"
	"github.com/cwsl/pktsdr/internal/packet"
)

// Sync words: the standard IL2P sync word and the inverted-form sync word
// 0x57DF7F (not the bitwise complement of SyncWord, which is 0x0EA1B7),
// both accepted within SyncTolerance bit errors.
const (
	SyncWord         = 0xF15E48
	SyncWordInverted = 0x57DF7F
)

type state int

const (
	stateSyncSearch state = iota
	stateRxHeader
	stateRxBigBlocks
	stateRxSmallBlocks
	stateRxTrailingCRC
)

const blockPayloadMax = 239

// Codec is a stateful IL2P frame decoder, owned exclusively by one chain.
type Codec struct {
	SourceChain    string
	AppendCRC      bool // crc option: when false, a CRC is still synthesized for uniform downstream validation
	DisableRS      bool
	MinDistance    int
	SyncTolerance  int

	headerRS *rs.RS
	blockRS  *rs.RS

	st            state
	workingWord   uint32
	buffer        [255]byte
	bufIndex      int
	bitIndex      int
	blockIndex    int
	blockCount    int
	blockSize     int
	bigBlocks     int
	blockFail     bool
	header        Header
	workingData   []byte
	bytesCorrected int
	streamAddress uint64 // address of the byte most recently consumed
}

// NewCodec builds an IL2P decoder. syncTolerance of 0 selects the default
// of 1.
func NewCodec(sourceChain string, appendCRC bool, disableRS bool, minDistance, syncTolerance int) *Codec {
	if syncTolerance == 0 {
		syncTolerance = 1
	}
	return &Codec{
		SourceChain:   sourceChain,
		AppendCRC:     appendCRC,
		DisableRS:     disableRS,
		MinDistance:   minDistance,
		SyncTolerance: syncTolerance,
		headerRS:      rs.New(0, 2, 8, 0x11D),
		blockRS:       rs.New(0, 16, 8, 0x11D),
		st:            stateSyncSearch,
		workingWord:   0xFFFFFF,
	}
}

func (c *Codec) resetToSyncSearch() {
	c.st = stateSyncSearch
	c.workingData = nil
	c.bufIndex = 0
	c.bitIndex = 0
	c.blockFail = false
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// Decode consumes a stream of addressed bits, represented as addressed
// bytes the way the other framers receive them, and returns every complete
// packet reconstructed along the way.
func (c *Codec) Decode(stream []addrbyte.Byte) []packet.Packet {
	var result []packet.Packet
	for _, ab := range stream {
		input := ab.Value
		streamAddr := ab.Address
		c.streamAddress = streamAddr
		for bitPos := 0; bitPos < 8; bitPos++ {
			bit := input&0x80 != 0
			input <<= 1

			switch c.st {
			case stateSyncSearch:
				c.shiftWorkingWord(bit, 0xFFFFFF)
				if BitDistance24(c.workingWord, SyncWord) <= c.SyncTolerance ||
					BitDistance24(c.workingWord, SyncWordInverted) <= c.SyncTolerance {
					c.bitIndex = 0
					c.bufIndex = 0
					c.st = stateRxHeader
				}
			case stateRxHeader:
				c.shiftWorkingWord(bit, 0xFF)
				if c.bitIndex == 8 {
					c.bitIndex = 0
					c.buffer[c.bufIndex] = byte(c.workingWord)
					c.bufIndex++
					if c.bufIndex == 15 {
						c.bufIndex = 0
						c.finishHeader(streamAddr, &result)
					}
				}
			case stateRxBigBlocks, stateRxSmallBlocks:
				c.shiftWorkingWord(bit, 0xFF)
				if c.bitIndex == 8 {
					c.bitIndex = 0
					c.buffer[c.bufIndex] = byte(c.workingWord)
					c.bufIndex++
					if c.bufIndex == c.blockSize+16 {
						c.finishBlock(streamAddr, &result)
					}
				}
			case stateRxTrailingCRC:
				c.shiftWorkingWord(bit, 0xFF)
				if c.bitIndex == 8 {
					c.bitIndex = 0
					c.buffer[c.bufIndex] = byte(c.workingWord)
					c.bufIndex++
					if c.bufIndex == 4 {
						c.bufIndex = 0
						c.finishTrailingCRC(streamAddr, &result)
					}
				}
			}
		}
	}
	return result
}

func (c *Codec) shiftWorkingWord(bit bool, mask uint32) {
	c.workingWord <<= 1
	c.workingWord &= mask
	if bit {
		c.workingWord |= 1
	}
	c.bitIndex++
}

func (c *Codec) finishHeader(streamAddr uint64, result *[]packet.Packet) {
	if !c.DisableRS {
		n := c.headerRS.Decode(c.buffer[:15], 15, c.MinDistance)
		if n < 0 {
			c.blockFail = true
		} else {
			c.bytesCorrected += n
		}
	}

	lfsr := descrambler.New(descrambler.PolyIL2P, false)
	lfsr.Register = 0x1F0
	intentional := lfsr.UnscrambleBytes(c.buffer[:13])
	c.header = UnpackHeader(intentional)

	c.blockIndex = 0

	if c.header.Type == 1 {
		c.workingData = append(c.workingData, BuildAX25Header(c.header)...)
	}

	if c.blockFail {
		c.resetToSyncSearch()
		return
	}

	if c.header.Count == 0 {
		c.startTrailer(result)
		return
	}

	c.blockCount = ceilDiv(c.header.Count, blockPayloadMax)
	c.blockSize = c.header.Count / c.blockCount
	c.bigBlocks = c.header.Count - c.blockCount*c.blockSize
	c.bitIndex = 0
	if c.bigBlocks > 0 {
		c.blockSize++
		c.st = stateRxBigBlocks
	} else {
		c.st = stateRxSmallBlocks
	}
}

func (c *Codec) finishBlock(streamAddr uint64, result *[]packet.Packet) {
	total := c.blockSize + 16
	if !c.DisableRS {
		n := c.blockRS.Decode(c.buffer[:total], total, c.MinDistance)
		if n < 0 {
			c.blockFail = true
		} else {
			c.bytesCorrected += n
		}
	}

	lfsr := descrambler.New(descrambler.PolyIL2P, false)
	lfsr.Register = 0x1F0
	decoded := lfsr.UnscrambleBytes(c.buffer[:total])
	c.bufIndex = 0

	c.workingData = append(c.workingData, decoded[:c.blockSize]...)
	c.blockIndex++

	wasBig := c.st == stateRxBigBlocks

	if c.blockFail {
		c.resetToSyncSearch()
		return
	}

	if wasBig {
		if c.blockIndex == c.bigBlocks {
			if c.blockCount > c.blockIndex {
				c.blockSize--
				c.st = stateRxSmallBlocks
			} else {
				c.startTrailer(result)
			}
		}
	} else {
		if c.blockIndex == c.blockCount {
			c.startTrailer(result)
		}
	}
}

// startTrailer either transitions to trailing-CRC collection, or (when CRC
// collection is disabled for this codec instance) synthesizes a CRC so
// downstream validation remains uniform and emits the packet immediately.
func (c *Codec) startTrailer(result *[]packet.Packet) {
	if c.AppendCRC {
		c.st = stateRxTrailingCRC
		return
	}
	data := crc.Append(c.workingData)
	c.emit(data, result)
}

func (c *Codec) finishTrailingCRC(streamAddr uint64, result *[]packet.Packet) {
	trailingCRC := 0
	for i := 0; i < 4; i++ {
		trailingCRC |= int(HammingDecode(c.buffer[i])) << uint(12-i*4)
	}
	data := append(c.workingData, byte(trailingCRC&0xFF), byte(trailingCRC>>8))
	c.emit(data, result)
}

func (c *Codec) emit(data []byte, result *[]packet.Packet) {
	p := packet.Packet{
		Data:           data,
		StreamAddress:  c.streamAddress,
		SourceChain:    c.SourceChain,
		BytesCorrected: c.bytesCorrected,
	}
	*result = append(*result, p.Copy())
	c.bytesCorrected = 0
	c.resetToSyncSearch()
}
