// Package report formats decoded packets for human consumption: a raw hex
// dump style and a decoded-AX.25-header style, plus an optional compressed
// archive of every raw decode for offline reprocessing.
package report

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/cwsl/pktsdr/internal/packet"
)

// Style selects the report's rendering.
type Style string

const (
	StyleRaw            Style = "raw"
	StyleDecodedHeaders  Style = "decoded_headers"
)

// RawBad writes every CRC-invalid packet across all raw batches in hex, so
// an operator can see near-miss decodes before the main report.
func RawBad(w io.Writer, agg *packet.Aggregator) {
	for _, batch := range agg.RawBatches {
		for _, p := range batch {
			if p.ValidCRC {
				continue
			}
			fmt.Fprintf(w, "[bad] chain=%s stream_addr=%d %s\n", p.SourceChain, p.StreamAddress, hex.EncodeToString(p.Data))
		}
	}
}

// Write renders agg.UniquePackets to w in the given style.
func Write(w io.Writer, style Style, agg *packet.Aggregator) error {
	switch style {
	case StyleRaw:
		return writeRaw(w, agg)
	case StyleDecodedHeaders:
		return writeDecodedHeaders(w, agg)
	default:
		return fmt.Errorf("unknown report style: %s", style)
	}
}

func writeRaw(w io.Writer, agg *packet.Aggregator) error {
	for _, p := range agg.UniquePackets {
		fmt.Fprintf(w, "%s  stream_addr=%d chains=%s corrected=%d  %s\n",
			p.ID, p.StreamAddress, strings.Join(p.CorrelatedChains, ","), p.BytesCorrected,
			hex.EncodeToString(p.Data))
	}
	return nil
}

func writeDecodedHeaders(w io.Writer, agg *packet.Aggregator) error {
	for _, p := range agg.UniquePackets {
		dest, source, control, pid, ok := decodeAX25Header(p.Data)
		if !ok {
			fmt.Fprintf(w, "%s  <unparseable AX.25 header>  %s\n", p.ID, hex.EncodeToString(p.Data))
			continue
		}
		fmt.Fprintf(w, "%s  %s > %s  ctrl=0x%02X pid=0x%02X  chains=%s corrected=%d\n",
			p.ID, source, dest, control, pid, strings.Join(p.CorrelatedChains, ","), p.BytesCorrected)
	}
	return nil
}

// decodeAX25Header parses the standard two-address AX.25 header (no digipeater
// path) from a reconstructed frame's leading bytes.
func decodeAX25Header(data []byte) (dest, source string, control, pid byte, ok bool) {
	if len(data) < 15 {
		return "", "", 0, 0, false
	}
	dest = callsign(data[0:7])
	source = callsign(data[7:14])
	control = data[14]
	if len(data) > 15 {
		pid = data[15]
	}
	return dest, source, control, pid, true
}

func callsign(addr []byte) string {
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		c := addr[i] >> 1
		if c != ' ' {
			sb.WriteByte(c)
		}
	}
	ssid := (addr[6] >> 1) & 0xF
	if ssid != 0 {
		fmt.Fprintf(&sb, "-%d", ssid)
	}
	return sb.String()
}

// archiveRecord is one line of the optional .jsonl.zst archive.
type archiveRecord struct {
	SourceChain    string `json:"source_chain"`
	StreamAddress  uint64 `json:"stream_address"`
	ValidCRC       bool   `json:"valid_crc"`
	BytesCorrected int    `json:"bytes_corrected"`
	DataHex        string `json:"data_hex"`
}

// WriteArchive writes every raw (not just unique) decoded packet across
// every chain to path as zstd-compressed line-delimited JSON, for later
// offline reprocessing.
func WriteArchive(path string, agg *packet.Aggregator) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	enc := json.NewEncoder(zw)
	for _, batch := range agg.RawBatches {
		for _, p := range batch {
			rec := archiveRecord{
				SourceChain:    p.SourceChain,
				StreamAddress:  p.StreamAddress,
				ValidCRC:       p.ValidCRC,
				BytesCorrected: p.BytesCorrected,
				DataHex:        hex.EncodeToString(p.Data),
			}
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("failed to write archive record: %w", err)
			}
		}
	}
	return nil
}
