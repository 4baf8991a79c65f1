// Package packet defines the reconstructed-frame record and the
// cross-chain aggregator that deduplicates and sorts decodes from parallel
// receive chains.
package packet

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cwsl/pktsdr/internal/crc"
)

// Packet is a fully reconstructed AX.25 frame plus the metadata needed to
// validate and correlate it across chains.
type Packet struct {
	ID uuid.UUID

	Data []byte

	StreamAddress   uint64
	SourceChain     string
	CalculatedCRC   uint16
	CarriedCRC      uint16
	ValidCRC        bool
	CorrelatedChains []string
	BytesCorrected  int
}

// Copy returns a deep copy of p so that emitting it into a result list is
// safe against later mutation of the owning framer's working packet.
func (p Packet) Copy() Packet {
	out := p
	out.Data = append([]byte(nil), p.Data...)
	out.CorrelatedChains = append([]string(nil), p.CorrelatedChains...)
	return out
}

// CalcCRC computes ValidCRC/CalculatedCRC/CarriedCRC from Data's trailing
// two bytes.
func (p *Packet) CalcCRC() {
	carried, calculated, valid := crc.Check(p.Data)
	p.CarriedCRC = carried
	p.CalculatedCRC = calculated
	p.ValidCRC = valid
}

// Aggregator holds raw per-chain batches and the correlated unique-packet
// result.
type Aggregator struct {
	mu            sync.Mutex
	RawBatches    [][]Packet
	UniquePackets []Packet
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add appends one chain's raw packet batch, giving every packet that has no
// ID yet a fresh UUID.
func (a *Aggregator) Add(batch []Packet) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range batch {
		if batch[i].ID == uuid.Nil {
			batch[i].ID = uuid.New()
		}
	}
	a.RawBatches = append(a.RawBatches, batch)
}

// ComputeCRCs populates ValidCRC on every packet across every batch.
func (a *Aggregator) ComputeCRCs() {
	for _, batch := range a.RawBatches {
		for i := range batch {
			batch[i].CalcCRC()
		}
	}
}

// Correlate builds UniquePackets: the valid-CRC packets of all batches are
// visited in order of StreamAddress (ties broken by SourceChain), and each
// is merged into an existing unique packet from a different source chain
// within addressWindow samples carrying the same calculated CRC, or else
// added as a new unique packet. The final list is sorted by StreamAddress.
// Because the visiting order does not depend on the order RawBatches were
// added in, permuting batch order does not change the resulting
// unique-packet set or, after sorting, their order.
func (a *Aggregator) Correlate(addressWindow uint64) {
	a.UniquePackets = nil
	var valid []Packet
	for _, batch := range a.RawBatches {
		for _, raw := range batch {
			if raw.ValidCRC {
				valid = append(valid, raw)
			}
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].StreamAddress != valid[j].StreamAddress {
			return valid[i].StreamAddress < valid[j].StreamAddress
		}
		return valid[i].SourceChain < valid[j].SourceChain
	})
	for _, raw := range valid {
		merged := false
		for i := range a.UniquePackets {
			u := &a.UniquePackets[i]
			if u.SourceChain == raw.SourceChain {
				continue
			}
			if absDelta(raw.StreamAddress, u.StreamAddress) >= addressWindow {
				continue
			}
			if raw.CalculatedCRC != u.CalculatedCRC {
				continue
			}
			u.CorrelatedChains = append(u.CorrelatedChains, raw.SourceChain)
			merged = true
			break
		}
		if !merged {
			unique := raw.Copy()
			unique.CorrelatedChains = append(unique.CorrelatedChains, raw.SourceChain)
			a.UniquePackets = append(a.UniquePackets, unique)
		}
	}
	sort.SliceStable(a.UniquePackets, func(i, j int) bool {
		return a.UniquePackets[i].StreamAddress < a.UniquePackets[j].StreamAddress
	})
}

func absDelta(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

// CountGood returns the number of valid-CRC packets across all raw batches.
func (a *Aggregator) CountGood() int {
	n := 0
	for _, batch := range a.RawBatches {
		for _, p := range batch {
			if p.ValidCRC {
				n++
			}
		}
	}
	return n
}

// CountBad returns the number of invalid-CRC packets across all raw
// batches.
func (a *Aggregator) CountBad() int {
	n := 0
	for _, batch := range a.RawBatches {
		for _, p := range batch {
			if !p.ValidCRC {
				n++
			}
		}
	}
	return n
}
