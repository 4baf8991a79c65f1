// Package chain builds and runs one linear receive pipeline — modem,
// slicer, optional descrambler, codec — per a chainplan.DemodChain record,
// and orchestrates a full run across every chain in a plan.
package chain

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cwsl/pktsdr/internal/addrbyte"
	"github.com/cwsl/pktsdr/internal/ax25"
	"github.com/cwsl/pktsdr/internal/chainplan"
	"github.com/cwsl/pktsdr/internal/descrambler"
	"github.com/cwsl/pktsdr/internal/il2p"
	"github.com/cwsl/pktsdr/internal/packet"
	"github.com/cwsl/pktsdr/internal/slicer"
)

// Codec decodes a descrambled addressed-byte stream into packets. Both
// ax25.Framer and il2p.Codec satisfy it.
type Codec interface {
	Decode(stream []addrbyte.Byte) []packet.Packet
}

// Chain is one constructed, ready-to-run receive pipeline.
type Chain struct {
	ID   uuid.UUID
	Name string

	modem        ModemStage
	sliceFn      func(i, q []float64, addrs []uint64) []slicer.Symbol
	descrambler  *descrambler.LFSR
	codec        Codec
}

// Build constructs a Chain from a plan record. sampleRate is the input
// WAV's sample rate, shared by every chain in a run.
func Build(spec chainplan.DemodChain, sampleRate float64, registry *ModemRegistry) (*Chain, error) {
	modemStage, err := registry.Create(spec.Modem.Type, sampleRate, spec.Modem.Config, spec.Modem.Options)
	if err != nil {
		return nil, fmt.Errorf("chain %q: %w", spec.ObjectName, err)
	}

	baudRate := resolveBaud(spec.Modem.Type, spec.Modem.Config)
	if baudRate == 0 {
		return nil, fmt.Errorf("chain %q: could not resolve baud rate for modem config %q", spec.ObjectName, spec.Modem.Config)
	}
	lockRate := 0.75
	if spec.Slicer.Options != nil {
		if v, ok := spec.Slicer.Options["lock_rate"].(float64); ok {
			lockRate = v
		}
	}

	sliceFn, err := buildSlicer(spec.Slicer.Type, sampleRate, baudRate, lockRate)
	if err != nil {
		return nil, fmt.Errorf("chain %q: %w", spec.ObjectName, err)
	}

	var lfsr *descrambler.LFSR
	if spec.Stream != nil && spec.Stream.Type == "lfsr" {
		poly := uint32(descrambler.PolyIL2P)
		invert := false
		if spec.Stream.Options != nil {
			if v, ok := spec.Stream.Options["poly"].(float64); ok {
				poly = uint32(v)
			}
			if v, ok := spec.Stream.Options["invert"].(bool); ok {
				invert = v
			}
		}
		lfsr = descrambler.New(poly, invert)
	}

	codec, err := buildCodec(spec.Codec, spec.ObjectName)
	if err != nil {
		return nil, fmt.Errorf("chain %q: %w", spec.ObjectName, err)
	}

	return &Chain{
		ID:          uuid.New(),
		Name:        spec.ObjectName,
		modem:       modemStage,
		sliceFn:     sliceFn,
		descrambler: lfsr,
		codec:       codec,
	}, nil
}

func resolveBaud(modemType, config string) float64 {
	switch modemType {
	case "afsk", "afsk_pll":
		if p, ok := afskPresets[config]; ok {
			return p.BaudRate
		}
	case "bpsk", "qpsk", "mpsk", "fsk":
		if p, ok := pskPresets[config]; ok {
			return p.BaudRate
		}
	}
	return 0
}

func buildSlicer(kind string, sampleRate, baudRate, lockRate float64) (func(i, q []float64, addrs []uint64) []slicer.Symbol, error) {
	switch kind {
	case "binary":
		s := slicer.NewBinary(sampleRate, baudRate, lockRate)
		return func(i, q []float64, addrs []uint64) []slicer.Symbol {
			return s.SliceFloat(i, addrs)
		}, nil
	case "quadrature":
		s := slicer.NewQuadrature(sampleRate, baudRate, lockRate)
		return func(i, q []float64, addrs []uint64) []slicer.Symbol {
			return s.SliceFloat(i, q, addrs)
		}, nil
	case "4level":
		s := slicer.NewFourLevel(sampleRate, baudRate, lockRate)
		return func(i, q []float64, addrs []uint64) []slicer.Symbol {
			return s.SliceFloat(i, addrs)
		}, nil
	default:
		return nil, fmt.Errorf("unknown slicer type: %s", kind)
	}
}

func buildCodec(spec chainplan.CodecSpec, sourceChain string) (Codec, error) {
	switch spec.Type {
	case "ax25":
		minLen, maxLen := 0, 0
		if spec.Options != nil {
			if v, ok := spec.Options["min_len"].(float64); ok {
				minLen = int(v)
			}
			if v, ok := spec.Options["max_len"].(float64); ok {
				maxLen = int(v)
			}
		}
		return ax25.NewFramer(sourceChain, minLen, maxLen), nil
	case "il2p":
		appendCRC, disableRS := true, false
		minDist, syncTol := 0, 0
		if spec.Options != nil {
			if v, ok := spec.Options["crc"].(bool); ok {
				appendCRC = v
			}
			if v, ok := spec.Options["disable_rs"].(bool); ok {
				disableRS = v
			}
			if v, ok := spec.Options["min_dist"].(float64); ok {
				minDist = int(v)
			}
			if v, ok := spec.Options["sync_tol"].(float64); ok {
				syncTol = int(v)
			}
		}
		return il2p.NewCodec(sourceChain, appendCRC, disableRS, minDist, syncTol), nil
	default:
		return nil, fmt.Errorf("unknown codec type: %s", spec.Type)
	}
}

// Run demodulates, slices, optionally descrambles, and decodes samples
// into every packet this chain finds.
func (c *Chain) Run(samples []float64) []packet.Packet {
	i, q := c.modem.Demod(samples)
	addrs := make([]uint64, len(i))
	for n := range addrs {
		addrs[n] = uint64(n)
	}

	symbols := c.sliceFn(i, q, addrs)
	bytes := packSymbols(symbols)

	if c.descrambler != nil {
		bytes = c.descrambler.UnscrambleStream(bytes)
	}

	return c.codec.Decode(bytes)
}

// packSymbols accumulates slicer-emitted bits into bytes MSB-first,
// tagging each completed byte with the address of the symbol that
// completed it.
func packSymbols(symbols []slicer.Symbol) []addrbyte.Byte {
	var out []addrbyte.Byte
	var working byte
	bitCount := 0
	for _, sym := range symbols {
		for _, bit := range sym.Bits {
			working <<= 1
			if bit {
				working |= 1
			}
			bitCount++
			if bitCount == 8 {
				out = append(out, addrbyte.Byte{Value: working, Address: sym.Address})
				working = 0
				bitCount = 0
			}
		}
	}
	return out
}

// Runner builds and runs every chain in a chainplan.Plan over one decoded
// sample buffer, then aggregates and correlates the results.
type Runner struct {
	Registry *ModemRegistry
	Logger   *slog.Logger
}

// NewRunner builds a Runner using the default modem registry.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{Registry: NewModemRegistry(), Logger: logger}
}

// Result is the outcome of running an entire chain plan over one buffer.
type Result struct {
	Aggregator *packet.Aggregator
	Elapsed    time.Duration
}

// RunPlan constructs every chain named in plan.Chains (skipping, with a
// diagnostic, any that fail to build — a configuration error must not
// abort the other chains), runs them all over samples, and correlates
// their output.
func (r *Runner) RunPlan(plan *chainplan.Plan, samples []float64, sampleRate float64, correlationWindow float64) Result {
	start := time.Now()
	agg := packet.NewAggregator()

	for _, spec := range plan.Chains {
		c, err := Build(spec, sampleRate, r.Registry)
		if err != nil {
			if r.Logger != nil {
				r.Logger.Warn("skipping chain with configuration error", "chain", spec.ObjectName, "error", err)
			}
			continue
		}
		batch := c.Run(samples)
		agg.Add(batch)
		if r.Logger != nil {
			r.Logger.Debug("chain complete", "chain", c.Name, "packets", len(batch))
		}
	}

	agg.ComputeCRCs()
	agg.Correlate(uint64(correlationWindow))

	return Result{Aggregator: agg, Elapsed: time.Since(start)}
}
