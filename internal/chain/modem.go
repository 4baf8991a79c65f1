package chain

import (
	"fmt"
	"sync"

	"github.com/cwsl/pktsdr/internal/modem/afsk"
	"github.com/cwsl/pktsdr/internal/modem/afskpll"
	"github.com/cwsl/pktsdr/internal/modem/fsk"
	"github.com/cwsl/pktsdr/internal/modem/psk"
)

// ModemStage demodulates a real sample buffer into one or two soft-symbol
// streams (Q is nil for single-channel modems such as AFSK or FSK).
type ModemStage interface {
	Demod(samples []float64) (i, q []float64)
}

// ModemFactory builds a ModemStage for a given config preset name and
// plan options.
type ModemFactory func(sampleRate float64, config string, options map[string]interface{}) (ModemStage, error)

// ModemRegistry maps modem.type plan values to factories, the same
// register/create pattern used for pluggable processing stages elsewhere
// in this codebase.
type ModemRegistry struct {
	mu        sync.RWMutex
	factories map[string]ModemFactory
}

// NewModemRegistry builds a registry pre-populated with the built-in
// modem types this repository implements.
func NewModemRegistry() *ModemRegistry {
	r := &ModemRegistry{factories: make(map[string]ModemFactory)}
	r.Register("afsk", buildAFSK)
	r.Register("afsk_pll", buildAFSKPLL)
	r.Register("bpsk", buildPSKFactory(psk.BPSK))
	r.Register("qpsk", buildPSKFactory(psk.QPSK))
	r.Register("mpsk", buildPSKFactory(psk.MPSK8))
	r.Register("fsk", buildFSK)
	return r
}

// Register adds or replaces a modem factory.
func (r *ModemRegistry) Register(name string, factory ModemFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create builds a ModemStage for the named modem type.
func (r *ModemRegistry) Create(name string, sampleRate float64, config string, options map[string]interface{}) (ModemStage, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown modem type: %s", name)
	}
	return factory(sampleRate, config, options)
}

type realModemAdapter struct {
	demod func([]float64) []float64
}

func (a realModemAdapter) Demod(samples []float64) (i, q []float64) {
	return a.demod(samples), nil
}

func buildAFSK(sampleRate float64, config string, options map[string]interface{}) (ModemStage, error) {
	preset, ok := afskPresets[config]
	if !ok {
		return nil, fmt.Errorf("unknown afsk config: %s", config)
	}
	cfg := afsk.NewDefaultConfig(sampleRate)
	cfg.MarkFreq = preset.MarkFreq
	cfg.SpaceFreq = preset.SpaceFreq
	cfg.BaudRate = preset.BaudRate
	applyFloatOption(options, "mark_freq", &cfg.MarkFreq)
	applyFloatOption(options, "space_freq", &cfg.SpaceFreq)
	applyFloatOption(options, "space_gain", &cfg.SpaceGain)
	applyFloatOption(options, "correlator_span", &cfg.CorrelatorSpan)
	applyFloatOption(options, "correlator_offset", &cfg.CorrelatorOffset)
	d := afsk.New(cfg)
	return realModemAdapter{demod: d.Demod}, nil
}

func buildAFSKPLL(sampleRate float64, config string, options map[string]interface{}) (ModemStage, error) {
	preset, ok := afskPresets[config]
	if !ok {
		return nil, fmt.Errorf("unknown afsk_pll config: %s", config)
	}
	cfg := afskpll.NewDefaultConfig(sampleRate)
	cfg.MarkFreq = preset.MarkFreq
	cfg.SpaceFreq = preset.SpaceFreq
	applyFloatOption(options, "mark_freq", &cfg.MarkFreq)
	applyFloatOption(options, "space_freq", &cfg.SpaceFreq)
	d := afskpll.New(cfg)
	return realModemAdapter{demod: d.Demod}, nil
}

func buildFSK(sampleRate float64, config string, options map[string]interface{}) (ModemStage, error) {
	preset, ok := pskPresets[config]
	if !ok {
		return nil, fmt.Errorf("unknown fsk config: %s", config)
	}
	center := preset.CenterFreq
	applyFloatOption(options, "center_freq", &center)
	cfg := fsk.NewDefaultConfig(sampleRate, center)
	d := fsk.New(cfg)
	return realModemAdapter{demod: d.Demod}, nil
}

type pskModemAdapter struct {
	demod func([]float64) []psk.Sample
}

func (a pskModemAdapter) Demod(samples []float64) (i, q []float64) {
	out := a.demod(samples)
	i = make([]float64, len(out))
	q = make([]float64, len(out))
	for n, s := range out {
		i[n] = s.I
		q[n] = s.Q
	}
	return i, q
}

func buildPSKFactory(order psk.Order) ModemFactory {
	return func(sampleRate float64, config string, options map[string]interface{}) (ModemStage, error) {
		preset, ok := pskPresets[config]
		if !ok {
			return nil, fmt.Errorf("unknown psk config: %s", config)
		}
		cfg := psk.NewDefaultConfig(sampleRate, order)
		cfg.CenterFreq = preset.CenterFreq
		cfg.SymbolRate = preset.BaudRate
		applyFloatOption(options, "center_freq", &cfg.CenterFreq)
		d := psk.New(cfg)
		return pskModemAdapter{demod: d.Demod}, nil
	}
}

func applyFloatOption(options map[string]interface{}, key string, target *float64) {
	if options == nil {
		return
	}
	v, ok := options[key]
	if !ok {
		return
	}
	if f, ok := v.(float64); ok {
		*target = f
	}
}
