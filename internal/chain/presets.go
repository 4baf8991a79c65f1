package chain

// ModemPreset carries the per-config-name tuning defaults a modem.config
// value such as "1200" or "qpsk_2400" resolves to.
type ModemPreset struct {
	BaudRate float64
	// AFSK/AFSK-PLL only.
	MarkFreq, SpaceFreq float64
	// PSK/FSK only.
	CenterFreq float64
}

// afskPresets maps modem.config values to AFSK/AFSK-PLL tone presets.
var afskPresets = map[string]ModemPreset{
	"1200": {BaudRate: 1200, MarkFreq: 1200, SpaceFreq: 2200},
	"300":  {BaudRate: 300, MarkFreq: 1600, SpaceFreq: 1800},
}

// pskPresets maps modem.config values to PSK carrier/baud presets.
var pskPresets = map[string]ModemPreset{
	"bpsk_300":    {BaudRate: 300, CenterFreq: 1500},
	"bpsk_1200":   {BaudRate: 1200, CenterFreq: 1500},
	"qpsk_600":    {BaudRate: 600, CenterFreq: 1800},
	"qpsk_2400":   {BaudRate: 2400, CenterFreq: 1800},
	"qpsk_3600":   {BaudRate: 3600, CenterFreq: 1800},
	"qpsk_4800":   {BaudRate: 4800, CenterFreq: 1800},
	"600":         {BaudRate: 600, CenterFreq: 1800},
	"2400":        {BaudRate: 2400, CenterFreq: 1800},
	"3600":        {BaudRate: 3600, CenterFreq: 1800},
	"4800-rrc":    {BaudRate: 4800, CenterFreq: 1800},
	"9600":        {BaudRate: 9600, CenterFreq: 0},
}
