// Package types defines the small set of enumerations shared between the
// SILK and CELT sub-decoders. It exists only to break the import cycle
// between those packages and the root opusdec package, which defines the
// public Mode/Bandwidth types that mirror these.
package types

// Mode is the Opus coding mode carried by a packet's TOC byte.
type Mode uint8

const (
	ModeSILK   Mode = iota // configs 0-11
	ModeHybrid             // configs 12-15
	ModeCELT               // configs 16-31
)

func (m Mode) String() string {
	switch m {
	case ModeSILK:
		return "silk"
	case ModeHybrid:
		return "hybrid"
	case ModeCELT:
		return "celt"
	default:
		return "unknown"
	}
}

// Bandwidth is the semantic audio bandwidth class, independent of the
// decoder's configured output sample rate.
type Bandwidth uint8

const (
	BandwidthNarrowband    Bandwidth = iota // NB, 8kHz internal rate
	BandwidthMediumband                     // MB, 12kHz internal rate
	BandwidthWideband                       // WB, 16kHz internal rate
	BandwidthSuperwideband                  // SWB, 24kHz
	BandwidthFullband                       // FB, 48kHz
)

func (b Bandwidth) String() string {
	switch b {
	case BandwidthNarrowband:
		return "narrowband"
	case BandwidthMediumband:
		return "mediumband"
	case BandwidthWideband:
		return "wideband"
	case BandwidthSuperwideband:
		return "superwideband"
	case BandwidthFullband:
		return "fullband"
	default:
		return "unknown"
	}
}

// SilkInternalRate returns the SILK internal sample rate in Hz for the
// given bandwidth. Only NB/MB/WB are valid SILK-only bandwidths; callers
// must check ok before using rate.
func SilkInternalRate(bw Bandwidth) (rate int, ok bool) {
	switch bw {
	case BandwidthNarrowband:
		return 8000, true
	case BandwidthMediumband:
		return 12000, true
	case BandwidthWideband:
		return 16000, true
	default:
		return 0, false
	}
}
