package opusdec

// Mode is the Opus coding mode: which sub-codec(s) decode a frame.
type Mode uint8

const (
	ModeSILKOnly Mode = iota // configs 0-11
	ModeHybrid               // configs 12-15
	ModeCELTOnly             // configs 16-31
)

func (m Mode) String() string {
	switch m {
	case ModeSILKOnly:
		return "silk-only"
	case ModeHybrid:
		return "hybrid"
	case ModeCELTOnly:
		return "celt-only"
	default:
		return "unknown"
	}
}

// Bandwidth is the semantic audio bandwidth class carried by the TOC byte,
// independent of the decoder's configured output sample rate.
type Bandwidth uint8

const (
	BandwidthNarrowband Bandwidth = iota
	BandwidthMediumband
	BandwidthWideband
	BandwidthSuperwideband
	BandwidthFullband
)

func (b Bandwidth) String() string {
	switch b {
	case BandwidthNarrowband:
		return "NB"
	case BandwidthMediumband:
		return "MB"
	case BandwidthWideband:
		return "WB"
	case BandwidthSuperwideband:
		return "SWB"
	case BandwidthFullband:
		return "FB"
	default:
		return "unknown"
	}
}

// Channels is the decoder's channel layout.
type Channels uint8

const (
	Mono   Channels = 1
	Stereo Channels = 2
)

// FrameSize is one of the six Opus frame durations, stored in tenths of a
// millisecond so the type stays integral (2.5ms -> 25).
type FrameSize int

const (
	FrameSize2500us FrameSize = 25  // 2.5ms, CELT only
	FrameSize5ms    FrameSize = 50  // CELT only
	FrameSize10ms   FrameSize = 100
	FrameSize20ms   FrameSize = 200
	FrameSize40ms   FrameSize = 400 // SILK only, encoded as 2 SILK sub-frames
	FrameSize60ms   FrameSize = 600 // SILK only, encoded as 3 SILK sub-frames
)

// Samples returns the number of samples per channel this frame size spans
// at the given output sample rate, per SPEC_FULL.md's
// samples_per_frame = (output_rate * duration_tenths_ms) / 10000 formula.
func (f FrameSize) Samples(outputRate int) int {
	return (outputRate * int(f)) / 10000
}

// SampleRate is a decoder output rate in Hz. Only the five rates Opus
// defines are valid.
type SampleRate int

const (
	SampleRate8000  SampleRate = 8000
	SampleRate12000 SampleRate = 12000
	SampleRate16000 SampleRate = 16000
	SampleRate24000 SampleRate = 24000
	SampleRate48000 SampleRate = 48000
)

// SampleRateFromHz validates x as an Opus output rate.
func SampleRateFromHz(x int) (SampleRate, error) {
	switch SampleRate(x) {
	case SampleRate8000, SampleRate12000, SampleRate16000, SampleRate24000, SampleRate48000:
		return SampleRate(x), nil
	default:
		return 0, ErrInvalidSampleRate
	}
}

// Configuration is one row of the closed, normative 32-entry table that
// the TOC byte's 5-bit config field indexes into (RFC 6716 Section 3.1).
type Configuration struct {
	Mode      Mode
	Bandwidth Bandwidth
	FrameSize FrameSize
}

// configTable maps configuration indices 0-31 to (Mode, Bandwidth,
// FrameSize). This table is closed and normative: every index 0-31 is
// populated and the mapping never changes at runtime.
var configTable = [32]Configuration{
	// SILK-only NB: configs 0-3
	{ModeSILKOnly, BandwidthNarrowband, FrameSize10ms},
	{ModeSILKOnly, BandwidthNarrowband, FrameSize20ms},
	{ModeSILKOnly, BandwidthNarrowband, FrameSize40ms},
	{ModeSILKOnly, BandwidthNarrowband, FrameSize60ms},
	// SILK-only MB: configs 4-7
	{ModeSILKOnly, BandwidthMediumband, FrameSize10ms},
	{ModeSILKOnly, BandwidthMediumband, FrameSize20ms},
	{ModeSILKOnly, BandwidthMediumband, FrameSize40ms},
	{ModeSILKOnly, BandwidthMediumband, FrameSize60ms},
	// SILK-only WB: configs 8-11
	{ModeSILKOnly, BandwidthWideband, FrameSize10ms},
	{ModeSILKOnly, BandwidthWideband, FrameSize20ms},
	{ModeSILKOnly, BandwidthWideband, FrameSize40ms},
	{ModeSILKOnly, BandwidthWideband, FrameSize60ms},
	// Hybrid SWB: configs 12-13
	{ModeHybrid, BandwidthSuperwideband, FrameSize10ms},
	{ModeHybrid, BandwidthSuperwideband, FrameSize20ms},
	// Hybrid FB: configs 14-15
	{ModeHybrid, BandwidthFullband, FrameSize10ms},
	{ModeHybrid, BandwidthFullband, FrameSize20ms},
	// CELT-only NB: configs 16-19
	{ModeCELTOnly, BandwidthNarrowband, FrameSize2500us},
	{ModeCELTOnly, BandwidthNarrowband, FrameSize5ms},
	{ModeCELTOnly, BandwidthNarrowband, FrameSize10ms},
	{ModeCELTOnly, BandwidthNarrowband, FrameSize20ms},
	// CELT-only WB: configs 20-23
	{ModeCELTOnly, BandwidthWideband, FrameSize2500us},
	{ModeCELTOnly, BandwidthWideband, FrameSize5ms},
	{ModeCELTOnly, BandwidthWideband, FrameSize10ms},
	{ModeCELTOnly, BandwidthWideband, FrameSize20ms},
	// CELT-only SWB: configs 24-27
	{ModeCELTOnly, BandwidthSuperwideband, FrameSize2500us},
	{ModeCELTOnly, BandwidthSuperwideband, FrameSize5ms},
	{ModeCELTOnly, BandwidthSuperwideband, FrameSize10ms},
	{ModeCELTOnly, BandwidthSuperwideband, FrameSize20ms},
	// CELT-only FB: configs 28-31
	{ModeCELTOnly, BandwidthFullband, FrameSize2500us},
	{ModeCELTOnly, BandwidthFullband, FrameSize5ms},
	{ModeCELTOnly, BandwidthFullband, FrameSize10ms},
	{ModeCELTOnly, BandwidthFullband, FrameSize20ms},
}

// ConfigurationFor returns the Configuration row for a 5-bit config index
// (0-31). Only the low five bits of index are used, so an out-of-range
// index wraps onto the table (32 resolves like 0) instead of panicking.
func ConfigurationFor(index uint8) Configuration {
	return configTable[index&0x1f]
}
