package opusdec

import "errors"

// Error kinds returned by Decoder.Decode, per the error taxonomy in
// SPEC_FULL.md section 7. Callers should compare with errors.Is; the
// Decoder wraps these sentinels with github.com/pkg/errors before
// returning them, so the message gains context but the sentinel identity
// survives unwrap.
var (
	// ErrInvalidPacket covers R1-R7 framing violations and any other
	// internal inconsistency in the packet's declared structure.
	ErrInvalidPacket = errors.New("opusdec: invalid packet")

	// ErrInvalidSampleRate covers an unsupported output rate, or a rate
	// mismatch when no resampling capability is registered.
	ErrInvalidSampleRate = errors.New("opusdec: invalid sample rate")

	// ErrUnsupportedMode is returned when a packet requests a mode whose
	// sub-decoder was not compiled in.
	ErrUnsupportedMode = errors.New("opusdec: unsupported mode")

	// ErrDecodeFailed names the decode-failure kind (range-decoder
	// overrun, arithmetic inconsistency, sub-decoder sample-count
	// mismatch, resampler failure). Decoder.Decode does not return it:
	// the range decoder reads zero bytes past the end of a frame instead
	// of failing, and sub-decoder errors are wrapped without this
	// sentinel.
	ErrDecodeFailed = errors.New("opusdec: decode failed")

	// ErrInvalidChannels indicates an unsupported channel count at
	// construction time. Valid channel counts are 1 (mono) or 2 (stereo).
	ErrInvalidChannels = errors.New("opusdec: invalid channel count")
)
