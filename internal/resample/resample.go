// Package resample adapts a sub-decoder's fixed internal sample rate
// (SILK's 8/12/16kHz, CELT's 48kHz) to the Decoder's configured output
// rate. It mirrors the lazy, quality-parameterized resample streamer
// pattern used by beep.Resample in go-musicfox's player: a Resampler is
// built once per (input rate, output rate) pair and reused across
// frames, and is only rebuilt when the input rate changes, which
// happens on a bandwidth switch mid-stream.
package resample

// Resampler converts interleaved float32 PCM from one sample rate to
// another for a fixed channel count.
type Resampler interface {
	// Process resamples in and returns the resampled output. The
	// returned slice is only valid until the next call to Process.
	Process(in []float32) []float32
}

// Adapter lazily builds and rebuilds the Resampler for the current
// (input rate, output rate) pair, so callers can simply call Process on
// every frame without tracking rate changes themselves.
type Adapter struct {
	channels   int
	outputRate int

	inputRate int
	active    Resampler
}

// NewAdapter constructs an Adapter targeting outputRate with the given
// channel count.
func NewAdapter(outputRate, channels int) *Adapter {
	return &Adapter{outputRate: outputRate, channels: channels}
}

// Process resamples in, which is sampled at inputRate, to the Adapter's
// configured output rate. It rebuilds the underlying Resampler whenever
// inputRate differs from the previous call.
func (a *Adapter) Process(in []float32, inputRate int) []float32 {
	if inputRate == a.outputRate {
		return in
	}
	if a.active == nil || inputRate != a.inputRate {
		a.active = NewLinear(inputRate, a.outputRate, a.channels)
		a.inputRate = inputRate
	}
	return a.active.Process(in)
}

// Reset drops any retained resampler, forcing a rebuild on the next
// Process call. Used on a mode transition that resets all decoder
// state.
func (a *Adapter) Reset() {
	a.active = nil
}
