package opusdec

import (
	"github.com/kestrelaudio/opusdec/internal/celt"
	"github.com/kestrelaudio/opusdec/internal/log"
	"github.com/kestrelaudio/opusdec/internal/rangecoding"
	"github.com/kestrelaudio/opusdec/internal/resample"
	"github.com/kestrelaudio/opusdec/internal/silk"
	"github.com/kestrelaudio/opusdec/internal/types"
	"github.com/pkg/errors"
)

// celtHighBandStart is the first CELT band carried by hybrid
// configurations; bands below it belong entirely to SILK (RFC 6716
// Section 4.3).
const celtHighBandStart = 17

// Decoder decodes Opus packets into PCM audio samples at a fixed output
// sample rate and channel count.
//
// A Decoder is not safe for concurrent use; callers decoding multiple
// streams concurrently should construct one Decoder per stream.
type Decoder struct {
	sampleRate SampleRate
	channels   Channels

	silk *silk.Decoder
	celt *celt.Decoder

	silkResample *resample.Adapter
	celtResample *resample.Adapter

	lastMode      Mode
	lastFrameSize int

	log       *log.Logger
	declipMem []float32
}

// Option configures optional Decoder behavior at construction time.
type Option func(*Decoder)

// WithLogger attaches a structured logger. The default Decoder logs
// nowhere.
func WithLogger(l *log.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

// NewDecoder constructs a Decoder for the given output sample rate and
// channel count. rate must be one of the five rates Opus defines;
// channels must be Mono or Stereo.
func NewDecoder(rate SampleRate, channels Channels, opts ...Option) (*Decoder, error) {
	if _, err := SampleRateFromHz(int(rate)); err != nil {
		return nil, errors.Wrap(ErrInvalidSampleRate, "opusdec: NewDecoder")
	}
	if channels != Mono && channels != Stereo {
		return nil, errors.Wrap(ErrInvalidChannels, "opusdec: NewDecoder")
	}

	d := &Decoder{
		sampleRate:   rate,
		channels:     channels,
		silk:         silk.NewDecoder(int(channels)),
		celt:         celt.NewDecoder(int(channels)),
		silkResample: resample.NewAdapter(int(rate), int(channels)),
		celtResample: resample.NewAdapter(int(rate), int(channels)),
		lastMode:     ModeCELTOnly,
		log:          log.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Decode parses one Opus packet and writes its decoded PCM into pcm,
// starting at pcm[0], returning the total number of samples per channel
// written.
//
// A packet may contain more than one constituent Opus frame (RFC 6716
// Section 3.2); Decode decodes every frame in the packet and
// concatenates their PCM in order. Passing a nil packet requests
// packet-loss concealment: this decoder implements PLC as silence
// insertion at the last decoded frame's size, per the package-level
// non-goals in SPEC_FULL.md. A non-nil, zero-length packet is not a
// loss signal but a malformed one (R1) and is rejected.
func (d *Decoder) Decode(packet []byte, pcm []float32) (int, error) {
	if packet == nil {
		return d.concealLoss(pcm)
	}
	if len(packet) == 0 {
		return 0, errors.Wrap(ErrInvalidPacket, "R1: empty packet")
	}

	toc, err := ParseTOC(packet)
	if err != nil {
		return 0, errors.Wrap(err, "opusdec: parse TOC")
	}
	if toc.Channels() != d.channels {
		return 0, errors.Wrap(ErrInvalidPacket, "opusdec: packet channel count does not match decoder")
	}

	cfg := toc.Configuration()
	frames, _, err := Split(toc, packet[1:])
	if err != nil {
		return 0, errors.Wrap(err, "opusdec: split packet into frames")
	}

	if cfg.Mode != d.lastMode {
		d.resetForModeTransition(cfg.Mode)
	}

	total := 0
	for _, frame := range frames {
		n, err := d.decodeOneFrame(frame, cfg, pcm[total*int(d.channels):])
		if err != nil {
			return 0, errors.Wrapf(err, "opusdec: decode frame (mode %s, bandwidth %s)", cfg.Mode, cfg.Bandwidth)
		}
		total += n
	}

	d.lastMode = cfg.Mode
	d.lastFrameSize = cfg.FrameSize.Samples(int(d.sampleRate))
	return total, nil
}

// decodeOneFrame decodes a single constituent Opus frame (already
// separated from any sibling frames in the same packet) and writes its
// PCM into out.
func (d *Decoder) decodeOneFrame(frame Frame, cfg Configuration, out []float32) (int, error) {
	if len(frame) == 0 {
		return 0, errors.Wrap(ErrInvalidPacket, "empty constituent frame")
	}
	rd, err := rangecoding.New(frame)
	if err != nil {
		return 0, errors.Wrap(err, "construct range decoder")
	}

	switch cfg.Mode {
	case ModeSILKOnly:
		return d.decodeSILKOnly(rd, cfg, out)
	case ModeCELTOnly:
		return d.decodeCELTOnly(rd, cfg, out)
	case ModeHybrid:
		return d.decodeHybrid(rd, cfg, out)
	default:
		return 0, ErrUnsupportedMode
	}
}

func (d *Decoder) decodeSILKOnly(rd *rangecoding.Decoder, cfg Configuration, out []float32) (int, error) {
	bw := toInternalBandwidth(cfg.Bandwidth)
	frame, err := d.silk.Decode(rd, bw, int(cfg.FrameSize))
	if err != nil {
		return 0, errors.Wrap(err, "silk decode")
	}
	rate, _ := types.SilkInternalRate(bw)
	resampled := d.silkResample.Process(frame.PCM, rate)
	n := copy(out, resampled)
	return n / int(d.channels), nil
}

func (d *Decoder) decodeCELTOnly(rd *rangecoding.Decoder, cfg Configuration, out []float32) (int, error) {
	frameSize := cfg.FrameSize.Samples(48000)
	pcm, err := d.celt.Decode(rd, frameSize, 0, celt.NumBands)
	if err != nil {
		return 0, errors.Wrap(err, "celt decode")
	}
	resampled := d.celtResample.Process(pcm, 48000)
	n := copy(out, resampled)
	return n / int(d.channels), nil
}

// decodeHybrid decodes a hybrid frame: SILK covers the low bands at its
// wideband internal rate, CELT covers bands 17-20, and the two
// contributions are summed after both are resampled to the output rate.
func (d *Decoder) decodeHybrid(rd *rangecoding.Decoder, cfg Configuration, out []float32) (int, error) {
	silkFrame, err := d.silk.Decode(rd, types.BandwidthWideband, int(cfg.FrameSize))
	if err != nil {
		return 0, errors.Wrap(err, "hybrid silk decode")
	}
	silkResampled := d.silkResample.Process(silkFrame.PCM, 16000)

	celtFrameSize := cfg.FrameSize.Samples(48000)
	celtPCM, err := d.celt.Decode(rd, celtFrameSize, celtHighBandStart, celt.NumBands)
	if err != nil {
		return 0, errors.Wrap(err, "hybrid celt decode")
	}
	celtResampled := d.celtResample.Process(celtPCM, 48000)

	n := len(silkResampled)
	if len(celtResampled) < n {
		n = len(celtResampled)
	}
	for i := 0; i < n && i < len(out); i++ {
		out[i] = silkResampled[i] + celtResampled[i]
	}
	return n / int(d.channels), nil
}

// concealLoss fills pcm with silence for the last decoded frame's
// duration; see Decode's doc comment for the non-goal this implements
// in place of full FEC/LBRR-based loss concealment.
func (d *Decoder) concealLoss(pcm []float32) (int, error) {
	if d.lastFrameSize == 0 {
		return 0, nil
	}
	n := d.lastFrameSize * int(d.channels)
	if n > len(pcm) {
		n = len(pcm)
	}
	for i := 0; i < n; i++ {
		pcm[i] = 0
	}
	return n / int(d.channels), nil
}

// resetForModeTransition clears the sub-decoder state and resampler
// that a mode switch would otherwise leave stale, per RFC 6716 Section
// 4.5's requirement that decoder state not leak across a mode switch.
// It is only called when next differs from d.lastMode (see Decode).
//
// CELT-only -> {SILK-only, Hybrid} resets SILK: the stream is leaving
// CELT-only, so SILK's synthesis history is stale regardless of what
// it's entering. Any -> {CELT-only, Hybrid} resets CELT: CELT's history
// must start clean whenever the stream begins needing it again.
func (d *Decoder) resetForModeTransition(next Mode) {
	d.log.Debug("mode transition", "from", d.lastMode.String(), "to", next.String())
	if d.lastMode == ModeCELTOnly && next != ModeCELTOnly {
		d.silk.Reset()
		d.silkResample.Reset()
	}
	if next == ModeCELTOnly || next == ModeHybrid {
		d.celt.Reset()
		d.celtResample.Reset()
	}
}

// toInternalBandwidth narrows a public Bandwidth to the internal
// enumeration the silk and celt packages use, breaking the import cycle
// between this package and them.
func toInternalBandwidth(bw Bandwidth) types.Bandwidth {
	return types.Bandwidth(bw)
}

// DecodeInt16 decodes one Opus packet into saturated int16 PCM,
// applying soft clipping to any float32 excursions above [-1, 1] before
// quantizing.
func (d *Decoder) DecodeInt16(packet []byte, pcm []int16) (int, error) {
	tmp := make([]float32, len(pcm))
	n, err := d.Decode(packet, tmp)
	if err != nil {
		return 0, err
	}
	if len(d.declipMem) < int(d.channels) {
		d.declipMem = make([]float32, d.channels)
	}
	writeInt16(pcm, tmp[:n*int(d.channels)], int(d.channels), d.declipMem)
	return n, nil
}

// Channels reports the decoder's configured channel count.
func (d *Decoder) Channels() Channels { return d.channels }

// SampleRate reports the decoder's configured output sample rate.
func (d *Decoder) SampleRate() SampleRate { return d.sampleRate }
