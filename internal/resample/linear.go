package resample

import "math"

// Linear resamples interleaved float32 PCM by linear interpolation. It
// is not the windowed-sinc quality libopus's own resampler uses, but it
// keeps continuity across calls by retaining the last input frame's
// final sample as the interpolation anchor for the next call.
type Linear struct {
	inRate, outRate int
	channels        int
	ratio           float64
	pos             float64
	last            []float32 // one sample per channel, carried from the previous call
	haveLast        bool
}

// NewLinear constructs a Linear resampler from inRate to outRate for
// channels-many interleaved channels.
func NewLinear(inRate, outRate, channels int) *Linear {
	return &Linear{
		inRate:   inRate,
		outRate:  outRate,
		channels: channels,
		ratio:    float64(inRate) / float64(outRate),
		last:     make([]float32, channels),
	}
}

// Process resamples in (frames of l.channels interleaved samples at
// inRate) to outRate.
func (l *Linear) Process(in []float32) []float32 {
	if l.channels <= 0 || len(in) == 0 {
		return nil
	}
	framesIn := len(in) / l.channels
	framesOut := int(float64(framesIn) * float64(l.outRate) / float64(l.inRate))
	out := make([]float32, framesOut*l.channels)

	for i := 0; i < framesOut; i++ {
		srcPos := l.pos + float64(i)*l.ratio
		idx := int(math.Floor(srcPos))
		frac := srcPos - float64(idx)

		for c := 0; c < l.channels; c++ {
			var s0, s1 float32
			if idx < 0 {
				s0 = l.last[c]
			} else if idx < framesIn {
				s0 = in[idx*l.channels+c]
			} else {
				s0 = in[(framesIn-1)*l.channels+c]
			}
			if idx+1 < 0 {
				s1 = l.last[c]
			} else if idx+1 < framesIn {
				s1 = in[(idx+1)*l.channels+c]
			} else {
				s1 = in[(framesIn-1)*l.channels+c]
			}
			out[i*l.channels+c] = s0 + float32(frac)*(s1-s0)
		}
	}

	l.pos = l.pos + float64(framesOut)*l.ratio - float64(framesIn)
	if framesIn > 0 {
		for c := 0; c < l.channels; c++ {
			l.last[c] = in[(framesIn-1)*l.channels+c]
		}
		l.haveLast = true
	}
	return out
}
