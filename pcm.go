package opusdec

import (
	"math"

	"github.com/kestrelaudio/opusdec/internal/util"
)

// float32ToInt16 converts one sample from the decoder's internal float
// representation (nominal range [-1, 1], transient excursions up to
// roughly [-2, 2] before soft clipping) to a saturated 16-bit PCM
// sample, rounding to nearest with ties to even.
func float32ToInt16(sample float32) int16 {
	scaled := float64(sample) * 32768.0
	if scaled > 32767.0 {
		return 32767
	}
	if scaled < -32768.0 {
		return -32768
	}
	return int16(math.RoundToEven(scaled))
}

// writeInt16 converts an interleaved float32 PCM buffer to interleaved
// int16, applying softClip first so that transient overshoots above
// [-1, 1] are bent back in rather than hard-clipped.
func writeInt16(dst []int16, src []float32, channels int, declipMem []float32) {
	n := len(src) / channels
	softClip(src, n, channels, declipMem)
	for i, s := range src {
		if i >= len(dst) {
			break
		}
		dst[i] = float32ToInt16(s)
	}
}

// softClip applies the libopus-style soft clipping nonlinearity in
// place. It expects interleaved samples nominally in [-1, 1] with
// excursions no larger than [-2, 2]; declipMem carries one
// continuation coefficient per channel across calls so the bend
// started at the end of one frame completes at the start of the next.
func softClip(x []float32, n, channels int, declipMem []float32) {
	if channels < 1 || n < 1 || len(x) == 0 || len(declipMem) < channels {
		return
	}

	total := n * channels
	if total > len(x) {
		total = len(x)
	}
	for i := 0; i < total; i++ {
		if x[i] > 2 {
			x[i] = 2
		} else if x[i] < -2 {
			x[i] = -2
		}
	}

	for c := 0; c < channels; c++ {
		a := declipMem[c]

		for i := 0; i < n; i++ {
			idx := i*channels + c
			if idx >= len(x) {
				break
			}
			v := x[idx]
			if v*a >= 0 {
				break
			}
			x[idx] = v + a*v*v
		}

		curr := 0
		if c >= len(x) {
			declipMem[c] = a
			continue
		}
		x0 := x[c]

		for {
			var i int
			for i = curr; i < n; i++ {
				idx := i*channels + c
				if idx >= len(x) {
					i = n
					break
				}
				v := x[idx]
				if v > 1 || v < -1 {
					break
				}
			}

			if i == n {
				a = 0
				break
			}

			start, end := i, i
			idx := i*channels + c
			if idx >= len(x) {
				a = 0
				break
			}
			vref := x[idx]
			maxval := util.Abs(vref)
			peakPos := i

			for start > 0 {
				idxPrev := (start-1)*channels + c
				if idxPrev >= len(x) || vref*x[idxPrev] < 0 {
					break
				}
				start--
			}
			for end < n {
				idxEnd := end*channels + c
				if idxEnd >= len(x) || vref*x[idxEnd] < 0 {
					break
				}
				if val := util.Abs(x[idxEnd]); val > maxval {
					maxval = val
					peakPos = end
				}
				end++
			}

			special := start == 0 && vref*x[c] >= 0

			if maxval > 0 {
				a = (maxval - 1) / (maxval * maxval)
				a += a * 2.4e-7
				if vref > 0 {
					a = -a
				}
			} else {
				a = 0
			}

			for i = start; i < end; i++ {
				idx2 := i*channels + c
				if idx2 >= len(x) {
					break
				}
				v := x[idx2]
				x[idx2] = v + a*v*v
			}

			if special && peakPos >= 2 {
				offset := x0 - x[c]
				delta := offset / float32(peakPos)
				for i = curr; i < peakPos; i++ {
					offset -= delta
					idx2 := i*channels + c
					if idx2 >= len(x) {
						break
					}
					v := x[idx2] + offset
					if v > 1 {
						v = 1
					} else if v < -1 {
						v = -1
					}
					x[idx2] = v
				}
			}

			curr = end
			if curr == n {
				break
			}
		}

		declipMem[c] = a
	}
}
