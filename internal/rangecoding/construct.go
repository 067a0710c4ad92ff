package rangecoding

import "errors"

// ErrEmptyBuffer is returned by New when given a zero-length packet.
// RFC 6716 Section 4.1 requires at least one byte to seed the decoder.
var ErrEmptyBuffer = errors.New("rangecoding: empty buffer")

// New constructs a Decoder over buf and initializes its state.
// buf must be non-empty; it is the caller's responsibility to slice out
// exactly the bytes belonging to one Opus frame before calling New, since
// a Decoder is discarded (not reused) at the end of each frame.
func New(buf []byte) (*Decoder, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyBuffer
	}
	d := &Decoder{}
	d.Init(buf)
	return d, nil
}
