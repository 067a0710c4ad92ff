package opusdec

// Frame is one Opus frame's range-coded payload, sliced out of a packet
// by Split. It does not include the TOC byte or any framing overhead.
type Frame []byte

const (
	maxFrameBytes  = 1275 // RFC 6716 Section 3.2: largest legal single frame
	maxFramesPerPacket = 48
	maxPacketDurationTenthsMs = 1200 // 120ms, RFC 6716 Section 3.2.5
)

// Split divides the bytes following a packet's TOC byte into individual
// frame payloads, per the frame code carried in toc.FrameCfg (RFC 6716
// Section 3.2). rest is packet[1:]. padding is any trailing padding
// payload declared by a code-3 packet; it is never part of a frame and
// callers should ignore its contents.
//
// Split enforces the packet-validity constraints normally labeled R1-R7
// in implementer notes on this section: even splits for code 1, declared
// lengths that fit the packet for codes 2 and 3, a frame count in
// [1,48] whose total nominal duration does not exceed 120ms, and an
// exact accounting of every byte (no slack after the last frame unless
// it is declared padding).
func Split(toc TOC, rest []byte) (frames []Frame, padding []byte, err error) {
	cfg := toc.Configuration()

	switch toc.FrameCfg {
	case FrameCodeOne:
		if len(rest) > maxFrameBytes {
			return nil, nil, ErrInvalidPacket
		}
		return []Frame{rest}, nil, nil

	case FrameCodeTwoEqual:
		if len(rest)%2 != 0 {
			return nil, nil, ErrInvalidPacket
		}
		half := len(rest) / 2
		if half > maxFrameBytes {
			return nil, nil, ErrInvalidPacket
		}
		return []Frame{rest[:half], rest[half:]}, nil, nil

	case FrameCodeTwoDifferent:
		n, lenBytes, ok := decodeFrameLength(rest)
		if !ok {
			return nil, nil, ErrInvalidPacket
		}
		body := rest[lenBytes:]
		if n > len(body) || n > maxFrameBytes {
			return nil, nil, ErrInvalidPacket
		}
		second := body[n:]
		if len(second) > maxFrameBytes {
			return nil, nil, ErrInvalidPacket
		}
		return []Frame{body[:n], second}, nil, nil

	case FrameCodeArbitrary:
		return splitArbitrary(cfg, rest)

	default:
		return nil, nil, ErrInvalidPacket
	}
}

// splitArbitrary implements the code-3 "arbitrary number of frames"
// layout: a frame-count byte, optional padding-length bytes, optional
// per-frame VBR length prefixes, then the frame payloads themselves.
func splitArbitrary(cfg Configuration, rest []byte) (frames []Frame, padding []byte, err error) {
	if len(rest) < 1 {
		return nil, nil, ErrInvalidPacket
	}
	countByte := rest[0]
	rest = rest[1:]

	vbr := countByte&0x80 != 0
	hasPadding := countByte&0x40 != 0
	count := int(countByte & 0x3f)
	if count == 0 || count > maxFramesPerPacket {
		return nil, nil, ErrInvalidPacket
	}
	if count*int(cfg.FrameSize) > maxPacketDurationTenthsMs {
		return nil, nil, ErrInvalidPacket
	}

	paddingLen := 0
	if hasPadding {
		for {
			if len(rest) < 1 {
				return nil, nil, ErrInvalidPacket
			}
			b := rest[0]
			rest = rest[1:]
			if b == 255 {
				paddingLen += 254
			} else {
				paddingLen += int(b)
				break
			}
		}
	}

	if vbr {
		lens := make([]int, count)
		total := 0
		for i := 0; i < count-1; i++ {
			n, lenBytes, ok := decodeFrameLength(rest)
			if !ok || n > maxFrameBytes {
				return nil, nil, ErrInvalidPacket
			}
			rest = rest[lenBytes:]
			lens[i] = n
			total += n
		}
		remaining := len(rest) - paddingLen
		last := remaining - total
		if last < 0 || last > maxFrameBytes {
			return nil, nil, ErrInvalidPacket
		}
		lens[count-1] = last

		if remaining != total+last {
			return nil, nil, ErrInvalidPacket
		}
		frames = make([]Frame, count)
		off := 0
		for i, n := range lens {
			frames[i] = rest[off : off+n]
			off += n
		}
		padding = rest[off : off+paddingLen]
		return frames, padding, nil
	}

	// CBR: the remaining bytes (minus padding) split evenly across count.
	remaining := len(rest) - paddingLen
	if remaining < 0 || remaining%count != 0 {
		return nil, nil, ErrInvalidPacket
	}
	each := remaining / count
	if each > maxFrameBytes {
		return nil, nil, ErrInvalidPacket
	}
	frames = make([]Frame, count)
	off := 0
	for i := 0; i < count; i++ {
		frames[i] = rest[off : off+each]
		off += each
	}
	padding = rest[off : off+paddingLen]
	return frames, padding, nil
}

// decodeFrameLength reads a frame length prefix (RFC 6716 Section
// 3.2.1): a single byte in [0,251] is the length directly; a byte in
// [252,255] combines with a following byte to encode lengths up to
// 1275. It reports how many bytes the prefix itself consumed.
func decodeFrameLength(b []byte) (n int, consumed int, ok bool) {
	if len(b) < 1 {
		return 0, 0, false
	}
	first := int(b[0])
	if first < 252 {
		return first, 1, true
	}
	if len(b) < 2 {
		return 0, 0, false
	}
	return first + int(b[1])*4, 2, true
}
