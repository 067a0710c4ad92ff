package opusdec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitCodeOneSingleFrame(t *testing.T) {
	toc := TOC{FrameCfg: FrameCodeOne}
	rest := []byte{1, 2, 3, 4, 5}
	frames, padding, err := Split(toc, rest)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.Equal(t, rest, []byte(frames[0]))
	require.Nil(t, padding)
}

func TestSplitCodeTwoEqualRequiresEvenLength(t *testing.T) {
	toc := TOC{FrameCfg: FrameCodeTwoEqual}
	_, _, err := Split(toc, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidPacket)

	frames, _, err := Split(toc, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, Frame{1, 2}, frames[0])
	require.Equal(t, Frame{3, 4}, frames[1])
}

func TestSplitCodeTwoDifferentOneByteLength(t *testing.T) {
	toc := TOC{FrameCfg: FrameCodeTwoDifferent}
	// length byte 3, then 3 bytes first frame, 2 bytes second frame
	rest := []byte{3, 0xA, 0xB, 0xC, 0xD, 0xE}
	frames, _, err := Split(toc, rest)
	require.NoError(t, err)
	require.Equal(t, Frame{0xA, 0xB, 0xC}, frames[0])
	require.Equal(t, Frame{0xD, 0xE}, frames[1])
}

func TestSplitCodeTwoDifferentTwoByteLength(t *testing.T) {
	toc := TOC{FrameCfg: FrameCodeTwoDifferent}
	// first byte 252 combines with second byte 1: length = 252 + 1*4 = 256
	rest := make([]byte, 2+256+3)
	rest[0] = 252
	rest[1] = 1
	frames, _, err := Split(toc, rest)
	require.NoError(t, err)
	require.Len(t, frames[0], 256)
	require.Len(t, frames[1], 3)
}

func TestSplitCodeThreeCBR(t *testing.T) {
	cfg := Configuration{FrameSize: FrameSize20ms}
	// count byte: not VBR, no padding, count=3, followed by 9 bytes (3 per frame)
	rest := append([]byte{3}, make([]byte, 9)...)
	frames, padding, err := splitArbitrary(cfg, rest)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	for _, f := range frames {
		require.Len(t, f, 3)
	}
	require.Empty(t, padding)
}

func TestSplitCodeThreeVBRWithPadding(t *testing.T) {
	cfg := Configuration{FrameSize: FrameSize20ms}
	// count byte: VBR=1, padding=1, count=2 -> 0xC2
	countByte := byte(0x80 | 0x40 | 0x02)
	paddingLenByte := byte(2)
	frame0LenByte := byte(3)
	rest := []byte{countByte, paddingLenByte, frame0LenByte}
	rest = append(rest, []byte{1, 2, 3}...) // frame 0, 3 bytes
	rest = append(rest, []byte{4, 5}...)    // frame 1 (implied length 2)
	rest = append(rest, []byte{9, 9}...)    // 2 bytes padding

	frames, padding, err := splitArbitrary(cfg, rest)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.Equal(t, Frame{1, 2, 3}, frames[0])
	require.Equal(t, Frame{4, 5}, frames[1])
	require.Equal(t, []byte{9, 9}, padding)
}

func TestSplitCodeThreeRejectsZeroCount(t *testing.T) {
	cfg := Configuration{FrameSize: FrameSize20ms}
	_, _, err := splitArbitrary(cfg, []byte{0x00})
	require.ErrorIs(t, err, ErrInvalidPacket)
}

func TestSplitCodeThreeRejectsExcessiveDuration(t *testing.T) {
	cfg := Configuration{FrameSize: FrameSize60ms}
	// count=48 at 60ms each = 2880*10 tenths-ms, way over the 120ms cap
	_, _, err := splitArbitrary(cfg, []byte{48})
	require.ErrorIs(t, err, ErrInvalidPacket)
}
