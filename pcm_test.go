package opusdec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat32ToInt16Saturates(t *testing.T) {
	require.EqualValues(t, 32767, float32ToInt16(10.0))
	require.EqualValues(t, -32768, float32ToInt16(-10.0))
	require.EqualValues(t, 0, float32ToInt16(0))
}

func TestFloat32ToInt16RoundsToEven(t *testing.T) {
	// 0.5/32768 scales to exactly 0.5, a tie; round-to-even gives 0
	// rather than rounding away from zero to 1.
	s := float32(0.5 / 32768.0)
	got := float32ToInt16(s)
	require.EqualValues(t, 0, got)
}

func TestSoftClipNoOpOnSmallBuffers(t *testing.T) {
	mem := make([]float32, 2)
	x := []float32{0.1, 0.2}
	softClip(x, 1, 0, mem) // channels < 1 is a no-op
	require.Equal(t, []float32{0.1, 0.2}, x)
}

func TestSoftClipClampsExtremeExcursions(t *testing.T) {
	mem := make([]float32, 1)
	x := []float32{1.9, -1.9, 0.0}
	softClip(x, 3, 1, mem)
	for _, v := range x {
		require.LessOrEqual(t, v, float32(1.0))
		require.GreaterOrEqual(t, v, float32(-1.0))
	}
}

func TestWriteInt16MatchesLength(t *testing.T) {
	mem := make([]float32, 2)
	src := []float32{0.1, -0.1, 0.2, -0.2}
	dst := make([]int16, len(src))
	writeInt16(dst, src, 2, mem)
	for _, v := range dst {
		require.NotZero(t, v)
	}
}
