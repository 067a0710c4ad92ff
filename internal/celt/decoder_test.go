package celt

import (
	"testing"

	"github.com/kestrelaudio/opusdec/internal/rangecoding"
	"github.com/stretchr/testify/require"
)

func encodedFrame(t *testing.T, symbols func(enc *rangecoding.Encoder)) []byte {
	t.Helper()
	enc := &rangecoding.Encoder{}
	enc.Init(make([]byte, 4096))
	symbols(enc)
	return enc.Done()
}

func TestDecodeMonoCeltOnlyBandRange(t *testing.T) {
	buf := encodedFrame(t, func(enc *rangecoding.Encoder) {
		enc.EncodeBit(0, 15) // not silent
		enc.EncodeBit(0, 1)  // no post-filter
		enc.EncodeBit(0, 3)  // not transient
		enc.EncodeBit(1, 3)  // intra
		for b := 0; b < NumBands; b++ {
			enc.EncodeUniform(100, laplaceFS)
			enc.EncodeRawBits(0xAA, 8)
		}
	})

	rd, err := rangecoding.New(buf)
	require.NoError(t, err)

	d := NewDecoder(1)
	pcm, err := d.Decode(rd, 960, 0, NumBands)
	require.NoError(t, err)
	require.Len(t, pcm, 960)
}

func TestDecodeHybridHighBandRange(t *testing.T) {
	buf := encodedFrame(t, func(enc *rangecoding.Encoder) {
		enc.EncodeBit(0, 15)
		enc.EncodeBit(0, 1)
		enc.EncodeBit(0, 3)
		enc.EncodeBit(1, 3)
		for b := 17; b < NumBands; b++ {
			enc.EncodeUniform(50, laplaceFS)
			enc.EncodeRawBits(0x0F, 8)
		}
	})

	rd, err := rangecoding.New(buf)
	require.NoError(t, err)

	d := NewDecoder(2)
	pcm, err := d.Decode(rd, 960, 17, NumBands)
	require.NoError(t, err)
	require.Len(t, pcm, 960*2)
}

func TestDecodeRejectsInvalidBandRange(t *testing.T) {
	buf := encodedFrame(t, func(enc *rangecoding.Encoder) {
		enc.EncodeBit(1, 15)
	})
	rd, err := rangecoding.New(buf)
	require.NoError(t, err)

	d := NewDecoder(1)
	_, err = d.Decode(rd, 960, 5, 2)
	require.ErrorIs(t, err, ErrInvalidBandRange)
}

func TestDecodeSilentFrameIsZero(t *testing.T) {
	buf := encodedFrame(t, func(enc *rangecoding.Encoder) {
		enc.EncodeBit(1, 15) // silent
	})
	rd, err := rangecoding.New(buf)
	require.NoError(t, err)

	d := NewDecoder(1)
	pcm, err := d.Decode(rd, 960, 0, NumBands)
	require.NoError(t, err)
	for _, s := range pcm {
		require.Zero(t, s)
	}
}

func TestResetClearsOverlapAndEnergy(t *testing.T) {
	d := NewDecoder(1)
	d.left.overlap = []float32{1, 2, 3}
	d.left.bandEnergy[0] = 4.2
	d.Reset()
	require.Empty(t, d.left.overlap)
	require.Zero(t, d.left.bandEnergy[0])
}

func TestBandBoundariesMonotonicAndSpansFrame(t *testing.T) {
	bounds := bandBoundaries(960)
	require.Equal(t, 0, bounds[0])
	require.Equal(t, 960, bounds[NumBands])
	for i := 1; i <= NumBands; i++ {
		require.GreaterOrEqual(t, bounds[i], bounds[i-1])
	}
}
