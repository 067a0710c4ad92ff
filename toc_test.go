package opusdec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseTOCRejectsEmptyPacket(t *testing.T) {
	_, err := ParseTOC(nil)
	require.ErrorIs(t, err, ErrInvalidPacket)
}

func TestParseTOCFields(t *testing.T) {
	// config=9 (0b01001), stereo=1, frame code=2 -> 0b01001_1_10 = 0x4E
	toc, err := ParseTOC([]byte{0x4E})
	require.NoError(t, err)
	require.EqualValues(t, 9, toc.Config)
	require.True(t, toc.Stereo)
	require.Equal(t, FrameCodeTwoDifferent, toc.FrameCfg)
}

func TestParseTOCRoundTripsArbitraryByteValues(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := rapid.Byte().Draw(rt, "b")
		toc, err := ParseTOC([]byte{b})
		require.NoError(rt, err)
		require.EqualValues(rt, b>>3, toc.Config)
		require.Equal(rt, b&0x4 != 0, toc.Stereo)
		require.Equal(rt, FrameCode(b&0x3), toc.FrameCfg)

		cfg := toc.Configuration()
		require.Less(rt, int(toc.Config), 32)
		_ = cfg.Mode.String()
		_ = cfg.Bandwidth.String()
	})
}

func TestConfigurationForCoversEveryMode(t *testing.T) {
	var sawSILK, sawHybrid, sawCELT bool
	for i := uint8(0); i < 32; i++ {
		switch ConfigurationFor(i).Mode {
		case ModeSILKOnly:
			sawSILK = true
		case ModeHybrid:
			sawHybrid = true
		case ModeCELTOnly:
			sawCELT = true
		}
	}
	require.True(t, sawSILK)
	require.True(t, sawHybrid)
	require.True(t, sawCELT)
}
