package rangecoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyBuffer(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrEmptyBuffer)

	_, err = New([]byte{})
	require.ErrorIs(t, err, ErrEmptyBuffer)
}

func TestNewInitializesDecoder(t *testing.T) {
	d, err := New([]byte{0x55, 0xAA, 0x12, 0x34})
	require.NoError(t, err)
	require.NotNil(t, d)
	// A freshly constructed decoder should be ready to decode without a
	// separate Init call.
	require.Equal(t, 0, d.Error())
}
