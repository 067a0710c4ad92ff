package resample

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinearUpsampleDoublesLength(t *testing.T) {
	r := NewLinear(8000, 16000, 1)
	in := make([]float32, 80)
	for i := range in {
		in[i] = float32(i)
	}
	out := r.Process(in)
	require.InDelta(t, 160, len(out), 2)
}

func TestLinearPassthroughSameRate(t *testing.T) {
	a := NewAdapter(48000, 1)
	in := []float32{0.1, 0.2, 0.3}
	out := a.Process(in, 48000)
	require.Equal(t, in, out)
}

func TestAdapterRebuildsOnRateChange(t *testing.T) {
	a := NewAdapter(48000, 1)
	out1 := a.Process(make([]float32, 160), 16000)
	require.InDelta(t, 480, len(out1), 2)

	out2 := a.Process(make([]float32, 480), 8000)
	require.InDelta(t, 2880, len(out2), 2)
}

func TestAdapterResetForcesRebuild(t *testing.T) {
	a := NewAdapter(48000, 2)
	a.Process(make([]float32, 320), 16000)
	require.NotNil(t, a.active)
	a.Reset()
	require.Nil(t, a.active)
}
