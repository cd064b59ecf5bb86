package stress_test

import (
	"math"
	"testing"

	"github.com/rpggio/calmmind/internal/stress"
	"github.com/stretchr/testify/require"
)

func TestSafeDiv(t *testing.T) {
	require.Zero(t, stress.SafeDiv(1, 0))
	require.Zero(t, stress.SafeDiv(0, 0))
	require.Zero(t, stress.SafeDiv(math.Inf(1), 1))
	require.InDelta(t, 0.5, stress.SafeDiv(1, 2), 1e-12)
}

func TestClamp01(t *testing.T) {
	require.Zero(t, stress.Clamp01(-1))
	require.Zero(t, stress.Clamp01(math.NaN()))
	require.Equal(t, 1.0, stress.Clamp01(1.7))
	require.Equal(t, 0.25, stress.Clamp01(0.25))
}

func TestRoundAndMean(t *testing.T) {
	require.Equal(t, 65.1, stress.Round(65.104, 1))
	require.Equal(t, 3.0, stress.Round(2.5, 0))
	require.Zero(t, stress.Round(math.NaN(), 2))
	require.Zero(t, stress.Mean(nil))
	require.InDelta(t, 2.0, stress.Mean([]float64{1, 2, 3}), 1e-12)
}
