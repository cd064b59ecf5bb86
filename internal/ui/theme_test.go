package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/calmmind/internal/assistant"
)

func TestMeter(t *testing.T) {
	m := Meter(50, 10)
	require.Equal(t, 5, strings.Count(m, "█"))
	require.Equal(t, 5, strings.Count(m, "░"))

	require.Equal(t, 10, strings.Count(Meter(140, 10), "█"))
	require.Equal(t, 10, strings.Count(Meter(-5, 10), "░"))
	require.Empty(t, Meter(50, 0))
}

func TestLevelStyle(t *testing.T) {
	require.Equal(t, Bad, LevelStyle(assistant.LevelHigh))
	require.Equal(t, Warn, LevelStyle(assistant.LevelModerate))
	require.Equal(t, Good, LevelStyle(assistant.LevelLow))
	require.Contains(t, LevelText(assistant.LevelHigh), "High")
}

func TestLabelValue(t *testing.T) {
	out := LabelValue("Stress", "58%")
	require.Contains(t, out, "Stress:")
	require.Contains(t, out, "58%")
}
