package chart

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brightness(t *testing.T, rgb string) int {
	t.Helper()
	var r, g, b int
	_, err := fmt.Sscanf(rgb, "rgb(%d, %d, %d)", &r, &g, &b)
	require.NoError(t, err)
	return r + g + b
}

func TestAdjustBrightnessClampsLightness(t *testing.T) {
	black, err := AdjustBrightness("#0066CC", 0)
	require.NoError(t, err)
	assert.Equal(t, "rgb(0, 0, 0)", black)

	white, err := AdjustBrightness("0066CC", 5)
	require.NoError(t, err)
	assert.Equal(t, "rgb(255, 255, 255)", white)

	darker, err := AdjustBrightness("#0066CC", 0.5)
	require.NoError(t, err)
	same, err := AdjustBrightness("#0066CC", 1)
	require.NoError(t, err)
	assert.Less(t, brightness(t, darker), brightness(t, same))
}

func TestAdjustBrightnessRejectsBadHex(t *testing.T) {
	_, err := AdjustBrightness("#zzzzzz", 1)
	assert.Error(t, err)
}

func TestIntensityColorsDarkenHighValues(t *testing.T) {
	colors, err := IntensityColors([]float64{10, 20, 30}, "#0066CC")
	require.NoError(t, err)
	require.Len(t, colors, 3)
	assert.Less(t, brightness(t, colors[2]), brightness(t, colors[1]))
	assert.Less(t, brightness(t, colors[1]), brightness(t, colors[0]))
}

func TestIntensityColorsConstantSeries(t *testing.T) {
	colors, err := IntensityColors([]float64{5, 5, 5}, "#FF6F61")
	require.NoError(t, err)
	base, err := AdjustBrightness("#FF6F61", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{base, base, base}, colors)
}

func TestIntensityColorsEmpty(t *testing.T) {
	colors, err := IntensityColors(nil, "#0066CC")
	require.NoError(t, err)
	assert.Empty(t, colors)
}

func TestBaseColor(t *testing.T) {
	assert.Equal(t, "#0066CC", BaseColor("5G"))
	assert.Equal(t, "#00B5E2", BaseColor("2G"))
	assert.Equal(t, "#888888", BaseColor("Unknown"))
}
