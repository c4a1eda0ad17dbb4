package render

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countColored(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).A != 0 {
				n++
			}
		}
	}
	return n
}

func TestSparklineEmpty(t *testing.T) {
	img := Sparkline(nil, ColorTPSLine, 60, 20)
	assert.Equal(t, image.Rect(0, 0, 60, 20), img.Bounds())
	assert.Zero(t, countColored(img))
}

func TestSparklineDefaultSize(t *testing.T) {
	img := Sparkline([]float64{1, 2}, ColorTPSLine, 0, 0)
	assert.Equal(t, image.Rect(0, 0, DefaultChartWidth, DefaultChartHeight), img.Bounds())
}

func TestSparklineFlatDrawsBottomRow(t *testing.T) {
	img := Sparkline([]float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}, ColorTPSLine, 60, 20)

	for x := 0; x < 60; x++ {
		assert.Equal(t, ColorTPSLine, img.RGBAAt(x, 19), "x=%d", x)
	}
	for x := 0; x < 60; x++ {
		assert.Zero(t, img.RGBAAt(x, 10).A)
	}
}

func TestSparklineRisingEndpoints(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i)
	}
	img := Sparkline(values, ColorMemLine, 60, 20)

	assert.Equal(t, ColorMemLine, img.RGBAAt(0, 19))
	assert.Equal(t, ColorMemLine, img.RGBAAt(59, 1))
	// Padding keeps the maximum off the top row.
	for x := 0; x < 60; x++ {
		assert.Zero(t, img.RGBAAt(x, 0).A, "x=%d", x)
	}
}

func TestSparklineDotsOnlyForShortSeries(t *testing.T) {
	short := Sparkline([]float64{1, 2}, ColorTPSLine, 60, 20)
	// The dot around the first point spills onto the row above it.
	assert.Equal(t, ColorTPSLine, short.RGBAAt(0, 18))

	long := make([]float64, 21)
	long[20] = 1
	img := Sparkline(long, ColorTPSLine, 60, 20)
	assert.Zero(t, img.RGBAAt(0, 18).A)
}

func TestSparklineSinglePoint(t *testing.T) {
	img := Sparkline([]float64{42}, ColorPromptLine, 60, 20)
	assert.Equal(t, ColorPromptLine, img.RGBAAt(0, 19))
	assert.Equal(t, ColorPromptLine, img.RGBAAt(1, 19))
	assert.Equal(t, ColorPromptLine, img.RGBAAt(0, 18))
	assert.Equal(t, 3, countColored(img))
}

func TestDrawLineSteep(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 5))
	c := color.RGBA{R: 255, A: 255}
	drawLine(img, image.Pt(2, 4), image.Pt(2, 0), c)
	for y := 0; y < 5; y++ {
		assert.Equal(t, c, img.RGBAAt(2, y))
	}
	assert.Equal(t, 5, countColored(img))
}

func TestStatusIcon(t *testing.T) {
	red := color.RGBA{R: 255, G: 59, B: 48, A: 255}
	icon := StatusIcon(red)

	assert.Equal(t, image.Rect(0, 0, IconSize, IconSize), icon.Bounds())

	center := IconSize - StatusDotInset - StatusDotSize/2
	assert.Equal(t, red, icon.RGBAAt(center, center))
	assert.Zero(t, icon.RGBAAt(0, 0).A)

	glyph := 0
	for y := 0; y < IconSize; y++ {
		for x := 0; x < IconSize; x++ {
			if icon.RGBAAt(x, y) == iconGlyphColor {
				glyph++
			}
		}
	}
	assert.Positive(t, glyph)
}

func TestEncodePNG(t *testing.T) {
	img := Sparkline([]float64{1, 3, 2}, ColorTPSLine, 60, 20)
	data, err := EncodePNG(img)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)
	decoded, err := png.Decode(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}
