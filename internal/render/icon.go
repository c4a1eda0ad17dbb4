package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Status icon geometry, in pixels of the final icon.
const (
	iconBaseSize   = 18
	iconScale      = 2
	IconSize       = iconBaseSize * iconScale
	StatusDotSize  = 10
	StatusDotInset = 1
)

// iconGlyph is drawn in the menu bar's neutral grey so it reads in both themes.
var iconGlyphColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

const iconText = "LS"

// baseIcon renders the glyph at 1x and scales it up with nearest-neighbour,
// keeping the bitmap font crisp.
func baseIcon() *image.RGBA {
	small := image.NewRGBA(image.Rect(0, 0, iconBaseSize, iconBaseSize))

	face := basicfont.Face7x13
	width := font.MeasureString(face, iconText).Ceil()
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(iconGlyphColor),
		Face: face,
		Dot: fixed.P(
			(iconBaseSize-width)/2,
			(iconBaseSize+face.Metrics().Ascent.Ceil())/2-1,
		),
	}
	d.DrawString(iconText)

	big := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Over, nil)
	return big
}

// StatusIcon is the menu bar icon with a status dot in the bottom-right corner.
func StatusIcon(c color.RGBA) *image.RGBA {
	icon := baseIcon()

	radius := StatusDotSize / 2
	center := image.Pt(
		IconSize-StatusDotInset-radius,
		IconSize-StatusDotInset-radius,
	)
	drawDot(icon, center, radius, c)
	return icon
}
