package render

import (
	"image"
	"image/color"
	"math"
)

// Default sparkline size in pixels.
const (
	DefaultChartWidth  = 60
	DefaultChartHeight = 20
)

// Series colours.
var (
	ColorTPSLine    = color.RGBA{R: 0, G: 255, B: 127, A: 255}
	ColorPromptLine = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	ColorMemLine    = color.RGBA{R: 0, G: 191, B: 255, A: 255}
)

// maxDotted is the largest series that still gets a dot per point.
const maxDotted = 20

// Sparkline draws values as a line chart on a transparent w×h canvas.
// Bounds are padded 5% so the line never touches the edges; a flat
// series is drawn along the bottom row.
func Sparkline(values []float64, c color.RGBA, w, h int) *image.RGBA {
	if w <= 0 {
		w = DefaultChartWidth
	}
	if h <= 0 {
		h = DefaultChartHeight
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if len(values) == 0 {
		return img
	}

	lo, hi := bounds(values)
	scale := 0.0
	if hi-lo > 0 {
		scale = float64(h-1) / (hi - lo)
	}
	xStep := 0.0
	if len(values) > 1 {
		xStep = float64(w) / float64(len(values)-1)
	}

	pts := make([]image.Point, len(values))
	for i, v := range values {
		x := int(float64(i) * xStep)
		y := h - 1 - int((v-lo)*scale)
		pts[i] = image.Pt(clamp(x, 0, w-1), clamp(y, 0, h-1))
	}

	for i := 1; i < len(pts); i++ {
		drawLine(img, pts[i-1], pts[i], c)
	}
	if len(values) <= maxDotted {
		for _, p := range pts {
			drawDot(img, p, 1, c)
		}
	}
	return img
}

func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// drawLine is Bresenham's line algorithm.
func drawLine(img *image.RGBA, p0, p1 image.Point, c color.RGBA) {
	dx := abs(p1.X - p0.X)
	dy := abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	err := dx - dy

	x, y := p0.X, p0.Y
	for {
		img.SetRGBA(x, y, c)
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// drawDot fills a disc of radius r around center, clipped to the image.
func drawDot(img *image.RGBA, center image.Point, r int, c color.RGBA) {
	b := img.Bounds()
	for y := center.Y - r; y <= center.Y+r; y++ {
		for x := center.X - r; x <= center.X+r; x++ {
			dx, dy := x-center.X, y-center.Y
			if dx*dx+dy*dy <= r*r && image.Pt(x, y).In(b) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
