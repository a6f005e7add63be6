package ui

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/atomicstack/watch-remote/internal/widget"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const borderWidth = 2

var displayBackground = color.RGBA{A: 0xff}

// captureFrame rasterises the active screen at display resolution and returns
// it PNG encoded.
func (m *Model) captureFrame() ([]byte, error) {
	if m.face == nil || m.face.display == nil {
		return nil, fmt.Errorf("no display")
	}
	img := image.NewRGBA(image.Rect(0, 0, DisplayWidth, DisplayHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: displayBackground}, image.Point{}, draw.Src)
	m.face.display.Walk(func(w *widget.Widget) {
		if !w.Visible() {
			return
		}
		paintWidget(img, w)
	})
	if m.measuring {
		x, y := m.face.hrMeasure.Bounds.Center()
		fillRect(img, widget.Rect{X: x - 4, Y: y - 4, W: 8, H: 8}, widget.Hex(0xFF4444))
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func paintWidget(img *image.RGBA, w *widget.Widget) {
	switch w.Kind {
	case widget.Panel, widget.Button, widget.Area:
		if w.Bg.A != 0 {
			fillRect(img, w.Bounds, w.Bg)
		}
		if w.Border.A != 0 {
			strokeRect(img, w.Bounds, w.Border, borderWidth)
		}
	case widget.Bar:
		fillRect(img, w.Bounds, w.Bg)
		filled := w.Bounds
		filled.W = w.Bounds.W * clampPercent(w.Value) / 100
		fillRect(img, filled, w.Fg)
	case widget.Label:
		drawText(img, w)
	}
}

func fillRect(img *image.RGBA, r widget.Rect, c color.RGBA) {
	rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H).Intersect(img.Bounds())
	draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func strokeRect(img *image.RGBA, r widget.Rect, c color.RGBA, width int) {
	fillRect(img, widget.Rect{X: r.X, Y: r.Y, W: r.W, H: width}, c)
	fillRect(img, widget.Rect{X: r.X, Y: r.Y + r.H - width, W: r.W, H: width}, c)
	fillRect(img, widget.Rect{X: r.X, Y: r.Y, W: width, H: r.H}, c)
	fillRect(img, widget.Rect{X: r.X + r.W - width, Y: r.Y, W: width, H: r.H}, c)
}

func drawText(img *image.RGBA, w *widget.Widget) {
	if w.Text == "" {
		return
	}
	fg := w.Fg
	if fg.A == 0 {
		fg = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(w.Bounds.X, w.Bounds.Y+face.Ascent),
	}
	d.DrawString(w.Text)
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
