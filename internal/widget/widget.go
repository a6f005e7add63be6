// Package widget models the retained-mode element tree drawn by the watch UI.
package widget

import (
	"image/color"
	"unicode/utf8"
)

// Kind distinguishes widget behaviour.
type Kind int

const (
	Screen Kind = iota
	Panel
	Label
	Button
	Area
	Bar
)

func (k Kind) String() string {
	switch k {
	case Screen:
		return "screen"
	case Panel:
		return "panel"
	case Label:
		return "label"
	case Button:
		return "button"
	case Area:
		return "area"
	case Bar:
		return "bar"
	}
	return "unknown"
}

// Glyph metrics of the bitmap font labels are laid out with.
const (
	GlyphWidth  = 7
	GlyphHeight = 13
)

// Rect is an axis-aligned box in display pixels.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r. Edges are inclusive of the
// top-left and exclusive of the bottom-right.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Widget is a node in the UI tree. Callbacks run on the UI loop.
type Widget struct {
	Name     string
	Kind     Kind
	Bounds   Rect
	Text     string
	Value    int
	Hidden   bool
	Parent   *Widget
	Children []*Widget

	Fg     color.RGBA
	Bg     color.RGBA
	Border color.RGBA

	OnClick     func()
	OnLongPress func()

	cx, cy int
}

// New returns a widget with the given bounds.
func New(name string, kind Kind, bounds Rect) *Widget {
	return &Widget{Name: name, Kind: kind, Bounds: bounds}
}

// NewLabel returns a label whose bounds are sized to text and centred on
// (cx, cy).
func NewLabel(name, text string, cx, cy int) *Widget {
	w := &Widget{Name: name, Kind: Label, cx: cx, cy: cy}
	w.SetText(text)
	return w
}

// Add appends child and returns it.
func (w *Widget) Add(child *Widget) *Widget {
	child.Parent = w
	w.Children = append(w.Children, child)
	return child
}

// SetText replaces the text and, for labels, recentres the bounds around the
// label's anchor.
func (w *Widget) SetText(text string) {
	w.Text = text
	if w.Kind != Label {
		return
	}
	width := utf8.RuneCountInString(text) * GlyphWidth
	w.Bounds = Rect{X: w.cx - width/2, Y: w.cy - GlyphHeight/2, W: width, H: GlyphHeight}
}

// Label returns the first label child, if any.
func (w *Widget) Label() *Widget {
	for _, c := range w.Children {
		if c.Kind == Label {
			return c
		}
	}
	return nil
}

// HasText reports whether the widget carries text of its own or through a
// child label.
func (w *Widget) HasText() bool {
	return w.Kind == Label || (w.Kind == Button && w.Label() != nil)
}

// Visible reports whether w and all its ancestors are shown.
func (w *Widget) Visible() bool {
	for n := w; n != nil; n = n.Parent {
		if n.Hidden {
			return false
		}
	}
	return true
}

// Root returns the top of the tree w belongs to.
func (w *Widget) Root() *Widget {
	n := w
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Clickable reports whether pointer input targets w.
func (w *Widget) Clickable() bool {
	switch w.Kind {
	case Button, Area:
		return true
	}
	return w.OnClick != nil
}

// HitTest returns the topmost visible clickable widget under (x, y), searching
// later children first.
func (w *Widget) HitTest(x, y int) *Widget {
	if w.Hidden {
		return nil
	}
	for i := len(w.Children) - 1; i >= 0; i-- {
		if hit := w.Children[i].HitTest(x, y); hit != nil {
			return hit
		}
	}
	if w.Clickable() && w.Bounds.Contains(x, y) {
		return w
	}
	return nil
}

// Walk visits w and its descendants depth first, parents before children.
func (w *Widget) Walk(fn func(*Widget)) {
	fn(w)
	for _, c := range w.Children {
		c.Walk(fn)
	}
}

// Hex converts 0xRRGGBB to an opaque colour.
func Hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
