// Package layout splits styled text into lines and pages for a fixed page
// geometry. All measurements are in PDF points (1/72 inch).
package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned when a geometry leaves no printable area.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// Geometry describes a page and its margins in points.
type Geometry struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
}

// US Letter presets.
var (
	// PrintGeometry is used when the browser prints a page.
	PrintGeometry = Geometry{
		PageWidth: 612, PageHeight: 792,
		MarginLeft: 36, MarginTop: 36, MarginRight: 36, MarginBottom: 36,
	}
	// TextGeometry is used when text is typeset directly.
	TextGeometry = Geometry{
		PageWidth: 612, PageHeight: 792,
		MarginLeft: 72, MarginTop: 72, MarginRight: 72, MarginBottom: 72,
	}
)

// Rect is a rectangle with a top-left origin and y growing down.
type Rect struct {
	X, Y float64
	W, H float64
}

// TextRect returns the printable rectangle inside the margins.
func (g Geometry) TextRect() Rect {
	return Rect{
		X: g.MarginLeft,
		Y: g.MarginTop,
		W: g.PageWidth - g.MarginLeft - g.MarginRight,
		H: g.PageHeight - g.MarginTop - g.MarginBottom,
	}
}

// Validate rejects negative margins and geometries without a printable area.
func (g Geometry) Validate() error {
	if g.MarginLeft < 0 || g.MarginTop < 0 || g.MarginRight < 0 || g.MarginBottom < 0 {
		return fmt.Errorf("%w: negative margin", ErrInvalidGeometry)
	}
	r := g.TextRect()
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("%w: printable area %.1fx%.1f", ErrInvalidGeometry, r.W, r.H)
	}
	return nil
}

// Inches converts points to inches.
func Inches(pt float64) float64 {
	return pt / 72
}

// CSSPixels converts points to CSS pixels (96 per inch).
func CSSPixels(pt float64) int {
	return int(pt*96/72 + 0.5)
}
