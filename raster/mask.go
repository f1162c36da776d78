// seehuhn.de/go/vecscene - a retained-mode renderer for vector animation
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raster

import (
	"image"
	"image/color"
	"slices"
)

// Mask holds one coverage value per pixel of a rectangle.
//
// A Mask implements [image.Image] with an alpha-only color model, so it can
// be used directly as the mask argument of the golang.org/x/image/draw
// functions.
type Mask struct {
	Rect image.Rectangle
	Cov  []float32 // row-major, len = Dx()*Dy()
}

// NewMask allocates a zero mask covering r.
func NewMask(r image.Rectangle) *Mask {
	m := &Mask{}
	m.Reset(r)
	return m
}

// Reset resizes the mask to r and clears all coverage values.
func (m *Mask) Reset(r image.Rectangle) {
	n := r.Dx() * r.Dy()
	m.Rect = r
	m.Cov = slices.Grow(m.Cov[:0], n)[:n]
	clear(m.Cov)
}

// Emit stores one scanline of coverage.  It has the signature of an
// [EmitFunc], and pixels outside the mask are ignored.
func (m *Mask) Emit(y, xMin int, coverage []float32) {
	if y < m.Rect.Min.Y || y >= m.Rect.Max.Y {
		return
	}
	if xMin < m.Rect.Min.X {
		skip := m.Rect.Min.X - xMin
		if skip >= len(coverage) {
			return
		}
		coverage = coverage[skip:]
		xMin = m.Rect.Min.X
	}
	if n := m.Rect.Max.X - xMin; n < len(coverage) {
		if n <= 0 {
			return
		}
		coverage = coverage[:n]
	}
	row := (y-m.Rect.Min.Y)*m.Rect.Dx() + xMin - m.Rect.Min.X
	copy(m.Cov[row:], coverage)
}

// Value returns the coverage at (x, y), or 0 outside the mask.
func (m *Mask) Value(x, y int) float32 {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return 0
	}
	return m.Cov[(y-m.Rect.Min.Y)*m.Rect.Dx()+x-m.Rect.Min.X]
}

// Mul multiplies m by o pixel-wise.  Pixels of m outside o become zero.
func (m *Mask) Mul(o *Mask) {
	w := m.Rect.Dx()
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		row := m.Cov[(y-m.Rect.Min.Y)*w:][:w]
		for i := range row {
			if row[i] != 0 {
				row[i] *= o.Value(m.Rect.Min.X+i, y)
			}
		}
	}
}

// Scale multiplies all coverage values by a.
func (m *Mask) Scale(a float32) {
	if a == 1 {
		return
	}
	for i := range m.Cov {
		m.Cov[i] *= a
	}
}

// Empty reports whether all coverage values are zero.
func (m *Mask) Empty() bool {
	for _, c := range m.Cov {
		if c != 0 {
			return false
		}
	}
	return true
}

// ColorModel implements the [image.Image] interface.
func (m *Mask) ColorModel() color.Model {
	return color.Alpha16Model
}

// Bounds implements the [image.Image] interface.
func (m *Mask) Bounds() image.Rectangle {
	return m.Rect
}

// At implements the [image.Image] interface.  Coverage values are clamped
// to the range [0, 1].
func (m *Mask) At(x, y int) color.Color {
	c := m.Value(x, y)
	switch {
	case c <= 0:
		return color.Alpha16{}
	case c >= 1:
		return color.Alpha16{A: 0xffff}
	}
	return color.Alpha16{A: uint16(c*0xffff + 0.5)}
}
