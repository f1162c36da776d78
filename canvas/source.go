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

package canvas

import (
	"image"
	"image/color"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Source determines the colour of the pixels covered by a shape.
// Implementations are [*Solid], [*Gradient] and [*Pattern].
//
// Sources must not be modified once they are attached to a node.
type Source interface {
	isSource()
}

// Solid paints a single colour.
type Solid struct {
	Color color.NRGBA
}

func (*Solid) isSource() {}

// GradientKind selects the geometry of a [Gradient].
type GradientKind int

const (
	// Linear gradients vary along the line from Start to End.
	Linear GradientKind = iota

	// Radial gradients vary with the distance from Center.
	Radial
)

func (k GradientKind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Radial:
		return "radial"
	default:
		return "invalid"
	}
}

// Stop is one colour of a gradient.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Gradient paints a colour ramp.  Coordinates are in the shape's own
// coordinate space.
type Gradient struct {
	Kind GradientKind

	// Start and End are the end points of a linear gradient.
	Start, End vec.Vec2

	// Center and Radius describe a radial gradient.
	Center vec.Vec2
	Radius float64

	// Stops are used in the given order and are not sorted.  Outside the
	// range of offsets, the colour of the nearest end stop is used.
	Stops []Stop
}

func (*Gradient) isSource() {}

// param returns the gradient parameter at point p.
func (g *Gradient) param(p vec.Vec2) float64 {
	switch g.Kind {
	case Radial:
		if g.Radius <= 0 {
			return 1
		}
		return p.Sub(g.Center).Length() / g.Radius
	default:
		d := g.End.Sub(g.Start)
		l2 := d.Dot(d)
		if l2 == 0 {
			return 0
		}
		return p.Sub(g.Start).Dot(d) / l2
	}
}

// ColorAt returns the gradient colour at the point p.
func (g *Gradient) ColorAt(p vec.Vec2) color.NRGBA {
	return g.colorAtParam(g.param(p))
}

func (g *Gradient) colorAtParam(t float64) color.NRGBA {
	stops := g.Stops
	if len(stops) == 0 {
		return color.NRGBA{}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		s0, s1 := stops[i-1], stops[i]
		if t > s1.Offset {
			continue
		}
		span := s1.Offset - s0.Offset
		if span <= 0 {
			return s1.Color
		}
		return lerpNRGBA(s0.Color, s1.Color, (t-s0.Offset)/span)
	}
	return stops[len(stops)-1].Color
}

func lerpNRGBA(a, b color.NRGBA, t float64) color.NRGBA {
	t = max(0, min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Pattern paints a raster image.  Outside the image, the colours of the
// nearest edge pixels are repeated.
type Pattern struct {
	Image *image.RGBA

	// Matrix maps image pixel coordinates to the shape's coordinate space.
	Matrix matrix.Matrix
}

func (*Pattern) isSource() {}

// sample returns the premultiplied colour of the pixel containing p, where
// p is given in image coordinates.
func (pat *Pattern) sample(p vec.Vec2) pixel {
	b := pat.Image.Rect
	if b.Empty() {
		return pixel{}
	}
	x := int(max(float64(b.Min.X), min(float64(b.Max.X-1), math.Floor(p.X))))
	y := int(max(float64(b.Min.Y), min(float64(b.Max.Y-1), math.Floor(p.Y))))
	return loadPixel(pat.Image, x, y)
}
