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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"
)

var curveCases = []TestCase{
	{
		Name:   "quadratic",
		Path:   (&path.Data{}).MoveTo(pt(10, 50)).QuadTo(pt(32, 10), pt(54, 50)).Close(),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "quadratic_stroked",
		Path:   (&path.Data{}).MoveTo(pt(10, 50)).QuadTo(pt(32, 10), pt(54, 50)),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      4,
			Cap:        graphics.LineCapRound,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
		},
	},
	{
		Name:   "cubic",
		Path:   cubic(10, 50, 20, 10, 44, 10, 54, 50).Close(),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "cubic_loop",
		Path:   cubic(10, 32, 60, 5, 4, 59, 54, 32).Close(),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
	},
	{
		Name:   "cubic_cusp",
		Path:   cubic(10, 50, 54, 10, 10, 10, 54, 50).Close(),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "cubic_stroked",
		Path:   cubic(10, 50, 10, 10, 54, 54, 54, 14),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      4,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
		},
	},
	{
		Name:   "cubic_degenerate",
		Path:   cubic(32, 32, 32, 32, 32, 32, 32, 32).Close(),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "circle",
		Path:   ellipse(32, 32, 25, 25),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "circle_small",
		Path:   ellipse(32, 32, 3, 3),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "circle_stroked",
		Path:   ellipse(32, 32, 25, 25),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      3,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
		},
	},
	{
		Name:   "ellipse",
		Path:   ellipse(32, 32, 28, 14),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "pie",
		Path:   pie(32, 32, 25, 0, 1.5*math.Pi),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
}

// cubic builds an open path consisting of a single cubic Bézier curve.
func cubic(x0, y0, x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x0, y0)).
		CubeTo(pt(x1, y1), pt(x2, y2), pt(x3, y3))
}

// ellipse builds a closed axis-parallel ellipse from four cubic arcs.
func ellipse(cx, cy, rx, ry float64) *path.Data {
	p := (&path.Data{}).MoveTo(pt(cx+rx, cy))
	p = arcTo(p, cx, cy, rx, ry, 0, 2*math.Pi)
	return p.Close()
}

// pie builds a circular sector between the angles a0 and a1.
func pie(cx, cy, r, a0, a1 float64) *path.Data {
	p := (&path.Data{}).
		MoveTo(pt(cx, cy)).
		LineTo(pt(cx+r*math.Cos(a0), cy+r*math.Sin(a0)))
	p = arcTo(p, cx, cy, r, r, a0, a1)
	return p.Close()
}

// arcTo appends an elliptical arc from angle a0 to a1, using one cubic
// segment per quarter turn or less.  The current point must be the start
// of the arc.
func arcTo(p *path.Data, cx, cy, rx, ry, a0, a1 float64) *path.Data {
	n := int(math.Ceil(math.Abs(a1-a0) / (math.Pi / 2)))
	if n == 0 {
		return p
	}
	step := (a1 - a0) / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)
	for i := range n {
		s := a0 + float64(i)*step
		e := s + step
		cs, ss := math.Cos(s), math.Sin(s)
		ce, se := math.Cos(e), math.Sin(e)
		p = p.CubeTo(
			pt(cx+rx*(cs-k*ss), cy+ry*(ss+k*cs)),
			pt(cx+rx*(ce+k*se), cy+ry*(se-k*ce)),
			pt(cx+rx*ce, cy+ry*se),
		)
	}
	return p
}
