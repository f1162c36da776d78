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

import "seehuhn.de/go/geom/path"

var subpathCases = []TestCase{
	{
		Name:   "two_triangles",
		Path:   twoTriangles(16, 32, 48, 32, 12),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "overlapping_rect_nonzero",
		Path:   rect(rectangle(10, 10, 40, 40), 24, 24, 54, 54),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "overlapping_rect_evenodd",
		Path:   rect(rectangle(10, 10, 40, 40), 24, 24, 54, 54),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
	},
	{
		Name:   "ring_evenodd",
		Path:   rect(rectangle(7, 7, 57, 57), 20, 20, 44, 44),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
	},
	{
		// the inner square runs the other way round, so it is a hole for
		// both fill rules
		Name:   "ring_reversed_nonzero",
		Path:   rect(rectangle(7, 7, 57, 57), 44, 20, 20, 44),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "many_small_shapes",
		Path:   manySmallShapes(8, 8),
		Width:  128,
		Height: 128,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "unclosed_subpaths",
		Path:   (&path.Data{}).MoveTo(pt(8, 8)).LineTo(pt(30, 8)).LineTo(pt(8, 30)).MoveTo(pt(56, 56)).LineTo(pt(34, 56)).LineTo(pt(56, 34)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
}

// twoTriangles builds two separate, disjoint triangles.
func twoTriangles(cx1, cy1, cx2, cy2 float64, size float64) *path.Data {
	p := &path.Data{}
	for _, c := range [][2]float64{{cx1, cy1}, {cx2, cy2}} {
		p = p.MoveTo(pt(c[0], c[1]-size)).
			LineTo(pt(c[0]+size, c[1]+size)).
			LineTo(pt(c[0]-size, c[1]+size)).
			Close()
	}
	return p
}

// manySmallShapes builds a grid of small triangles.
func manySmallShapes(rows, cols int) *path.Data {
	const size, spacing = 5.0, 14.0
	p := &path.Data{}
	for row := range rows {
		for col := range cols {
			cx := 10 + float64(col)*spacing
			cy := 10 + float64(row)*spacing
			p = p.MoveTo(pt(cx, cy-size)).
				LineTo(pt(cx+size, cy+size)).
				LineTo(pt(cx-size, cy+size)).
				Close()
		}
	}
	return p
}
