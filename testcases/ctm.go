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

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"
)

var ctmCases = []TestCase{
	{
		Name:   "scale_2x",
		Path:   rectangle(0, 0, 20, 20),
		Width:  128,
		Height: 128,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Scale(2, 2).Translate(24, 24),
	},
	{
		Name:   "scale_half",
		Path:   rectangle(0, 0, 80, 80),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Scale(0.5, 0.5).Translate(12, 12),
	},
	{
		Name:   "rotate_45deg",
		Path:   rectangle(-10, -10, 10, 10),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.RotateDeg(45).Translate(32, 32),
	},
	{
		Name:   "rotate_5deg",
		Path:   rectangle(-20, -10, 20, 10),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.RotateDeg(5).Translate(32, 32),
	},
	{
		Name:   "circle_to_ellipse",
		Path:   ellipse(0, 0, 15, 15),
		Width:  128,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Scale(2, 1).Translate(64, 32),
	},
	{
		Name:   "shear",
		Path:   rectangle(-15, -15, 15, 15),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Matrix{1, 0, 0.5, 1, 0, 0}.Translate(32, 32),
	},
	{
		Name:   "shear_and_rotate",
		Path:   rectangle(-12, -12, 12, 12),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
		CTM:    matrix.Matrix{1, 0, 0.3, 1, 0, 0}.RotateDeg(30).Translate(32, 32),
	},
	{
		Name:   "round_cap_nonuniform",
		Path:   (&path.Data{}).MoveTo(pt(-20, 0)).LineTo(pt(20, 0)),
		Width:  128,
		Height: 64,
		Op: Stroke{
			Width:      8,
			Cap:        graphics.LineCapRound,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
		},
		// round caps become elliptical in device space
		CTM: matrix.Scale(2, 1).Translate(64, 32),
	},
	{
		Name:   "round_join_rotated",
		Path:   vShape(20, math.Pi/3),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      6,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
		},
		CTM: matrix.RotateDeg(30).Translate(32, 32),
	},
}

// vShape builds two arms of the given length which meet at the origin
// with the given opening angle.
func vShape(length, angle float64) *path.Data {
	dx := length * math.Cos(angle/2)
	dy := length * math.Sin(angle/2)
	return (&path.Data{}).
		MoveTo(pt(-dx, -dy)).
		LineTo(pt(0, 0)).
		LineTo(pt(dx, -dy))
}
