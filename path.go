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

package vecscene

import (
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/vecscene/canvas"
	"seehuhn.de/go/vecscene/raster"
)

// FillRule determines which points are inside a self-intersecting path.
type FillRule = raster.FillRule

// Fill rules.  NonZero is used unless SetFillRule is called.
const (
	NonZero = raster.NonZero
	EvenOdd = raster.EvenOdd
)

// Path is vector geometry which is rebuilt every frame and drawn with
// [Renderer.DrawPath] or used as a clip path with [Renderer.ClipPath].
//
// The geometry is recorded into a canvas shape which is owned by the Path.
// The canvas only ever receives copies of this shape.
type Path struct {
	r     *Renderer
	shape *canvas.Shape
	rule  FillRule
}

// NewPath allocates an empty path.
func (r *Renderer) NewPath() *Path {
	return &Path{r: r, shape: r.canvas.NewShape()}
}

// Reset removes all path commands.  The fill rule is kept.
func (p *Path) Reset() {
	p.shape.Reset()
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.shape.MoveTo(vec.Vec2{X: x, Y: y})
}

// LineTo appends a straight line to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.shape.LineTo(vec.Vec2{X: x, Y: y})
}

// CubicTo appends a cubic Bézier curve with the outgoing control point
// (ox, oy), the incoming control point (ix, iy) and the end point (x, y).
func (p *Path) CubicTo(ox, oy, ix, iy, x, y float64) {
	p.shape.CubeTo(vec.Vec2{X: ox, Y: oy}, vec.Vec2{X: ix, Y: iy}, vec.Vec2{X: x, Y: y})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.shape.Close()
}

// SetFillRule sets the fill rule used when the path is filled or used for
// clipping.
func (p *Path) SetFillRule(rule FillRule) {
	p.rule = rule
}

// FillRule returns the current fill rule.
func (p *Path) FillRule() FillRule {
	return p.rule
}

// Append adds all commands of src to p, with every point mapped through
// m.  The path src is not changed.  Appending a path to itself is allowed.
func (p *Path) Append(src *Path, m matrix.Matrix) {
	data := src.shape.Path()
	if src == p {
		data = &path.Data{
			Cmds:   slices.Clone(data.Cmds),
			Coords: slices.Clone(data.Coords),
		}
	}

	for cmd, pts := range data.Iter().Transform(m) {
		switch cmd {
		case path.CmdMoveTo:
			p.shape.MoveTo(pts[0])
		case path.CmdLineTo:
			p.shape.LineTo(pts[0])
		case path.CmdCubeTo:
			p.shape.CubeTo(pts[0], pts[1], pts[2])
		case path.CmdClose:
			p.shape.Close()
		}
	}
}

// Data returns the recorded geometry.  The result must not be modified
// and is only valid until the next change of the path.
func (p *Path) Data() *path.Data {
	return p.shape.Path()
}

// Len returns the number of points in the path.
func (p *Path) Len() int {
	return p.shape.Len()
}

// Err reports whether recording failed because the path exceeded the
// canvas point limit.  The error is cleared by Reset.
func (p *Path) Err() error {
	if err := p.shape.Err(); err != nil {
		return &Error{Op: "Path", Kind: KindResourceExhausted, Err: err}
	}
	return nil
}

// Release removes all canvas nodes which were created by drawing p.
func (p *Path) Release() error {
	return p.r.release(p)
}
