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
	"fmt"
	"image"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/vecscene/raster"
)

// Node is an element of the scene graph: a [*Shape], a [*Picture] or a
// [*Group].
type Node interface {
	// Duplicate returns a deep copy of the node.  Paint sources are
	// shared, since they are never modified after construction.
	Duplicate() Node

	props() *Props
}

// Props holds the attributes common to all nodes.
type Props struct {
	// Transform maps the node's own coordinates to the coordinates of its
	// parent.  For nodes directly on the canvas, the parent space is the
	// pixel grid of the target image.
	Transform matrix.Matrix

	// Opacity scales the alpha of everything the node draws.
	Opacity float64

	// Blend selects how the node is combined with the pixels below it.
	Blend BlendMode

	// Clip, if set, restricts drawing to the interior of this shape.  The
	// clip shape lives in the parent's coordinate space and is not
	// affected by Transform.  Only its geometry, fill rule and transform
	// are used.
	Clip *Shape
}

func (p *Props) props() *Props { return p }

func defaultProps() Props {
	return Props{Transform: matrix.Identity, Opacity: 1}
}

func (p Props) duplicate() Props {
	if p.Clip != nil {
		p.Clip = p.Clip.Duplicate().(*Shape)
	}
	return p
}

// Shape is a vector path, optionally filled and stroked.
type Shape struct {
	Props

	// Rule selects the fill rule used for Fill and for clipping.
	Rule raster.FillRule

	// Fill paints the interior.  No fill is drawn if Fill is nil.
	Fill Source

	// Stroke paints the outline.  No outline is drawn if Stroke is nil.
	Stroke *Stroke

	path      path.Data
	maxPoints int
	err       error
}

// Stroke describes how the outline of a shape is drawn.
type Stroke struct {
	Width      float64
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64
	Source     Source
}

// NewShape returns an empty shape without a limit on the number of points.
func NewShape() *Shape {
	return &Shape{Props: defaultProps()}
}

// MoveTo starts a new subpath.
func (s *Shape) MoveTo(p vec.Vec2) {
	s.add(path.CmdMoveTo, p)
}

// LineTo appends a straight line.
func (s *Shape) LineTo(p vec.Vec2) {
	s.add(path.CmdLineTo, p)
}

// CubeTo appends a cubic Bézier curve with control points c1 and c2.
func (s *Shape) CubeTo(c1, c2, p vec.Vec2) {
	s.add(path.CmdCubeTo, c1, c2, p)
}

// Close closes the current subpath.
func (s *Shape) Close() {
	s.add(path.CmdClose)
}

func (s *Shape) add(cmd path.Command, pts ...vec.Vec2) {
	if s.err != nil {
		return
	}
	if s.maxPoints > 0 && len(s.path.Coords)+len(pts) > s.maxPoints {
		s.err = fmt.Errorf("shape exceeds %d points: %w", s.maxPoints, ErrResourceExhausted)
		return
	}
	s.path.Cmds = append(s.path.Cmds, cmd)
	s.path.Coords = append(s.path.Coords, pts...)
}

// Reset removes all geometry and clears a recorded error.  Memory is kept
// for reuse.
func (s *Shape) Reset() {
	s.path.Cmds = s.path.Cmds[:0]
	s.path.Coords = s.path.Coords[:0]
	s.err = nil
}

// Path returns the geometry of the shape.  The result must not be
// modified.
func (s *Shape) Path() *path.Data {
	return &s.path
}

// Len returns the number of points in the shape.
func (s *Shape) Len() int {
	return len(s.path.Coords)
}

// Err returns the error which stopped recording, if any.  Once an error
// has occurred, further path commands are ignored until Reset is called.
func (s *Shape) Err() error {
	return s.err
}

// Duplicate implements the [Node] interface.
func (s *Shape) Duplicate() Node {
	res := &Shape{
		Props:     s.Props.duplicate(),
		Rule:      s.Rule,
		Fill:      s.Fill,
		maxPoints: s.maxPoints,
		err:       s.err,
	}
	res.path.Cmds = append([]path.Command(nil), s.path.Cmds...)
	res.path.Coords = append([]vec.Vec2(nil), s.path.Coords...)
	if s.Stroke != nil {
		st := *s.Stroke
		res.Stroke = &st
	}
	return res
}

// Picture is a raster image.  The image is placed with its top-left corner
// at the origin of the node's coordinate space, one unit per pixel.
type Picture struct {
	Props

	// Image is shared between duplicates and must not be modified once the
	// picture is on the canvas.
	Image *image.RGBA
}

// NewPicture returns a picture node showing img.
func NewPicture(img *image.RGBA) *Picture {
	return &Picture{Props: defaultProps(), Image: img}
}

// Duplicate implements the [Node] interface.
func (p *Picture) Duplicate() Node {
	return &Picture{Props: p.Props.duplicate(), Image: p.Image}
}

// Group combines several nodes.  Children are drawn in order, and the
// group's opacity and blend mode apply to the combined result.
type Group struct {
	Props
	Children []Node
}

// NewGroup returns a group containing the given nodes.
func NewGroup(children ...Node) *Group {
	return &Group{Props: defaultProps(), Children: children}
}

// Duplicate implements the [Node] interface.
func (g *Group) Duplicate() Node {
	res := &Group{Props: g.Props.duplicate(), Children: make([]Node, len(g.Children))}
	for i, c := range g.Children {
		res.Children[i] = c.Duplicate()
	}
	return res
}

// check returns the first recording error in n or its descendants.
func check(n Node) error {
	switch n := n.(type) {
	case *Shape:
		if n.err != nil {
			return n.err
		}
	case *Group:
		for _, c := range n.Children {
			if err := check(c); err != nil {
				return err
			}
		}
	}
	if clip := n.props().Clip; clip != nil {
		return clip.err
	}
	return nil
}
