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
	"errors"
	"math"
	"time"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/vecscene/canvas"
)

// Renderer turns draw calls into nodes of a [canvas.Canvas].
//
// Each frame consists of a sequence of draw calls followed by Flush.  The
// n-th draw of a given Path or Image within a frame always maps to the
// same canvas node: the first frame inserts the node, later frames update
// it in place.  Nodes which are not drawn in a frame are hidden.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	canvas *canvas.Canvas

	cur   state
	stack []state

	handles map[nodeKey]canvas.Handle
	counts  map[any]int
	visited map[canvas.Handle]bool

	// err is set when the current frame is aborted
	err error
}

// nodeKey identifies the canvas node for the n-th draw of owner within
// a frame.
type nodeKey struct {
	owner any
	n     int
}

// NewRenderer returns a renderer which draws onto c.
func NewRenderer(c *canvas.Canvas) *Renderer {
	return &Renderer{
		canvas:  c,
		cur:     initialState(),
		handles: make(map[nodeKey]canvas.Handle),
		counts:  make(map[any]int),
		visited: make(map[canvas.Handle]bool),
	}
}

// Canvas returns the canvas the renderer draws onto.
func (r *Renderer) Canvas() *canvas.Canvas {
	return r.canvas
}

// DrawPath draws p using paint.
//
// The paint's colour source and, for StyleStroke, its stroke attributes
// are applied to a copy of the path geometry.  A pending content clip is
// attached to the node, the current transformation is applied, and the
// node is wrapped in one group per active background clip.
func (r *Renderer) DrawPath(p *Path, paint *Paint) error {
	const op = "Renderer.DrawPath"
	if r.err != nil {
		return r.err
	}
	if p == nil || paint == nil {
		return invalid(op, "missing path or paint")
	}
	if err := p.shape.Err(); err != nil {
		return r.abort(op, err)
	}

	node := p.shape.Duplicate().(*canvas.Shape)
	node.Rule = p.rule
	paint.apply(node)
	return r.emit(op, p, node, &node.Props, matrix.Identity)
}

// DrawImage draws im centred on the origin of the current coordinate
// system.  The opacity is clamped to [0, 1], and NaN is treated as 0.
//
// Every call places its own node on the canvas.  The node shares the
// decoded pixels, which are never modified after decoding.
func (r *Renderer) DrawImage(im *Image, blend canvas.BlendMode, opacity float64) error {
	const op = "Renderer.DrawImage"
	if r.err != nil {
		return r.err
	}
	if im == nil {
		return invalid(op, "nil image")
	}
	if im.img == nil {
		return &Error{Op: op, Kind: KindNotReady}
	}

	pic := canvas.NewPicture(im.img)
	pic.Blend = blend
	if math.IsNaN(opacity) {
		opacity = 0
	}
	pic.Opacity = max(0, min(1, opacity))
	centre := matrix.Identity.Translate(-float64(im.Width())/2, -float64(im.Height())/2)
	return r.emit(op, im, pic, &pic.Props, centre)
}

// DrawImageMesh would draw im deformed by a triangle mesh.  This is not
// implemented and always returns a NotImplemented error without drawing.
func (r *Renderer) DrawImageMesh(im *Image, vertices, uvs []vec.Vec2, indices []uint16, blend canvas.BlendMode, opacity float64) error {
	return &Error{Op: "Renderer.DrawImageMesh", Kind: KindNotImplemented}
}

// emit applies the clip and transformation state to n and hands it to
// the canvas.  props must point into n, and local is applied before the
// current transformation.
func (r *Renderer) emit(op string, owner any, n canvas.Node, props *canvas.Props, local matrix.Matrix) error {
	props.Transform = local.Mul(r.cur.transform)
	props.Clip = r.cur.content

	top := n
	for i := len(r.cur.background) - 1; i >= 0; i-- {
		g := canvas.NewGroup(top)
		g.Clip = r.cur.background[i]
		top = g
	}

	key := nodeKey{owner: owner, n: r.counts[owner]}
	h, ok := r.handles[key]
	var err error
	if ok {
		err = r.canvas.Update(h, top)
		if errors.Is(err, canvas.ErrUnknownHandle) {
			// the node was removed from the canvas directly
			delete(r.handles, key)
			ok = false
		}
	}
	if !ok {
		h, err = r.canvas.Push(top)
	}
	if err != nil {
		if errors.Is(err, canvas.ErrResourceExhausted) {
			return r.abort(op, err)
		}
		return &Error{Op: op, Kind: KindInvalidState, Err: err}
	}

	r.handles[key] = h
	r.counts[owner]++
	r.visited[h] = true
	r.cur.content = nil
	if r.cur.scopeClipped {
		r.cur.backgroundUsed = true
	}
	return nil
}

// abort marks the current frame as failed.  All further draw calls return
// the same error, and Flush leaves the canvas target unchanged.
func (r *Renderer) abort(op string, err error) error {
	r.err = &Error{Op: op, Kind: KindResourceExhausted, Err: err}
	Logger().Warn("frame aborted", "op", op, "error", err)
	return r.err
}

// release removes the canvas nodes of owner.
func (r *Renderer) release(owner any) error {
	var firstErr error
	for key, h := range r.handles {
		if key.owner != owner {
			continue
		}
		if err := r.canvas.Remove(h); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.handles, key)
		delete(r.visited, h)
	}
	delete(r.counts, owner)
	return firstErr
}

// Flush completes the frame.  Nodes which were not drawn during the frame
// are hidden, and the canvas is rendered into its target.
//
// If the frame was aborted, Flush returns the error which caused this and
// the target keeps the pixels of the previous frame.  In either case, the
// next frame starts with an empty transformation stack and no clips.
func (r *Renderer) Flush() error {
	defer r.resetFrame()
	if r.err != nil {
		return r.err
	}

	start := time.Now()
	for key, h := range r.handles {
		if r.visited[h] {
			continue
		}
		err := r.canvas.Hide(h)
		if errors.Is(err, canvas.ErrUnknownHandle) {
			delete(r.handles, key)
		} else if err != nil {
			return &Error{Op: "Renderer.Flush", Kind: KindInvalidState, Err: err}
		}
	}
	if err := r.canvas.Draw(); err != nil {
		return &Error{Op: "Renderer.Flush", Kind: KindInvalidState, Err: err}
	}
	if err := r.canvas.Sync(); err != nil {
		return err
	}
	Logger().Debug("frame flushed",
		"nodes", len(r.visited), "elapsed", time.Since(start))
	return nil
}

func (r *Renderer) resetFrame() {
	r.cur = initialState()
	r.stack = r.stack[:0]
	r.err = nil
	clear(r.counts)
	clear(r.visited)
}
