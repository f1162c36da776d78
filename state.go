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

	"seehuhn.de/go/vecscene/canvas"
)

// state is the part of the renderer state which is saved by Save.
type state struct {
	transform matrix.Matrix

	// background holds the background clips of this scope and all
	// enclosing scopes, outermost first.
	background []*canvas.Shape

	// scopeClipped is set once ClipPath has set a background clip in the
	// current scope.
	scopeClipped bool

	// backgroundUsed is set once a draw call has been clipped by the
	// background clip of the current scope.
	backgroundUsed bool

	// content is the pending content clip, or nil.
	content *canvas.Shape
}

func initialState() state {
	return state{transform: matrix.Identity}
}

// Save pushes a copy of the current transformation and clip state.
// A new scope is started, in which the next ClipPath call sets a further
// background clip.  A pending content clip stays pending inside the new
// scope.
func (r *Renderer) Save() {
	r.stack = append(r.stack, r.cur)
	r.cur.background = slices.Clip(r.cur.background)
	r.cur.scopeClipped = false
	r.cur.backgroundUsed = false
}

// Restore returns to the state of the matching Save, including the
// pending content clip at the time of Save.  A content clip set inside
// the scope and not used by a draw call is dropped.  Without a matching
// Save, Restore does nothing.
func (r *Renderer) Restore() {
	n := len(r.stack)
	if n == 0 {
		return
	}
	r.cur = r.stack[n-1]
	r.stack = r.stack[:n-1]
}

// Transform changes the current transformation.  The matrix delta is
// expressed in the coordinate system established so far, so that delta is
// applied to points before the existing transformation.
func (r *Renderer) Transform(delta matrix.Matrix) {
	r.cur.transform = delta.Mul(r.cur.transform)
}

// CurrentTransform returns the transformation used by the next draw call.
func (r *Renderer) CurrentTransform() matrix.Matrix {
	return r.cur.transform
}
