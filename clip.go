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

	"seehuhn.de/go/vecscene/canvas"
)

// ClipPath restricts drawing to the interior of p, using p's fill rule.
//
// The first ClipPath call within a Save/Restore scope (or within the frame,
// outside any Save) sets a background clip.  Background clips apply to
// every following draw call until the scope ends, and clips of nested
// scopes intersect.  A further ClipPath call in the same scope sets the
// content clip, which applies only to the next successful draw call; a
// later content clip replaces an unused one.  Once a draw call has used
// the background clip of the scope, the next ClipPath call replaces that
// background clip instead.
//
// Both kinds of clip use a snapshot of p and of the current transformation,
// so later changes to either have no effect.
func (r *Renderer) ClipPath(p *Path) error {
	const op = "Renderer.ClipPath"
	if r.err != nil {
		return r.err
	}
	if p == nil {
		return invalid(op, "nil path")
	}
	if err := p.shape.Err(); err != nil {
		return r.abort(op, err)
	}

	clip := p.shape.Duplicate().(*canvas.Shape)
	clip.Rule = p.rule
	clip.Transform = r.cur.transform
	clip.Fill = nil
	clip.Stroke = nil

	switch {
	case !r.cur.scopeClipped:
		r.cur.background = append(slices.Clip(r.cur.background), clip)
		r.cur.scopeClipped = true
	case r.cur.backgroundUsed:
		// the last entry belongs to this scope
		bg := slices.Clone(r.cur.background)
		bg[len(bg)-1] = clip
		r.cur.background = bg
		r.cur.backgroundUsed = false
	default:
		r.cur.content = clip
	}
	return nil
}

// HasContentClip reports whether a content clip is waiting for the next
// draw call.
func (r *Renderer) HasContentClip() bool {
	return r.cur.content != nil
}
