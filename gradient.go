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
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/vecscene/canvas"
)

// gradientBuilder collects the stops of a gradient.
type gradientBuilder struct {
	kind       canvas.GradientKind
	start, end vec.Vec2
	stops      []canvas.Stop

	// done is set by CompleteGradient, after which final is used
	done  bool
	final *canvas.Gradient
}

func (g *gradientBuilder) build() *canvas.Gradient {
	if g.final != nil {
		return g.final
	}
	res := &canvas.Gradient{
		Kind:  g.kind,
		Stops: append([]canvas.Stop(nil), g.stops...),
	}
	if g.kind == canvas.Radial {
		res.Center = g.start
		res.Radius = g.end.Sub(g.start).Length()
	} else {
		res.Start = g.start
		res.End = g.end
	}
	return res
}

// LinearGradient starts a new linear gradient from (sx, sy) to (ex, ey),
// replacing any previous gradient.  Stops are added with AddStop.
func (p *Paint) LinearGradient(sx, sy, ex, ey float64) {
	p.gradient = &gradientBuilder{
		kind:  canvas.Linear,
		start: vec.Vec2{X: sx, Y: sy},
		end:   vec.Vec2{X: ex, Y: ey},
	}
}

// RadialGradient starts a new radial gradient centred at (cx, cy).  The
// radius is the distance from the centre to (ex, ey).
func (p *Paint) RadialGradient(cx, cy, ex, ey float64) {
	p.gradient = &gradientBuilder{
		kind:  canvas.Radial,
		start: vec.Vec2{X: cx, Y: cy},
		end:   vec.Vec2{X: ex, Y: ey},
	}
}

// AddStop appends a colour stop, given as 0xAARRGGBB, at the given
// position along the gradient.  Stops are used in the order they are
// added.  Positions are not checked, and positions out of order give
// colour bands which jump between stops.
func (p *Paint) AddStop(argb uint32, position float64) error {
	const op = "Paint.AddStop"
	switch {
	case p.gradient == nil:
		return invalid(op, "no gradient started")
	case p.gradient.done:
		return invalid(op, "gradient already completed")
	}
	p.gradient.stops = append(p.gradient.stops, canvas.Stop{Offset: position, Color: fromARGB(argb)})
	return nil
}

// CompleteGradient finishes the current gradient.  Draw calls before
// CompleteGradient use the stops added so far.
func (p *Paint) CompleteGradient() error {
	const op = "Paint.CompleteGradient"
	switch {
	case p.gradient == nil:
		return invalid(op, "no gradient started")
	case p.gradient.done:
		return invalid(op, "gradient already completed")
	}
	p.gradient.final = p.gradient.build()
	p.gradient.done = true
	p.gradient.stops = nil
	return nil
}

// Gradient returns the gradient which would be used by the next draw
// call, or nil if no gradient is set.
func (p *Paint) Gradient() *canvas.Gradient {
	if p.gradient == nil {
		return nil
	}
	return p.gradient.build()
}
