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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// segment is a flattened piece of a stroked path, in user space.
type segment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent from A to B
	N    vec.Vec2 // unit normal, T rotated by +90°
}

// subpath describes a run of segments in Rasteriser.segs.
type subpath struct {
	start, end int
	closed     bool

	// dot is set for subpaths which have drawing operators but no
	// extent.  These are only visible with round or square caps.
	dot   bool
	dotAt vec.Vec2
}

// Stroke computes the coverage of the outline of p, using Width, Cap,
// Join and MiterLimit.
//
// The outline is built as a union of pieces: one quadrilateral per
// flattened segment, one polygon per join and one per cap.  All pieces are
// oriented the same way and filled together with the nonzero rule, so
// overlaps are painted only once.
func (r *Rasteriser) Stroke(p *path.Data, emit EmitFunc) {
	r.beginEdges()
	r.flattenSubpaths(p)

	d := r.Width / 2
	for _, sp := range r.subpaths {
		if sp.dot {
			r.addDot(sp.dotAt, d)
			continue
		}
		segs := r.segs[sp.start:sp.end]
		for i := range segs {
			s := &segs[i]
			r.addPolygon(
				s.A.Add(s.N.Mul(d)),
				s.B.Add(s.N.Mul(d)),
				s.B.Sub(s.N.Mul(d)),
				s.A.Sub(s.N.Mul(d)),
			)
		}
		for i := 1; i < len(segs); i++ {
			r.addJoin(segs[i].A, segs[i-1].T, segs[i].T, d)
		}
		if sp.closed {
			if len(segs) > 1 {
				r.addJoin(segs[0].A, segs[len(segs)-1].T, segs[0].T, d)
			}
		} else {
			r.addCap(segs[0].A, segs[0].T.Mul(-1), d)
			r.addCap(segs[len(segs)-1].B, segs[len(segs)-1].T, d)
		}
	}

	r.scan(NonZero, emit)
}

// flattenSubpaths splits p into subpaths of straight segments.
func (r *Rasteriser) flattenSubpaths(p *path.Data) {
	r.segs = r.segs[:0]
	r.subpaths = r.subpaths[:0]

	var cur, start vec.Vec2
	inSubpath := false
	drawn := false
	first := 0

	finish := func(closed bool) {
		switch {
		case len(r.segs) > first:
			r.subpaths = append(r.subpaths, subpath{start: first, end: len(r.segs), closed: closed})
		case drawn:
			r.subpaths = append(r.subpaths, subpath{dot: true, dotAt: start})
		}
		first = len(r.segs)
		drawn = false
	}

	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			if inSubpath {
				finish(false)
			}
			cur = pts[0]
			start = cur
			inSubpath = true
		case path.CmdLineTo:
			if !inSubpath {
				start, inSubpath = cur, true
			}
			r.addSegment(cur, pts[0])
			cur = pts[0]
			drawn = true
		case path.CmdCubeTo:
			if !inSubpath {
				start, inSubpath = cur, true
			}
			r.flattenCubic(cur, pts[0], pts[1], pts[2], r.addSegment)
			cur = pts[2]
			drawn = true
		case path.CmdClose:
			if inSubpath {
				r.addSegment(cur, start)
				drawn = true
				finish(true)
				cur = start
				inSubpath = false
			}
		}
	}
	if inSubpath {
		finish(false)
	}
}

// addSegment records a stroke segment, dropping segments without length.
func (r *Rasteriser) addSegment(a, b vec.Vec2) {
	v := b.Sub(a)
	l := v.Length()
	if l < zeroLengthThreshold {
		return
	}
	t := v.Mul(1 / l)
	r.segs = append(r.segs, segment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}})
}

// addPolygon adds the edges of a closed polygon with positive orientation.
func (r *Rasteriser) addPolygon(pts ...vec.Vec2) {
	if len(pts) < 3 {
		return
	}
	var a2 float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a2 += p.X*q.Y - q.X*p.Y
	}
	n := len(pts)
	if a2 >= 0 {
		for i := range n {
			r.addEdge(pts[i], pts[(i+1)%n])
		}
	} else {
		for i := n - 1; i >= 0; i-- {
			r.addEdge(pts[(i+1)%n], pts[i])
		}
	}
}

// addJoin adds the join at P, where the tangent turns from t1 to t2.
func (r *Rasteriser) addJoin(P, t1, t2 vec.Vec2, d float64) {
	cos := t1.Dot(t2)
	sin := t1.X*t2.Y - t1.Y*t2.X

	if cos < cuspCosineThreshold {
		if r.Join == graphics.LineJoinRound {
			r.addDot(P, d)
		}
		return
	}
	if math.Abs(sin) < collinearityThreshold {
		return
	}

	// The outer side of the corner lies opposite to the turn.
	side := 1.0
	if sin > 0 {
		side = -1
	}
	n1 := vec.Vec2{X: -t1.Y, Y: t1.X}.Mul(side)
	n2 := vec.Vec2{X: -t2.Y, Y: t2.X}.Mul(side)
	o1 := P.Add(n1.Mul(d))
	o2 := P.Add(n2.Mul(d))

	switch r.Join {
	case graphics.LineJoinRound:
		r.poly = append(r.poly[:0], P)
		sweep := math.Acos(max(-1, min(1, cos)))
		if n1.X*n2.Y-n1.Y*n2.X < 0 {
			sweep = -sweep
		}
		r.appendArc(P, d, n1, sweep)
		r.addPolygon(r.poly...)

	case graphics.LineJoinMiter:
		// 1/sin(φ/2) is the miter length relative to the stroke width,
		// where φ is the interior angle of the corner.
		sinHalf := math.Sqrt((1 + cos) / 2)
		const eps = 1e-10
		if sinHalf > 0 && 1/sinHalf <= r.MiterLimit+eps {
			bis := n1.Add(n2)
			if l := bis.Length(); l > zeroLengthThreshold {
				tip := P.Add(bis.Mul(d / (sinHalf * l)))
				r.addPolygon(P, o1, tip, o2)
				return
			}
		}
		r.addPolygon(P, o1, o2)

	default:
		r.addPolygon(P, o1, o2)
	}
}

// addCap adds the cap at the end point P.  T is the unit direction pointing
// away from the stroke.
func (r *Rasteriser) addCap(P, T vec.Vec2, d float64) {
	N := vec.Vec2{X: -T.Y, Y: T.X}
	switch r.Cap {
	case graphics.LineCapSquare:
		ext := T.Mul(d)
		r.addPolygon(
			P.Add(N.Mul(d)),
			P.Add(N.Mul(d)).Add(ext),
			P.Sub(N.Mul(d)).Add(ext),
			P.Sub(N.Mul(d)),
		)
	case graphics.LineCapRound:
		r.poly = r.poly[:0]
		r.appendArc(P, d, N, -math.Pi)
		r.addPolygon(r.poly...)
	}
}

// addDot draws a subpath without extent.  Round caps give a disk, square
// caps an axis-aligned square, butt caps nothing.
func (r *Rasteriser) addDot(P vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.poly = r.poly[:0]
		r.appendArc(P, d, vec.Vec2{X: 1}, 2*math.Pi)
		r.addPolygon(r.poly...)
	case graphics.LineCapSquare:
		r.addPolygon(
			vec.Vec2{X: P.X - d, Y: P.Y - d},
			vec.Vec2{X: P.X + d, Y: P.Y - d},
			vec.Vec2{X: P.X + d, Y: P.Y + d},
			vec.Vec2{X: P.X - d, Y: P.Y + d},
		)
	}
}

// appendArc appends points on a circular arc to r.poly, including both end
// points.  The arc starts in direction dir from the center and sweeps
// by the given angle (positive is counter-clockwise in user space).
func (r *Rasteriser) appendArc(center vec.Vec2, radius float64, dir vec.Vec2, sweep float64) {
	devR := max(
		r.deviceLinear(vec.Vec2{X: radius}).Length(),
		r.deviceLinear(vec.Vec2{Y: radius}).Length(),
	)

	// A chord spanning angle θ deviates from the circle by
	// R·(1 - cos(θ/2)).  Choose θ so that this equals the flatness.
	n := 1
	if devR > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devR)
		if step > 0 {
			n = int(math.Ceil(math.Abs(sweep) / step))
		}
	}
	n = max(n, 2)

	for i := 0; i <= n; i++ {
		a := sweep * float64(i) / float64(n)
		c, s := math.Cos(a), math.Sin(a)
		r.poly = append(r.poly, center.Add(vec.Vec2{
			X: dir.X*c - dir.Y*s,
			Y: dir.X*s + dir.Y*c,
		}.Mul(radius)))
	}
}
