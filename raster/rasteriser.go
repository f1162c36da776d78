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

// Package raster converts vector paths into anti-aliased pixel coverage.
//
// Coverage is computed analytically from the signed area each path edge
// sweeps within a pixel, so no supersampling is involved. Results are
// delivered one scanline at a time through an [EmitFunc], or collected
// into a [Mask].
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// FillRule determines which points are inside a self-intersecting path.
type FillRule int

const (
	// NonZero treats a point as inside if the winding number is not zero.
	NonZero FillRule = iota

	// EvenOdd treats a point as inside if the winding number is odd.
	EvenOdd
)

func (r FillRule) String() string {
	switch r {
	case NonZero:
		return "nonzero"
	case EvenOdd:
		return "evenodd"
	default:
		return "invalid"
	}
}

// EmitFunc receives the coverage of one scanline.  coverage[i] is the
// coverage of pixel (xMin+i, y), in the range [0, 1].  The slice is only
// valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) top() float64    { return min(e.y0, e.y1) }
func (e *edge) bottom() float64 { return max(e.y0, e.y1) }

// Rasteriser turns paths into coverage values.  One instance can be reused
// for many paths; internal buffers grow as needed and are kept between
// calls.
//
// A Rasteriser is not safe for concurrent use.
type Rasteriser struct {
	// CTM maps user space to device space.  Must be non-singular.
	CTM matrix.Matrix

	// Clip limits output to this device-space rectangle.
	// Coordinates must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the line segments used to approximate it.  Must be positive.
	Flatness float64

	// Width is the stroke width in user space units.
	Width float64

	// Cap is the shape used at the open ends of stroked subpaths.
	Cap graphics.LineCapStyle

	// Join is the shape used where two stroked segments meet.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins, relative to the
	// stroke width.  Longer miters are drawn as bevels.
	MiterLimit float64

	edges     []edge
	active    []int
	cover     []float32
	area      []float32
	crossings []float64

	// device space bounding box of edges, valid if hasBBox is set
	bxMin, bxMax, byMin, byMax float64
	hasBBox                    bool

	// stroker state
	segs     []segment
	subpaths []subpath
	poly     []vec.Vec2
}

// NewRasteriser returns a Rasteriser which writes into the given clip
// rectangle.  The remaining parameters are set to their defaults.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	r := &Rasteriser{}
	r.Reset(clip)
	return r
}

// Reset restores all parameters to their defaults and sets a new clip
// rectangle.  Buffer capacity is kept.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = DefaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = DefaultMiterLimit
	r.beginEdges()
}

// Fill computes the coverage of the interior of p.  Open subpaths are
// closed implicitly.
func (r *Rasteriser) Fill(p *path.Data, rule FillRule, emit EmitFunc) {
	r.beginEdges()

	var cur, start vec.Vec2
	open := false
	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				r.addEdge(cur, start)
			}
			cur = pts[0]
			start = cur
			open = true
		case path.CmdLineTo:
			r.addEdge(cur, pts[0])
			cur = pts[0]
			open = true
		case path.CmdCubeTo:
			r.flattenCubic(cur, pts[0], pts[1], pts[2], r.addEdge)
			cur = pts[2]
			open = true
		case path.CmdClose:
			r.addEdge(cur, start)
			cur = start
			open = false
		}
	}
	if open {
		r.addEdge(cur, start)
	}

	r.scan(rule, emit)
}

// deviceLinear applies the linear part of the CTM, ignoring translation.
func (r *Rasteriser) deviceLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenCubic approximates a cubic Bézier curve by line segments.  The
// number of segments follows Wang's formula, evaluated in device space.
func (r *Rasteriser) flattenCubic(p0, p1, p2, p3 vec.Vec2, line func(a, b vec.Vec2)) {
	dd1 := r.deviceLinear(p0.Sub(p1.Mul(2)).Add(p2))
	dd2 := r.deviceLinear(p1.Sub(p2.Mul(2)).Add(p3))
	m := max(dd1.Length(), dd2.Length())

	n := 1
	if m > 0 {
		n = max(1, int(math.Ceil(math.Sqrt(0.75*m/r.Flatness))))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		line(prev, pt)
		prev = pt
	}
}

func (r *Rasteriser) beginEdges() {
	r.edges = r.edges[:0]
	r.hasBBox = false
}

// addEdge transforms a user space segment to device space and records it.
func (r *Rasteriser) addEdge(a, b vec.Vec2) {
	m := r.CTM
	x0 := m[0]*a.X + m[2]*a.Y + m[4]
	y0 := m[1]*a.X + m[3]*a.Y + m[5]
	x1 := m[0]*b.X + m[2]*b.Y + m[4]
	y1 := m[1]*b.X + m[3]*b.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dxdy: (x1 - x0) / dy})

	if !r.hasBBox {
		r.bxMin, r.bxMax = min(x0, x1), max(x0, x1)
		r.byMin, r.byMax = min(y0, y1), max(y0, y1)
		r.hasBBox = true
		return
	}
	r.bxMin = min(r.bxMin, x0, x1)
	r.bxMax = max(r.bxMax, x0, x1)
	r.byMin = min(r.byMin, y0, y1)
	r.byMax = max(r.byMax, y0, y1)
}

// scan converts the collected edges to coverage, one scanline at a time,
// using an active edge list.
func (r *Rasteriser) scan(rule FillRule, emit EmitFunc) {
	if len(r.edges) == 0 {
		return
	}

	xMin := max(int(math.Floor(r.bxMin)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.bxMax))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.byMin)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.byMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.top(), b.top())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yf := float64(y)
		for next < len(r.edges) && r.edges[next].top() < yf+1 {
			r.active = append(r.active, next)
			next++
		}

		live := r.active[:0]
		for _, i := range r.active {
			if r.edges[i].bottom() > yf {
				live = append(live, i)
			}
		}
		r.active = live
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, i := range r.active {
			r.accumulate(&r.edges[i], y, xMin, xMax)
		}

		if rule == EvenOdd {
			integrateEvenOdd(r.cover, r.area)
		} else {
			integrateNonZero(r.cover, r.area)
		}
		if row, offs := trimZeros(r.cover); row != nil {
			emit(y, xMin+offs, row)
		}
	}
}

// Coverage model: every edge piece inside pixel i adds its signed height
// to cover[i] and the part of that height lying right of the edge to
// area[i].  Walking a row from left to right, the coverage of pixel i is
// the running sum of cover over all pixels left of i plus area[i].
// Pieces left of the clip rectangle are credited to the first pixel.

// accumulate adds the contribution of e within scanline y.
func (r *Rasteriser) accumulate(e *edge, y, xMin, xMax int) {
	yTop := max(float64(y), e.top())
	yBot := min(float64(y+1), e.bottom())
	if yBot <= yTop {
		return
	}

	dir := float32(1)
	if e.y1 < e.y0 {
		dir = -1
	}

	// split the piece wherever it crosses a vertical pixel boundary
	r.crossings = append(r.crossings[:0], yTop, yBot)
	if e.dxdy != 0 {
		xa := e.x0 + e.dxdy*(yTop-e.y0)
		xb := e.x0 + e.dxdy*(yBot-e.y0)
		lo, hi := min(xa, xb), max(xa, xb)
		for bx := math.Floor(lo) + 1; bx < hi; bx++ {
			yc := e.y0 + (bx-e.x0)/e.dxdy
			if yc > yTop && yc < yBot {
				r.crossings = append(r.crossings, yc)
			}
		}
		if len(r.crossings) > 2 {
			slices.Sort(r.crossings)
		}
	}

	for i := 1; i < len(r.crossings); i++ {
		ya, yb := r.crossings[i-1], r.crossings[i]
		if yb <= ya {
			continue
		}
		c := dir * float32(yb-ya)
		xm := e.x0 + e.dxdy*((ya+yb)/2-e.y0)
		px := int(math.Floor(xm))
		switch {
		case px < xMin:
			r.cover[0] += c
			r.area[0] += c
		case px < xMax:
			k := px - xMin
			r.cover[k] += c
			r.area[k] += c * float32(1-(xm-float64(px)))
		}
	}
}

// integrateNonZero turns cover/area sums into coverage using the nonzero
// winding rule.  The result is stored in cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// integrateEvenOdd turns cover/area sums into coverage using the even-odd
// rule.  The result is stored in cover.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		v -= 2 * float32(int(v/2))
		if v > 1 {
			v = 2 - v
		}
		cover[i] = v
	}
}

// trimZeros strips zero coverage from both ends of a row.
// It returns nil if the whole row is zero.
func trimZeros(row []float32) ([]float32, int) {
	lo := 0
	for lo < len(row) && row[lo] == 0 {
		lo++
	}
	if lo == len(row) {
		return nil, 0
	}
	hi := len(row)
	for row[hi-1] == 0 {
		hi--
	}
	return row[lo:hi], lo
}

// Default parameter values.
const (
	// DefaultFlatness is the default curve tolerance in device pixels.
	DefaultFlatness = 0.25

	// DefaultMiterLimit converts joins sharper than about 11.5 degrees
	// into bevels.
	DefaultMiterLimit = 10.0
)

const (
	// horizontalEdgeThreshold is the smallest vertical extent for an edge
	// to contribute coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the shortest stroke segment which still has a
	// direction.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the sine of the largest angle between two
	// segments which still counts as a straight continuation.
	collinearityThreshold = 1e-6

	// cuspCosineThreshold detects a path doubling back on itself.
	cuspCosineThreshold = -0.9999
)
