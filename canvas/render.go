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
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/vecscene/raster"
)

// band renders the rows rect of the target image.  Each band owns its
// rasteriser and scratch buffers, so that bands can be drawn concurrently.
type band struct {
	target   *image.RGBA
	rect     image.Rectangle
	r        *raster.Rasteriser
	flatness float64

	masks  []*raster.Mask
	layers []*image.RGBA
}

func newBand(target *image.RGBA, r image.Rectangle, flatness float64) *band {
	return &band{
		target:   target,
		rect:     r,
		r:        raster.NewRasteriser(clipRect(r)),
		flatness: flatness,
	}
}

func clipRect(r image.Rectangle) rect.Rect {
	return rect.Rect{
		LLx: float64(r.Min.X),
		LLy: float64(r.Min.Y),
		URx: float64(r.Max.X),
		URy: float64(r.Max.Y),
	}
}

// clear fills the band of the target with a single colour.
func (b *band) clear(bg pixel) {
	px := [4]uint8{to8(bg.r), to8(bg.g), to8(bg.b), to8(bg.a)}
	for y := b.rect.Min.Y; y < b.rect.Max.Y; y++ {
		i := b.target.PixOffset(b.rect.Min.X, y)
		row := b.target.Pix[i : i+4*b.rect.Dx()]
		for j := 0; j < len(row); j += 4 {
			copy(row[j:j+4], px[:])
		}
	}
}

func (b *band) getMask() *raster.Mask {
	if n := len(b.masks); n > 0 {
		m := b.masks[n-1]
		b.masks = b.masks[:n-1]
		m.Reset(b.rect)
		return m
	}
	return raster.NewMask(b.rect)
}

func (b *band) putMask(m *raster.Mask) {
	b.masks = append(b.masks, m)
}

func (b *band) getLayer() *image.RGBA {
	if n := len(b.layers); n > 0 {
		l := b.layers[n-1]
		b.layers = b.layers[:n-1]
		clear(l.Pix)
		return l
	}
	return image.NewRGBA(b.rect)
}

func (b *band) putLayer(l *image.RGBA) {
	b.layers = append(b.layers, l)
}

// coverage rasterises s with the transformation m.  If st is nil the
// interior of s is used, otherwise its outline.
func (b *band) coverage(s *Shape, m matrix.Matrix, st *Stroke) *raster.Mask {
	mask := b.getMask()
	b.r.Reset(clipRect(b.rect))
	b.r.CTM = m
	b.r.Flatness = b.flatness
	if st == nil {
		b.r.Fill(&s.path, s.Rule, mask.Emit)
		return mask
	}
	b.r.Width = st.Width
	b.r.Cap = st.Cap
	b.r.Join = st.Join
	if st.MiterLimit >= 1 {
		b.r.MiterLimit = st.MiterLimit
	}
	b.r.Stroke(&s.path, mask.Emit)
	return mask
}

// drawNode renders n into dst.  The matrix parent maps the coordinates of
// the node's parent to device space, and clip is the coverage of all
// enclosing clip paths, or nil.
func (b *band) drawNode(dst *image.RGBA, n Node, parent matrix.Matrix, clip *raster.Mask) {
	p := n.props()
	if p.Opacity <= 0 {
		return
	}
	if p.Clip != nil {
		cm := b.coverage(p.Clip, p.Clip.Transform.Mul(parent), nil)
		defer b.putMask(cm)
		if clip != nil {
			cm.Mul(clip)
		}
		if cm.Empty() {
			return
		}
		clip = cm
	}

	world := p.Transform.Mul(parent)
	inv, ok := invert(world)
	if !ok {
		return
	}
	opacity := float32(min(p.Opacity, 1))

	switch n := n.(type) {
	case *Shape:
		if n.Fill != nil {
			b.paintShape(dst, n, nil, n.Fill, world, inv, clip, opacity)
		}
		if st := n.Stroke; st != nil && st.Width > 0 && st.Source != nil {
			b.paintShape(dst, n, st, st.Source, world, inv, clip, opacity)
		}

	case *Picture:
		if n.Image == nil {
			return
		}
		layer := b.getLayer()
		defer b.putLayer(layer)
		draw.BiLinear.Transform(layer, toAff3(world), n.Image, n.Image.Bounds(), draw.Over, nil)
		b.composite(dst, layer, clip, opacity, p.Blend)

	case *Group:
		if opacity == 1 && p.Blend == BlendNormal {
			for _, c := range n.Children {
				b.drawNode(dst, c, world, clip)
			}
			return
		}
		layer := b.getLayer()
		defer b.putLayer(layer)
		for _, c := range n.Children {
			b.drawNode(layer, c, world, nil)
		}
		b.composite(dst, layer, clip, opacity, p.Blend)
	}
}

// paintShape fills the fill or stroke area of s with colours from src.
func (b *band) paintShape(dst *image.RGBA, s *Shape, st *Stroke, src Source, world, inv matrix.Matrix, clip *raster.Mask, opacity float32) {
	shade := newShader(src, inv)
	if shade == nil {
		return
	}
	cov := b.coverage(s, world, st)
	defer b.putMask(cov)
	if clip != nil {
		cov.Mul(clip)
	}
	cov.Scale(opacity)

	if solid, ok := src.(*Solid); ok && s.Blend == BlendNormal {
		draw.DrawMask(dst, b.rect, image.NewUniform(solid.Color), image.Point{}, cov, b.rect.Min, draw.Over)
		return
	}

	w := b.rect.Dx()
	for y := b.rect.Min.Y; y < b.rect.Max.Y; y++ {
		row := cov.Cov[(y-b.rect.Min.Y)*w:][:w]
		for i, c := range row {
			if c <= 0 {
				continue
			}
			x := b.rect.Min.X + i
			col := shade(x, y).scale(c)
			storePixel(dst, x, y, s.Blend.apply(loadPixel(dst, x, y), col))
		}
	}
}

// composite combines a layer with dst, weighting each pixel by opacity and
// by the clip coverage.
func (b *band) composite(dst, layer *image.RGBA, clip *raster.Mask, opacity float32, mode BlendMode) {
	for y := b.rect.Min.Y; y < b.rect.Max.Y; y++ {
		for x := b.rect.Min.X; x < b.rect.Max.X; x++ {
			s := loadPixel(layer, x, y)
			if s.a <= 0 {
				continue
			}
			k := opacity
			if clip != nil {
				k *= clip.Value(x, y)
			}
			if k <= 0 {
				continue
			}
			storePixel(dst, x, y, mode.apply(loadPixel(dst, x, y), s.scale(k)))
		}
	}
}

// shader returns the premultiplied colour of device pixel (x, y).
type shader func(x, y int) pixel

// newShader prepares colour lookup for src.  The matrix inv maps device
// space to the shape's coordinate space.
func newShader(src Source, inv matrix.Matrix) shader {
	center := func(m matrix.Matrix, x, y int) vec.Vec2 {
		return m.Apply(vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5})
	}
	switch src := src.(type) {
	case *Solid:
		c := premultiply(src.Color)
		return func(int, int) pixel { return c }
	case *Gradient:
		return func(x, y int) pixel {
			return premultiply(src.ColorAt(center(inv, x, y)))
		}
	case *Pattern:
		if src.Image == nil {
			return nil
		}
		toImage, ok := invert(src.Matrix)
		if !ok {
			return nil
		}
		m := inv.Mul(toImage)
		return func(x, y int) pixel {
			return src.sample(center(m, x, y))
		}
	}
	return nil
}

// invert returns the inverse of m.  The second return value is false if
// m is singular.
func invert(m matrix.Matrix) (matrix.Matrix, bool) {
	if m[0]*m[3]-m[1]*m[2] == 0 {
		return matrix.Matrix{}, false
	}
	return m.Inv(), true
}

// toAff3 converts a transformation matrix to the form used by
// golang.org/x/image/draw.
func toAff3(m matrix.Matrix) f64.Aff3 {
	return f64.Aff3{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
	}
}
