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
	"image/color"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/vecscene/canvas"
	"seehuhn.de/go/vecscene/raster"
)

// Style selects whether a paint fills the interior of a path or strokes
// its outline.
type Style int

// These are the supported paint styles.
const (
	StyleFill Style = iota
	StyleStroke
)

func (s Style) String() string {
	switch s {
	case StyleFill:
		return "fill"
	case StyleStroke:
		return "stroke"
	default:
		return "invalid"
	}
}

// Paint describes how a path is drawn.  One Paint is used per draw call,
// and the same Paint may be changed and reused between draw calls.
//
// The colour source used for drawing is chosen in the following order:
// an image shader set with SetShader, a gradient started with
// LinearGradient or RadialGradient, and finally the solid colour.  Setting
// a colour does not remove a gradient.
type Paint struct {
	style     Style
	color     color.NRGBA
	thickness float64
	miter     float64
	join      graphics.LineJoinStyle
	cap       graphics.LineCapStyle
	blend     canvas.BlendMode

	gradient *gradientBuilder
	shader   *ImageShader
}

// NewPaint returns a paint which fills with opaque black.  Strokes default
// to a thickness of 1 with bevel joins and butt caps.
func NewPaint() *Paint {
	return &Paint{
		color:     color.NRGBA{A: 255},
		thickness: 1,
		join:      graphics.LineJoinBevel,
		cap:       graphics.LineCapButt,
	}
}

// SetStyle selects between filling and stroking.
func (p *Paint) SetStyle(s Style) {
	p.style = s
}

// Style returns the current style.
func (p *Paint) Style() Style {
	return p.style
}

// SetColor sets the solid colour, given as 0xAARRGGBB.
func (p *Paint) SetColor(argb uint32) {
	p.color = fromARGB(argb)
}

// Color returns the solid colour.
func (p *Paint) Color() color.NRGBA {
	return p.color
}

func fromARGB(v uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: uint8(v >> 24),
	}
}

// SetThickness sets the stroke width.  It is only used with StyleStroke.
func (p *Paint) SetThickness(w float64) {
	p.thickness = w
}

// Thickness returns the stroke width.
func (p *Paint) Thickness() float64 {
	return p.thickness
}

// SetJoin sets the stroke join style.  It is only used with StyleStroke.
func (p *Paint) SetJoin(j graphics.LineJoinStyle) {
	p.join = j
}

// Join returns the stroke join style.
func (p *Paint) Join() graphics.LineJoinStyle {
	return p.join
}

// SetMiterLimit sets the limit for miter joins, relative to the stroke
// thickness.  Values below 1 select the default limit of 10.
func (p *Paint) SetMiterLimit(limit float64) {
	p.miter = limit
}

// MiterLimit returns the miter limit used for drawing.
func (p *Paint) MiterLimit() float64 {
	if p.miter < 1 {
		return raster.DefaultMiterLimit
	}
	return p.miter
}

// SetCap sets the stroke cap style.  It is only used with StyleStroke.
func (p *Paint) SetCap(c graphics.LineCapStyle) {
	p.cap = c
}

// Cap returns the stroke cap style.
func (p *Paint) Cap() graphics.LineCapStyle {
	return p.cap
}

// SetBlendMode sets how drawn pixels are combined with the backdrop.
func (p *Paint) SetBlendMode(m canvas.BlendMode) {
	p.blend = m
}

// SetShader installs an image shader, which takes precedence over
// gradients and the solid colour.  Pass nil to remove the shader.
func (p *Paint) SetShader(s *ImageShader) {
	p.shader = s
}

// source returns the colour source for the next draw call.
func (p *Paint) source() canvas.Source {
	switch {
	case p.shader != nil:
		return &canvas.Pattern{Image: p.shader.img, Matrix: p.shader.local}
	case p.gradient != nil:
		return p.gradient.build()
	default:
		return &canvas.Solid{Color: p.color}
	}
}

// apply sets the paint attributes of a shape node.
func (p *Paint) apply(s *canvas.Shape) {
	src := p.source()
	s.Blend = p.blend
	if p.style == StyleStroke {
		s.Fill = nil
		s.Stroke = &canvas.Stroke{
			Width:      p.thickness,
			Cap:        p.cap,
			Join:       p.join,
			MiterLimit: p.miter,
			Source:     src,
		}
		return
	}
	s.Fill = src
	s.Stroke = nil
}
