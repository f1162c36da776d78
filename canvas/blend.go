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
	"image/color"
	"math"
)

// BlendMode selects how a node's colours are combined with the backdrop.
// The formulas follow the W3C Compositing and Blending Level 1
// recommendation.
type BlendMode int

// Supported blend modes.
const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

var blendNames = [...]string{
	BlendNormal:     "normal",
	BlendMultiply:   "multiply",
	BlendScreen:     "screen",
	BlendOverlay:    "overlay",
	BlendDarken:     "darken",
	BlendLighten:    "lighten",
	BlendColorDodge: "colorDodge",
	BlendColorBurn:  "colorBurn",
	BlendHardLight:  "hardLight",
	BlendSoftLight:  "softLight",
	BlendDifference: "difference",
	BlendExclusion:  "exclusion",
	BlendHue:        "hue",
	BlendSaturation: "saturation",
	BlendColor:      "color",
	BlendLuminosity: "luminosity",
}

func (m BlendMode) String() string {
	if m >= 0 && int(m) < len(blendNames) {
		return blendNames[m]
	}
	return "invalid"
}

// pixel is a premultiplied colour with components in [0, 1].
type pixel struct {
	r, g, b, a float32
}

func (p pixel) scale(s float32) pixel {
	return pixel{p.r * s, p.g * s, p.b * s, p.a * s}
}

func premultiply(c color.NRGBA) pixel {
	a := float32(c.A) / 255
	return pixel{
		r: float32(c.R) / 255 * a,
		g: float32(c.G) / 255 * a,
		b: float32(c.B) / 255 * a,
		a: a,
	}
}

func loadPixel(img *image.RGBA, x, y int) pixel {
	i := img.PixOffset(x, y)
	s := img.Pix[i : i+4 : i+4]
	return pixel{
		r: float32(s[0]) / 255,
		g: float32(s[1]) / 255,
		b: float32(s[2]) / 255,
		a: float32(s[3]) / 255,
	}
}

func storePixel(img *image.RGBA, x, y int, p pixel) {
	i := img.PixOffset(x, y)
	s := img.Pix[i : i+4 : i+4]
	s[0] = to8(p.r)
	s[1] = to8(p.g)
	s[2] = to8(p.b)
	s[3] = to8(p.a)
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// apply composites the source s over the backdrop d.
func (m BlendMode) apply(d, s pixel) pixel {
	if s.a <= 0 {
		return d
	}
	if m == BlendNormal || d.a <= 0 {
		k := 1 - s.a
		return pixel{s.r + d.r*k, s.g + d.g*k, s.b + d.b*k, s.a + d.a*k}
	}

	cs := [3]float32{s.r / s.a, s.g / s.a, s.b / s.a}
	cb := [3]float32{d.r / d.a, d.g / d.a, d.b / d.a}
	var mixed [3]float32
	if m >= BlendHue {
		mixed = m.mixNonSeparable(cb, cs)
	} else {
		for i := range 3 {
			mixed[i] = m.mixSeparable(cb[i], cs[i])
		}
	}

	both := s.a * d.a
	onlyS := s.a * (1 - d.a)
	onlyD := d.a * (1 - s.a)
	return pixel{
		r: onlyS*cs[0] + onlyD*cb[0] + both*mixed[0],
		g: onlyS*cs[1] + onlyD*cb[1] + both*mixed[1],
		b: onlyS*cs[2] + onlyD*cb[2] + both*mixed[2],
		a: s.a + d.a - both,
	}
}

// mixSeparable is the blend function B(cb, cs) for one colour channel.
func (m BlendMode) mixSeparable(cb, cs float32) float32 {
	switch m {
	case BlendMultiply:
		return cb * cs
	case BlendScreen:
		return cb + cs - cb*cs
	case BlendOverlay:
		return hardLight(cs, cb)
	case BlendDarken:
		return min(cb, cs)
	case BlendLighten:
		return max(cb, cs)
	case BlendColorDodge:
		switch {
		case cb <= 0:
			return 0
		case cs >= 1:
			return 1
		default:
			return min(1, cb/(1-cs))
		}
	case BlendColorBurn:
		switch {
		case cb >= 1:
			return 1
		case cs <= 0:
			return 0
		default:
			return 1 - min(1, (1-cb)/cs)
		}
	case BlendHardLight:
		return hardLight(cb, cs)
	case BlendSoftLight:
		if cs <= 0.5 {
			return cb - (1-2*cs)*cb*(1-cb)
		}
		var d float32
		if cb <= 0.25 {
			d = ((16*cb-12)*cb + 4) * cb
		} else {
			d = float32(math.Sqrt(float64(cb)))
		}
		return cb + (2*cs-1)*(d-cb)
	case BlendDifference:
		if cb > cs {
			return cb - cs
		}
		return cs - cb
	case BlendExclusion:
		return cb + cs - 2*cb*cs
	default:
		return cs
	}
}

func hardLight(cb, cs float32) float32 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	s := 2*cs - 1
	return cb + s - cb*s
}

func (m BlendMode) mixNonSeparable(cb, cs [3]float32) [3]float32 {
	switch m {
	case BlendHue:
		return setLum(setSat(cs, sat(cb)), lum(cb))
	case BlendSaturation:
		return setLum(setSat(cb, sat(cs)), lum(cb))
	case BlendColor:
		return setLum(cs, lum(cb))
	default: // BlendLuminosity
		return setLum(cb, lum(cs))
	}
}

func lum(c [3]float32) float32 {
	return 0.3*c[0] + 0.59*c[1] + 0.11*c[2]
}

func sat(c [3]float32) float32 {
	return max(c[0], c[1], c[2]) - min(c[0], c[1], c[2])
}

func setLum(c [3]float32, l float32) [3]float32 {
	d := l - lum(c)
	return clipColor([3]float32{c[0] + d, c[1] + d, c[2] + d})
}

func clipColor(c [3]float32) [3]float32 {
	l := lum(c)
	n := min(c[0], c[1], c[2])
	x := max(c[0], c[1], c[2])
	if n < 0 && l != n {
		for i := range c {
			c[i] = l + (c[i]-l)*l/(l-n)
		}
	}
	if x > 1 && x != l {
		for i := range c {
			c[i] = l + (c[i]-l)*(1-l)/(x-l)
		}
	}
	return c
}

func setSat(c [3]float32, s float32) [3]float32 {
	// order the channels as lo ≤ mid ≤ hi
	lo, mid, hi := 0, 1, 2
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	if c[mid] > c[hi] {
		mid, hi = hi, mid
	}
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}

	var res [3]float32
	if c[hi] > c[lo] {
		res[mid] = (c[mid] - c[lo]) * s / (c[hi] - c[lo])
		res[hi] = s
	}
	return res
}
