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
	"math"
	"testing"
)

func near(a, b pixel) bool {
	const eps = 1e-5
	return math.Abs(float64(a.r-b.r)) < eps &&
		math.Abs(float64(a.g-b.g)) < eps &&
		math.Abs(float64(a.b-b.b)) < eps &&
		math.Abs(float64(a.a-b.a)) < eps
}

func TestBlendIdentities(t *testing.T) {
	white := pixel{1, 1, 1, 1}
	black := pixel{0, 0, 0, 1}
	gray := pixel{0.5, 0.5, 0.5, 1}
	src := pixel{0.2, 0.6, 0.9, 1}
	clear := pixel{}

	cases := []struct {
		mode     BlendMode
		backdrop pixel
		source   pixel
		want     pixel
	}{
		{BlendNormal, gray, src, src},
		{BlendNormal, src, clear, src},
		{BlendMultiply, white, src, src},
		{BlendMultiply, black, src, black},
		{BlendScreen, black, src, src},
		{BlendScreen, white, src, white},
		{BlendDarken, white, src, src},
		{BlendLighten, black, src, src},
		{BlendDifference, src, src, black},
		{BlendExclusion, black, src, src},
		{BlendHardLight, gray, white, white},
		{BlendOverlay, src, gray, src},
		{BlendSoftLight, src, gray, src},
		{BlendColorDodge, black, src, black},
		{BlendColorBurn, white, src, white},
		{BlendHue, gray, src, gray},
		{BlendSaturation, gray, src, gray},
		{BlendLuminosity, src, src, src},
		{BlendColor, gray, gray, gray},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			got := tc.mode.apply(tc.backdrop, tc.source)
			if !near(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBlendTransparentBackdrop(t *testing.T) {
	// every mode reduces to plain source-over on an empty backdrop
	src := pixel{0.1, 0.2, 0.3, 0.5}
	for m := BlendNormal; m <= BlendLuminosity; m++ {
		if got := m.apply(pixel{}, src); !near(got, src) {
			t.Errorf("%s: got %v, want %v", m, got, src)
		}
	}
}

func TestBlendPartialAlpha(t *testing.T) {
	d := pixel{0.5, 0, 0, 0.5}
	s := pixel{0, 0, 0.25, 0.25}
	got := BlendNormal.apply(d, s)
	want := pixel{0.375, 0, 0.25, 0.625}
	if !near(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBlendModeString(t *testing.T) {
	if s := BlendColorDodge.String(); s != "colorDodge" {
		t.Errorf("got %q", s)
	}
	if s := BlendMode(99).String(); s != "invalid" {
		t.Errorf("got %q", s)
	}
}
