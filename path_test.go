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
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

func TestPathRecording(t *testing.T) {
	r, _ := newTestRenderer(t, 1, 1, nil)
	p := r.NewPath()
	p.MoveTo(1, 2)
	p.LineTo(3, 4)
	p.CubicTo(5, 6, 7, 8, 9, 10)
	p.Close()

	data := p.Data()
	wantCmds := []path.Command{path.CmdMoveTo, path.CmdLineTo, path.CmdCubeTo, path.CmdClose}
	if !slices.Equal(data.Cmds, wantCmds) {
		t.Errorf("commands: got %v, want %v", data.Cmds, wantCmds)
	}
	wantCoords := []vec.Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}, {X: 7, Y: 8}, {X: 9, Y: 10}}
	if !slices.Equal(data.Coords, wantCoords) {
		t.Errorf("coordinates: got %v, want %v", data.Coords, wantCoords)
	}
	if p.Len() != 5 {
		t.Errorf("Len: got %d, want 5", p.Len())
	}
}

func TestPathResetKeepsFillRule(t *testing.T) {
	r, _ := newTestRenderer(t, 1, 1, nil)
	p := rectPath(r, 0, 0, 1, 1)
	if p.FillRule() != NonZero {
		t.Errorf("default fill rule: got %s", p.FillRule())
	}
	p.SetFillRule(EvenOdd)
	p.Reset()
	if p.Len() != 0 {
		t.Errorf("Len after Reset: got %d", p.Len())
	}
	if p.FillRule() != EvenOdd {
		t.Errorf("fill rule after Reset: got %s", p.FillRule())
	}
}

func TestPathAppend(t *testing.T) {
	r, _ := newTestRenderer(t, 1, 1, nil)
	square := rectPath(r, 0, 0, 1, 1)
	before := slices.Clone(square.Data().Coords)

	dst := r.NewPath()
	dst.Append(square, matrix.Identity.Translate(5, 5))

	want := []vec.Vec2{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}}
	if got := dst.Data().Coords; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !slices.Equal(dst.Data().Cmds, square.Data().Cmds) {
		t.Errorf("commands differ: %v vs %v", dst.Data().Cmds, square.Data().Cmds)
	}
	if !slices.Equal(square.Data().Coords, before) {
		t.Error("source path was modified")
	}
}

func TestPathAppendSelf(t *testing.T) {
	r, _ := newTestRenderer(t, 1, 1, nil)
	p := r.NewPath()
	p.MoveTo(0, 0)
	p.CubicTo(1, 0, 1, 1, 0, 1)

	p.Append(p, matrix.Scale(2, 2))

	want := []vec.Vec2{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2},
	}
	if got := p.Data().Coords; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if n := len(p.Data().Cmds); n != 4 {
		t.Errorf("got %d commands, want 4", n)
	}
}

// TestClipDoesNotAliasPath checks that a clip keeps the geometry from the
// time of the call.
func TestClipDoesNotAliasPath(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)
	clip := rectPath(r, 0, 0, 10, 20)
	if err := r.ClipPath(clip); err != nil {
		t.Fatal(err)
	}
	clip.Reset()
	clip.MoveTo(10, 0)
	clip.LineTo(20, 0)
	clip.LineTo(20, 20)
	clip.LineTo(10, 20)

	if err := r.DrawPath(rectPath(r, 0, 0, 20, 20), solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)
	checkPixel(t, img, 5, 5, red)
	checkPixel(t, img, 15, 5, transparent)
}
