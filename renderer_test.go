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
	"errors"
	"image"
	"image/color"
	"testing"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/vecscene/canvas"
)

const (
	opaqueRed   = 0xffff0000
	opaqueGreen = 0xff00ff00
	opaqueBlue  = 0xff0000ff
)

var (
	red         = color.RGBA{R: 255, A: 255}
	green       = color.RGBA{G: 255, A: 255}
	transparent = color.RGBA{}
)

// newTestRenderer returns a renderer drawing onto a transparent w×h image.
func newTestRenderer(t *testing.T, w, h int, cfg *canvas.Config) (*Renderer, *image.RGBA) {
	t.Helper()
	if cfg == nil {
		cfg = &canvas.Config{Workers: 2}
	}
	target := image.NewRGBA(image.Rect(0, 0, w, h))
	c, err := canvas.New(target, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return NewRenderer(c), target
}

// rectPath returns a closed rectangle path.
func rectPath(r *Renderer, x0, y0, x1, y1 float64) *Path {
	p := r.NewPath()
	p.MoveTo(x0, y0)
	p.LineTo(x1, y0)
	p.LineTo(x1, y1)
	p.LineTo(x0, y1)
	p.Close()
	return p
}

func solid(argb uint32) *Paint {
	p := NewPaint()
	p.SetColor(argb)
	return p
}

func mustFlush(t *testing.T, r *Renderer) {
	t.Helper()
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}
}

func checkPixel(t *testing.T, img *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	if got := img.RGBAAt(x, y); got != want {
		t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
	}
}

func TestDrawPathFill(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)
	if err := r.DrawPath(rectPath(r, 5, 5, 15, 15), solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	checkPixel(t, img, 10, 10, red)
	checkPixel(t, img, 2, 2, transparent)
	checkPixel(t, img, 15, 10, transparent)
}

func TestDrawPathStroke(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)
	p := r.NewPath()
	p.MoveTo(2, 10)
	p.LineTo(18, 10)
	paint := solid(opaqueGreen)
	paint.SetStyle(StyleStroke)
	paint.SetThickness(4)
	if err := r.DrawPath(p, paint); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	checkPixel(t, img, 10, 9, green)
	checkPixel(t, img, 10, 11, green)
	checkPixel(t, img, 10, 13, transparent)
	// butt caps do not extend beyond the end points
	checkPixel(t, img, 1, 10, transparent)
}

// TestPathReset checks that a path which is reset and re-recorded every
// frame draws the same pixels every time.
func TestPathReset(t *testing.T) {
	r, img := newTestRenderer(t, 32, 32, nil)
	p := r.NewPath()
	paint := solid(opaqueBlue)

	record := func() {
		p.Reset()
		p.MoveTo(4, 4)
		p.CubicTo(30, 4, 30, 28, 4, 28)
		p.Close()
	}

	record()
	if err := r.DrawPath(p, paint); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)
	first := append([]byte(nil), img.Pix...)
	firstLen := p.Len()

	record()
	if err := r.DrawPath(p, paint); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	if p.Len() != firstLen {
		t.Errorf("path has %d points after reset, want %d", p.Len(), firstLen)
	}
	for i := range first {
		if first[i] != img.Pix[i] {
			t.Fatalf("frame differs at byte %d", i)
		}
	}
}

// TestClipBackgroundAndContent checks that the first clip in a frame
// applies to all draws while the second one only affects the next draw.
func TestClipBackgroundAndContent(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)

	if err := r.ClipPath(rectPath(r, 0, 0, 10, 20)); err != nil {
		t.Fatal(err)
	}
	if r.HasContentClip() {
		t.Fatal("first clip must not be a content clip")
	}
	if err := r.ClipPath(rectPath(r, 0, 0, 20, 10)); err != nil {
		t.Fatal(err)
	}
	if !r.HasContentClip() {
		t.Fatal("second clip should be a content clip")
	}

	if err := r.DrawPath(rectPath(r, 0, 0, 20, 20), solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	if r.HasContentClip() {
		t.Error("content clip not consumed by draw")
	}
	if err := r.DrawPath(rectPath(r, 0, 15, 20, 20), solid(opaqueGreen)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	checkPixel(t, img, 5, 5, red)          // inside both clips
	checkPixel(t, img, 5, 12, transparent) // outside the content clip
	checkPixel(t, img, 5, 17, green)       // second draw has no content clip
	checkPixel(t, img, 15, 5, transparent) // outside the background clip
	checkPixel(t, img, 15, 17, transparent)
}

func TestClipUsesTransformAtCallTime(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)

	r.Transform(matrix.Identity.Translate(10, 0))
	if err := r.ClipPath(rectPath(r, 0, 0, 5, 20)); err != nil {
		t.Fatal(err)
	}
	r.Transform(matrix.Identity.Translate(-10, 0))
	if err := r.DrawPath(rectPath(r, 0, 0, 20, 20), solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	checkPixel(t, img, 2, 10, transparent)
	checkPixel(t, img, 12, 10, red)
	checkPixel(t, img, 17, 10, transparent)
}

func TestNestedBackgroundClips(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)

	if err := r.ClipPath(rectPath(r, 0, 0, 10, 20)); err != nil {
		t.Fatal(err)
	}
	r.Save()
	if err := r.ClipPath(rectPath(r, 0, 0, 20, 10)); err != nil {
		t.Fatal(err)
	}
	if r.HasContentClip() {
		t.Fatal("first clip after Save must be a background clip")
	}
	if err := r.DrawPath(rectPath(r, 0, 0, 20, 20), solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	r.Restore()
	if err := r.DrawPath(rectPath(r, 0, 15, 20, 20), solid(opaqueGreen)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	checkPixel(t, img, 5, 5, red)
	checkPixel(t, img, 15, 5, transparent)
	checkPixel(t, img, 5, 12, transparent)
	checkPixel(t, img, 5, 17, green)
	checkPixel(t, img, 15, 17, transparent)
}

// TestRestoreDropsContentClip checks that a content clip set inside a
// Save/Restore scope does not affect draws after Restore.
func TestRestoreDropsContentClip(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)

	r.Save()
	if err := r.ClipPath(rectPath(r, 0, 0, 20, 20)); err != nil {
		t.Fatal(err)
	}
	if err := r.ClipPath(rectPath(r, 0, 0, 5, 5)); err != nil {
		t.Fatal(err)
	}
	if !r.HasContentClip() {
		t.Fatal("second clip should be a content clip")
	}
	r.Restore()
	if r.HasContentClip() {
		t.Error("content clip survived Restore")
	}

	if err := r.DrawPath(rectPath(r, 0, 0, 20, 20), solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	checkPixel(t, img, 2, 2, red)
	checkPixel(t, img, 10, 10, red)
}

// TestRestoreKeepsOuterContentClip checks that a content clip set before
// Save is pending again after Restore if the scope did not draw.
func TestRestoreKeepsOuterContentClip(t *testing.T) {
	r, _ := newTestRenderer(t, 10, 10, nil)

	for range 2 {
		if err := r.ClipPath(rectPath(r, 0, 0, 5, 5)); err != nil {
			t.Fatal(err)
		}
	}
	r.Save()
	r.Transform(matrix.Scale(2, 2))
	r.Restore()
	if !r.HasContentClip() {
		t.Error("content clip from before Save lost")
	}
}

// TestClipReplacesUsedBackground checks that a clip following a draw
// which used the background clip replaces the background clip.
func TestClipReplacesUsedBackground(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)

	if err := r.ClipPath(rectPath(r, 0, 0, 10, 20)); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawPath(rectPath(r, 0, 0, 20, 5), solid(opaqueBlue)); err != nil {
		t.Fatal(err)
	}
	if err := r.ClipPath(rectPath(r, 10, 0, 20, 20)); err != nil {
		t.Fatal(err)
	}
	if r.HasContentClip() {
		t.Fatal("clip after a draw should replace the background clip")
	}
	if err := r.DrawPath(rectPath(r, 0, 5, 20, 10), solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawPath(rectPath(r, 0, 10, 20, 20), solid(opaqueGreen)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	blue := color.RGBA{B: 255, A: 255}
	checkPixel(t, img, 5, 2, blue)
	checkPixel(t, img, 15, 2, transparent)
	checkPixel(t, img, 5, 7, transparent)
	checkPixel(t, img, 15, 7, red)
	checkPixel(t, img, 5, 15, transparent)
	checkPixel(t, img, 15, 15, green)
}

// TestReplacedBackgroundRestored checks that replacing the background
// clip of a nested scope leaves the enclosing scope unchanged.
func TestReplacedBackgroundRestored(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)

	if err := r.ClipPath(rectPath(r, 0, 0, 20, 10)); err != nil {
		t.Fatal(err)
	}
	r.Save()
	if err := r.ClipPath(rectPath(r, 0, 0, 10, 20)); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawPath(rectPath(r, 0, 0, 20, 3), solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	if err := r.ClipPath(rectPath(r, 10, 0, 20, 20)); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawPath(rectPath(r, 0, 3, 20, 6), solid(opaqueGreen)); err != nil {
		t.Fatal(err)
	}
	r.Restore()
	if err := r.DrawPath(rectPath(r, 0, 6, 20, 20), solid(opaqueBlue)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	blue := color.RGBA{B: 255, A: 255}
	checkPixel(t, img, 5, 1, red)
	checkPixel(t, img, 15, 1, transparent)
	checkPixel(t, img, 5, 4, transparent)
	checkPixel(t, img, 15, 4, green)
	checkPixel(t, img, 5, 8, blue)
	checkPixel(t, img, 15, 8, blue)
	checkPixel(t, img, 5, 15, transparent)
}

// TestFailedDrawKeepsContentClip checks that a draw call rejected for
// invalid arguments leaves the pending content clip for the next draw.
func TestFailedDrawKeepsContentClip(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)

	if err := r.ClipPath(rectPath(r, 0, 0, 20, 20)); err != nil {
		t.Fatal(err)
	}
	if err := r.ClipPath(rectPath(r, 0, 0, 10, 10)); err != nil {
		t.Fatal(err)
	}
	err := r.DrawPath(rectPath(r, 0, 0, 20, 20), nil)
	if !errors.Is(err, KindInvalidState) {
		t.Fatalf("nil paint: got %v, want InvalidState", err)
	}
	if !r.HasContentClip() {
		t.Fatal("failed draw consumed the content clip")
	}

	if err := r.DrawPath(rectPath(r, 0, 0, 20, 20), solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawPath(rectPath(r, 0, 15, 20, 20), solid(opaqueGreen)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	checkPixel(t, img, 5, 5, red)
	checkPixel(t, img, 15, 5, transparent)
	checkPixel(t, img, 15, 17, green)
}

func TestSaveRestore(t *testing.T) {
	r, _ := newTestRenderer(t, 10, 10, nil)

	r.Transform(matrix.Scale(2, 2))
	r.Save()
	r.Transform(matrix.Identity.Translate(3, 4))
	if got, want := r.CurrentTransform(), (matrix.Matrix{2, 0, 0, 2, 6, 8}); got != want {
		t.Errorf("transform inside Save: got %v, want %v", got, want)
	}
	r.Restore()
	if got, want := r.CurrentTransform(), matrix.Scale(2, 2); got != want {
		t.Errorf("transform after Restore: got %v, want %v", got, want)
	}

	// Restore without Save leaves everything unchanged
	r.Restore()
	if got, want := r.CurrentTransform(), matrix.Scale(2, 2); got != want {
		t.Errorf("transform after extra Restore: got %v, want %v", got, want)
	}
}

func TestNestedSaveRestore(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)
	t1 := matrix.Identity.Translate(10, 0)
	t2 := matrix.Scale(3, 3)

	r.Save()
	r.Transform(t1)
	r.Save()
	r.Transform(t2)
	r.Restore()
	if got := r.CurrentTransform(); got != t1 {
		t.Errorf("after inner Restore: got %v, want %v", got, t1)
	}
	if err := r.DrawPath(rectPath(r, 0, 0, 5, 5), solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	r.Restore()
	if got := r.CurrentTransform(); got != matrix.Identity {
		t.Errorf("after outer Restore: got %v, want identity", got)
	}
	mustFlush(t, r)

	checkPixel(t, img, 12, 2, red)
	checkPixel(t, img, 2, 2, transparent)
	checkPixel(t, img, 16, 2, transparent)
}

// TestNodeReuse checks that repeating the draw calls of a frame updates
// the existing canvas node.
func TestNodeReuse(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)
	counts := map[canvas.EventKind]int{}
	r.Canvas().SetListener(func(e canvas.Event) {
		counts[e.Kind]++
	})

	p := r.NewPath()
	paint := solid(opaqueRed)
	for frame := range 2 {
		p.Reset()
		x := float64(2 + 8*frame)
		p.MoveTo(x, 2)
		p.LineTo(x+6, 2)
		p.LineTo(x+6, 8)
		p.LineTo(x, 8)
		if err := r.DrawPath(p, paint); err != nil {
			t.Fatal(err)
		}
		mustFlush(t, r)
	}

	want := map[canvas.EventKind]int{canvas.EventInsert: 1, canvas.EventUpdate: 1}
	for _, k := range []canvas.EventKind{canvas.EventInsert, canvas.EventUpdate, canvas.EventHide, canvas.EventRemove} {
		if counts[k] != want[k] {
			t.Errorf("%s events: got %d, want %d", k, counts[k], want[k])
		}
	}
	if n := r.Canvas().Len(); n != 1 {
		t.Errorf("canvas has %d nodes, want 1", n)
	}
	checkPixel(t, img, 4, 4, transparent)
	checkPixel(t, img, 12, 4, red)
}

func TestStaleNodesHidden(t *testing.T) {
	r, img := newTestRenderer(t, 20, 20, nil)
	hidden := 0
	r.Canvas().SetListener(func(e canvas.Event) {
		if e.Kind == canvas.EventHide {
			hidden++
		}
	})

	a := rectPath(r, 0, 0, 10, 10)
	b := rectPath(r, 10, 10, 20, 20)
	paint := solid(opaqueRed)

	for _, p := range []*Path{a, b} {
		if err := r.DrawPath(p, paint); err != nil {
			t.Fatal(err)
		}
	}
	mustFlush(t, r)
	checkPixel(t, img, 15, 15, red)

	if err := r.DrawPath(a, paint); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	if hidden != 1 {
		t.Errorf("got %d hide events, want 1", hidden)
	}
	checkPixel(t, img, 5, 5, red)
	checkPixel(t, img, 15, 15, transparent)
	if n := r.Canvas().Len(); n != 2 {
		t.Errorf("canvas has %d nodes, want 2", n)
	}
}

func TestRelease(t *testing.T) {
	r, _ := newTestRenderer(t, 10, 10, nil)
	p := rectPath(r, 0, 0, 5, 5)
	paint := solid(opaqueRed)
	for range 3 {
		if err := r.DrawPath(p, paint); err != nil {
			t.Fatal(err)
		}
	}
	mustFlush(t, r)
	if n := r.Canvas().Len(); n != 3 {
		t.Fatalf("canvas has %d nodes, want 3", n)
	}

	if err := p.Release(); err != nil {
		t.Fatal(err)
	}
	if n := r.Canvas().Len(); n != 0 {
		t.Errorf("canvas has %d nodes after release, want 0", n)
	}
}

// TestAbortedFrame checks that a frame which exceeds a canvas limit is
// not shown, and that the following frame is drawn normally.
func TestAbortedFrame(t *testing.T) {
	cfg := &canvas.Config{Workers: 1, MaxPathPoints: 16}
	r, img := newTestRenderer(t, 20, 20, cfg)

	small := rectPath(r, 0, 0, 10, 10)
	if err := r.DrawPath(small, solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	big := r.NewPath()
	big.MoveTo(0, 0)
	for i := range 20 {
		big.LineTo(float64(i), 20)
	}
	if err := big.Err(); !errors.Is(err, KindResourceExhausted) {
		t.Fatalf("path error: got %v, want resource exhausted", err)
	}

	if err := r.DrawPath(small, solid(opaqueGreen)); err != nil {
		t.Fatal(err)
	}
	err := r.DrawPath(big, solid(opaqueGreen))
	if !errors.Is(err, KindResourceExhausted) {
		t.Fatalf("DrawPath: got %v, want resource exhausted", err)
	}
	if err := r.DrawPath(small, solid(opaqueGreen)); !errors.Is(err, KindResourceExhausted) {
		t.Errorf("draw after abort: got %v, want resource exhausted", err)
	}
	if err := r.Flush(); !errors.Is(err, KindResourceExhausted) {
		t.Errorf("Flush: got %v, want resource exhausted", err)
	}
	checkPixel(t, img, 5, 5, red)

	// the next frame starts afresh
	if err := r.DrawPath(small, solid(opaqueGreen)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)
	checkPixel(t, img, 5, 5, green)
}

func TestTooManyNodes(t *testing.T) {
	cfg := &canvas.Config{Workers: 1, MaxNodes: 1}
	r, _ := newTestRenderer(t, 10, 10, cfg)
	paint := solid(opaqueRed)

	if err := r.DrawPath(rectPath(r, 0, 0, 5, 5), paint); err != nil {
		t.Fatal(err)
	}
	err := r.DrawPath(rectPath(r, 5, 5, 10, 10), paint)
	if !errors.Is(err, KindResourceExhausted) {
		t.Errorf("got %v, want resource exhausted", err)
	}
	if !errors.Is(err, canvas.ErrResourceExhausted) {
		t.Errorf("%v does not wrap the canvas error", err)
	}
}

func TestInvalidArguments(t *testing.T) {
	r, _ := newTestRenderer(t, 10, 10, nil)
	p := rectPath(r, 0, 0, 5, 5)

	if err := r.DrawPath(nil, NewPaint()); !errors.Is(err, KindInvalidState) {
		t.Errorf("nil path: got %v", err)
	}
	if err := r.DrawPath(p, nil); !errors.Is(err, KindInvalidState) {
		t.Errorf("nil paint: got %v", err)
	}
	if err := r.ClipPath(nil); !errors.Is(err, KindInvalidState) {
		t.Errorf("nil clip: got %v", err)
	}
	if err := r.DrawImage(nil, canvas.BlendNormal, 1); !errors.Is(err, KindInvalidState) {
		t.Errorf("nil image: got %v", err)
	}

	// invalid calls do not abort the frame
	if err := r.DrawPath(p, NewPaint()); err != nil {
		t.Error(err)
	}
}

func TestBlendModeApplied(t *testing.T) {
	r, img := newTestRenderer(t, 10, 10, nil)
	if err := r.DrawPath(rectPath(r, 0, 0, 10, 10), solid(0xff808080)); err != nil {
		t.Fatal(err)
	}
	paint := solid(0xff808080)
	paint.SetBlendMode(canvas.BlendMultiply)
	if err := r.DrawPath(rectPath(r, 0, 0, 10, 10), paint); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	// 0x80/255 squared is about 0x40
	got := img.RGBAAt(5, 5)
	if got.R < 0x3f || got.R > 0x41 || got.A != 255 {
		t.Errorf("got %v, want about 0x40 grey", got)
	}
}

func TestCanvasClearedExternally(t *testing.T) {
	r, img := newTestRenderer(t, 10, 10, nil)
	p := rectPath(r, 0, 0, 10, 10)
	if err := r.DrawPath(p, solid(opaqueRed)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)

	if err := r.Canvas().Clear(); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawPath(p, solid(opaqueGreen)); err != nil {
		t.Fatal(err)
	}
	mustFlush(t, r)
	checkPixel(t, img, 5, 5, green)
}
