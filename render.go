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

// Package vecscene draws frames of vector animations onto a retained-mode
// canvas.
//
// A [Renderer] accepts immediate-mode draw calls: paths are recorded into
// a [Path], styled by a [Paint], and drawn under the transformation and
// clip state maintained by Save, Restore, Transform and ClipPath.  Each
// draw call becomes a node on a [canvas.Canvas].  Nodes are kept between
// frames, so that a frame which repeats the draw calls of its predecessor
// updates the existing nodes instead of creating new ones.  Flush renders
// the canvas into its target image.
package vecscene

//go:generate go run ./testcases/export
//go:generate go run ./testcases/genpdf

import (
	"fmt"
	"image"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/vecscene/canvas"
	"seehuhn.de/go/vecscene/testcases"
)

// RenderExample renders a test case into a grayscale buffer, using the
// default canvas configuration.  The buffer is in row-major order, and
// each byte represents coverage from 0 (transparent) to 255 (opaque).
func RenderExample(tc testcases.TestCase, buf []byte, width, height, stride int) error {
	return RenderExampleConfig(nil, tc, buf, width, height, stride)
}

// RenderExampleConfig is like [RenderExample] but uses the canvas settings
// from cfg.  The background colour in cfg is ignored.
//
// The test case is drawn through a [Renderer], so that the full pipeline
// from path recording to canvas rasterisation is exercised.
func RenderExampleConfig(cfg *canvas.Config, tc testcases.TestCase, buf []byte, width, height, stride int) error {
	var c canvas.Config
	if cfg != nil {
		c = *cfg
	}
	c.Background = "transparent"

	target := image.NewRGBA(image.Rect(0, 0, width, height))
	cv, err := canvas.New(target, &c)
	if err != nil {
		return err
	}
	r := NewRenderer(cv)

	p, paint, err := PrepareExample(r, tc)
	if err != nil {
		return err
	}
	if err := r.DrawPath(p, paint); err != nil {
		return err
	}
	if err := r.Flush(); err != nil {
		return err
	}

	for y := range height {
		row := buf[y*stride:]
		for x := range width {
			row[x] = target.Pix[target.PixOffset(x, y)+3]
		}
	}
	return nil
}

// PrepareExample records the geometry of tc into a new path of r and
// returns it together with a white paint which fills or strokes the path
// as tc requires.  The current transformation of r is changed to the CTM
// of the test case.
func PrepareExample(r *Renderer, tc testcases.TestCase) (*Path, *Paint, error) {
	p := r.NewPath()
	if err := recordPath(p, tc.Path); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", tc.Name, err)
	}

	paint := NewPaint()
	paint.SetColor(0xffffffff)
	switch op := tc.Op.(type) {
	case testcases.Fill:
		if op.Rule == testcases.EvenOdd {
			p.SetFillRule(EvenOdd)
		}
	case testcases.Stroke:
		paint.SetStyle(StyleStroke)
		paint.SetThickness(op.Width)
		paint.SetCap(op.Cap)
		paint.SetJoin(op.Join)
		paint.SetMiterLimit(op.MiterLimit)
	}

	if tc.CTM != (matrix.Matrix{}) {
		r.Transform(tc.CTM)
	}
	return p, paint, nil
}

// recordPath replays data into p.  Quadratic segments are converted to
// cubic ones.
func recordPath(p *Path, data *path.Data) error {
	for cmd, pts := range data.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			p.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			p.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			p.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			p.Close()
		}
	}
	return p.Err()
}
