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

// Command genpdf writes one PDF file per test case and converts it to a
// grayscale PNG with Ghostscript.  The PNG files serve as reference images
// for the renderer.  Run from the module root directory.
//
// Every test case is first set up on a [vecscene.Renderer], and the PDF is
// written from the recorded path, paint and transformation.  This way the
// reference image sees exactly the input which the renderer draws.
package main

import (
	"flag"
	"fmt"
	"image"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/vecscene"
	"seehuhn.de/go/vecscene/canvas"
	"seehuhn.de/go/vecscene/testcases"
)

func main() {
	outDir := flag.String("out", "testdata/reference", "output directory")
	gs := flag.String("gs", "gs", "Ghostscript executable")
	only := flag.String("category", "", "only process this test case category")
	keep := flag.Bool("keep-pdf", false, "keep the intermediate PDF files")
	flag.Parse()

	if err := run(*outDir, *gs, *only, *keep); err != nil {
		fmt.Fprintln(os.Stderr, "genpdf:", err)
		os.Exit(1)
	}
}

// reference describes the files generated for one test case.
type reference struct {
	name string
	tc   testcases.TestCase
}

func (ref reference) files(dir string) (pdfName, pngName string) {
	base := filepath.Join(dir, ref.name)
	return base + ".pdf", base + ".png"
}

func run(dir, gs, only string, keep bool) error {
	var refs []reference
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		if only != "" && category != only {
			continue
		}
		for _, tc := range testcases.All[category] {
			refs = append(refs, reference{name: category + "_" + tc.Name, tc: tc})
		}
	}
	if len(refs) == 0 {
		return fmt.Errorf("no test cases in category %q", only)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, ref := range refs {
		g.Go(func() error {
			pdfName, pngName := ref.files(dir)
			if err := writePDF(ref.tc, pdfName); err != nil {
				return fmt.Errorf("%s: %w", ref.name, err)
			}
			if err := rasterise(gs, pdfName, pngName); err != nil {
				return fmt.Errorf("%s: %w", ref.name, err)
			}
			if !keep {
				return os.Remove(pdfName)
			}
			return nil
		})
	}
	return g.Wait()
}

// writePDF draws tc in white onto a black page of the test case size, so
// that the gray value of each pixel gives the coverage.
func writePDF(tc testcases.TestCase, fname string) error {
	target := image.NewRGBA(image.Rect(0, 0, tc.Width, tc.Height))
	cv, err := canvas.New(target, canvas.DefaultConfig())
	if err != nil {
		return err
	}
	r := vecscene.NewRenderer(cv)
	p, paint, err := vecscene.PrepareExample(r, tc)
	if err != nil {
		return err
	}

	paper := &pdf.Rectangle{URx: float64(tc.Width), URy: float64(tc.Height)}
	page, err := document.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, float64(tc.Width), float64(tc.Height))
	page.Fill()

	// PDF user space has the origin at the bottom left
	flip := matrix.Matrix{1, 0, 0, -1, 0, float64(tc.Height)}
	page.Transform(r.CurrentTransform().Mul(flip))

	page.SetFillColor(color.DeviceGray(1))
	page.SetStrokeColor(color.DeviceGray(1))
	if paint.Style() == vecscene.StyleStroke {
		page.SetLineWidth(paint.Thickness())
		page.SetLineCap(paint.Cap())
		page.SetLineJoin(paint.Join())
		page.SetMiterLimit(paint.MiterLimit())
	}

	for cmd, pts := range p.Data().Iter() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}

	switch {
	case paint.Style() == vecscene.StyleStroke:
		page.Stroke()
	case p.FillRule() == vecscene.EvenOdd:
		page.FillEvenOdd()
	default:
		page.Fill()
	}

	return page.Close()
}

// rasterise converts the first page of a PDF file into an 8-bit grayscale
// PNG at 72 dpi, so that one PDF unit maps to one pixel.
func rasterise(gs, pdfName, pngName string) error {
	cmd := exec.Command(gs, "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngName,
		pdfName,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ghostscript: %w\n%s", err, out)
	}
	return nil
}
