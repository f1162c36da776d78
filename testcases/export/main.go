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

// Command export writes the test case definitions to JSON.  With -png, it
// also renders every test case and writes one grayscale PNG per case.
// Run from the module root directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/vecscene"
	"seehuhn.de/go/vecscene/canvas"
	"seehuhn.de/go/vecscene/testcases"
)

func main() {
	configFile := flag.String("config", "", "YAML file with canvas settings")
	pngDir := flag.String("png", "", "directory for rendered PNG files")
	flag.Parse()

	if err := run(*configFile, *pngDir); err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
}

func run(configFile, pngDir string) error {
	var out struct {
		TestCases []jsonTestCase `json:"testcases"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			out.TestCases = append(out.TestCases, toJSON(category, tc))
		}
	}

	if err := os.MkdirAll("testdata", 0755); err != nil {
		return err
	}
	f, err := os.Create("testdata/testcases.json")
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if pngDir == "" {
		return nil
	}
	cfg := canvas.DefaultConfig()
	if configFile != "" {
		cfg, err = canvas.LoadConfig(configFile)
		if err != nil {
			return err
		}
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return renderAll(cfg, pngDir)
}

func renderAll(cfg *canvas.Config, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			img := image.NewGray(image.Rect(0, 0, tc.Width, tc.Height))
			err := vecscene.RenderExampleConfig(cfg, tc, img.Pix, tc.Width, tc.Height, img.Stride)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if err := writePNG(filepath.Join(dir, name+".png"), img); err != nil {
				return err
			}
		}
	}
	return nil
}

func writePNG(fname string, img image.Image) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type jsonTestCase struct {
	Name       string        `json:"name"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Path       []jsonSegment `json:"path"`
	CTM        []float64     `json:"ctm,omitempty"`
	Op         string        `json:"op"`
	FillRule   string        `json:"fill_rule,omitempty"`
	LineWidth  float64       `json:"line_width,omitempty"`
	LineCap    string        `json:"line_cap,omitempty"`
	LineJoin   string        `json:"line_join,omitempty"`
	MiterLimit float64       `json:"miter_limit,omitempty"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

func toJSON(category string, tc testcases.TestCase) jsonTestCase {
	jtc := jsonTestCase{
		Name:   category + "_" + tc.Name,
		Width:  tc.Width,
		Height: tc.Height,
		Path:   pathToJSON(tc.Path),
	}
	if tc.CTM != (matrix.Matrix{}) {
		jtc.CTM = tc.CTM[:]
	}

	switch op := tc.Op.(type) {
	case testcases.Fill:
		jtc.Op = "fill"
		if op.Rule == testcases.EvenOdd {
			jtc.FillRule = "evenodd"
		} else {
			jtc.FillRule = "nonzero"
		}
	case testcases.Stroke:
		jtc.Op = "stroke"
		jtc.LineWidth = op.Width
		jtc.LineCap = op.Cap.String()
		jtc.LineJoin = op.Join.String()
		jtc.MiterLimit = op.MiterLimit
	}
	return jtc
}

var cmdNames = map[path.Command]string{
	path.CmdMoveTo: "M",
	path.CmdLineTo: "L",
	path.CmdQuadTo: "Q",
	path.CmdCubeTo: "C",
	path.CmdClose:  "Z",
}

func pathToJSON(p *path.Data) []jsonSegment {
	var segs []jsonSegment
	for cmd, pts := range p.Iter() {
		seg := jsonSegment{Cmd: cmdNames[cmd], Pts: make([][]float64, len(pts))}
		for i, pt := range pts {
			seg.Pts[i] = []float64{pt.X, pt.Y}
		}
		segs = append(segs, seg)
	}
	return segs
}
