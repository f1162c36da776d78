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
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"seehuhn.de/go/geom/matrix"
)

// TileMode selects how an image shader continues outside the image.
type TileMode int

const (
	// TileClamp repeats the edge pixels of the image.
	TileClamp TileMode = iota

	// TileRepeat repeats the whole image.  Not implemented.
	TileRepeat

	// TileMirror repeats the image with every other copy mirrored.
	// Not implemented.
	TileMirror
)

func (m TileMode) String() string {
	switch m {
	case TileClamp:
		return "clamp"
	case TileRepeat:
		return "repeat"
	case TileMirror:
		return "mirror"
	default:
		return "invalid"
	}
}

// Image is a decoded bitmap which can be drawn with [Renderer.DrawImage]
// or used as a paint source through [Image.MakeShader].
type Image struct {
	r   *Renderer
	img *image.RGBA
}

// NewImage returns an image which must be decoded before use.
func (r *Renderer) NewImage() *Image {
	return &Image{r: r}
}

// Decode parses a PNG, JPEG, GIF, BMP, TIFF or WebP file.  If decoding
// fails, the image is left empty.
//
// Each successful call allocates new pixel storage, so that pixels already
// handed to the canvas are never modified.
func (im *Image) Decode(data []byte) error {
	im.img = nil
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	im.img = dst
	Logger().Debug("image decoded",
		"format", format, "width", b.Dx(), "height", b.Dy())
	return nil
}

// Ready reports whether the image has been decoded successfully.
func (im *Image) Ready() bool {
	return im.img != nil
}

// Width returns the width in pixels, or 0 before decoding.
func (im *Image) Width() int {
	if im.img == nil {
		return 0
	}
	return im.img.Rect.Dx()
}

// Height returns the height in pixels, or 0 before decoding.
func (im *Image) Height() int {
	if im.img == nil {
		return 0
	}
	return im.img.Rect.Dy()
}

// ImageShader paints with the pixels of an image.
type ImageShader struct {
	img   *image.RGBA
	local matrix.Matrix
}

// MakeShader returns a paint source showing the image.  The matrix local
// maps image pixel coordinates to the coordinates of the drawn path.
// Only TileClamp is supported; other tile modes give a NotImplemented
// error.
func (im *Image) MakeShader(tileX, tileY TileMode, local matrix.Matrix) (*ImageShader, error) {
	const op = "Image.MakeShader"
	if im.img == nil {
		return nil, &Error{Op: op, Kind: KindNotReady}
	}
	if tileX != TileClamp || tileY != TileClamp {
		return nil, &Error{
			Op:   op,
			Kind: KindNotImplemented,
			Err:  fmt.Errorf("tile modes %s/%s", tileX, tileY),
		}
	}
	return &ImageShader{img: im.img, local: local}, nil
}

// Release removes all canvas nodes which were created by drawing im.
func (im *Image) Release() error {
	return im.r.release(im)
}
