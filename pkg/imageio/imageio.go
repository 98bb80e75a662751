// Package imageio decodes microscopy images into display-ready pixel
// buffers and lists sibling images for prev/next navigation. It plays the
// image-supplying collaborator role for the mask authoring engine; the
// engine itself never touches files other than mask files.
package imageio

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/go-cellseg/cellseg/pkg/errors"
)

// Image is a decoded image with its channels normalized to 8-bit for
// display. High-bit-depth grayscale data is min/max stretched; a flat
// image maps to zero.
type Image struct {
	Path   string
	Width  int
	Height int

	channels []*image.Gray
	rgba     *image.RGBA
}

// Load decodes the image at path. TIFF (8- and 16-bit grayscale, RGB) and
// PNG are supported.
func Load(path string) (*Image, error) {
	const op = "imageio.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, &errors.SegError{Op: op, Kind: errors.KindIO, Err: err, Path: path}
	}
	defer f.Close()

	var src image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		src, err = tiff.Decode(f)
	case ".png":
		src, err = png.Decode(f)
	default:
		src, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, &errors.SegError{Op: op, Kind: errors.KindDecode, Err: err, Path: path}
	}

	img := fromDecoded(src)
	img.Path = path
	return img, nil
}

func fromDecoded(src image.Image) *Image {
	bounds := src.Bounds()
	img := &Image{Width: bounds.Dx(), Height: bounds.Dy()}

	switch typed := src.(type) {
	case *image.Gray:
		img.channels = []*image.Gray{translated(typed)}
	case *image.Gray16:
		img.channels = []*image.Gray{stretch16(typed)}
	default:
		rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
		img.rgba = rgba
		img.channels = splitRGB(rgba)
	}
	return img
}

// NumChannels returns the number of selectable channels: one for
// grayscale, three (R, G, B) for color.
func (img *Image) NumChannels() int { return len(img.channels) }

// Channel returns channel i as an 8-bit grayscale frame. Out-of-range
// indices fall back to channel 0.
func (img *Image) Channel(i int) *image.Gray {
	if i < 0 || i >= len(img.channels) {
		i = 0
	}
	return img.channels[i]
}

// RGBA returns the full-color frame for color images, or the grayscale
// data expanded to RGBA.
func (img *Image) RGBA() *image.RGBA {
	if img.rgba != nil {
		return img.rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	draw.Draw(rgba, rgba.Bounds(), img.channels[0], image.Point{}, draw.Src)
	return rgba
}

// translated re-anchors a grayscale frame at the origin.
func translated(src *image.Gray) *image.Gray {
	if src.Bounds().Min == (image.Point{}) {
		return src
	}
	out := image.NewGray(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}

// stretch16 maps 16-bit grayscale onto 8 bits with a min/max stretch.
func stretch16(src *image.Gray16) *image.Gray {
	bounds := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	lo, hi := uint16(0xFFFF), uint16(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := src.Gray16At(x, y).Y
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo {
		return out
	}
	span := uint32(hi - lo)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := uint32(src.Gray16At(x, y).Y-lo) * 255 / span
			out.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: uint8(v)})
		}
	}
	return out
}

func splitRGB(src *image.RGBA) []*image.Gray {
	bounds := src.Bounds()
	chans := make([]*image.Gray, 3)
	for i := range chans {
		chans[i] = image.NewGray(bounds)
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := src.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				chans[c].SetGray(x, y, color.Gray{Y: src.Pix[i+c]})
			}
		}
	}
	return chans
}

// Siblings lists the TIFF images in path's directory, sorted by name, and
// the index of path among them (-1 when absent).
func Siblings(path string) ([]string, int, error) {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, -1, &errors.SegError{Op: "imageio.Siblings", Kind: errors.KindIO, Err: err, Path: dir}
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".tif", ".tiff":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	index := -1
	for i, f := range files {
		if f == path {
			index = i
			break
		}
	}
	return files, index, nil
}
