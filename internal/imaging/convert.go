package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	"github.com/xfmoulet/qoi"

	"github.com/ironsheep/hshex-tools/internal/raster"
)

// ErrUnsupportedFormat is returned by Export and Import for a file extension
// that maps to no known image format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ToImage converts r to a standard library image with origin (0,0).
//
// Rasters whose channels all fit in a byte become *image.NRGBA; anything
// wider becomes *image.NRGBA64 so no value is truncated. Alpha is always
// fully opaque.
func ToImage(r *raster.Raster) image.Image {
	bounds := image.Rect(0, 0, r.Width(), r.Height())

	if r.Depth() == 8 {
		img := image.NewNRGBA(bounds)
		for i := 0; i < r.Len(); i++ {
			p := r.Pixel(i)
			img.SetNRGBA(i%r.Width(), i/r.Width(), color.NRGBA{
				R: uint8(p.Red), G: uint8(p.Green), B: uint8(p.Blue), A: 0xff,
			})
		}
		return img
	}

	img := image.NewNRGBA64(bounds)
	for i := 0; i < r.Len(); i++ {
		p := r.Pixel(i)
		img.SetNRGBA64(i%r.Width(), i/r.Width(), color.NRGBA64{
			R: p.Red, G: p.Green, B: p.Blue, A: 0xffff,
		})
	}
	return img
}

// FromImage converts img to a raster, discarding alpha.
//
// Images with a 16-bit color model (*image.RGBA64, *image.NRGBA64,
// *image.Gray16) keep full 16-bit channels. Everything else is read as 8-bit
// non-premultiplied color, so channels range over 0-255.
func FromImage(img image.Image) *raster.Raster {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]raster.Pixel, 0, width*height)

	wide := false
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		wide = true
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if wide {
				c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
				pixels = append(pixels, raster.Pixel{Red: c.R, Green: c.G, Blue: c.B})
				continue
			}
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, raster.Pixel{Red: uint16(c.R), Green: uint16(c.G), Blue: uint16(c.B)})
		}
	}

	// Shape and pixel count agree by construction.
	r, _ := raster.FromPixels(width, height, pixels)
	return r
}

// ExportOptions controls Export.
type ExportOptions struct {
	// Scale multiplies both dimensions. Values other than 0 and 1 resize
	// with nearest-neighbour sampling, which keeps pixel edges sharp and
	// always produces 8-bit output.
	Scale float64
}

// Export writes r to path in the format implied by the file extension:
// ".qoi", or any extension supported by disintegration/imaging (".png",
// ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp").
//
// Parameters:
//   - r: The raster to export. Rasters whose channels all fit in a byte are
//     written as 8-bit, others as 16-bit where the format allows it.
//   - path: Destination file. Unlike hshex.WriteFile, the file is written in
//     place rather than through a temporary file.
//   - opts: Optional resize. The zero value writes the raster at its own size.
//
// Returns:
//   - error: Non-nil if nothing usable was written.
//
// # Errors
//
//   - Returns raster.ErrMalformed if r is nil or inconsistent with its shape
//   - Returns error if r has no pixels; no image format can hold a 0xN image
//   - Returns ErrUnsupportedFormat if the extension is not recognized
//   - Returns error if the file cannot be created or encoded
//
// # Example Usage
//
//	img, err := hshex.ReadFile("photo.hshex")
//	if err != nil {
//	    return err
//	}
//	// Write a 4x enlargement for viewing
//	err = imaging.Export(img, "photo.png", imaging.ExportOptions{Scale: 4})
func Export(r *raster.Raster, path string, opts ExportOptions) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if r.Len() == 0 {
		return fmt.Errorf("export %s: cannot write an empty %s image", path, r.Shape())
	}

	img := ToImage(r)
	if opts.Scale > 0 && opts.Scale != 1.0 {
		newWidth := max(1, int(float64(r.Width())*opts.Scale))
		newHeight := max(1, int(float64(r.Height())*opts.Scale))
		img = imaging.Resize(img, newWidth, newHeight, imaging.NearestNeighbor)
	}

	if isQOI(path) {
		return writeQOI(path, img)
	}

	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("export %s: %w", path, ErrUnsupportedFormat)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func writeQOI(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close image: %w", cerr)
		}
	}()

	if err := qoi.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode qoi image: %w", err)
	}
	return nil
}

// Import reads the image at path and converts it with FromImage. QOI files
// are decoded with xfmoulet/qoi; other formats go through bild's imgio.
func Import(path string) (*raster.Raster, error) {
	if isQOI(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()

		img, err := qoi.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode qoi image: %w", err)
		}
		return FromImage(img), nil
	}

	if _, err := imaging.FormatFromFilename(path); err != nil {
		return nil, fmt.Errorf("import %s: %w", path, ErrUnsupportedFormat)
	}

	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

func isQOI(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".qoi")
}
