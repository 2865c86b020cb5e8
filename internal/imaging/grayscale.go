package imaging

import (
	"fmt"

	"github.com/ironsheep/hshex-tools/internal/raster"
)

// ITU-R BT.601 luma weights, in thousandths.
const (
	lumaRed   = 299
	lumaGreen = 587
	lumaBlue  = 114
	lumaScale = 1000
)

// Luma returns floor(0.299*red + 0.587*green + 0.114*blue) for p.
//
// The weighted sum is evaluated exactly in integer thousandths and truncated,
// never rounded. A pixel whose channels are all equal maps to that same value,
// so Luma is a fixed point on gray pixels.
func Luma(p raster.Pixel) uint16 {
	sum := lumaRed*uint32(p.Red) + lumaGreen*uint32(p.Green) + lumaBlue*uint32(p.Blue)
	return uint16(sum / lumaScale)
}

// Grayscale returns a new raster of the same shape as src in which every
// pixel has all three channels set to Luma of the corresponding source pixel.
//
// The source raster is not modified. An empty raster yields an empty raster.
// Grayscale fails only for a nil or malformed source.
func Grayscale(src *raster.Raster) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("grayscale: %w", err)
	}

	dst, err := raster.New(src.Width(), src.Height())
	if err != nil {
		return nil, fmt.Errorf("grayscale: %w", err)
	}

	for i := 0; i < src.Len(); i++ {
		gray := Luma(src.Pixel(i))
		dst.SetPixel(i, raster.Pixel{Red: gray, Green: gray, Blue: gray})
	}

	return dst, nil
}
