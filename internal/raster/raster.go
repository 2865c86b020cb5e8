package raster

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidShape is returned when a width or height is negative or
	// their product cannot be addressed.
	ErrInvalidShape = errors.New("invalid raster shape")

	// ErrMalformed is returned when a raster is nil or its pixel count does
	// not match its shape.
	ErrMalformed = errors.New("malformed raster")
)

// Pixel is one RGB sample with 16-bit channels.
type Pixel struct {
	Red   uint16 `json:"red"`
	Green uint16 `json:"green"`
	Blue  uint16 `json:"blue"`
}

// IsGray reports whether all three channels hold the same value.
func (p Pixel) IsGray() bool {
	return p.Red == p.Green && p.Green == p.Blue
}

// Shape is the (width, height) pair describing a raster's dimensions.
type Shape struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Area returns Width*Height.
func (s Shape) Area() int {
	return s.Width * s.Height
}

// Raster is an owned grid of pixels. See the package documentation for the
// layout and ownership rules.
type Raster struct {
	width  int
	height int
	pixels []Pixel
}

// New allocates a zero-filled raster of the given shape.
func New(width, height int) (*Raster, error) {
	n, err := area(width, height)
	if err != nil {
		return nil, err
	}
	return &Raster{width: width, height: height, pixels: make([]Pixel, n)}, nil
}

// FromPixels builds a raster around pixels, which must hold exactly
// width*height entries in row-major order. The raster takes ownership of the
// slice; the caller must not modify it afterwards.
func FromPixels(width, height int, pixels []Pixel) (*Raster, error) {
	n, err := area(width, height)
	if err != nil {
		return nil, err
	}
	if len(pixels) != n {
		return nil, fmt.Errorf("%w: %d pixels for shape %dx%d", ErrMalformed, len(pixels), width, height)
	}
	return &Raster{width: width, height: height, pixels: pixels}, nil
}

func area(width, height int) (int, error) {
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidShape, width, height)
	}
	if width != 0 && height > math.MaxInt/width {
		return 0, fmt.Errorf("%w: %dx%d overflows", ErrInvalidShape, width, height)
	}
	return width * height, nil
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.width }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.height }

// Shape returns the raster's dimensions.
func (r *Raster) Shape() Shape {
	return Shape{Width: r.width, Height: r.height}
}

// Len returns the number of pixels, always Width()*Height().
func (r *Raster) Len() int { return len(r.pixels) }

// Pixel returns the pixel at row-major index i. It panics if i is out of
// range, like a slice index.
func (r *Raster) Pixel(i int) Pixel { return r.pixels[i] }

// SetPixel replaces the pixel at row-major index i.
func (r *Raster) SetPixel(i int, p Pixel) { r.pixels[i] = p }

// At returns the pixel at column x, row y. The boolean is false when the
// coordinates fall outside the raster.
func (r *Raster) At(x, y int) (Pixel, bool) {
	if !r.inBounds(x, y) {
		return Pixel{}, false
	}
	return r.pixels[y*r.width+x], true
}

// Set writes the pixel at column x, row y and reports whether the
// coordinates were inside the raster.
func (r *Raster) Set(x, y int, p Pixel) bool {
	if !r.inBounds(x, y) {
		return false
	}
	r.pixels[y*r.width+x] = p
	return true
}

func (r *Raster) inBounds(x, y int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height
}

// Clone returns a deep copy that shares no storage with r.
func (r *Raster) Clone() *Raster {
	pixels := make([]Pixel, len(r.pixels))
	copy(pixels, r.pixels)
	return &Raster{width: r.width, height: r.height, pixels: pixels}
}

// Equal reports whether both rasters have the same shape and identical
// channel values at every index.
func (r *Raster) Equal(other *Raster) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.width != other.width || r.height != other.height || len(r.pixels) != len(other.pixels) {
		return false
	}
	for i := range r.pixels {
		if r.pixels[i] != other.pixels[i] {
			return false
		}
	}
	return true
}

// Validate returns ErrMalformed if r is nil or violates the pixel count
// invariant.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrMalformed)
	}
	if r.width < 0 || r.height < 0 || len(r.pixels) != r.width*r.height {
		return fmt.Errorf("%w: %d pixels for shape %dx%d", ErrMalformed, len(r.pixels), r.width, r.height)
	}
	return nil
}

// MaxChannel returns the largest channel value in the raster, or 0 for an
// empty raster.
func (r *Raster) MaxChannel() uint16 {
	var m uint16
	for _, p := range r.pixels {
		m = max(m, p.Red, p.Green, p.Blue)
	}
	return m
}

// Depth returns 8 when every channel fits in a byte and 16 otherwise.
func (r *Raster) Depth() int {
	if r.MaxChannel() <= math.MaxUint8 {
		return 8
	}
	return 16
}
