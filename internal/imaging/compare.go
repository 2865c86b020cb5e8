package imaging

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/hshex-tools/internal/raster"
)

// ShapeMismatchError is returned when two rasters with different dimensions
// are compared. No pixel is visited in that case.
type ShapeMismatchError struct {
	Source    raster.Shape
	Reference raster.Shape
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("cannot compare rasters of different shapes: source %s, reference %s", e.Source, e.Reference)
}

// Comparison is the per-pixel tally of two same-shaped rasters.
//
// Identical + Different always equals the number of pixels compared.
type Comparison struct {
	Identical int `json:"identical"`
	Different int `json:"different"`
}

// Total returns the number of pixels compared.
func (c Comparison) Total() int {
	return c.Identical + c.Different
}

func (c Comparison) String() string {
	return fmt.Sprintf("Identical Pixels: %d\nDifferent Pixels: %d", c.Identical, c.Different)
}

// Compare walks source and reference in lockstep and counts the positions
// whose pixels are identical in all three channels and those that differ in
// at least one.
//
// Returns *ShapeMismatchError when the widths or heights differ, and an error
// wrapping raster.ErrMalformed for nil or malformed rasters.
func Compare(source, reference *raster.Raster) (Comparison, error) {
	if err := checkComparable(source, reference); err != nil {
		return Comparison{}, err
	}

	var c Comparison
	for i := 0; i < source.Len(); i++ {
		if source.Pixel(i) == reference.Pixel(i) {
			c.Identical++
		} else {
			c.Different++
		}
	}
	return c, nil
}

func checkComparable(source, reference *raster.Raster) error {
	if err := source.Validate(); err != nil {
		return fmt.Errorf("compare source: %w", err)
	}
	if err := reference.Validate(); err != nil {
		return fmt.Errorf("compare reference: %w", err)
	}
	if source.Shape() != reference.Shape() {
		return &ShapeMismatchError{Source: source.Shape(), Reference: reference.Shape()}
	}
	return nil
}

// Summary extends Comparison with the size of the differences.
type Summary struct {
	Comparison

	// MaxChannelDelta is the largest absolute difference of any single
	// channel between corresponding pixels.
	MaxChannelDelta uint16 `json:"max_channel_delta"`

	// MeanDeltaE and MaxDeltaE are CIE76 distances in go-colorful's Lab
	// space (L in 0..1), taken over the differing pixels only. Both are 0
	// when nothing differs.
	MeanDeltaE float64 `json:"mean_delta_e"`
	MaxDeltaE  float64 `json:"max_delta_e"`
}

// Summarize compares source and reference like Compare and also measures how
// far apart the differing pixels are.
//
// Channels are normalised to 0..1 by the full range of the rasters' depth:
// 255 when every channel of both rasters fits in a byte, 65535 otherwise.
func Summarize(source, reference *raster.Raster) (Summary, error) {
	if err := checkComparable(source, reference); err != nil {
		return Summary{}, err
	}

	scale := float64(math.MaxUint8)
	if source.Depth() == 16 || reference.Depth() == 16 {
		scale = math.MaxUint16
	}

	var s Summary
	var totalDeltaE float64
	for i := 0; i < source.Len(); i++ {
		a, b := source.Pixel(i), reference.Pixel(i)
		if a == b {
			s.Identical++
			continue
		}
		s.Different++

		s.MaxChannelDelta = max(s.MaxChannelDelta,
			absDiff(a.Red, b.Red), absDiff(a.Green, b.Green), absDiff(a.Blue, b.Blue))

		d := toColorful(a, scale).DistanceCIE76(toColorful(b, scale))
		totalDeltaE += d
		s.MaxDeltaE = math.Max(s.MaxDeltaE, d)
	}
	if s.Different > 0 {
		s.MeanDeltaE = totalDeltaE / float64(s.Different)
	}
	return s, nil
}

func toColorful(p raster.Pixel, scale float64) colorful.Color {
	return colorful.Color{
		R: float64(p.Red) / scale,
		G: float64(p.Green) / scale,
		B: float64(p.Blue) / scale,
	}
}

func absDiff(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}
