// Package imaging provides the pixel operations applied to HSHEX rasters.
//
// All functions take *raster.Raster values and never modify their inputs;
// operations that produce an image return a freshly allocated raster.
//
// # Grayscale
//
// Grayscale replaces every pixel with its BT.601 luma,
//
//	gray = floor(0.299*red + 0.587*green + 0.114*blue)
//
// written into all three channels. The sum is evaluated exactly (in integer
// thousandths) and truncated, so already-gray pixels are fixed points and
// Grayscale(Grayscale(r)) equals Grayscale(r).
//
// # Comparison
//
// Compare counts pixel positions that are identical in all three channels
// versus those that differ in any channel. The two counts always add up to
// the pixel count. Summarize adds the size of the differences, including a
// CIE76 distance computed with go-colorful.
//
// Comparing rasters of different shapes fails with *ShapeMismatchError
// before any pixel is visited.
//
// # Conversion
//
// ToImage and FromImage bridge rasters and the standard image.Image types.
// Export and Import build on them to write and read PNG, JPEG, GIF, TIFF,
// BMP (through disintegration/imaging and bild) and QOI files.
//
// # Thread Safety
//
// Every function here is stateless and may be called concurrently on
// different rasters.
package imaging
