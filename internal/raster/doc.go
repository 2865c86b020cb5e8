// Package raster defines the in-memory image model shared by the HSHEX
// decoder, encoder, transformer and comparator.
//
// A Raster is a width x height grid of three-channel pixels stored as one
// contiguous slice in row-major order: the pixel at (x, y) lives at index
// y*width + x. Channels are 16-bit unsigned integers and are always ordered
// red, green, blue.
//
// # Ownership
//
// A Raster owns its pixel storage exclusively. Constructors either allocate
// fresh storage or take ownership of the slice they are given, and Clone
// returns a deep copy. Two rasters never share a backing array.
//
// # Invariant
//
// len(pixels) == width*height holds for every Raster obtained from New,
// FromPixels or Clone. The zero Raster is a valid empty 0x0 image.
package raster
