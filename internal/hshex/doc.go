// Package hshex reads and writes the HSHEX text image format.
//
// An HSHEX file is line oriented:
//
//	HSHEX <width> <height>
//	<red> <green> <blue>
//	...
//
// The header carries the tag and two unsigned decimal dimensions. It is
// followed by width*height pixel records in row-major order (left to right,
// then top to bottom), one per line. Each record holds three hexadecimal
// channel values, without sign or "0x" prefix, in red, green, blue order.
// Channels are 16 bits wide.
//
// The decoder accepts any run of spaces or tabs between fields, skips blank
// lines, and accepts upper- or lowercase hex digits. The encoder always emits
// lowercase digits separated by a single space with one record per line, so
// Decode(Encode(r)) reproduces r exactly.
//
// # Errors
//
// Malformed content is reported as *FormatError, classified by Kind:
//   - KindInvalidHeader: missing tag, missing or extra dimensions, signs or
//     non-digits in a dimension
//   - KindInvalidPixelRecord: a record without exactly three fields, a token
//     that is not plain hex, or a file that ends early
//   - KindChannelOverflow: a channel that does not fit in 16 bits
//
// Stream and file failures are reported as *IOError.
//
// # Files
//
// ReadFile and WriteFile wrap Decode and Encode for paths. WriteFile goes
// through a temporary file and a rename, so a failed write never leaves a
// truncated image behind. Cache memoizes ReadFile for drivers that may see
// the same input more than once.
package hshex
