package hshex

import (
	"bufio"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/hshex-tools/internal/raster"
)

// Magic is the tag that opens every HSHEX header line.
const Magic = "HSHEX"

const (
	// maxLineSize bounds a single header or record line.
	maxLineSize = 64 * 1024

	// maxPrealloc caps the pixel slice allocated up front from the header,
	// so a lying header cannot force a huge allocation before any record
	// has been read.
	maxPrealloc = 1 << 20
)

// lineReader yields the non-blank lines of an HSHEX stream split into
// whitespace-separated fields.
type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func newLineReader(r io.Reader) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &lineReader{scanner: scanner}
}

// next returns the fields of the next non-blank line and its 1-based line
// number. At the end of input it returns io.EOF.
func (lr *lineReader) next() ([]string, int, error) {
	for lr.scanner.Scan() {
		lr.line++
		fields := strings.Fields(lr.scanner.Text())
		if len(fields) > 0 {
			return fields, lr.line, nil
		}
	}
	if err := lr.scanner.Err(); err != nil {
		return nil, lr.line + 1, err
	}
	return nil, 0, io.EOF
}

// Decode reads one HSHEX image from r.
//
// The first non-blank line must be the header "HSHEX <width> <height>" with
// unsigned decimal dimensions. It is followed by width*height pixel records,
// one per non-blank line, each made of exactly three hexadecimal channel
// values in red, green, blue order. Pixels are stored in row-major order.
// Content after the last record is not read.
//
// # Errors
//
//   - *FormatError with KindInvalidHeader for a missing or malformed header
//   - *FormatError with KindInvalidPixelRecord for a record with the wrong
//     number of fields, a token that is not plain hexadecimal, or input
//     ending before all records were read
//   - *FormatError with KindChannelOverflow for a channel above 0xffff
//   - *IOError when reading from r fails
//
// No raster is returned on error.
func Decode(r io.Reader) (*raster.Raster, error) {
	lr := newLineReader(r)

	width, height, err := readHeader(lr)
	if err != nil {
		return nil, err
	}

	n := width * height
	pixels := make([]raster.Pixel, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		p, err := readRecord(lr, i)
		if err != nil {
			return nil, err
		}
		pixels = append(pixels, p)
	}

	return raster.FromPixels(width, height, pixels)
}

func readHeader(lr *lineReader) (int, int, error) {
	fields, line, err := lr.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, 0, headerError(0, "missing header")
		}
		if errors.Is(err, bufio.ErrTooLong) {
			return 0, 0, headerError(line, "header line too long")
		}
		return 0, 0, &IOError{Op: "read", Err: err}
	}

	if fields[0] != Magic {
		return 0, 0, headerError(line, "expected %q tag, got %q", Magic, fields[0])
	}
	if len(fields) != 3 {
		return 0, 0, headerError(line, "expected width and height, got %d values", len(fields)-1)
	}

	width, err := parseDimension(fields[1])
	if err != nil {
		return 0, 0, headerError(line, "invalid width %q", fields[1])
	}
	height, err := parseDimension(fields[2])
	if err != nil {
		return 0, 0, headerError(line, "invalid height %q", fields[2])
	}
	if width != 0 && height > math.MaxInt/width {
		return 0, 0, headerError(line, "dimensions %dx%d too large", width, height)
	}
	return width, height, nil
}

// parseDimension accepts unsigned decimal digits only.
func parseDimension(s string) (int, error) {
	v, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func readRecord(lr *lineReader, index int) (raster.Pixel, error) {
	fields, line, err := lr.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return raster.Pixel{}, recordError(KindInvalidPixelRecord, index, 0, nil, "unexpected end of input")
		}
		if errors.Is(err, bufio.ErrTooLong) {
			return raster.Pixel{}, recordError(KindInvalidPixelRecord, index, line, err, "record line too long")
		}
		return raster.Pixel{}, &IOError{Op: "read", Err: err}
	}

	if len(fields) != 3 {
		return raster.Pixel{}, recordError(KindInvalidPixelRecord, index, line, nil,
			"expected 3 channel values, got %d", len(fields))
	}

	var channels [3]uint16
	for c, tok := range fields {
		v, err := strconv.ParseUint(tok, 16, 16)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return raster.Pixel{}, recordError(KindChannelOverflow, index, line, err,
					"channel value %q exceeds 16 bits", tok)
			}
			return raster.Pixel{}, recordError(KindInvalidPixelRecord, index, line, err,
				"invalid hexadecimal channel %q", tok)
		}
		channels[c] = uint16(v)
	}

	return raster.Pixel{Red: channels[0], Green: channels[1], Blue: channels[2]}, nil
}
