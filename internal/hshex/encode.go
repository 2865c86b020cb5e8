package hshex

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/ironsheep/hshex-tools/internal/raster"
)

// Encode writes img to w in HSHEX form: the header line followed by one
// "<red> <green> <blue>" line per pixel in row-major order, each channel in
// lowercase hexadecimal without a prefix.
//
// A malformed raster is rejected before anything is written. Write failures
// are returned as *IOError.
func Encode(w io.Writer, img *raster.Raster) error {
	if err := img.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s %d %d\n", Magic, img.Width(), img.Height()); err != nil {
		return &IOError{Op: "write", Err: err}
	}

	// One record is at most 3*4 hex digits plus separators.
	buf := make([]byte, 0, 16)
	for i := 0; i < img.Len(); i++ {
		p := img.Pixel(i)
		buf = strconv.AppendUint(buf[:0], uint64(p.Red), 16)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(p.Green), 16)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(p.Blue), 16)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return &IOError{Op: "write", Err: err}
		}
	}

	if err := bw.Flush(); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}
