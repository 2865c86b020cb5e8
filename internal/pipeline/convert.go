package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/hshex-tools/internal/imaging"
	"github.com/ironsheep/hshex-tools/internal/raster"
)

// Extension is the file extension that marks HSHEX files for Convert.
const Extension = ".hshex"

func isHSHEX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// Convert translates job.Input into job.Output, choosing codecs by file
// extension. HSHEX files are read with the HSHEX decoder and written
// atomically with the encoder; any other extension goes through
// imaging.Import or imaging.Export.
func (r *Runner) Convert(job Job) error {
	img, err := r.load(job.Input)
	if err != nil {
		return err
	}

	if isHSHEX(job.Output) {
		if err := r.save(job.Output, img); err != nil {
			return fmt.Errorf("convert %s: %w", job, err)
		}
		return nil
	}

	scale := r.cfg.ExportScale
	if scale == 0 {
		scale = 1
	}
	if err := imaging.Export(img, job.Output, imaging.ExportOptions{Scale: scale}); err != nil {
		return fmt.Errorf("convert %s: %w", job, err)
	}
	return nil
}

func (r *Runner) load(path string) (*raster.Raster, error) {
	if isHSHEX(path) {
		img, _, err := r.cache.Load(path)
		return img, err
	}
	return imaging.Import(path)
}

// ConvertAll runs Convert for every job, logging failures and carrying on.
// It returns the failures joined together, or nil if every job succeeded.
func (r *Runner) ConvertAll(jobs []Job) error {
	var errs []error
	for _, job := range jobs {
		if err := r.Convert(job); err != nil {
			r.logger.Printf("Failed to convert %s: %v", job, err)
			errs = append(errs, err)
			continue
		}
		if r.cfg.Debug {
			r.logger.Printf("Converted %s", job)
		}
	}
	return errors.Join(errs...)
}
