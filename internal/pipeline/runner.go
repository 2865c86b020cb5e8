package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/hshex-tools/internal/hshex"
	"github.com/ironsheep/hshex-tools/internal/imaging"
	"github.com/ironsheep/hshex-tools/internal/raster"
)

// ErrFinalSave is returned by Run when the last job's final write fails.
var ErrFinalSave = errors.New("final save failed")

// Step names the stage of a job that failed.
type Step string

const (
	StepDecode    Step = "decode"
	StepTransform Step = "transform"
	StepCompare   Step = "compare"
	StepFinalSave Step = "final save"
)

// Config holds runner settings. The zero value is usable.
type Config struct {
	// Stdout receives the per-job comparison counts. Defaults to os.Stdout.
	Stdout io.Writer

	// Logger receives failure and debug messages. Defaults to log.Default(),
	// which the commands point at stderr.
	Logger *log.Logger

	// Debug enables extra log lines: cache hits and the size of the
	// differences found by the comparison.
	Debug bool

	// ExportScale is passed to imaging.Export by Convert. 0 means 1.
	ExportScale float64
}

// Runner drives jobs through decode, grayscale, save, compare and the final
// save. It holds no per-job state; the only thing shared between jobs is the
// decoded-input cache, which hands out private copies.
type Runner struct {
	cfg    Config
	cache  *hshex.Cache
	stdout io.Writer
	logger *log.Logger
}

// New creates a runner from cfg.
func New(cfg Config) *Runner {
	r := &Runner{
		cfg:    cfg,
		cache:  hshex.NewCache(),
		stdout: cfg.Stdout,
		logger: cfg.Logger,
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Report is the outcome of one job.
type Report struct {
	Job Job

	// Comparison is set once the original and transformed rasters have
	// been compared.
	Comparison *imaging.Comparison

	// SaveErr is the error of the first write, if any. It does not stop the
	// job.
	SaveErr error

	// FailedStep and Err describe the failure that ended the job early, or
	// are empty when the job ran to completion.
	FailedStep Step
	Err        error
}

// OK reports whether every step of the job succeeded.
func (r Report) OK() bool {
	return r.Err == nil && r.SaveErr == nil
}

// Process runs a single job and reports what happened.
//
// The input is decoded (or taken from the runner's cache), converted to
// grayscale and written to the output. The original and grayscale rasters
// are then compared, the counts printed to the runner's stdout, and the
// output written a second time.
//
// Parameters:
//   - job: The input to read and the output to write. Output may name the
//     input itself, in which case the input is replaced.
//
// Returns:
//   - Report: Always populated. Comparison is set once the compare step
//     has run, even if a later step fails.
//
// Failures are logged naming the file involved. Process never panics on bad
// input and never leaves a partial output file.
//
// # Errors
//
// Errors are carried in the Report rather than returned:
//   - FailedStep StepDecode: the input is missing, unreadable or malformed;
//     nothing is written
//   - SaveErr: the first write failed; the job continues to the comparison
//   - FailedStep StepFinalSave: the second write failed after the counts
//     were printed
//
// # Example Usage
//
//	runner := pipeline.New(pipeline.Config{})
//	rep := runner.Process(pipeline.Job{Input: "a.hshex", Output: "a-gray.hshex"})
//	if !rep.OK() {
//	    log.Printf("%s failed at %s: %v", rep.Job, rep.FailedStep, rep.Err)
//	}
func (r *Runner) Process(job Job) Report {
	rep := Report{Job: job}

	src, cached, err := r.cache.Load(job.Input)
	if err != nil {
		r.logger.Printf("Failed to load image %s: %v", job.Input, err)
		return rep.fail(StepDecode, err)
	}
	if cached && r.cfg.Debug {
		r.logger.Printf("Using cached decode of %s", job.Input)
	}

	gray, err := imaging.Grayscale(src)
	if err != nil {
		r.logger.Printf("Failed to transform image %s: %v", job.Input, err)
		return rep.fail(StepTransform, err)
	}

	if err := r.save(job.Output, gray); err != nil {
		r.logger.Printf("Failed to save image to %s: %v", job.Output, err)
		rep.SaveErr = err
	}

	cmp, err := imaging.Compare(src, gray)
	if err != nil {
		r.logger.Printf("Failed to compare %s with its grayscale: %v", job.Input, err)
		return rep.fail(StepCompare, err)
	}
	rep.Comparison = &cmp
	if _, err := fmt.Fprintln(r.stdout, cmp); err != nil {
		r.logger.Printf("Failed to report comparison for %s: %v", job.Input, err)
	}
	if r.cfg.Debug {
		r.logSummary(job, src, gray)
	}

	if err := r.save(job.Output, gray); err != nil {
		r.logger.Printf("Saving image to %s failed: %v", job.Output, err)
		return rep.fail(StepFinalSave, err)
	}

	return rep
}

func (rep Report) fail(step Step, err error) Report {
	rep.FailedStep = step
	rep.Err = err
	return rep
}

// Run processes jobs in order, continuing past failures. It returns every
// report and an error wrapping ErrFinalSave only when the last job's final
// save failed; failures of earlier jobs do not affect the result.
//
// A decoded input stays cached only while a later job still names it, so
// memory does not grow with the length of the batch.
func (r *Runner) Run(jobs []Job) ([]Report, error) {
	remaining := make(map[string]int, len(jobs))
	for _, job := range jobs {
		remaining[hshex.CanonicalPath(job.Input)]++
	}

	reports := make([]Report, 0, len(jobs))
	for _, job := range jobs {
		reports = append(reports, r.Process(job))

		key := hshex.CanonicalPath(job.Input)
		remaining[key]--
		if remaining[key] <= 0 {
			r.cache.Evict(job.Input)
		}
	}

	if n := len(reports); n > 0 && reports[n-1].FailedStep == StepFinalSave {
		last := reports[n-1]
		return reports, fmt.Errorf("%w: %s: %w", ErrFinalSave, last.Job.Output, last.Err)
	}
	return reports, nil
}

// save writes img to path and drops path from the cache, so a later job
// that reads this file sees the new content.
func (r *Runner) save(path string, img *raster.Raster) error {
	defer r.cache.Evict(path)
	return hshex.WriteFile(path, img)
}

func (r *Runner) logSummary(job Job, src, gray *raster.Raster) {
	s, err := imaging.Summarize(src, gray)
	if err != nil {
		r.logger.Printf("Failed to summarize %s: %v", job.Input, err)
		return
	}
	r.logger.Printf("%s: %d identical, %d different, max channel delta %d, mean dE %.4f, max dE %.4f",
		job.Input, s.Identical, s.Different, s.MaxChannelDelta, s.MeanDeltaE, s.MaxDeltaE)
}
