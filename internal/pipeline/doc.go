// Package pipeline drives HSHEX files through the grayscale-and-compare
// process and through format conversion.
//
// # Jobs
//
// Work arrives as a flat argument list of INPUT OUTPUT pairs. ParseJobs
// turns it into []Job; anything other than a non-empty, even-length list is
// rejected with ErrUsage.
//
// # Processing
//
// For each job, Runner.Process:
//
//  1. decodes the input (through a cache, so an input named twice is read once)
//  2. converts it to grayscale
//  3. writes the grayscale image to the output path
//  4. compares original and grayscale and prints the counts to Config.Stdout
//  5. writes the grayscale image to the output path again
//
// A failure in steps 1, 2 or 4 ends the job; a failure in step 3 is logged
// and the job continues. Every failure is logged naming the file, and the
// next job runs regardless. Writes are atomic, so an output file is either
// complete or untouched.
//
// Runner.Run processes a job list in order and reports an error only when
// the final save of the last job fails. The commands use that error to pick
// their exit status.
//
// # Conversion
//
// Runner.Convert and Runner.ConvertAll translate between HSHEX and the
// common image formats handled by package imaging, choosing codecs by file
// extension.
//
// # Usage
//
//	jobs, err := pipeline.ParseJobs(os.Args[1:])
//	if err != nil {
//	    // print usage
//	}
//	runner := pipeline.New(pipeline.Config{})
//	if _, err := runner.Run(jobs); err != nil {
//	    os.Exit(1)
//	}
package pipeline
