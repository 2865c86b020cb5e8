package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/hshex-tools/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = "Usage: process INPUTFILE OUTPUTFILE [INPUTFILE OUTPUTFILE ...]"

func main() {
	// Configure logging to stderr (stdout carries the comparison counts)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv("HSHEX_LOG_LEVEL") == "debug"))
}

// run executes the command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer, debug bool) int {
	jobs, err := pipeline.ParseJobs(args)
	if err != nil {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	if debug {
		log.Printf("process v%s (built %s, commit %s): %d pairs", Version, BuildTime, GitCommit, len(jobs))
	}

	runner := pipeline.New(pipeline.Config{Stdout: stdout, Debug: debug})
	if _, err := runner.Run(jobs); err != nil {
		log.Printf("%v", err)
		return 1
	}
	return 0
}
