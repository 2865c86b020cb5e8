package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/hshex-tools/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = "Usage: hshex-convert INPUTFILE OUTPUTFILE [INPUTFILE OUTPUTFILE ...]"

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// run executes the command and returns the process exit status. getenv
// supplies the environment.
func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	if len(args) == 1 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "hshex-convert %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			fmt.Fprintln(stdout, "hshex-convert - convert between HSHEX and common image formats")
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, usage)
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, "Formats are chosen by extension: .hshex, .png, .jpg, .jpeg, .gif,")
			fmt.Fprintln(stdout, ".tif, .tiff, .bmp and .qoi.")
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, "Environment variables:")
			fmt.Fprintln(stdout, "  HSHEX_LOG_LEVEL=debug     Enable debug logging")
			fmt.Fprintln(stdout, "  HSHEX_EXPORT_SCALE=<n>    Scale exported images by n (nearest-neighbour)")
			return 0
		}
	}

	jobs, err := pipeline.ParseJobs(args)
	if err != nil {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	cfg := pipeline.Config{Stdout: stdout, Debug: getenv("HSHEX_LOG_LEVEL") == "debug"}
	if s := getenv("HSHEX_EXPORT_SCALE"); s != "" {
		scale, err := strconv.ParseFloat(s, 64)
		if err != nil || scale <= 0 {
			fmt.Fprintf(stderr, "invalid HSHEX_EXPORT_SCALE %q\n", s)
			return 1
		}
		cfg.ExportScale = scale
	}

	if err := pipeline.New(cfg).ConvertAll(jobs); err != nil {
		return 1
	}
	return 0
}
