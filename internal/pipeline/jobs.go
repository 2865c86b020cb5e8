package pipeline

import (
	"errors"
	"fmt"
)

// ErrUsage is returned by ParseJobs when the arguments do not form a
// non-empty list of (input, output) pairs.
var ErrUsage = errors.New("arguments must be one or more INPUT OUTPUT pairs")

// Job is one unit of work: read Input, write Output.
type Job struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

func (j Job) String() string {
	return fmt.Sprintf("%s -> %s", j.Input, j.Output)
}

// ParseJobs pairs up command-line arguments (program name excluded) into
// jobs, in order. It fails with ErrUsage unless there is at least one pair
// and no argument is left over.
func ParseJobs(args []string) ([]Job, error) {
	if len(args) < 2 || len(args)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d arguments", ErrUsage, len(args))
	}

	jobs := make([]Job, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		jobs = append(jobs, Job{Input: args[i], Output: args[i+1]})
	}
	return jobs, nil
}
