package pipeline

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseJobs(t *testing.T) {
	jobs, err := ParseJobs([]string{"a.hshex", "b.hshex", "c.hshex", "d.hshex"})
	if err != nil {
		t.Fatalf("ParseJobs failed: %v", err)
	}

	want := []Job{
		{Input: "a.hshex", Output: "b.hshex"},
		{Input: "c.hshex", Output: "d.hshex"},
	}
	if !reflect.DeepEqual(jobs, want) {
		t.Errorf("got %+v, want %+v", jobs, want)
	}
}

func TestParseJobs_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"input only", []string{"in.hshex"}},
		{"dangling input", []string{"in.hshex", "out.hshex", "extra.hshex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := ParseJobs(tt.args)
			if !errors.Is(err, ErrUsage) {
				t.Errorf("got %v, want ErrUsage", err)
			}
			if jobs != nil {
				t.Errorf("no jobs should be returned, got %+v", jobs)
			}
		})
	}
}

func TestJobString(t *testing.T) {
	j := Job{Input: "in.hshex", Output: "out.hshex"}
	if j.String() != "in.hshex -> out.hshex" {
		t.Errorf("got %q", j.String())
	}
}
