package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/darwinbeing/fabrics/internal/models"
)

func TestCleanAndGenerateInvocations(t *testing.T) {
	tests := []struct {
		design   string
		wantDir  string
		wantVars []string
	}{
		{"axi4", filepath.Join("root", "axi4", "test"), []string{"TOP_FILE=axi4_crossbar.bsv", "TOP_MODULE=mkaxi4_crossbar"}},
		{"axi4l", filepath.Join("root", "axi4_lite", "test"), []string{"TOP_FILE=axi4l_crossbar.bsv", "TOP_MODULE=mkaxi4l_crossbar"}},
		{"apb", filepath.Join("root", "apb", "test"), []string{"TOP_FILE=apb_interconnect.bsv", "TOP_MODULE=mkapb_interconnect"}},
	}
	for _, tt := range tests {
		t.Run(tt.design, func(t *testing.T) {
			d, err := models.Lookup(tt.design)
			if err != nil {
				t.Fatal(err)
			}
			clean := CleanInvocation(d, "root")
			if diff := cmp.Diff(Invocation{Dir: tt.wantDir, Targets: []string{"clean"}}, clean); diff != "" {
				t.Errorf("CleanInvocation mismatch (-want +got):\n%s", diff)
			}
			gen := GenerateInvocation(d, "root")
			want := Invocation{Dir: tt.wantDir, Vars: tt.wantVars, Targets: []string{GenerateTarget}}
			if diff := cmp.Diff(want, gen); diff != "" {
				t.Errorf("GenerateInvocation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInvocation_Args(t *testing.T) {
	inv := Invocation{Dir: "docs", Vars: []string{"VERSION=1.2.0"}, Targets: []string{"latexpdf"}}
	if diff := cmp.Diff([]string{"-C", "docs", "VERSION=1.2.0", "latexpdf"}, inv.Args()); diff != "" {
		t.Errorf("Args() mismatch (-want +got):\n%s", diff)
	}
	if got := inv.String(); got != "make -C docs VERSION=1.2.0 latexpdf" {
		t.Errorf("String() = %q", got)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ""},
		{"timeout sentinel", &RunError{Err: fmt.Errorf("%w: signal: terminated", ErrTimeout)}, ErrorCategoryTimeout},
		{"deadline", context.DeadlineExceeded, ErrorCategoryTimeout},
		{"canceled", fmt.Errorf("%w: signal: terminated", context.Canceled), ErrorCategoryCanceled},
		{"unknown", errors.New("something else"), ErrorCategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategorizeError(tt.err); got != tt.want {
				t.Errorf("CategorizeError() = %v, want %v", got, tt.want)
			}
		})
	}
}
