//go:build unix

package build

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/darwinbeing/fabrics/internal/models"
)

const fakeMake = `#!/bin/sh
echo "args: $*"
for a in "$@"; do
  case "$a" in
    fail) echo "compile error" >&2; exit 3 ;;
    hang) sleep 30 ;;
  esac
done
exit 0
`

// writeFakeMake installs a shell script standing in for make and returns its path.
func writeFakeMake(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "make")
	if err := os.WriteFile(path, []byte(fakeMake), 0o755); err != nil {
		t.Fatalf("write fake make: %v", err)
	}
	return path
}

func TestMakeRunner_Success(t *testing.T) {
	var out bytes.Buffer
	r := NewMakeRunner(writeFakeMake(t), &out, 0, nil)
	d, _ := models.Lookup("axi4")
	if err := r.Run(context.Background(), GenerateInvocation(d, "/src")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "args: -C " + filepath.Join("/src", "axi4", "test") + " TOP_FILE=axi4_crossbar.bsv TOP_MODULE=mkaxi4_crossbar generate_instances"
	if !strings.Contains(out.String(), want) {
		t.Errorf("output = %q, want line %q", out.String(), want)
	}
}

func TestMakeRunner_NonZeroExit(t *testing.T) {
	var out bytes.Buffer
	r := NewMakeRunner(writeFakeMake(t), &out, 0, nil)
	inv := Invocation{Dir: "x", Targets: []string{"fail"}}
	err := r.Run(context.Background(), inv)
	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("Run() error = %v, want *RunError", err)
	}
	if runErr.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d, want 3", runErr.ExitCode())
	}
	if got := CategorizeError(err); got != ErrorCategoryExitStatus {
		t.Errorf("CategorizeError() = %q, want exit_status", got)
	}
	if !strings.Contains(out.String(), "compile error") {
		t.Errorf("stderr not merged into output: %q", out.String())
	}
	if !strings.Contains(err.Error(), "make -C x fail") {
		t.Errorf("error %q should name the invocation", err)
	}
}

func TestMakeRunner_Timeout(t *testing.T) {
	r := NewMakeRunner(writeFakeMake(t), &bytes.Buffer{}, 200*time.Millisecond, nil)
	r.Grace = 100 * time.Millisecond
	start := time.Now()
	err := r.Run(context.Background(), Invocation{Dir: "x", Targets: []string{"hang"}})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
	if got := CategorizeError(err); got != ErrorCategoryTimeout {
		t.Errorf("CategorizeError() = %q, want timeout", got)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Run() took %s; process group was not terminated", elapsed)
	}
}

func TestMakeRunner_Canceled(t *testing.T) {
	r := NewMakeRunner(writeFakeMake(t), &bytes.Buffer{}, 0, nil)
	r.Grace = 100 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)
	err := r.Run(ctx, Invocation{Dir: "x", Targets: []string{"hang"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if got := CategorizeError(err); got != ErrorCategoryCanceled {
		t.Errorf("CategorizeError() = %q, want canceled", got)
	}
}

func TestMakeRunner_MissingBinary(t *testing.T) {
	r := NewMakeRunner("fabricgen-no-such-make", &bytes.Buffer{}, 0, nil)
	err := r.Run(context.Background(), Invocation{Dir: "x", Targets: []string{"clean"}})
	if err == nil {
		t.Fatal("Run() expected error for missing binary")
	}
	if got := CategorizeError(err); got != ErrorCategoryToolMissing {
		t.Errorf("CategorizeError() = %q, want tool_missing", got)
	}
	var runErr *RunError
	if errors.As(err, &runErr) && runErr.ExitCode() != -1 {
		t.Errorf("ExitCode() = %d, want -1", runErr.ExitCode())
	}
}
