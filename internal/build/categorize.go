package build

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
)

// ErrorCategory is a stable label for build failure classification in metrics.
type ErrorCategory string

// Error category constants used as the category label of buildFailuresTotal.
const (
	ErrorCategoryTimeout     ErrorCategory = "timeout"
	ErrorCategoryCanceled    ErrorCategory = "canceled"
	ErrorCategoryToolMissing ErrorCategory = "tool_missing"
	ErrorCategoryExitStatus  ErrorCategory = "exit_status"
	ErrorCategoryUnknown     ErrorCategory = "unknown"
)

// CategorizeError maps a Runner error to a stable ErrorCategory.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorCategoryTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCategoryCanceled
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return ErrorCategoryToolMissing
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ErrorCategoryExitStatus
	}
	return ErrorCategoryUnknown
}
