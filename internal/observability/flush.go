package observability

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"go.uber.org/zap"
)

// FlushTelemetry flushes telemetry before process exit: the metrics textfile
// (when metricsFile is set) and buffered logs.
func FlushTelemetry(ctx context.Context, logger *zap.Logger, metricsFile string) error {
	if metricsFile != "" {
		if err := WriteMetricsFile(metricsFile); err != nil {
			return fmt.Errorf("write metrics file: %w", err)
		}
	}
	if logger != nil {
		// stderr attached to a terminal or pipe cannot be fsynced
		if err := logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
			return fmt.Errorf("flush logs: %w", err)
		}
	}
	return nil
}
