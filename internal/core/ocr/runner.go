package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/joseph-ayodele/ocr-fields/internal/common"
)

// Runner executes tesseract and pdftoppm; tests replace it with a fake.
type Runner interface {
	Run(ctx context.Context, name string, logger *slog.Logger, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, logger *slog.Logger, args ...string) ([]byte, []byte, error) {
	start := time.Now()
	logger.Debug("ocr.exec.start", "tool", name, "args", args)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		err = ctxErr
	}
	attrs := []any{"tool", name, "duration_ms", time.Since(start).Milliseconds()}
	if err != nil {
		logger.Error("ocr.exec.failed", append(attrs, "error", err, "stderr", clip(stderr.String(), 4<<10))...)
	} else {
		logger.Debug("ocr.exec.ok", append(attrs, "stdout_bytes", stdout.Len())...)
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// commandError wraps a failed external tool run as an OCR failure, keeping
// the first line of its stderr as the reason.
func commandError(tool string, err error, stderr []byte) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s is not installed or not on PATH", common.ErrOCR, tool)
	}
	reason, _, _ := strings.Cut(strings.TrimSpace(string(stderr)), "\n")
	if reason == "" {
		return fmt.Errorf("%w: %s: %w", common.ErrOCR, tool, err)
	}
	return fmt.Errorf("%w: %s: %w: %s", common.ErrOCR, tool, err, clip(reason, 200))
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
