package extract

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"time"
)

// Runner is the seam between the extractor and the pdftotext binary, so
// tests can substitute canned output for the external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// stderr from a failed conversion can carry one line per damaged page; cap
// what ends up in the log.
const maxStderrLog = 8 << 10

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		detail := errb.String()
		if len(detail) > maxStderrLog {
			detail = detail[:maxStderrLog] + "...(truncated)"
		}
		slog.Error("extract.exec.failed",
			"cmd", name,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", detail,
		)
		return out.Bytes(), errb.Bytes(), err
	}

	slog.Debug("extract.exec.ok",
		"cmd", name,
		"elapsed_ms", time.Since(start).Milliseconds(),
		"stdout_bytes", out.Len(),
		"stderr_bytes", errb.Len(),
	)
	return out.Bytes(), errb.Bytes(), err
}
