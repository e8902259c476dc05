package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"inputweaver/internal/core"
	"inputweaver/internal/instrumented"
	"inputweaver/internal/telemetry"
)

type CLIResult struct {
	ExitCode int
	Probe    *core.ProbeResult
}

// ProbeSummary is the JSON document printed on stdout.
type ProbeSummary struct {
	RunID       string          `json:"run_id"`
	Task        string          `json:"task"`
	ExitCode    int             `json:"exit_code"`
	TraceHash   string          `json:"trace_hash"`
	Fingerprint string          `json:"fingerprint"`
	Inputs      []string        `json:"inputs"`
	Stdout      string          `json:"stdout"`
	Stderr      string          `json:"stderr"`
	Trace       json.RawMessage `json:"trace"`
}

// Execute probes the task named by inv.
//
// Exit codes:
//   - ExitSuccess: the task ran and exited 0.
//   - ExitTaskFailure: the task ran and exited non-zero.
//   - ExitConfigError: the task definition could not be loaded.
//   - ExitInternalError: anything else.
//
// The trace file, when requested, is written for failing tasks too.
func Execute(ctx context.Context, inv ProbeInvocation, stdout, stderr io.Writer) (res CLIResult, execErr error) {
	res.ExitCode = ExitInternalError
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: inv.LogLevel}))

	task, err := core.LoadTask(inv.TaskPath)
	if err != nil {
		res.ExitCode = ExitConfigError
		return res, fmt.Errorf("loading task: %w", err)
	}

	reg := prometheus.NewRegistry()
	d := instrumented.NewDispatcher(
		instrumented.WithLogger(logger),
		instrumented.WithWorkingDir(func() (string, error) { return inv.WorkDir, nil }),
	)
	prober := core.NewProber(inv.WorkDir,
		core.WithDispatcher(d),
		core.WithLogger(logger),
		core.WithConsumer(inv.Consumer),
		core.WithProperties(inv.Properties),
		core.WithMetrics(telemetry.NewMetrics(reg)),
	)

	pr, err := prober.Probe(ctx, task)
	if err != nil {
		if errors.Is(err, core.ErrInvalidTask) {
			res.ExitCode = ExitConfigError
		}
		return res, fmt.Errorf("probing task %q: %w", task.Name, err)
	}
	res.Probe = pr

	traceJSON, err := pr.Trace.CanonicalJSON()
	if err != nil {
		return res, fmt.Errorf("encoding trace: %w", err)
	}
	if inv.Trace.Enabled {
		if err := os.MkdirAll(filepath.Dir(inv.Trace.Path), 0o755); err != nil {
			return res, fmt.Errorf("create trace dir: %w", err)
		}
		if err := writeFileAtomic(inv.Trace.Path, traceJSON, 0o644); err != nil {
			return res, fmt.Errorf("writing trace: %w", err)
		}
		logger.Debug("trace written", "path", inv.Trace.Path)
	}

	logMetrics(logger, reg)

	summary := ProbeSummary{
		RunID:       pr.RunID,
		Task:        task.Name,
		ExitCode:    pr.ExitCode,
		TraceHash:   pr.TraceHash,
		Fingerprint: pr.Fingerprint.String(),
		Inputs:      pr.Inputs.Paths(),
		Stdout:      string(pr.Stdout),
		Stderr:      string(pr.Stderr),
		Trace:       traceJSON,
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return res, fmt.Errorf("writing summary: %w", err)
	}

	if pr.ExitCode != 0 {
		res.ExitCode = ExitTaskFailure
		return res, nil
	}
	res.ExitCode = ExitSuccess
	return res, nil
}

// logMetrics logs every counter gathered from reg at debug level.
func logMetrics(logger *slog.Logger, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		logger.Warn("gathering metrics failed", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			attrs := []any{"metric", mf.GetName(), "value", m.GetCounter().GetValue()}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			logger.Debug("access reports", attrs...)
		}
	}
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
