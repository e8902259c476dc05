package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"syscall"

	"inputweaver/internal/instrumented"
)

// ExecutionResult is the captured outcome of a command.
type ExecutionResult struct {
	Stdout []byte
	Stderr []byte

	// ExitCode is the process exit code. A non-zero code is a result, not an
	// error.
	ExitCode int
}

// Executor runs task commands through a dispatcher so that the start is
// reported as a process launch.
//
// The child sees only the environment it is given: nothing is inherited from
// the host, including PATH.
type Executor struct {
	WorkingDir string
	Dispatcher *instrumented.Dispatcher
}

// NewExecutor creates an Executor. A nil dispatcher uses the default one.
func NewExecutor(workingDir string, d *instrumented.Dispatcher) *Executor {
	if d == nil {
		d = instrumented.Default()
	}
	return &Executor{WorkingDir: workingDir, Dispatcher: d}
}

// Execute runs "sh -c command" with exactly env. Cancelling ctx kills the
// whole process group.
func (e *Executor) Execute(ctx context.Context, command string, env map[string]string) (*ExecutionResult, error) {
	if command == "" {
		return nil, errors.New("command is empty")
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = e.WorkingDir
	cmd.Env = buildIsolatedEnv(env)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := e.Dispatcher.StartProcess(cmd); err != nil {
		return nil, fmt.Errorf("starting command: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			// Negative pid signals the group.
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
		return nil, fmt.Errorf("execution cancelled: %w", ctx.Err())
	case err = <-done:
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("running command: %w", err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &ExecutionResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode,
	}, nil
}

// buildIsolatedEnv returns env as sorted KEY=value entries. The result is
// never nil, so exec does not fall back to the host environment.
func buildIsolatedEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	slices.Sort(out)
	return out
}
