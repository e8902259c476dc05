package core

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"inputweaver/internal/instrumented"
	"inputweaver/internal/trace"
)

func newTestExecutor(t *testing.T) (*Executor, *trace.Recorder) {
	t.Helper()
	d := instrumented.NewDispatcher()
	rec := trace.NewRecorder()
	d.SetListener(rec)
	return NewExecutor(t.TempDir(), d), rec
}

// TestExecute_UndeclaredEnvVarsInvisible verifies the child does not inherit
// the host environment.
func TestExecute_UndeclaredEnvVarsInvisible(t *testing.T) {
	t.Setenv("SECRET_HOST_VAR", "should_not_see_this")
	executor, _ := newTestExecutor(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := executor.Execute(ctx, `echo "VAR=${SECRET_HOST_VAR:-unset}"`, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	stdout := string(result.Stdout)
	if strings.Contains(stdout, "should_not_see_this") {
		t.Errorf("command observed undeclared host variable: %s", stdout)
	}
	if !strings.Contains(stdout, "VAR=unset") {
		t.Errorf("expected VAR=unset, got: %s", stdout)
	}
}

// TestExecute_OnlyDeclaredEnvVarsVisible verifies the env allowlist.
func TestExecute_OnlyDeclaredEnvVarsVisible(t *testing.T) {
	executor, _ := newTestExecutor(t)

	result, err := executor.Execute(context.Background(), `echo "FOO=$FOO BAR=$BAR"`, map[string]string{
		"FOO": "hello",
		"BAR": "world",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := strings.TrimSpace(string(result.Stdout)); got != "FOO=hello BAR=world" {
		t.Errorf("unexpected stdout %q", got)
	}
}

// TestExecute_ReportsProcessStart verifies the launch is recorded with the
// joined argument vector.
func TestExecute_ReportsProcessStart(t *testing.T) {
	executor, rec := newTestExecutor(t)

	if _, err := executor.Execute(context.Background(), "true", nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	events := rec.Snapshot()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	if events[0].Kind != trace.EventProcessStarted || events[0].Key != "sh -c true" {
		t.Errorf("unexpected event %+v", events[0])
	}
}

// TestExecute_NonZeroExitIsResult verifies failures are captured, not errors.
func TestExecute_NonZeroExitIsResult(t *testing.T) {
	executor, _ := newTestExecutor(t)

	result, err := executor.Execute(context.Background(), "echo out; echo err >&2; exit 3", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", result.ExitCode)
	}
	if string(result.Stdout) != "out\n" || string(result.Stderr) != "err\n" {
		t.Errorf("unexpected output stdout=%q stderr=%q", result.Stdout, result.Stderr)
	}
}

// TestExecute_WorkingDirectory verifies the command runs in WorkingDir.
func TestExecute_WorkingDirectory(t *testing.T) {
	executor, _ := newTestExecutor(t)

	result, err := executor.Execute(context.Background(), "pwd", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	got := strings.TrimSpace(string(result.Stdout))
	want, _ := os.Stat(executor.WorkingDir)
	gotInfo, statErr := os.Stat(got)
	if statErr != nil || !os.SameFile(want, gotInfo) {
		t.Errorf("pwd = %q, want %q", got, executor.WorkingDir)
	}
}

// TestExecute_Cancellation kills the process group.
func TestExecute_Cancellation(t *testing.T) {
	executor, _ := newTestExecutor(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := executor.Execute(ctx, "sleep 10 & sleep 10; wait", map[string]string{"PATH": os.Getenv("PATH")})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancellation did not stop the command promptly")
	}
}

// TestExecute_EmptyCommand is rejected before anything starts.
func TestExecute_EmptyCommand(t *testing.T) {
	executor, rec := newTestExecutor(t)
	if _, err := executor.Execute(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty command")
	}
	if len(rec.Snapshot()) != 0 {
		t.Error("empty command must not be reported")
	}
}

func TestBuildIsolatedEnv(t *testing.T) {
	env := buildIsolatedEnv(nil)
	if env == nil || len(env) != 0 {
		t.Errorf("expected empty non-nil env, got %#v", env)
	}
	env = buildIsolatedEnv(map[string]string{"B": "2", "A": "1"})
	if strings.Join(env, ",") != "A=1,B=2" {
		t.Errorf("unexpected env %v", env)
	}
}
