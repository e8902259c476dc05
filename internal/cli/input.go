package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess           = 0
	ExitTaskFailure       = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

type TraceConfig struct {
	Enabled bool
	Path    string
}

// ProbeInvocation is the canonical description of a probe run.
//
// All paths are cleaned and relative paths are resolved against WorkDir,
// which must be absolute so nothing depends on the process working
// directory.
type ProbeInvocation struct {
	WorkDir    string
	TaskPath   string
	Trace      TraceConfig
	LogLevel   slog.Level
	Consumer   string
	Properties map[string]string

	OriginalTask  string
	OriginalTrace string
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// probeFlags holds the raw flag values of the probe command.
type probeFlags struct {
	workDir    string
	taskPath   string
	tracePath  string
	logLevel   string
	consumer   string
	properties map[string]string
}

func (f *probeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.workDir, "workdir", "", "Absolute working directory. Required.")
	fs.StringVar(&f.taskPath, "task", "", "Task definition (YAML). Required.")
	fs.StringVar(&f.tracePath, "trace", "", "Write the canonical access trace to this path (optional).")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	fs.StringVar(&f.consumer, "consumer", "", "Attribute unattributed reads to this consumer.")
	fs.StringToStringVar(&f.properties, "property", nil, "Property visible to ${prop:KEY} placeholders, as key=value. Repeatable.")
}

// invocation canonicalizes the flag values. Environment variables are never
// consulted.
func (f *probeFlags) invocation() (ProbeInvocation, error) {
	if strings.TrimSpace(f.workDir) == "" {
		return ProbeInvocation{}, invalidInvocationf("--workdir is required")
	}
	workDir := filepath.Clean(f.workDir)
	if !filepath.IsAbs(workDir) {
		return ProbeInvocation{}, invalidInvocationf("--workdir must be an absolute path (got %q)", workDir)
	}
	if f.taskPath == "" {
		return ProbeInvocation{}, invalidInvocationf("--task is required")
	}

	level, err := parseLogLevel(f.logLevel)
	if err != nil {
		return ProbeInvocation{}, err
	}
	taskPath, err := resolveUnderWorkDir(workDir, f.taskPath)
	if err != nil {
		return ProbeInvocation{}, err
	}

	inv := ProbeInvocation{
		WorkDir:       workDir,
		TaskPath:      taskPath,
		LogLevel:      level,
		Consumer:      f.consumer,
		Properties:    f.properties,
		OriginalTask:  f.taskPath,
		OriginalTrace: f.tracePath,
	}
	if strings.TrimSpace(f.tracePath) != "" {
		tracePath, err := resolveUnderWorkDir(workDir, f.tracePath)
		if err != nil {
			return ProbeInvocation{}, err
		}
		inv.Trace = TraceConfig{Enabled: true, Path: tracePath}
	}
	return inv, nil
}

// ParseInvocation parses probe flags into a canonical ProbeInvocation
// without running anything.
func ParseInvocation(args []string) (ProbeInvocation, error) {
	var inv ProbeInvocation
	cmd := newProbeCommand(func(_ *cobra.Command, parsed ProbeInvocation) error {
		inv = parsed
		return nil
	})
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return ProbeInvocation{}, err
	}
	return inv, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, invalidInvocationf("invalid --log-level %q (expected debug|info|warn|error)", raw)
	}
	return level, nil
}

func resolveUnderWorkDir(workDir, p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", invalidInvocationf("path must not be empty")
	}
	clean := filepath.Clean(p)
	if clean == "." {
		return "", invalidInvocationf("path must not be '.'")
	}
	if filepath.IsAbs(clean) {
		return clean, nil
	}
	// WorkDir is absolute, so Join does not consult the process CWD.
	return filepath.Clean(filepath.Join(workDir, clean)), nil
}

// ExitCode extracts a semantic exit code from an invocation error. Unknown
// errors map to ExitInternalError.
func ExitCode(err error) int {
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if err == nil {
		return ExitSuccess
	}
	return ExitInternalError
}
