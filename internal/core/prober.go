package core

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	"inputweaver/internal/collections"
	"inputweaver/internal/instrumented"
	"inputweaver/internal/telemetry"
	"inputweaver/internal/trace"
)

// Prober runs a task with access tracking enabled and fingerprints
// everything the task turned out to depend on.
//
// A probe:
//  1. Installs a trace.Recorder as the dispatcher's listener.
//  2. Expands placeholders in env and run through the tracked host
//     environment and a tracked property store.
//  3. Reads the inputs through the dispatcher.
//  4. Starts the command through the dispatcher.
//  5. Restores the previous listener.
//
// Reads by other goroutines while a probe is running are recorded too,
// since a dispatcher has a single listener.
type Prober struct {
	WorkingDir string

	Dispatcher *instrumented.Dispatcher
	Resolver   *InputResolver
	Executor   *Executor
	Hasher     *TaskHasher

	// Properties override the task's own properties.
	Properties map[string]string

	// Consumer attributes reports that carry no consumer.
	Consumer string

	// Metrics, when set, counts every report of a probe.
	Metrics *telemetry.Metrics

	Logger *slog.Logger
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithDispatcher reports through d instead of the process-wide dispatcher.
func WithDispatcher(d *instrumented.Dispatcher) ProberOption {
	return func(p *Prober) { p.Dispatcher = d }
}

// WithProperties overrides task properties with props.
func WithProperties(props map[string]string) ProberOption {
	return func(p *Prober) { p.Properties = props }
}

// WithConsumer attributes unattributed reports to consumer.
func WithConsumer(consumer string) ProberOption {
	return func(p *Prober) { p.Consumer = consumer }
}

// WithMetrics counts every report in m.
func WithMetrics(m *telemetry.Metrics) ProberOption {
	return func(p *Prober) { p.Metrics = m }
}

// WithLogger sets the logger for probe progress.
func WithLogger(logger *slog.Logger) ProberOption {
	return func(p *Prober) { p.Logger = logger }
}

// NewProber creates a Prober rooted at workingDir.
func NewProber(workingDir string, opts ...ProberOption) *Prober {
	p := &Prober{
		WorkingDir: workingDir,
		Dispatcher: instrumented.Default(),
		Hasher:     NewTaskHasher(),
		Logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Resolver = NewInputResolver(workingDir, p.Dispatcher.ReadFile)
	p.Executor = NewExecutor(workingDir, p.Dispatcher)
	return p
}

// ProbeResult is the outcome of a probe.
type ProbeResult struct {
	// RunID identifies the probe in logs.
	RunID string

	Trace     trace.AccessTrace
	TraceHash string

	// Fingerprint covers the declared task and TraceHash.
	Fingerprint TaskHash

	Inputs *InputSet

	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Probe runs task and returns its access trace and fingerprint.
//
// A non-zero exit code is reported in the result, not as an error. The
// previous listener is restored even when the probe fails.
func (p *Prober) Probe(ctx context.Context, task *Task) (*ProbeResult, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := p.Logger.With("run_id", runID, "task", task.Name)

	rec := trace.NewRecorder()
	var listener instrumented.Listener = instrumented.Attributed(rec, p.Consumer)
	if p.Metrics != nil {
		listener = p.Metrics.Listener(listener)
	}
	previous := p.Dispatcher.Listener()
	p.Dispatcher.SetListener(listener)
	defer p.Dispatcher.SetListener(previous)

	logger.Debug("probe started", "working_dir", p.WorkingDir)

	hostEnv := p.Dispatcher.Environ()
	props := p.Dispatcher.WrapProperties(collections.NewHashMap(p.properties(task)))

	fromHost := func(name string) string {
		v, _ := hostEnv.Get(name)
		return v
	}
	fromProps := func(key string) string {
		v, _ := props.Get(key)
		return v
	}

	// Declared values are expanded in key order so the trace does not depend
	// on map iteration.
	env := make(map[string]string, len(task.Env))
	for _, k := range slices.Sorted(maps.Keys(task.Env)) {
		env[k] = Expand(task.Env[k], fromHost, fromProps)
	}
	run := Expand(task.Run, func(name string) string {
		if v, ok := env[name]; ok {
			return v
		}
		return fromHost(name)
	}, fromProps)

	inputs, err := p.Resolver.Resolve(task.Inputs)
	if err != nil {
		return nil, fmt.Errorf("resolving inputs: %w", err)
	}
	logger.Debug("inputs resolved", "count", len(inputs.Inputs))

	res, err := p.Executor.Execute(ctx, run, env)
	if err != nil {
		return nil, fmt.Errorf("executing task: %w", err)
	}

	tr := rec.Trace(task.Name)
	traceHash, err := tr.Hash()
	if err != nil {
		return nil, fmt.Errorf("hashing access trace: %w", err)
	}

	fingerprint := p.Hasher.ComputeHash(HashInput{
		Inputs:          inputs,
		Command:         task.Run,
		Env:             task.Env,
		Properties:      p.properties(task),
		Outputs:         task.Outputs,
		WorkingDir:      p.WorkingDir,
		AccessTraceHash: traceHash,
	})

	logger.Info("probe finished",
		"exit_code", res.ExitCode,
		"events", len(tr.Events),
		"fingerprint", fingerprint.String(),
	)

	return &ProbeResult{
		RunID:       runID,
		Trace:       tr,
		TraceHash:   traceHash,
		Fingerprint: fingerprint,
		Inputs:      inputs,
		Stdout:      res.Stdout,
		Stderr:      res.Stderr,
		ExitCode:    res.ExitCode,
	}, nil
}

// properties merges the task's properties with the prober's overrides.
func (p *Prober) properties(task *Task) map[string]string {
	out := make(map[string]string, len(task.Properties)+len(p.Properties))
	maps.Copy(out, task.Properties)
	maps.Copy(out, p.Properties)
	return out
}
