package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Task is a declarative description of a command whose ambient inputs are
// probed.
//
// Required: name, run
// Optional: inputs, env, outputs, properties
type Task struct {
	// Name identifies the task in logs and is the subject of its access
	// trace. It does not affect the fingerprint.
	Name string `json:"name" yaml:"name"`

	// Inputs is a list of file paths or glob patterns, relative to the
	// working directory unless absolute.
	Inputs []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	// Run is the shell command. ${NAME} placeholders read the host
	// environment and ${prop:KEY} placeholders read a property.
	Run string `json:"run" yaml:"run"`

	// Env is the complete environment of the command. Values may contain
	// placeholders.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`

	// Outputs is a list of paths the command is expected to produce.
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`

	// Properties are configuration values visible to placeholders.
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// ErrInvalidTask is returned for task definitions that fail validation.
var ErrInvalidTask = errors.New("invalid task")

// Validate checks the fields a probe cannot run without.
func (t *Task) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: task is nil", ErrInvalidTask)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTask)
	}
	if strings.TrimSpace(t.Run) == "" {
		return fmt.Errorf("%w: run is required", ErrInvalidTask)
	}
	for i, in := range t.Inputs {
		if strings.TrimSpace(in) == "" {
			return fmt.Errorf("%w: inputs[%d] is empty", ErrInvalidTask, i)
		}
	}
	for k := range t.Env {
		if k == "" || strings.ContainsAny(k, "=\x00") {
			return fmt.Errorf("%w: invalid env name %q", ErrInvalidTask, k)
		}
	}
	return nil
}

// LoadTask reads and validates a YAML task definition. Unknown fields are
// rejected.
//
// The definition is the tool's own configuration, so it is read without
// instrumentation.
func LoadTask(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task %q: %w", path, err)
	}
	return ParseTask(data)
}

// ParseTask decodes and validates a YAML task definition.
func ParseTask(data []byte) (*Task, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t Task
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty definition", ErrInvalidTask)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
