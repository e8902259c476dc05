// Package core probes tasks for the ambient state they depend on.
//
// # Design Principles
//
//  1. A task declares its command, environment, inputs and properties.
//  2. Everything else it reads from the host is observed, not declared:
//     environment variables, properties, files and process launches are
//     recorded through an instrumented.Dispatcher while the task runs.
//  3. The fingerprint covers both, so an undeclared dependency that changes
//     also changes the fingerprint.
//
// # Core Types
//
// Task: the YAML task definition.
// Input: a resolved input file and its content.
// Prober: runs a task with tracking enabled and returns its access trace.
// TaskHasher: computes the fingerprint.
package core
