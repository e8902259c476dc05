// Package collections defines the container contracts that access tracking
// decorates.
//
// Go has no standard set or live map-view types, so this package provides
// them: a Set and a string Map contract, mutex-guarded implementations, the
// key and entry views of a map, and a read-only decorator used for
// environment snapshots.
//
// # Contracts
//
// Equality is element-wise (the set contract, not identity). Hashing is the
// sum of per-element hashes, so two equal containers always hash equal.
// Decorators that expose Unwrap are compared as the container they wrap.
//
// Iteration works on a snapshot taken under the container lock; callbacks
// and range-over-func bodies run with the lock released, so they may call
// back into the container.
package collections
