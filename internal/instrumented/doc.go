// Package instrumented tracks reads of ambient process state so that a build
// cache can treat them as declared inputs.
//
// # Core Types
//
// TrackingSet and TrackingMap stand in for a real set or string map and turn
// every observed read into a report. Point reads (Get, Contains, Remove)
// report exactly the key involved. Aggregate reads (Len, IsEmpty, iteration,
// Equal, Hash, ToSlice, Range) report every pair currently held, because the
// whole container became observable. Writes are never reported.
//
// Dispatcher forwards reports to a single, atomically swappable Listener and
// lets a goroutine suppress its own reports for a scope:
//
//	defer d.WithInstrumentationDisabled().Release()
//
// While suppressed, reports from that goroutine are dropped and the Wrap
// functions hand back the raw container.
//
// # Interception Points
//
// Code that should be tracked calls LookupEnv, Environ, Open, ReadFile and
// StartProcess instead of the os and os/exec equivalents. The package-level
// functions use the process-wide Default dispatcher; everything else should
// receive a *Dispatcher explicitly.
package instrumented
