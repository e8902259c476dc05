package instrumented

import (
	"os"
	"os/exec"

	"inputweaver/internal/collections"
)

// defaultDispatcher is the single process-wide slot. Library code should take
// a *Dispatcher instead; only the process entry point installs listeners here,
// one writer at a time.
var defaultDispatcher = NewDispatcher()

// Default returns the process-wide dispatcher.
func Default() *Dispatcher {
	return defaultDispatcher
}

// SetListener installs l on the process-wide dispatcher.
func SetListener(l Listener) {
	defaultDispatcher.SetListener(l)
}

// DiscardListener reinstalls the no-op listener on the process-wide dispatcher.
func DiscardListener() {
	defaultDispatcher.DiscardListener()
}

// WithInstrumentationDisabled suppresses reporting for the calling goroutine
// on the process-wide dispatcher.
func WithInstrumentationDisabled() DisabledForGoroutine {
	return defaultDispatcher.WithInstrumentationDisabled()
}

// LookupEnv is Default().LookupEnv.
func LookupEnv(key string) (string, bool) {
	return defaultDispatcher.LookupEnv(key)
}

// Getenv is Default().Getenv.
func Getenv(key string) string {
	return defaultDispatcher.Getenv(key)
}

// Environ is Default().Environ.
func Environ() collections.Map {
	return defaultDispatcher.Environ()
}

// Open is Default().Open.
func Open(name string) (*os.File, error) {
	return defaultDispatcher.Open(name)
}

// ReadFile is Default().ReadFile.
func ReadFile(name string) ([]byte, error) {
	return defaultDispatcher.ReadFile(name)
}

// StartProcess is Default().StartProcess.
func StartProcess(cmd *exec.Cmd) error {
	return defaultDispatcher.StartProcess(cmd)
}
