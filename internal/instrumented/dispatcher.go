package instrumented

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"

	"inputweaver/internal/collections"
)

// Dispatcher routes access reports to the active Listener.
//
// At most one listener is active; SetListener replaces it atomically and
// concurrent reporters see either the old or the new one. Reports are
// delivered synchronously on the reporting goroutine.
//
// Suppression is per goroutine: a goroutine inside a
// WithInstrumentationDisabled scope reports nothing and gets raw containers
// from the Wrap functions, while other goroutines keep reporting. Goroutines
// started inside the scope are not suppressed.
type Dispatcher struct {
	listener atomic.Pointer[listenerHolder]

	// disabled holds the IDs of suppressed goroutines.
	// Key: int64 (goroutine ID), Value: struct{}.
	disabled sync.Map

	workingDir func() (string, error)
	logger     *slog.Logger
}

// listenerHolder lets listeners of different dynamic types share one
// atomic.Pointer.
type listenerHolder struct {
	l Listener
}

var nopHolder = &listenerHolder{l: NopListener{}}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for listener lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithWorkingDir sets how relative file paths are made absolute before they
// are reported. The default is os.Getwd.
func WithWorkingDir(fn func() (string, error)) Option {
	return func(d *Dispatcher) {
		d.workingDir = fn
	}
}

// NewDispatcher creates a Dispatcher with the no-op listener installed.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		workingDir: os.Getwd,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.listener.Store(nopHolder)
	return d
}

// SetListener makes l the active listener. A nil l discards the listener.
func (d *Dispatcher) SetListener(l Listener) {
	if l == nil {
		d.DiscardListener()
		return
	}
	d.listener.Store(&listenerHolder{l: l})
	d.logger.Debug("instrumentation listener installed", "listener", fmt.Sprintf("%T", l))
}

// DiscardListener reinstalls the no-op listener.
func (d *Dispatcher) DiscardListener() {
	d.listener.Store(nopHolder)
	d.logger.Debug("instrumentation listener discarded")
}

// Listener returns the active listener, regardless of suppression.
func (d *Dispatcher) Listener() Listener {
	return d.listener.Load().l
}

// current returns the listener reports from the calling goroutine go to.
func (d *Dispatcher) current() Listener {
	if d.isDisabled() {
		return NopListener{}
	}
	return d.listener.Load().l
}

func (d *Dispatcher) isDisabled() bool {
	_, ok := d.disabled.Load(goid.Get())
	return ok
}

// DisabledForGoroutine is the guard returned by WithInstrumentationDisabled.
type DisabledForGoroutine struct {
	d   *Dispatcher
	gid int64
}

// Release re-enables reporting for the goroutine that acquired the guard.
// Releasing the zero guard does nothing.
func (g DisabledForGoroutine) Release() {
	if g.d == nil {
		return
	}
	g.d.disabled.Delete(g.gid)
}

// WithInstrumentationDisabled suppresses reporting on the calling goroutine
// until the returned guard is released.
//
// The flag is a plain boolean, not a counter: disabling twice and releasing
// once re-enables reporting. A guard that is never released keeps its
// goroutine suppressed and its entry held for the life of the dispatcher, so
// release it with defer.
func (d *Dispatcher) WithInstrumentationDisabled() DisabledForGoroutine {
	gid := goid.Get()
	d.disabled.Store(gid, struct{}{})
	return DisabledForGoroutine{d: d, gid: gid}
}

// EnvVariableQueried reports an environment variable read by an unknown consumer.
func (d *Dispatcher) EnvVariableQueried(key, value string, found bool) {
	d.current().EnvVariableQueried(key, value, found, "")
}

// EnvVariableQueriedBy reports an environment variable read by consumer.
func (d *Dispatcher) EnvVariableQueriedBy(key, value string, found bool, consumer string) {
	d.current().EnvVariableQueried(key, value, found, consumer)
}

// SystemPropertyQueried reports a property read by an unknown consumer.
func (d *Dispatcher) SystemPropertyQueried(key, value string, found bool) {
	d.current().SystemPropertyQueried(key, value, found, "")
}

// SystemPropertyQueriedBy reports a property read by consumer.
func (d *Dispatcher) SystemPropertyQueriedBy(key, value string, found bool, consumer string) {
	d.current().SystemPropertyQueried(key, value, found, consumer)
}

// ProcessStarted reports a started process given its argument vector.
func (d *Dispatcher) ProcessStarted(argv []string) {
	d.ProcessStartedBy(argv, "")
}

// ProcessStartedBy reports a process started by consumer.
func (d *Dispatcher) ProcessStartedBy(argv []string, consumer string) {
	d.current().ExternalProcessStarted(strings.Join(argv, " "), consumer)
}

// FileOpened reports an opened file. Relative paths are resolved against the
// working directory first.
func (d *Dispatcher) FileOpened(path string) {
	d.FileOpenedBy(path, "")
}

// FileOpenedBy reports a file opened by consumer.
func (d *Dispatcher) FileOpenedBy(path, consumer string) {
	if d.isDisabled() {
		return
	}
	d.current().FileOpened(d.absPath(path), consumer)
}

// absPath resolves path with reporting suppressed, so whatever the working
// directory lookup reads is not attributed to the caller.
func (d *Dispatcher) absPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	defer d.WithInstrumentationDisabled().Release()
	wd, err := d.workingDir()
	if err != nil {
		d.logger.Debug("working directory unavailable, reporting relative path", "path", path, "error", err)
		return path
	}
	return filepath.Join(wd, path)
}

// WrapEnvironment returns a tracking view of env that reports reads as
// environment variable queries, or env itself if the calling goroutine is
// suppressed.
func (d *Dispatcher) WrapEnvironment(env collections.Map) collections.Map {
	if d.isDisabled() {
		return env
	}
	return NewTrackingMap(env, d.EnvVariableQueried)
}

// WrapProperties returns a tracking view of props that reports reads as
// property queries, or props itself if the calling goroutine is suppressed.
func (d *Dispatcher) WrapProperties(props collections.Map) collections.Map {
	if d.isDisabled() {
		return props
	}
	return NewTrackingMap(props, d.SystemPropertyQueried)
}
