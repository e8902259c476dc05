package instrumented

//go:generate mockgen -source listener.go -destination listener_mocks.go -package instrumented

// Listener receives access reports.
//
// Every callback runs synchronously on the goroutine that performed the read,
// before the read returns, so implementations must be fast. Panics are not
// recovered and reach the caller of the tracked operation.
//
// consumer identifies the code that performed the read; "" means unknown.
type Listener interface {
	// SystemPropertyQueried is invoked when code reads a configuration
	// property. found is false when the key is absent.
	SystemPropertyQueried(key, value string, found bool, consumer string)

	// EnvVariableQueried is invoked when code reads an environment variable.
	// found is false when the variable is not set.
	EnvVariableQueried(key, value string, found bool, consumer string)

	// ExternalProcessStarted is invoked when code starts an external process.
	// command is the argument vector joined by single spaces without any
	// escaping, so it is meant for reporting only.
	ExternalProcessStarted(command, consumer string)

	// FileOpened is invoked when code opens a file. path is absolute.
	FileOpened(path, consumer string)
}

// NopListener discards all reports.
type NopListener struct{}

func (NopListener) SystemPropertyQueried(string, string, bool, string) {}
func (NopListener) EnvVariableQueried(string, string, bool, string)    {}
func (NopListener) ExternalProcessStarted(string, string)              {}
func (NopListener) FileOpened(string, string)                          {}

// Attributed returns a listener that fills in consumer for reports that
// arrive without one and forwards them to next.
func Attributed(next Listener, consumer string) Listener {
	if consumer == "" {
		return next
	}
	return attributed{next: next, consumer: consumer}
}

type attributed struct {
	next     Listener
	consumer string
}

func (a attributed) or(consumer string) string {
	if consumer == "" {
		return a.consumer
	}
	return consumer
}

func (a attributed) SystemPropertyQueried(key, value string, found bool, consumer string) {
	a.next.SystemPropertyQueried(key, value, found, a.or(consumer))
}

func (a attributed) EnvVariableQueried(key, value string, found bool, consumer string) {
	a.next.EnvVariableQueried(key, value, found, a.or(consumer))
}

func (a attributed) ExternalProcessStarted(command, consumer string) {
	a.next.ExternalProcessStarted(command, a.or(consumer))
}

func (a attributed) FileOpened(path, consumer string) {
	a.next.FileOpened(path, a.or(consumer))
}
