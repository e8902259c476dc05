package trace

import "sync"

// Recorder is a concurrency-safe in-memory collector of access events. It
// implements instrumented.Listener, so it can be installed on a dispatcher
// directly.
//
// Concurrency note:
// Recording uses a single mutex. This may add contention, but it does not
// affect the canonical trace because ordering is computed after collection.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder { return &Recorder{} }

// Record appends a single event.
func (r *Recorder) Record(event Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *Recorder) EnvVariableQueried(key, value string, found bool, consumer string) {
	r.Record(Event{Kind: EventEnvVariableRead, Key: key, Value: value, Missing: !found, Consumer: consumer})
}

func (r *Recorder) SystemPropertyQueried(key, value string, found bool, consumer string) {
	r.Record(Event{Kind: EventPropertyRead, Key: key, Value: value, Missing: !found, Consumer: consumer})
}

func (r *Recorder) ExternalProcessStarted(command, consumer string) {
	r.Record(Event{Kind: EventProcessStarted, Key: command, Consumer: consumer})
}

func (r *Recorder) FileOpened(path, consumer string) {
	r.Record(Event{Kind: EventFileOpened, Key: path, Consumer: consumer})
}

// Snapshot returns a point-in-time copy of all recorded events in the order
// they were recorded.
func (r *Recorder) Snapshot() []Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Trace builds a canonical AccessTrace from the currently recorded events.
// The returned trace is independent from the recorder (events are copied).
func (r *Recorder) Trace(subject string) AccessTrace {
	tr := AccessTrace{Subject: subject}
	tr.Events = r.Snapshot()
	tr.Canonicalize()
	return tr
}
