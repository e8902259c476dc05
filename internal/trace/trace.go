package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// AccessTrace is the canonical, deterministic record of the ambient inputs a
// subject read.
//
// Invariants:
//   - Must name the Subject whose reads were recorded.
//   - Events describe what was read, never when: no timestamps, goroutine
//     IDs or other runtime-dependent values.
//   - The canonical form is sorted and free of duplicates, so reading the
//     same variable twice or through an aggregate access yields one event.
//
// Canonical representation:
//   - Events are sorted and de-duplicated via Canonicalize().
//   - JSON serialization uses a custom marshaler to fix field order and omit
//     absent optional fields.
//
// IMPORTANT: the canonical bytes feed the task fingerprint; byte-for-byte
// stability is required.
type AccessTrace struct {
	Subject string
	Events  []Event
}

// EventKind is the stable, canonical discriminator for Event.
//
// The string values are part of the trace's canonical bytes; do not rename.
type EventKind string

const (
	EventEnvVariableRead EventKind = "EnvVariableRead"
	EventPropertyRead    EventKind = "PropertyRead"
	EventFileOpened      EventKind = "FileOpened"
	EventProcessStarted  EventKind = "ProcessStarted"
)

// Event is a single observed read of ambient state.
type Event struct {
	Kind EventKind

	// Key is the variable or property name, the absolute file path, or the
	// joined command line, depending on Kind.
	Key string

	// Value is the value observed for a variable or property.
	Value string

	// Missing records that a variable or property was read but not set. An
	// absent key is an input too: defining it later must change the trace.
	Missing bool

	// Consumer identifies the reading code when known.
	Consumer string
}

// Validate checks basic invariants and returns a descriptive error.
func (t *AccessTrace) Validate() error {
	if t == nil {
		return errors.New("trace is nil")
	}
	if t.Subject == "" {
		return errors.New("subject is required")
	}
	for i := range t.Events {
		e := t.Events[i]
		if e.Kind == "" {
			return fmt.Errorf("events[%d].kind is required", i)
		}
		if e.Key == "" {
			return fmt.Errorf("events[%d].key is required for kind %q", i, e.Kind)
		}
		if e.Missing && e.Value != "" {
			return fmt.Errorf("events[%d] is missing but carries a value", i)
		}
	}
	return nil
}

// Canonicalize sorts the events into their canonical order and drops exact
// duplicates.
//
// Ordering: (kindOrder, key, value, missing, consumer). The order is
// independent of the order in which reads happened.
func (t *AccessTrace) Canonicalize() {
	if t == nil || len(t.Events) == 0 {
		return
	}
	sort.SliceStable(t.Events, func(i, j int) bool {
		return lessEvent(t.Events[i], t.Events[j])
	})

	out := t.Events[:1]
	for _, e := range t.Events[1:] {
		if e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	t.Events = out
}

func lessEvent(a, b Event) bool {
	if kindOrder(a.Kind) != kindOrder(b.Kind) {
		return kindOrder(a.Kind) < kindOrder(b.Kind)
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	if a.Value != b.Value {
		return a.Value < b.Value
	}
	if a.Missing != b.Missing {
		return !a.Missing
	}
	return a.Consumer < b.Consumer
}

func kindOrder(k EventKind) int {
	switch k {
	case EventEnvVariableRead:
		return 10
	case EventPropertyRead:
		return 20
	case EventFileOpened:
		return 30
	case EventProcessStarted:
		return 40
	default:
		return 1000
	}
}

// Keys returns the distinct keys of the given kind in canonical order.
func (t AccessTrace) Keys(kind EventKind) []string {
	c := t.canonicalCopy()
	var out []string
	for _, e := range c.Events {
		if e.Kind != kind {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == e.Key {
			continue
		}
		out = append(out, e.Key)
	}
	return out
}

func (t AccessTrace) canonicalCopy() AccessTrace {
	c := AccessTrace{Subject: t.Subject}
	c.Events = make([]Event, len(t.Events))
	copy(c.Events, t.Events)
	c.Canonicalize()
	return c
}

// CanonicalJSON returns the canonical JSON encoding of the trace.
// It canonicalizes a copy of the trace to avoid mutating the caller's slice.
func (t AccessTrace) CanonicalJSON() ([]byte, error) {
	c := t.canonicalCopy()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(&c)
}

// Hash returns the deterministic trace hash (sha256 hex) of the canonical JSON bytes.
func (t AccessTrace) Hash() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return ComputeTraceHash(b), nil
}

// MarshalJSON ensures canonical field ordering and omission rules.
func (t AccessTrace) MarshalJSON() ([]byte, error) {
	// Sorting is CanonicalJSON's job; field ordering is deterministic regardless.
	if t.Subject == "" {
		return nil, errors.New("subject is required")
	}
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString("\"subject\":")
	sb, _ := json.Marshal(t.Subject)
	buf.Write(sb)
	buf.WriteByte(',')

	buf.WriteString("\"events\":[")
	for i := range t.Events {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := json.Marshal(t.Events[i])
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteByte(']')

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON ensures canonical field ordering and omission of empty optional fields.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Kind == "" {
		return nil, errors.New("kind is required")
	}

	var buf bytes.Buffer
	buf.WriteByte('{')

	// kind (always first)
	buf.WriteString("\"kind\":")
	kb, _ := json.Marshal(string(e.Kind))
	buf.Write(kb)

	buf.WriteString(",\"key\":")
	keyb, _ := json.Marshal(e.Key)
	buf.Write(keyb)

	if e.Value != "" {
		buf.WriteString(",\"value\":")
		vb, _ := json.Marshal(e.Value)
		buf.Write(vb)
	}

	if e.Missing {
		buf.WriteString(",\"missing\":true")
	}

	if e.Consumer != "" {
		buf.WriteString(",\"consumer\":")
		cb, _ := json.Marshal(e.Consumer)
		buf.Write(cb)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
