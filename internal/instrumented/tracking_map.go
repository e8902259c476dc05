package instrumented

import (
	"inputweaver/internal/collections"
)

// TrackingMap is a collections.Map that reports reads of its pairs.
//
// A point read reports the key and what the delegate returned for it,
// including absence. An aggregate read (Len, IsEmpty, Range, Equal, Hash, or
// iterating a key or entry view) reports every pair held at that moment.
// Values and ContainsValue are not tracked: a value seen without its key
// cannot be attributed to an input.
type TrackingMap struct {
	delegate collections.Map
	onAccess func(key, value string, found bool)
}

// NewTrackingMap wraps delegate.
func NewTrackingMap(delegate collections.Map, onAccess func(key, value string, found bool)) *TrackingMap {
	return &TrackingMap{delegate: delegate, onAccess: onAccess}
}

// Unwrap returns the wrapped map.
func (m *TrackingMap) Unwrap() collections.Map {
	return m.delegate
}

// Get reports key with the value found, or its absence.
func (m *TrackingMap) Get(key string) (string, bool) {
	return m.getAndReport(key)
}

// GetOrDefault reports key and returns fallback only if key is absent.
func (m *TrackingMap) GetOrDefault(key, fallback string) string {
	value, found := m.getAndReport(key)
	if !found && !m.delegate.ContainsKey(key) {
		return fallback
	}
	return value
}

// ContainsKey reports key with the value found, or its absence.
func (m *TrackingMap) ContainsKey(key string) bool {
	_, found := m.getAndReport(key)
	return found
}

// ContainsValue is not tracked.
func (m *TrackingMap) ContainsValue(value string) bool {
	return m.delegate.ContainsValue(value)
}

// Put, Remove, PutAll and Clear are writes and pass straight through.
func (m *TrackingMap) Put(key, value string) (string, bool, error) {
	return m.delegate.Put(key, value)
}

func (m *TrackingMap) Remove(key string) (string, bool, error) {
	return m.delegate.Remove(key)
}

func (m *TrackingMap) PutAll(pairs map[string]string) error {
	return m.delegate.PutAll(pairs)
}

func (m *TrackingMap) Clear() error {
	return m.delegate.Clear()
}

// KeySet returns a tracking view of the keys. Testing a key for membership
// reports the key together with its value.
func (m *TrackingMap) KeySet() collections.Set[string] {
	return NewTrackingSet(m.delegate.KeySet(), func(key string) {
		m.getAndReport(key)
	}, m.reportAggregatingAccess)
}

// EntrySet returns a tracking view of the pairs. Testing an entry reports
// the entry's key with the value actually held for it.
func (m *TrackingMap) EntrySet() collections.Set[collections.Entry] {
	return NewTrackingSet(m.delegate.EntrySet(), func(e collections.Entry) {
		m.getAndReport(e.Key)
	}, m.reportAggregatingAccess)
}

// Values is not tracked.
func (m *TrackingMap) Values() []string {
	return m.delegate.Values()
}

// Len reports every pair.
func (m *TrackingMap) Len() int {
	m.reportAggregatingAccess()
	return m.delegate.Len()
}

// IsEmpty reports every pair.
func (m *TrackingMap) IsEmpty() bool {
	m.reportAggregatingAccess()
	return m.delegate.IsEmpty()
}

// Range reports every pair, then ranges over the delegate.
func (m *TrackingMap) Range(fn func(key, value string) bool) {
	m.reportAggregatingAccess()
	m.delegate.Range(fn)
}

// Equal reports every pair. A tracking map passed as other is compared as
// the plain map it wraps.
func (m *TrackingMap) Equal(other collections.Map) bool {
	m.reportAggregatingAccess()
	return collections.EqualMaps(m.delegate, other)
}

// Hash reports every pair.
func (m *TrackingMap) Hash() uint64 {
	m.reportAggregatingAccess()
	return m.delegate.Hash()
}

// getAndReport looks the key up before reporting so that a failing delegate
// fails from its own lookup.
func (m *TrackingMap) getAndReport(key string) (string, bool) {
	value, found := m.delegate.Get(key)
	m.onAccess(key, value, found)
	return value, found
}

// reportAggregatingAccess marks the whole content as read.
func (m *TrackingMap) reportAggregatingAccess() {
	m.delegate.Range(func(key, value string) bool {
		m.onAccess(key, value, true)
		return true
	})
}
