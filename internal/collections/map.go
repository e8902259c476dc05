package collections

import (
	"iter"
	"sync"
)

// Entry is one key/value pair of a Map, the element type of its entry view.
type Entry struct {
	Key   string
	Value string
}

// Map is a mapping from string keys to string values.
//
// Lookups return the value together with a presence flag; a missing key
// yields ("", false). KeySet and EntrySet return live views: removing through
// a view removes from the map.
type Map interface {
	Get(key string) (string, bool)
	GetOrDefault(key, fallback string) string
	ContainsKey(key string) bool
	ContainsValue(value string) bool

	Put(key, value string) (previous string, replaced bool, err error)
	Remove(key string) (previous string, removed bool, err error)
	PutAll(m map[string]string) error
	Clear() error

	KeySet() Set[string]
	EntrySet() Set[Entry]
	Values() []string

	Len() int
	IsEmpty() bool
	// Range calls fn for each pair of a snapshot until fn returns false.
	Range(fn func(key, value string) bool)

	Equal(other Map) bool
	Hash() uint64
}

type mapUnwrapper interface {
	Unwrap() Map
}

// UnwrapMap strips every decorator exposing Unwrap() Map from m.
func UnwrapMap(m Map) Map {
	for {
		u, ok := m.(mapUnwrapper)
		if !ok {
			return m
		}
		m = u.Unwrap()
	}
}

// EqualMaps reports whether a and b hold the same pairs. Decorated maps are
// compared as the plain maps they wrap.
func EqualMaps(a, b Map) bool {
	a, b = UnwrapMap(a), UnwrapMap(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	b.Range(func(key, value string) bool {
		v, ok := a.Get(key)
		equal = ok && v == value
		return equal
	})
	return equal
}

// HashMap is a mutex-guarded mutable Map.
type HashMap struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewHashMap creates a HashMap holding a copy of init.
func NewHashMap(init map[string]string) *HashMap {
	m := make(map[string]string, len(init))
	for k, v := range init {
		m[k] = v
	}
	return &HashMap{m: m}
}

// Get returns the value stored under key.
func (h *HashMap) Get(key string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.m[key]
	return v, ok
}

// GetOrDefault returns the value under key, or fallback if key is absent.
func (h *HashMap) GetOrDefault(key, fallback string) string {
	if v, ok := h.Get(key); ok {
		return v
	}
	return fallback
}

// ContainsKey reports whether key is present.
func (h *HashMap) ContainsKey(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// ContainsValue reports whether any key maps to value.
func (h *HashMap) ContainsValue(value string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, v := range h.m {
		if v == value {
			return true
		}
	}
	return false
}

// Put stores value under key and returns the replaced value, if any.
func (h *HashMap) Put(key, value string) (string, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev, ok := h.m[key]
	h.m[key] = value
	return prev, ok, nil
}

// Remove deletes key and returns the value it held, if any.
func (h *HashMap) Remove(key string) (string, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev, ok := h.m[key]
	delete(h.m, key)
	return prev, ok, nil
}

// PutAll stores every pair of m.
func (h *HashMap) PutAll(m map[string]string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for k, v := range m {
		h.m[k] = v
	}
	return nil
}

// Clear removes every pair.
func (h *HashMap) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.m)
	return nil
}

// KeySet returns a live view of the keys. Removals write through.
func (h *HashMap) KeySet() Set[string] {
	return &keyView{h: h}
}

// EntrySet returns a live view of the pairs. Removals write through.
func (h *HashMap) EntrySet() Set[Entry] {
	return &entryView{h: h}
}

// Values returns a snapshot of the stored values in no particular order.
func (h *HashMap) Values() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.m))
	for _, v := range h.m {
		out = append(out, v)
	}
	return out
}

// Len returns the number of pairs.
func (h *HashMap) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.m)
}

// IsEmpty reports whether the map holds no pairs.
func (h *HashMap) IsEmpty() bool {
	return h.Len() == 0
}

// Range calls fn for each pair of a snapshot until fn returns false.
func (h *HashMap) Range(fn func(key, value string) bool) {
	for _, e := range h.entries() {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// Equal reports whether other holds exactly the same pairs.
func (h *HashMap) Equal(other Map) bool {
	return EqualMaps(h, other)
}

// Hash is the order-independent hash of the entry set.
func (h *HashMap) Hash() uint64 {
	return HashElements(sliceSeq(h.entries()))
}

func (h *HashMap) entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Entry, 0, len(h.m))
	for k, v := range h.m {
		out = append(out, Entry{Key: k, Value: v})
	}
	return out
}

// retain drops every pair for which keep returns false.
func (h *HashMap) retain(keep func(key, value string) bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	changed := false
	for k, v := range h.m {
		if !keep(k, v) {
			delete(h.m, k)
			changed = true
		}
	}
	return changed
}

// keyView is the live key set of a HashMap.
type keyView struct {
	h *HashMap
}

func (v *keyView) Contains(key string) bool       { return v.h.ContainsKey(key) }
func (v *keyView) ContainsAll(keys []string) bool { return containsAll[string](v, keys) }

func (v *keyView) Add(string) (bool, error)      { return false, ErrUnsupported }
func (v *keyView) AddAll([]string) (bool, error) { return false, ErrUnsupported }

func (v *keyView) Remove(key string) (bool, error) {
	_, removed, err := v.h.Remove(key)
	return removed, err
}

func (v *keyView) RemoveAll(keys []string) (bool, error) { return removeAll[string](v, keys) }

func (v *keyView) RetainAll(keys []string) (bool, error) {
	keep := toSet(keys)
	return v.h.retain(func(key, _ string) bool {
		_, ok := keep[key]
		return ok
	}), nil
}

func (v *keyView) Clear() error  { return v.h.Clear() }
func (v *keyView) Len() int      { return v.h.Len() }
func (v *keyView) IsEmpty() bool { return v.h.IsEmpty() }

func (v *keyView) All() iter.Seq[string] { return sliceSeq(v.ToSlice()) }
func (v *keyView) ToSlice() []string     { return v.AppendTo(nil) }

func (v *keyView) AppendTo(dst []string) []string {
	for _, e := range v.h.entries() {
		dst = append(dst, e.Key)
	}
	return dst
}

func (v *keyView) Equal(other Set[string]) bool { return EqualSets[string](v, other) }
func (v *keyView) Hash() uint64                 { return HashElements(v.All()) }

// entryView is the live entry set of a HashMap.
type entryView struct {
	h *HashMap
}

func (v *entryView) Contains(e Entry) bool {
	value, ok := v.h.Get(e.Key)
	return ok && value == e.Value
}

func (v *entryView) ContainsAll(es []Entry) bool { return containsAll[Entry](v, es) }

func (v *entryView) Add(Entry) (bool, error)      { return false, ErrUnsupported }
func (v *entryView) AddAll([]Entry) (bool, error) { return false, ErrUnsupported }

func (v *entryView) Remove(e Entry) (bool, error) {
	v.h.mu.Lock()
	defer v.h.mu.Unlock()
	value, ok := v.h.m[e.Key]
	if !ok || value != e.Value {
		return false, nil
	}
	delete(v.h.m, e.Key)
	return true, nil
}

func (v *entryView) RemoveAll(es []Entry) (bool, error) { return removeAll[Entry](v, es) }

func (v *entryView) RetainAll(es []Entry) (bool, error) {
	keep := toSet(es)
	return v.h.retain(func(key, value string) bool {
		_, ok := keep[Entry{Key: key, Value: value}]
		return ok
	}), nil
}

func (v *entryView) Clear() error  { return v.h.Clear() }
func (v *entryView) Len() int      { return v.h.Len() }
func (v *entryView) IsEmpty() bool { return v.h.IsEmpty() }

func (v *entryView) All() iter.Seq[Entry]         { return sliceSeq(v.h.entries()) }
func (v *entryView) ToSlice() []Entry             { return v.h.entries() }
func (v *entryView) AppendTo(dst []Entry) []Entry { return append(dst, v.h.entries()...) }

func (v *entryView) Equal(other Set[Entry]) bool { return EqualSets[Entry](v, other) }
func (v *entryView) Hash() uint64                { return HashElements(v.All()) }
