package collections

// ReadOnly returns a view of m that rejects every mutation with ErrReadOnly,
// including mutations through its key and entry views.
func ReadOnly(m Map) Map {
	if ro, ok := m.(readOnlyMap); ok {
		return ro
	}
	return readOnlyMap{Map: m}
}

type readOnlyMap struct {
	Map
}

func (r readOnlyMap) Put(string, string) (string, bool, error) { return "", false, ErrReadOnly }
func (r readOnlyMap) Remove(string) (string, bool, error)      { return "", false, ErrReadOnly }
func (r readOnlyMap) PutAll(map[string]string) error           { return ErrReadOnly }
func (r readOnlyMap) Clear() error                             { return ErrReadOnly }

func (r readOnlyMap) KeySet() Set[string]  { return readOnlySet[string]{Set: r.Map.KeySet()} }
func (r readOnlyMap) EntrySet() Set[Entry] { return readOnlySet[Entry]{Set: r.Map.EntrySet()} }

// Equal forwards to the wrapped map so a decorator underneath still observes
// the comparison.
func (r readOnlyMap) Equal(other Map) bool { return r.Map.Equal(other) }

type readOnlySet[E comparable] struct {
	Set[E]
}

func (r readOnlySet[E]) Add(E) (bool, error)         { return false, ErrReadOnly }
func (r readOnlySet[E]) AddAll([]E) (bool, error)    { return false, ErrReadOnly }
func (r readOnlySet[E]) Remove(E) (bool, error)      { return false, ErrReadOnly }
func (r readOnlySet[E]) RemoveAll([]E) (bool, error) { return false, ErrReadOnly }
func (r readOnlySet[E]) RetainAll([]E) (bool, error) { return false, ErrReadOnly }
func (r readOnlySet[E]) Clear() error                { return ErrReadOnly }

func (r readOnlySet[E]) Equal(other Set[E]) bool { return r.Set.Equal(other) }
