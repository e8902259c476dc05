package collections

import (
	"errors"
	"fmt"
	"hash/maphash"
	"iter"
	"sync"
)

var (
	// ErrUnsupported is returned by mutators a container does not support,
	// e.g. adding a bare key to a map's key view.
	ErrUnsupported = fmt.Errorf("collections: operation not supported: %w", errors.ErrUnsupported)

	// ErrReadOnly is returned by every mutator of a read-only container.
	ErrReadOnly = fmt.Errorf("collections: container is read-only: %w", errors.ErrUnsupported)
)

// Set is a collection of unique elements.
//
// Mutators report whether the set changed. Implementations that cannot
// perform a mutation return an error wrapping errors.ErrUnsupported and
// leave the set unchanged.
type Set[E comparable] interface {
	Contains(e E) bool
	ContainsAll(es []E) bool

	Add(e E) (bool, error)
	AddAll(es []E) (bool, error)
	Remove(e E) (bool, error)
	RemoveAll(es []E) (bool, error)
	RetainAll(es []E) (bool, error)
	Clear() error

	Len() int
	IsEmpty() bool

	// All iterates over a snapshot of the elements in unspecified order.
	All() iter.Seq[E]
	// ToSlice returns the elements in a newly allocated slice.
	ToSlice() []E
	// AppendTo appends the elements to dst and returns the extended slice.
	AppendTo(dst []E) []E

	// Equal reports whether other holds exactly the same elements.
	Equal(other Set[E]) bool
	// Hash is consistent with Equal.
	Hash() uint64
}

type setUnwrapper[E comparable] interface {
	Unwrap() Set[E]
}

// Unwrap strips every decorator exposing Unwrap() Set[E] from s.
func Unwrap[E comparable](s Set[E]) Set[E] {
	for {
		u, ok := s.(setUnwrapper[E])
		if !ok {
			return s
		}
		s = u.Unwrap()
	}
}

// EqualSets reports whether a and b contain the same elements. Decorated
// sets are compared as the plain sets they wrap.
func EqualSets[E comparable](a, b Set[E]) bool {
	a, b = Unwrap(a), Unwrap(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Len() != b.Len() {
		return false
	}
	for e := range b.All() {
		if !a.Contains(e) {
			return false
		}
	}
	return true
}

var hashSeed = maphash.MakeSeed()

// HashElements sums the hashes of all elements, so the result does not
// depend on iteration order.
func HashElements[E comparable](elems iter.Seq[E]) uint64 {
	var sum uint64
	for e := range elems {
		sum += maphash.Comparable(hashSeed, e)
	}
	return sum
}

func sliceSeq[E any](elems []E) iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range elems {
			if !yield(e) {
				return
			}
		}
	}
}

func containsAll[E comparable](s Set[E], es []E) bool {
	for _, e := range es {
		if !s.Contains(e) {
			return false
		}
	}
	return true
}

func removeAll[E comparable](s Set[E], es []E) (bool, error) {
	changed := false
	for _, e := range es {
		removed, err := s.Remove(e)
		if err != nil {
			return changed, err
		}
		changed = changed || removed
	}
	return changed, nil
}

func toSet[E comparable](es []E) map[E]struct{} {
	out := make(map[E]struct{}, len(es))
	for _, e := range es {
		out[e] = struct{}{}
	}
	return out
}

// HashSet is a mutex-guarded Set backed by a Go map.
type HashSet[E comparable] struct {
	mu    sync.RWMutex
	items map[E]struct{}
}

// NewHashSet creates a HashSet holding elems.
func NewHashSet[E comparable](elems ...E) *HashSet[E] {
	return &HashSet[E]{items: toSet(elems)}
}

func (s *HashSet[E]) Contains(e E) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[e]
	return ok
}

func (s *HashSet[E]) ContainsAll(es []E) bool {
	return containsAll[E](s, es)
}

func (s *HashSet[E]) Add(e E) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e]; ok {
		return false, nil
	}
	s.items[e] = struct{}{}
	return true, nil
}

func (s *HashSet[E]) AddAll(es []E) (bool, error) {
	changed := false
	for _, e := range es {
		added, _ := s.Add(e)
		changed = changed || added
	}
	return changed, nil
}

func (s *HashSet[E]) Remove(e E) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e]; !ok {
		return false, nil
	}
	delete(s.items, e)
	return true, nil
}

func (s *HashSet[E]) RemoveAll(es []E) (bool, error) {
	return removeAll[E](s, es)
}

func (s *HashSet[E]) RetainAll(es []E) (bool, error) {
	keep := toSet(es)
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for e := range s.items {
		if _, ok := keep[e]; !ok {
			delete(s.items, e)
			changed = true
		}
	}
	return changed, nil
}

func (s *HashSet[E]) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.items)
	return nil
}

func (s *HashSet[E]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *HashSet[E]) IsEmpty() bool {
	return s.Len() == 0
}

func (s *HashSet[E]) All() iter.Seq[E] {
	return sliceSeq(s.ToSlice())
}

func (s *HashSet[E]) ToSlice() []E {
	return s.AppendTo(nil)
}

func (s *HashSet[E]) AppendTo(dst []E) []E {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for e := range s.items {
		dst = append(dst, e)
	}
	return dst
}

func (s *HashSet[E]) Equal(other Set[E]) bool {
	return EqualSets[E](s, other)
}

func (s *HashSet[E]) Hash() uint64 {
	return HashElements(s.All())
}
