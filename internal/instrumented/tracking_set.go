package instrumented

import (
	"iter"

	"inputweaver/internal/collections"
)

// TrackingSet is a collections.Set that reports accesses to its elements.
//
// Membership tests and removals report each queried element through
// onAccess, whether or not it is present. Operations that expose the whole
// set (Len, IsEmpty, All, ToSlice, AppendTo, Equal, Hash) first call
// onAggregateAccess. Add, AddAll, RetainAll and Clear are writes and pass
// straight through.
type TrackingSet[E comparable] struct {
	delegate          collections.Set[E]
	onAccess          func(E)
	onAggregateAccess func()
}

// NewTrackingSet wraps delegate.
func NewTrackingSet[E comparable](delegate collections.Set[E], onAccess func(E), onAggregateAccess func()) *TrackingSet[E] {
	return &TrackingSet[E]{
		delegate:          delegate,
		onAccess:          onAccess,
		onAggregateAccess: onAggregateAccess,
	}
}

// Unwrap returns the wrapped set.
func (s *TrackingSet[E]) Unwrap() collections.Set[E] {
	return s.delegate
}

// Contains reports e and tests its membership.
func (s *TrackingSet[E]) Contains(e E) bool {
	result := s.delegate.Contains(e)
	s.onAccess(e)
	return result
}

// ContainsAll reports every element of es.
func (s *TrackingSet[E]) ContainsAll(es []E) bool {
	result := s.delegate.ContainsAll(es)
	for _, e := range es {
		s.onAccess(e)
	}
	return result
}

// Remove reports e before removing it, so the listener still observes the
// delegate as it was.
func (s *TrackingSet[E]) Remove(e E) (bool, error) {
	s.onAccess(e)
	return s.delegate.Remove(e)
}

// RemoveAll reports every element of es, in order, before the removal.
func (s *TrackingSet[E]) RemoveAll(es []E) (bool, error) {
	for _, e := range es {
		s.onAccess(e)
	}
	return s.delegate.RemoveAll(es)
}

// All reports an aggregate access and iterates the delegate.
func (s *TrackingSet[E]) All() iter.Seq[E] {
	s.onAggregateAccess()
	return s.delegate.All()
}

// Len reports an aggregate access.
func (s *TrackingSet[E]) Len() int {
	s.onAggregateAccess()
	return s.delegate.Len()
}

// IsEmpty reports an aggregate access.
func (s *TrackingSet[E]) IsEmpty() bool {
	s.onAggregateAccess()
	return s.delegate.IsEmpty()
}

// Equal compares element-wise. A tracking set passed as other is compared
// as the plain set it wraps.
func (s *TrackingSet[E]) Equal(other collections.Set[E]) bool {
	s.onAggregateAccess()
	return collections.EqualSets(s.delegate, other)
}

// Hash reports an aggregate access.
func (s *TrackingSet[E]) Hash() uint64 {
	s.onAggregateAccess()
	return s.delegate.Hash()
}

// ToSlice reports an aggregate access and copies the elements.
func (s *TrackingSet[E]) ToSlice() []E {
	s.onAggregateAccess()
	return s.delegate.ToSlice()
}

// AppendTo reports an aggregate access and appends the elements to dst.
func (s *TrackingSet[E]) AppendTo(dst []E) []E {
	s.onAggregateAccess()
	return s.delegate.AppendTo(dst)
}

// Add passes through unreported.
func (s *TrackingSet[E]) Add(e E) (bool, error) {
	return s.delegate.Add(e)
}

// AddAll passes through unreported.
func (s *TrackingSet[E]) AddAll(es []E) (bool, error) {
	return s.delegate.AddAll(es)
}

// RetainAll passes through unreported.
func (s *TrackingSet[E]) RetainAll(es []E) (bool, error) {
	return s.delegate.RetainAll(es)
}

// Clear passes through unreported.
func (s *TrackingSet[E]) Clear() error {
	return s.delegate.Clear()
}
