package instrumented

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inputweaver/internal/collections"
)

var (
	_ collections.Set[string] = (*TrackingSet[string])(nil)
	_ collections.Map         = (*TrackingMap)(nil)
)

// setProbe counts the callbacks of a TrackingSet.
type setProbe struct {
	accessed   []string
	aggregates int
}

func newProbedSet(elems ...string) (*TrackingSet[string], *collections.HashSet[string], *setProbe) {
	delegate := collections.NewHashSet(elems...)
	p := &setProbe{}
	s := NewTrackingSet[string](delegate, func(e string) {
		p.accessed = append(p.accessed, e)
	}, func() {
		p.aggregates++
	})
	return s, delegate, p
}

func TestTrackingSet_ContainsReportsRegardlessOfResult(t *testing.T) {
	s, _, p := newProbedSet("x", "y")

	assert.True(t, s.Contains("x"))
	assert.False(t, s.Contains("z"))

	assert.Equal(t, []string{"x", "z"}, p.accessed)
	assert.Zero(t, p.aggregates)
}

func TestTrackingSet_ContainsAllReportsEachElement(t *testing.T) {
	s, _, p := newProbedSet("x", "y")

	assert.True(t, s.ContainsAll([]string{"x", "y"}))
	assert.False(t, s.ContainsAll([]string{"y", "nope"}))

	assert.Equal(t, []string{"x", "y", "y", "nope"}, p.accessed)
}

func TestTrackingSet_RemoveReportsBeforeRemoval(t *testing.T) {
	delegate := collections.NewHashSet("x", "y")
	var presentDuringReport bool
	s := NewTrackingSet[string](delegate, func(e string) {
		presentDuringReport = delegate.Contains(e)
	}, func() {})

	removed, err := s.Remove("x")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.True(t, presentDuringReport, "listener must observe the pre-removal delegate")
	assert.ElementsMatch(t, []string{"y"}, delegate.ToSlice())
}

func TestTrackingSet_RemoveAllReportsInOrderFirst(t *testing.T) {
	delegate := collections.NewHashSet("a", "b", "c")
	var seen []string
	var sizes []int
	s := NewTrackingSet[string](delegate, func(e string) {
		seen = append(seen, e)
		sizes = append(sizes, delegate.Len())
	}, func() {})

	changed, err := s.RemoveAll([]string{"c", "missing", "a"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"c", "missing", "a"}, seen)
	assert.Equal(t, []int{3, 3, 3}, sizes)
	assert.Equal(t, []string{"b"}, delegate.ToSlice())
}

func TestTrackingSet_AggregateOperationsReportOnce(t *testing.T) {
	s, _, p := newProbedSet("x", "y")

	ops := map[string]func(){
		"Len":      func() { assert.Equal(t, 2, s.Len()) },
		"IsEmpty":  func() { assert.False(t, s.IsEmpty()) },
		"All":      func() { s.All() },
		"ToSlice":  func() { assert.Len(t, s.ToSlice(), 2) },
		"AppendTo": func() { assert.Len(t, s.AppendTo([]string{"pre"}), 3) },
		"Equal":    func() { assert.True(t, s.Equal(collections.NewHashSet("y", "x"))) },
		"Hash":     func() { s.Hash() },
	}
	for name, op := range ops {
		before := p.aggregates
		op()
		assert.Equal(t, before+1, p.aggregates, name)
	}
	assert.Empty(t, p.accessed)
}

func TestTrackingSet_WritesAreNotReported(t *testing.T) {
	s, delegate, p := newProbedSet("x")

	added, err := s.Add("y")
	require.NoError(t, err)
	assert.True(t, added)

	_, err = s.AddAll([]string{"z", "w"})
	require.NoError(t, err)

	_, err = s.RetainAll([]string{"x", "y", "z"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x", "y", "z"}, delegate.ToSlice())

	require.NoError(t, s.Clear())
	assert.Zero(t, delegate.Len())

	assert.Empty(t, p.accessed)
	assert.Zero(t, p.aggregates)
}

func TestTrackingSet_EqualityUsesSetContract(t *testing.T) {
	a, _, pa := newProbedSet("x", "y")
	b, _, pb := newProbedSet("y", "x")
	c, _, _ := newProbedSet("x")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, a.Hash(), b.Hash())

	// b is compared as the plain set it wraps, so only a reports.
	assert.Equal(t, 3, pa.aggregates)
	assert.Equal(t, 1, pb.aggregates)

	assert.True(t, collections.NewHashSet("x", "y").Equal(a))
}

func TestTrackingSet_DelegateErrorsPropagateUnchanged(t *testing.T) {
	ro := collections.ReadOnly(collections.NewHashMap(map[string]string{"k": "v"}))
	var accessed []string
	s := NewTrackingSet(ro.KeySet(), func(e string) { accessed = append(accessed, e) }, func() {})

	_, err := s.Add("new")
	assert.ErrorIs(t, err, collections.ErrReadOnly)
	assert.True(t, errors.Is(err, errors.ErrUnsupported))

	_, err = s.Remove("k")
	assert.ErrorIs(t, err, collections.ErrReadOnly)
	assert.Equal(t, []string{"k"}, accessed)
	assert.True(t, ro.ContainsKey("k"))
}
