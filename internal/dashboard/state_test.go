package dashboard

import (
	"fmt"
	"testing"

	"github.com/evgengiga/dashbord/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(keys ...string) []model.DetailRecord {
	out := make([]model.DetailRecord, len(keys))
	for i, k := range keys {
		out[i] = model.DetailRecord{ID: fmt.Sprint(i + 1), Client: k, Category: k}
	}
	return out
}

func TestBuildIndex(t *testing.T) {
	details := records("b", "a", "b", "", "c", "a", "b")
	idx := BuildIndex(details, ByClient)

	assert.Equal(t, []string{"b", "a", "", "c"}, idx.Keys())
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, len(details), idx.Size())

	b := idx.Lookup("b")
	require.Len(t, b, 3)
	assert.Equal(t, []string{"1", "3", "7"}, []string{b[0].ID, b[1].ID, b[2].ID}, "stable order")

	total := 0
	seen := map[string]int{}
	for _, k := range idx.Keys() {
		for _, r := range idx.Lookup(k) {
			seen[r.ID]++
			total++
		}
	}
	assert.Equal(t, len(details), total)
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %s in exactly one group", id)
	}

	assert.True(t, idx.Has(" a "))
	assert.False(t, idx.Has("zzz"))
	assert.Empty(t, idx.Lookup("zzz"))
}

func TestBuildIndex_NilKey(t *testing.T) {
	idx := BuildIndex(records("a"), nil)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Size())
}

func TestExpansionState_Accordion(t *testing.T) {
	s := NewExpansionState(PolicyAccordion)
	assert.True(t, s.Toggle("A"))
	assert.True(t, s.Toggle("B"))
	assert.False(t, s.IsExpanded("A"))
	assert.True(t, s.IsExpanded("B"))

	assert.False(t, s.Toggle("B"))
	assert.Empty(t, s.Expanded())
}

func TestExpansionState_Multi(t *testing.T) {
	s := NewExpansionState(PolicyMulti)
	s.Toggle("A")
	s.Toggle("B")
	assert.True(t, s.IsExpanded("A"))
	assert.True(t, s.IsExpanded("B"))
	assert.Equal(t, []string{"A", "B"}, s.Expanded())

	s.Toggle("A")
	assert.False(t, s.IsExpanded("A"))
	assert.True(t, s.IsExpanded("B"))
}

func TestDefaultFor(t *testing.T) {
	keys := []string{"x", "y", "z"}

	assert.Empty(t, DefaultFor(keys, PolicyMulti, false).Expanded())
	assert.Equal(t, keys, DefaultFor(keys, PolicyMulti, true).Expanded())
	assert.Equal(t, []string{"x"}, DefaultFor(keys, PolicyAccordion, true).Expanded())
	assert.Empty(t, DefaultFor(nil, PolicyAccordion, true).Expanded())

	s := DefaultFor(keys, PolicyMulti, true)
	assert.False(t, s.IsExpanded("stale"))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("Accordion")
	require.NoError(t, err)
	assert.Equal(t, PolicyAccordion, p)

	p, err = ParsePolicy("multi")
	require.NoError(t, err)
	assert.Equal(t, PolicyMulti, p)

	_, err = ParsePolicy("")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ViewportCompact, Classify(0))
	assert.Equal(t, ViewportCompact, Classify(768))
	assert.Equal(t, ViewportFull, Classify(769))
	assert.Equal(t, 800, CellsToPixels(100, 8))
	assert.Equal(t, 800, CellsToPixels(100, 0))
}

func TestViewportMonitor(t *testing.T) {
	m := NewViewportMonitor(1200)
	assert.Equal(t, ViewportFull, m.Class())

	var got []ViewportClass
	unsubscribe := m.Subscribe(func(c ViewportClass) { got = append(got, c) })
	assert.Equal(t, 1, m.Subscribers())

	m.Resize(1000)
	assert.Empty(t, got, "no notification without a class change")

	assert.Equal(t, ViewportCompact, m.Resize(600))
	m.Resize(700)
	m.Resize(900)
	assert.Equal(t, []ViewportClass{ViewportCompact, ViewportFull}, got)
	assert.Equal(t, 900, m.Width())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, m.Subscribers())

	m.Resize(300)
	assert.Len(t, got, 2)
}

func TestSequencer(t *testing.T) {
	var s Sequencer
	first := s.Next()
	assert.True(t, s.IsCurrent(first))

	second := s.Next()
	assert.Greater(t, second, first)
	assert.False(t, s.IsCurrent(first))
	assert.True(t, s.IsCurrent(second))
}
