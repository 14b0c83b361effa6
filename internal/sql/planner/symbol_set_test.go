package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func symbolsOf(names ...string) []Symbol {
	result := make([]Symbol, len(names))
	for i, name := range names {
		result[i] = NewSymbol(name)
	}
	return result
}

func TestSymbol(t *testing.T) {
	a := NewSymbol("a")

	assert.Equal(t, "a", a.Name())
	assert.Equal(t, "a", a.String())
	assert.Equal(t, a, NewSymbol("a"))
	assert.Equal(t, a.Hash(), NewSymbol("a").Hash())
	assert.NotEqual(t, a.Hash(), NewSymbol("b").Hash())
	assert.Equal(t, -1, a.Compare(NewSymbol("b")))
	assert.Equal(t, 0, a.Compare(NewSymbol("a")))
	assert.Equal(t, 1, NewSymbol("b").Compare(a))
}

func TestSymbolSetZeroValue(t *testing.T) {
	var s SymbolSet

	assert.Equal(t, 0, s.Len())
	assert.True(t, s.IsEmpty())
	assert.False(t, s.Contains(NewSymbol("a")))
	assert.Empty(t, s.Symbols())
	assert.Equal(t, "[]", s.String())
	assert.True(t, s.Equal(NewSymbolSet()))
	assert.Equal(t, NewSymbolSet().Fingerprint(), s.Fingerprint())
}

func TestSymbolSetDeduplicatesAndSorts(t *testing.T) {
	s := NewSymbolSet(symbolsOf("c", "a", "b", "a", "c")...)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, symbolsOf("a", "b", "c"), s.Symbols())
	assert.Equal(t, []string{"a", "b", "c"}, s.Names())
	assert.Equal(t, "[a, b, c]", s.String())
	assert.True(t, s.Contains(NewSymbol("b")))
	assert.False(t, s.Contains(NewSymbol("d")))
}

func TestSymbolSetSymbolsIsACopy(t *testing.T) {
	s := NewSymbolSet(symbolsOf("a", "b")...)
	got := s.Symbols()
	got[0] = NewSymbol("z")

	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func TestSymbolSetEqual(t *testing.T) {
	ab := NewSymbolSet(symbolsOf("a", "b")...)

	assert.True(t, ab.Equal(NewSymbolSet(symbolsOf("b", "a")...)))
	assert.False(t, ab.Equal(NewSymbolSet(symbolsOf("a")...)))
	assert.False(t, ab.Equal(NewSymbolSet(symbolsOf("a", "c")...)))
}

func TestSymbolSetUnion(t *testing.T) {
	left := NewSymbolSet(symbolsOf("a", "b")...)
	right := NewSymbolSet(symbolsOf("b", "c")...)

	union := left.Union(right)
	assert.Equal(t, []string{"a", "b", "c"}, union.Names())
	assert.Equal(t, []string{"a", "b"}, left.Names(), "operands are unchanged")
	assert.Equal(t, []string{"b", "c"}, right.Names(), "operands are unchanged")
}

func TestSymbolSetFingerprint(t *testing.T) {
	ab := NewSymbolSet(symbolsOf("a", "b")...)

	assert.Equal(t, ab.Fingerprint(), NewSymbolSet(symbolsOf("b", "a", "b")...).Fingerprint())
	assert.NotEqual(t, ab.Fingerprint(), NewSymbolSet(symbolsOf("ab")...).Fingerprint())
	assert.NotEqual(t, ab.Fingerprint(), NewSymbolSet(symbolsOf("a")...).Fingerprint())
}
