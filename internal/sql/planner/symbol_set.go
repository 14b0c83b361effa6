package planner

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/tidwall/btree"
)

// SymbolSet is an immutable set of symbols kept in name order.
// The zero value is an empty set.
type SymbolSet struct {
	tree *btree.BTreeG[Symbol]
}

// NewSymbolSet creates a set holding the given symbols. Duplicates collapse.
func NewSymbolSet(symbols ...Symbol) SymbolSet {
	b := newSymbolSetBuilder()
	b.addAll(symbols)
	return b.build()
}

// Len returns the number of symbols in the set.
func (s SymbolSet) Len() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

// IsEmpty returns true if the set has no symbols.
func (s SymbolSet) IsEmpty() bool {
	return s.Len() == 0
}

// Contains checks if a symbol is in the set.
func (s SymbolSet) Contains(sym Symbol) bool {
	if s.tree == nil {
		return false
	}
	_, ok := s.tree.Get(sym)
	return ok
}

// Symbols returns the symbols sorted by name. The slice is a copy.
func (s SymbolSet) Symbols() []Symbol {
	result := make([]Symbol, 0, s.Len())
	s.scan(func(sym Symbol) {
		result = append(result, sym)
	})
	return result
}

// Names returns the symbol names sorted.
func (s SymbolSet) Names() []string {
	result := make([]string, 0, s.Len())
	s.scan(func(sym Symbol) {
		result = append(result, sym.name)
	})
	return result
}

// Equal reports whether both sets hold the same symbols.
func (s SymbolSet) Equal(other SymbolSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	equal := true
	s.scan(func(sym Symbol) {
		if equal && !other.Contains(sym) {
			equal = false
		}
	})
	return equal
}

// Union returns a new set holding the symbols of both sets.
func (s SymbolSet) Union(other SymbolSet) SymbolSet {
	b := newSymbolSetBuilder()
	s.scan(b.add)
	other.scan(b.add)
	return b.build()
}

// Fingerprint returns a 64-bit hash of the set contents. Equal sets always
// produce the same fingerprint.
func (s SymbolSet) Fingerprint() uint64 {
	d := xxhash.New()
	s.scan(func(sym Symbol) {
		_, _ = d.WriteString(sym.name)
		// separator keeps {"ab"} and {"a", "b"} apart
		_, _ = d.Write([]byte{0})
	})
	return d.Sum64()
}

// String returns a string representation of the symbol set
func (s SymbolSet) String() string {
	return "[" + strings.Join(s.Names(), ", ") + "]"
}

func (s SymbolSet) scan(fn func(Symbol)) {
	if s.tree == nil {
		return
	}
	s.tree.Scan(func(sym Symbol) bool {
		fn(sym)
		return true
	})
}

// symbolSetBuilder accumulates symbols until build freezes them into a SymbolSet.
type symbolSetBuilder struct {
	tree *btree.BTreeG[Symbol]
}

func newSymbolSetBuilder() *symbolSetBuilder {
	return &symbolSetBuilder{tree: btree.NewBTreeG(symbolLess)}
}

func (b *symbolSetBuilder) add(sym Symbol) {
	b.tree.Set(sym)
}

func (b *symbolSetBuilder) addAll(symbols []Symbol) {
	for _, sym := range symbols {
		b.tree.Set(sym)
	}
}

// build hands the accumulated tree to a SymbolSet. The builder must not be
// used afterwards.
func (b *symbolSetBuilder) build() SymbolSet {
	tree := b.tree
	b.tree = nil
	return SymbolSet{tree: tree}
}
