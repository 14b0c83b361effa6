package planner

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Symbol is a named reference to a value produced somewhere in a plan.
// Symbols are compared by name; copies are interchangeable.
type Symbol struct {
	name string
}

// NewSymbol creates a symbol with the given name.
func NewSymbol(name string) Symbol {
	return Symbol{name: name}
}

// Name returns the symbol name.
func (s Symbol) Name() string {
	return s.name
}

func (s Symbol) String() string {
	return s.name
}

// Hash returns a hash of the symbol name. Equal symbols hash equally.
func (s Symbol) Hash() uint64 {
	return xxhash.Sum64String(s.name)
}

// Compare orders symbols by name.
func (s Symbol) Compare(other Symbol) int {
	return strings.Compare(s.name, other.name)
}

func symbolLess(a, b Symbol) bool {
	return a.name < b.name
}
