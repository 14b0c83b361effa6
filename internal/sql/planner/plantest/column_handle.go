// Package plantest provides fixtures for building plan trees in tests
// without a catalog.
package plantest

import (
	"fmt"

	"github.com/dshills/quantaplan/internal/sql/planner"
)

// TestingColumnHandle exposes a symbol as a column handle so synthetic table
// scans can be built without catalog-backed handles. Equality and hashing
// delegate to the wrapped symbol.
type TestingColumnHandle struct {
	symbol planner.Symbol
}

var _ planner.ColumnHandle = TestingColumnHandle{}

// NewTestingColumnHandle wraps symbol in a column handle.
func NewTestingColumnHandle(symbol planner.Symbol) TestingColumnHandle {
	return TestingColumnHandle{symbol: symbol}
}

// Symbol returns the wrapped symbol.
func (h TestingColumnHandle) Symbol() planner.Symbol {
	return h.symbol
}

// Equal reports whether other is a TestingColumnHandle wrapping the same symbol.
func (h TestingColumnHandle) Equal(other planner.ColumnHandle) bool {
	o, ok := other.(TestingColumnHandle)
	return ok && o.symbol == h.symbol
}

// Hash returns the hash of the wrapped symbol.
func (h TestingColumnHandle) Hash() uint64 {
	return h.symbol.Hash()
}

func (h TestingColumnHandle) String() string {
	return fmt.Sprintf("TestingColumnHandle{symbol=%s}", h.symbol)
}
