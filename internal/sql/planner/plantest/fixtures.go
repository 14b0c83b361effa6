package plantest

import (
	"strconv"

	"github.com/dshills/quantaplan/internal/sql/planner"
)

// Symbols converts names to symbols, keeping their order.
func Symbols(names ...string) []planner.Symbol {
	result := make([]planner.Symbol, len(names))
	for i, name := range names {
		result[i] = planner.NewSymbol(name)
	}
	return result
}

// TableScan builds a scan producing one symbol per name, each assigned a
// TestingColumnHandle wrapping that symbol.
func TableScan(id planner.PlanNodeID, table string, names ...string) *planner.TableScanNode {
	outputs := Symbols(names...)
	assignments := make(map[planner.Symbol]planner.ColumnHandle, len(outputs))
	for _, sym := range outputs {
		assignments[sym] = NewTestingColumnHandle(sym)
	}
	return planner.NewTableScanNode(id, table, outputs, assignments)
}

// IDAllocator hands out sequential plan node ids starting at 1.
type IDAllocator struct {
	next int
}

// Next returns a fresh node id.
func (a *IDAllocator) Next() planner.PlanNodeID {
	a.next++
	return planner.PlanNodeID(strconv.Itoa(a.next))
}
