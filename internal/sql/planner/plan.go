package planner

import (
	"fmt"
	"strings"
)

// PlanNodeID identifies a node within one plan.
type PlanNodeID string

// PlanNode represents a node in a logical query plan.
//
// The set of node kinds is closed: only types in this package implement
// PlanNode. Passes that walk plans switch over the concrete kinds and treat
// an unknown kind as a bug in the pass.
type PlanNode interface {
	// ID returns the node identifier.
	ID() PlanNodeID
	// Sources returns the child nodes in a fixed order.
	Sources() []PlanNode
	// OutputSymbols returns the symbols this node produces.
	OutputSymbols() []Symbol
	// String returns a string representation for debugging.
	String() string
	planNode()
}

// ColumnHandle is an opaque reference to a table column resolved by a catalog.
type ColumnHandle interface {
	String() string
}

// TableColumn is a catalog-free column handle naming a table column.
type TableColumn struct {
	Table  string
	Column string
}

func (c TableColumn) String() string {
	if c.Table == "" {
		return c.Column
	}
	return c.Table + "." + c.Column
}

// FunctionCall is an aggregate or window function applied to symbols.
type FunctionCall struct {
	Name string
	Args []Symbol
}

func (f FunctionCall) String() string {
	return fmt.Sprintf("%s(%s)", f.Name, joinSymbols(f.Args))
}

// Assignment binds a symbol to the expression that computes it.
type Assignment struct {
	Symbol     Symbol
	Expression string
}

// SortOrder represents the sort order.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (s SortOrder) String() string {
	if s == Descending {
		return "DESC"
	}
	return "ASC"
}

// SortItem represents a sort key.
type SortItem struct {
	Symbol Symbol
	Order  SortOrder
}

func (s SortItem) String() string {
	return fmt.Sprintf("%s %s", s.Symbol, s.Order)
}

// JoinType represents the type of join.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
)

func (j JoinType) String() string {
	switch j {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	case CrossJoin:
		return "CROSS"
	default:
		return fmt.Sprintf("Unknown(%d)", j)
	}
}

// EquiJoinClause is one left = right equality of a join criteria.
type EquiJoinClause struct {
	Left  Symbol
	Right Symbol
}

func (c EquiJoinClause) String() string {
	return fmt.Sprintf("%s = %s", c.Left, c.Right)
}

// ExchangeType describes how an exchange redistributes rows.
type ExchangeType int

const (
	GatherExchange ExchangeType = iota
	RepartitionExchange
	ReplicateExchange
)

func (e ExchangeType) String() string {
	switch e {
	case GatherExchange:
		return "GATHER"
	case RepartitionExchange:
		return "REPARTITION"
	case ReplicateExchange:
		return "REPLICATE"
	default:
		return fmt.Sprintf("Unknown(%d)", e)
	}
}

// AggregationStep distinguishes single-step from split aggregations.
type AggregationStep int

const (
	SingleAggregation AggregationStep = iota
	PartialAggregation
	FinalAggregation
)

func (a AggregationStep) String() string {
	switch a {
	case SingleAggregation:
		return "SINGLE"
	case PartialAggregation:
		return "PARTIAL"
	case FinalAggregation:
		return "FINAL"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// SampleType represents the sampling method.
type SampleType int

const (
	BernoulliSample SampleType = iota
	SystemSample
)

func (s SampleType) String() string {
	if s == SystemSample {
		return "SYSTEM"
	}
	return "BERNOULLI"
}

// basePlanNode provides common functionality for plan nodes.
type basePlanNode struct {
	id PlanNodeID
}

func (n *basePlanNode) ID() PlanNodeID {
	return n.id
}

func (n *basePlanNode) planNode() {}

func joinSymbols(symbols []Symbol) string {
	names := make([]string, len(symbols))
	for i, sym := range symbols {
		names[i] = sym.name
	}
	return strings.Join(names, ", ")
}

func concatSymbols(lists ...[]Symbol) []Symbol {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	result := make([]Symbol, 0, n)
	for _, l := range lists {
		result = append(result, l...)
	}
	return result
}
