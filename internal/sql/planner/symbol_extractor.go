package planner

import (
	"fmt"

	"github.com/dshills/quantaplan/internal/errors"
)

// ExtractSymbols computes all symbols declared by a logical plan.
//
// Every node of the tree is visited once and its locally introduced symbols
// are added to the result, so the set covers the whole namespace in use
// under root, not only the symbols live at the root. A nil root yields the
// empty set.
//
// The walk uses an explicit work list, so plan depth is bounded by memory
// rather than by the goroutine stack. If any node has a kind without an
// extraction rule, ExtractSymbols returns a FeatureNotSupported error and no
// set.
func ExtractSymbols(root PlanNode) (SymbolSet, error) {
	if root == nil {
		return SymbolSet{}, nil
	}

	builder := newSymbolSetBuilder()
	stack := []PlanNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		local, sources, err := symbolContribution(node)
		if err != nil {
			return SymbolSet{}, err
		}
		builder.addAll(local)

		// Push in reverse so sources are visited left to right.
		for i := len(sources) - 1; i >= 0; i-- {
			stack = append(stack, sources[i])
		}
	}

	return builder.build(), nil
}

// MustExtractSymbols is like ExtractSymbols but panics if the plan holds a
// node kind without an extraction rule.
func MustExtractSymbols(root PlanNode) SymbolSet {
	symbols, err := ExtractSymbols(root)
	if err != nil {
		panic(err)
	}
	return symbols
}

// symbolContribution returns the symbols a node introduces itself together
// with the sources the walk has to visit next.
func symbolContribution(node PlanNode) ([]Symbol, []PlanNode, error) {
	switch n := node.(type) {
	case *ExchangeNode:
		return n.Outputs, nil, nil
	case *AggregationNode:
		return sortedFunctionKeys(n.Aggregations), n.Sources(), nil
	case *MarkDistinctNode:
		return []Symbol{n.MarkerSymbol}, n.Sources(), nil
	case *WindowNode:
		return sortedFunctionKeys(n.WindowFunctions), n.Sources(), nil
	case *FilterNode:
		return nil, n.Sources(), nil
	case *ProjectNode:
		return n.OutputSymbols(), n.Sources(), nil
	case *TopNNode:
		return nil, n.Sources(), nil
	case *SortNode:
		return nil, n.Sources(), nil
	case *OutputNode:
		return n.Outputs, n.Sources(), nil
	case *LimitNode:
		return nil, n.Sources(), nil
	case *DistinctLimitNode:
		return nil, n.Sources(), nil
	case *SampleNode:
		return nil, n.Sources(), nil
	case *TableScanNode:
		return sortedColumnKeys(n.Assignments), nil, nil
	case *TableWriterNode:
		return n.Outputs, n.Sources(), nil
	case *TableCommitNode:
		return n.Outputs, n.Sources(), nil
	case *MaterializedViewWriterNode:
		return n.Outputs, n.Sources(), nil
	case *JoinNode:
		// Join outputs are drawn from its inputs, which the walk covers.
		return nil, n.Sources(), nil
	case *SemiJoinNode:
		return []Symbol{n.SemiJoinOutput}, n.Sources(), nil
	case *SinkNode:
		return nil, n.Sources(), nil
	case *UnionNode:
		return nil, n.Sources(), nil
	default:
		return nil, nil, errors.UnsupportedPlanNodeError(fmt.Sprintf("%T", node), nodeID(node))
	}
}

func nodeID(node PlanNode) string {
	if node == nil {
		return "<nil>"
	}
	return string(node.ID())
}
