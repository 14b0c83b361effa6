package planner

// outputSymbolsOf returns the outputs of a node whose columns depend on its
// sources.
func outputSymbolsOf(node PlanNode) []Symbol {
	return deriveOutputs(node)[node]
}

// deriveOutputs computes the output symbols of every node under root, sources
// before parents, so each node is derived once however long the chain of
// pass-through nodes above it. Missing sources produce no outputs.
func deriveOutputs(root PlanNode) map[PlanNode][]Symbol {
	type frame struct {
		node     PlanNode
		expanded bool
	}

	outputs := make(map[PlanNode][]Symbol)
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node == nil {
			continue
		}
		if _, done := outputs[f.node]; done {
			continue
		}

		sources := f.node.Sources()
		if !f.expanded {
			stack = append(stack, frame{node: f.node, expanded: true})
			for _, source := range sources {
				stack = append(stack, frame{node: source})
			}
			continue
		}

		inputs := make([][]Symbol, len(sources))
		for i, source := range sources {
			if source != nil {
				inputs[i] = outputs[source]
			}
		}
		outputs[f.node] = nodeOutputs(f.node, inputs)
	}
	return outputs
}

// nodeOutputs applies one node's output rule to the outputs of its sources.
func nodeOutputs(node PlanNode, inputs [][]Symbol) []Symbol {
	var first []Symbol
	if len(inputs) > 0 {
		first = inputs[0]
	}

	switch n := node.(type) {
	case *FilterNode, *TopNNode, *SortNode, *LimitNode, *DistinctLimitNode, *SampleNode, *SinkNode, *UnionNode:
		return first
	case *MarkDistinctNode:
		return concatSymbols(first, []Symbol{n.MarkerSymbol})
	case *WindowNode:
		return concatSymbols(first, sortedFunctionKeys(n.WindowFunctions))
	case *JoinNode:
		return concatSymbols(inputs...)
	case *SemiJoinNode:
		return concatSymbols(first, []Symbol{n.SemiJoinOutput})
	default:
		// Remaining kinds declare their outputs directly.
		return node.OutputSymbols()
	}
}
