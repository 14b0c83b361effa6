package planner

import (
	"strings"

	"github.com/lib/pq"
)

// ExplainPlan returns a string representation of the plan tree, one node per
// line, children indented two spaces below their parent. A missing child is
// printed as <nil>.
func ExplainPlan(root PlanNode) string {
	if root == nil {
		return ""
	}

	type frame struct {
		node  PlanNode
		depth int
	}

	outputs := deriveOutputs(root)
	var sb strings.Builder
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sb.WriteString(strings.Repeat("  ", f.depth))
		if f.node == nil {
			sb.WriteString("<nil>\n")
			continue
		}
		sb.WriteString(f.node.String())
		sb.WriteString(" [id=")
		sb.WriteString(string(f.node.ID()))
		sb.WriteString("] => [")
		sb.WriteString(quoteSymbols(outputs[f.node]))
		sb.WriteString("]\n")

		sources := f.node.Sources()
		for i := len(sources) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: sources[i], depth: f.depth + 1})
		}
	}
	return sb.String()
}

// quoteSymbols renders symbols as SQL identifiers so that names containing
// spaces, commas or quotes stay unambiguous.
func quoteSymbols(symbols []Symbol) string {
	quoted := make([]string, len(symbols))
	for i, sym := range symbols {
		quoted[i] = pq.QuoteIdentifier(sym.name)
	}
	return strings.Join(quoted, ", ")
}
