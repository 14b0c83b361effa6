package planner

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ExchangeNode is a data redistribution boundary. Rows arrive from remote
// plan fragments, so the node has no local sources.
type ExchangeNode struct {
	basePlanNode
	Type              ExchangeType
	SourceFragmentIDs []string
	Outputs           []Symbol
}

func (n *ExchangeNode) Sources() []PlanNode { return nil }
func (n *ExchangeNode) OutputSymbols() []Symbol { return n.Outputs }

func (n *ExchangeNode) String() string {
	if len(n.SourceFragmentIDs) == 0 {
		return fmt.Sprintf("Exchange(%s)", n.Type)
	}
	return fmt.Sprintf("Exchange(%s from %s)", n.Type, strings.Join(n.SourceFragmentIDs, ", "))
}

// AggregationNode groups rows and computes aggregate functions.
type AggregationNode struct {
	basePlanNode
	Source       PlanNode
	GroupBy      []Symbol
	Aggregations map[Symbol]FunctionCall
	Step         AggregationStep
}

func (n *AggregationNode) Sources() []PlanNode { return []PlanNode{n.Source} }

func (n *AggregationNode) OutputSymbols() []Symbol {
	return concatSymbols(n.GroupBy, sortedFunctionKeys(n.Aggregations))
}

func (n *AggregationNode) String() string {
	var parts []string
	if len(n.GroupBy) > 0 {
		parts = append(parts, "GROUP BY "+joinSymbols(n.GroupBy))
	}
	parts = append(parts, formatFunctions(n.Aggregations))
	return fmt.Sprintf("Aggregate(%s %s)", n.Step, strings.Join(parts, " "))
}

// MarkDistinctNode flags the first occurrence of each distinct key with a
// boolean marker symbol.
type MarkDistinctNode struct {
	basePlanNode
	Source          PlanNode
	MarkerSymbol    Symbol
	DistinctSymbols []Symbol
}

func (n *MarkDistinctNode) Sources() []PlanNode { return []PlanNode{n.Source} }

func (n *MarkDistinctNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *MarkDistinctNode) String() string {
	return fmt.Sprintf("MarkDistinct(%s := distinct %s)", n.MarkerSymbol, joinSymbols(n.DistinctSymbols))
}

// WindowNode computes window functions over partitions of its input.
type WindowNode struct {
	basePlanNode
	Source          PlanNode
	PartitionBy     []Symbol
	OrderBy         []SortItem
	WindowFunctions map[Symbol]FunctionCall
}

func (n *WindowNode) Sources() []PlanNode { return []PlanNode{n.Source} }

func (n *WindowNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *WindowNode) String() string {
	return fmt.Sprintf("Window(PARTITION BY %s ORDER BY %s %s)",
		joinSymbols(n.PartitionBy), formatSortItems(n.OrderBy), formatFunctions(n.WindowFunctions))
}

// FilterNode keeps the rows matching a predicate.
type FilterNode struct {
	basePlanNode
	Source    PlanNode
	Predicate string
}

func (n *FilterNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *FilterNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *FilterNode) String() string {
	return fmt.Sprintf("Filter(%s)", n.Predicate)
}

// ProjectNode computes one output symbol per assignment.
type ProjectNode struct {
	basePlanNode
	Source      PlanNode
	Assignments []Assignment
}

func (n *ProjectNode) Sources() []PlanNode { return []PlanNode{n.Source} }

func (n *ProjectNode) OutputSymbols() []Symbol {
	result := make([]Symbol, len(n.Assignments))
	for i, a := range n.Assignments {
		result[i] = a.Symbol
	}
	return result
}

func (n *ProjectNode) String() string {
	projStrs := make([]string, len(n.Assignments))
	for i, a := range n.Assignments {
		if a.Expression == "" || a.Expression == a.Symbol.name {
			projStrs[i] = a.Symbol.name
			continue
		}
		projStrs[i] = fmt.Sprintf("%s := %s", a.Symbol, a.Expression)
	}
	return fmt.Sprintf("Project(%s)", strings.Join(projStrs, ", "))
}

// TopNNode keeps the first Count rows in sort order.
type TopNNode struct {
	basePlanNode
	Source  PlanNode
	Count   int64
	OrderBy []SortItem
}

func (n *TopNNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *TopNNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *TopNNode) String() string {
	return fmt.Sprintf("TopN(%d, %s)", n.Count, formatSortItems(n.OrderBy))
}

// SortNode orders its input.
type SortNode struct {
	basePlanNode
	Source  PlanNode
	OrderBy []SortItem
}

func (n *SortNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *SortNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *SortNode) String() string {
	return fmt.Sprintf("Sort(%s)", formatSortItems(n.OrderBy))
}

// OutputNode is the root of a query plan and names the result columns.
type OutputNode struct {
	basePlanNode
	Source      PlanNode
	ColumnNames []string
	Outputs     []Symbol
}

func (n *OutputNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *OutputNode) OutputSymbols() []Symbol { return n.Outputs }

func (n *OutputNode) String() string {
	return fmt.Sprintf("Output(%s)", strings.Join(n.ColumnNames, ", "))
}

// LimitNode keeps the first Count rows.
type LimitNode struct {
	basePlanNode
	Source PlanNode
	Count  int64
}

func (n *LimitNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *LimitNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *LimitNode) String() string {
	return fmt.Sprintf("Limit(%d)", n.Count)
}

// DistinctLimitNode keeps the first Limit distinct rows.
type DistinctLimitNode struct {
	basePlanNode
	Source PlanNode
	Limit  int64
}

func (n *DistinctLimitNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *DistinctLimitNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *DistinctLimitNode) String() string {
	return fmt.Sprintf("DistinctLimit(%d)", n.Limit)
}

// SampleNode keeps a random fraction of its input.
type SampleNode struct {
	basePlanNode
	Source PlanNode
	Ratio  float64
	Type   SampleType
}

func (n *SampleNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *SampleNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *SampleNode) String() string {
	return fmt.Sprintf("Sample(%s %g)", n.Type, n.Ratio)
}

// TableScanNode reads a table. Assignments map each produced symbol to the
// column it reads.
type TableScanNode struct {
	basePlanNode
	Table       string
	Outputs     []Symbol
	Assignments map[Symbol]ColumnHandle
}

func (n *TableScanNode) Sources() []PlanNode { return nil }
func (n *TableScanNode) OutputSymbols() []Symbol { return n.Outputs }

func (n *TableScanNode) String() string {
	return fmt.Sprintf("TableScan(%s)", n.Table)
}

// TableWriterNode writes its input into a target table.
type TableWriterNode struct {
	basePlanNode
	Source      PlanNode
	Target      string
	Columns     []Symbol
	ColumnNames []string
	Outputs     []Symbol
}

func (n *TableWriterNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *TableWriterNode) OutputSymbols() []Symbol { return n.Outputs }

func (n *TableWriterNode) String() string {
	return fmt.Sprintf("TableWriter(%s)", n.Target)
}

// TableCommitNode finishes a table write once every writer is done.
type TableCommitNode struct {
	basePlanNode
	Source  PlanNode
	Target  string
	Outputs []Symbol
}

func (n *TableCommitNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *TableCommitNode) OutputSymbols() []Symbol { return n.Outputs }

func (n *TableCommitNode) String() string {
	return fmt.Sprintf("TableCommit(%s)", n.Target)
}

// MaterializedViewWriterNode writes its input into a materialized view.
type MaterializedViewWriterNode struct {
	basePlanNode
	Source  PlanNode
	Table   string
	Columns []Symbol
	Outputs []Symbol
}

func (n *MaterializedViewWriterNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *MaterializedViewWriterNode) OutputSymbols() []Symbol { return n.Outputs }

func (n *MaterializedViewWriterNode) String() string {
	return fmt.Sprintf("MaterializedViewWriter(%s)", n.Table)
}

// JoinNode joins two inputs.
type JoinNode struct {
	basePlanNode
	Type     JoinType
	Left     PlanNode
	Right    PlanNode
	Criteria []EquiJoinClause
}

func (n *JoinNode) Sources() []PlanNode { return []PlanNode{n.Left, n.Right} }

func (n *JoinNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *JoinNode) String() string {
	clauses := make([]string, len(n.Criteria))
	for i, c := range n.Criteria {
		clauses[i] = c.String()
	}
	return fmt.Sprintf("%sJoin(%s)", n.Type, strings.Join(clauses, " AND "))
}

// SemiJoinNode marks each source row with whether its join symbol appears
// in the filtering source.
type SemiJoinNode struct {
	basePlanNode
	Source                    PlanNode
	FilteringSource           PlanNode
	SourceJoinSymbol          Symbol
	FilteringSourceJoinSymbol Symbol
	SemiJoinOutput            Symbol
}

func (n *SemiJoinNode) Sources() []PlanNode { return []PlanNode{n.Source, n.FilteringSource} }

func (n *SemiJoinNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *SemiJoinNode) String() string {
	return fmt.Sprintf("SemiJoin(%s := %s IN %s)", n.SemiJoinOutput, n.SourceJoinSymbol, n.FilteringSourceJoinSymbol)
}

// SinkNode hands its input to the enclosing fragment's output buffer.
type SinkNode struct {
	basePlanNode
	Source PlanNode
}

func (n *SinkNode) Sources() []PlanNode { return []PlanNode{n.Source} }
func (n *SinkNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *SinkNode) String() string {
	return "Sink"
}

// UnionNode concatenates its inputs.
type UnionNode struct {
	basePlanNode
	Inputs []PlanNode
}

func (n *UnionNode) Sources() []PlanNode { return n.Inputs }

func (n *UnionNode) OutputSymbols() []Symbol { return outputSymbolsOf(n) }

func (n *UnionNode) String() string {
	return fmt.Sprintf("Union(%d inputs)", len(n.Inputs))
}

// NewExchangeNode creates a new exchange node.
func NewExchangeNode(id PlanNodeID, exchangeType ExchangeType, sourceFragmentIDs []string, outputs []Symbol) *ExchangeNode {
	return &ExchangeNode{
		basePlanNode:      basePlanNode{id: id},
		Type:              exchangeType,
		SourceFragmentIDs: sourceFragmentIDs,
		Outputs:           outputs,
	}
}

// NewAggregationNode creates a new aggregation node.
func NewAggregationNode(id PlanNodeID, source PlanNode, groupBy []Symbol, aggregations map[Symbol]FunctionCall, step AggregationStep) *AggregationNode {
	return &AggregationNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		GroupBy:      groupBy,
		Aggregations: aggregations,
		Step:         step,
	}
}

// NewMarkDistinctNode creates a new mark distinct node.
func NewMarkDistinctNode(id PlanNodeID, source PlanNode, marker Symbol, distinctSymbols []Symbol) *MarkDistinctNode {
	return &MarkDistinctNode{
		basePlanNode:    basePlanNode{id: id},
		Source:          source,
		MarkerSymbol:    marker,
		DistinctSymbols: distinctSymbols,
	}
}

// NewWindowNode creates a new window node.
func NewWindowNode(id PlanNodeID, source PlanNode, partitionBy []Symbol, orderBy []SortItem, functions map[Symbol]FunctionCall) *WindowNode {
	return &WindowNode{
		basePlanNode:    basePlanNode{id: id},
		Source:          source,
		PartitionBy:     partitionBy,
		OrderBy:         orderBy,
		WindowFunctions: functions,
	}
}

// NewFilterNode creates a new filter node.
func NewFilterNode(id PlanNodeID, source PlanNode, predicate string) *FilterNode {
	return &FilterNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		Predicate:    predicate,
	}
}

// NewProjectNode creates a new project node.
func NewProjectNode(id PlanNodeID, source PlanNode, assignments []Assignment) *ProjectNode {
	return &ProjectNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		Assignments:  assignments,
	}
}

// NewTopNNode creates a new top-N node.
func NewTopNNode(id PlanNodeID, source PlanNode, count int64, orderBy []SortItem) *TopNNode {
	return &TopNNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		Count:        count,
		OrderBy:      orderBy,
	}
}

// NewSortNode creates a new sort node.
func NewSortNode(id PlanNodeID, source PlanNode, orderBy []SortItem) *SortNode {
	return &SortNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		OrderBy:      orderBy,
	}
}

// NewOutputNode creates a new output node.
func NewOutputNode(id PlanNodeID, source PlanNode, columnNames []string, outputs []Symbol) *OutputNode {
	return &OutputNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		ColumnNames:  columnNames,
		Outputs:      outputs,
	}
}

// NewLimitNode creates a new limit node.
func NewLimitNode(id PlanNodeID, source PlanNode, count int64) *LimitNode {
	return &LimitNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		Count:        count,
	}
}

// NewDistinctLimitNode creates a new distinct limit node.
func NewDistinctLimitNode(id PlanNodeID, source PlanNode, limit int64) *DistinctLimitNode {
	return &DistinctLimitNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		Limit:        limit,
	}
}

// NewSampleNode creates a new sample node.
func NewSampleNode(id PlanNodeID, source PlanNode, ratio float64, sampleType SampleType) *SampleNode {
	return &SampleNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		Ratio:        ratio,
		Type:         sampleType,
	}
}

// NewTableScanNode creates a new table scan node.
func NewTableScanNode(id PlanNodeID, table string, outputs []Symbol, assignments map[Symbol]ColumnHandle) *TableScanNode {
	return &TableScanNode{
		basePlanNode: basePlanNode{id: id},
		Table:        table,
		Outputs:      outputs,
		Assignments:  assignments,
	}
}

// NewTableWriterNode creates a new table writer node.
func NewTableWriterNode(id PlanNodeID, source PlanNode, target string, columns []Symbol, columnNames []string, outputs []Symbol) *TableWriterNode {
	return &TableWriterNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		Target:       target,
		Columns:      columns,
		ColumnNames:  columnNames,
		Outputs:      outputs,
	}
}

// NewTableCommitNode creates a new table commit node.
func NewTableCommitNode(id PlanNodeID, source PlanNode, target string, outputs []Symbol) *TableCommitNode {
	return &TableCommitNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		Target:       target,
		Outputs:      outputs,
	}
}

// NewMaterializedViewWriterNode creates a new materialized view writer node.
func NewMaterializedViewWriterNode(id PlanNodeID, source PlanNode, table string, columns []Symbol, outputs []Symbol) *MaterializedViewWriterNode {
	return &MaterializedViewWriterNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
		Table:        table,
		Columns:      columns,
		Outputs:      outputs,
	}
}

// NewJoinNode creates a new join node.
func NewJoinNode(id PlanNodeID, joinType JoinType, left, right PlanNode, criteria []EquiJoinClause) *JoinNode {
	return &JoinNode{
		basePlanNode: basePlanNode{id: id},
		Type:         joinType,
		Left:         left,
		Right:        right,
		Criteria:     criteria,
	}
}

// NewSemiJoinNode creates a new semi join node.
func NewSemiJoinNode(id PlanNodeID, source, filteringSource PlanNode, sourceJoinSymbol, filteringSourceJoinSymbol, output Symbol) *SemiJoinNode {
	return &SemiJoinNode{
		basePlanNode:              basePlanNode{id: id},
		Source:                    source,
		FilteringSource:           filteringSource,
		SourceJoinSymbol:          sourceJoinSymbol,
		FilteringSourceJoinSymbol: filteringSourceJoinSymbol,
		SemiJoinOutput:            output,
	}
}

// NewSinkNode creates a new sink node.
func NewSinkNode(id PlanNodeID, source PlanNode) *SinkNode {
	return &SinkNode{
		basePlanNode: basePlanNode{id: id},
		Source:       source,
	}
}

// NewUnionNode creates a new union node.
func NewUnionNode(id PlanNodeID, inputs []PlanNode) *UnionNode {
	return &UnionNode{
		basePlanNode: basePlanNode{id: id},
		Inputs:       inputs,
	}
}

func sortedFunctionKeys(functions map[Symbol]FunctionCall) []Symbol {
	return slices.SortedFunc(maps.Keys(functions), Symbol.Compare)
}

func sortedColumnKeys(assignments map[Symbol]ColumnHandle) []Symbol {
	return slices.SortedFunc(maps.Keys(assignments), Symbol.Compare)
}

func formatFunctions(functions map[Symbol]FunctionCall) string {
	keys := sortedFunctionKeys(functions)
	parts := make([]string, len(keys))
	for i, sym := range keys {
		parts[i] = fmt.Sprintf("%s := %s", sym, functions[sym])
	}
	return strings.Join(parts, ", ")
}

func formatSortItems(items []SortItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}
