package plancodec

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/quantaplan/internal/errors"
	"github.com/dshills/quantaplan/internal/sql/planner"
)

// Node kind names used in plan documents.
const (
	KindExchange               = "exchange"
	KindAggregation            = "aggregation"
	KindMarkDistinct           = "mark_distinct"
	KindWindow                 = "window"
	KindFilter                 = "filter"
	KindProject                = "project"
	KindTopN                   = "topn"
	KindSort                   = "sort"
	KindOutput                 = "output"
	KindLimit                  = "limit"
	KindDistinctLimit          = "distinct_limit"
	KindSample                 = "sample"
	KindTableScan              = "table_scan"
	KindTableWriter            = "table_writer"
	KindTableCommit            = "table_commit"
	KindMaterializedViewWriter = "materialized_view_writer"
	KindJoin                   = "join"
	KindSemiJoin               = "semi_join"
	KindSink                   = "sink"
	KindUnion                  = "union"
)

// Kinds returns the node kind names a plan document may use, sorted.
func Kinds() []string {
	kinds := []string{
		KindExchange, KindAggregation, KindMarkDistinct, KindWindow, KindFilter,
		KindProject, KindTopN, KindSort, KindOutput, KindLimit, KindDistinctLimit,
		KindSample, KindTableScan, KindTableWriter, KindTableCommit,
		KindMaterializedViewWriter, KindJoin, KindSemiJoin, KindSink, KindUnion,
	}
	slices.Sort(kinds)
	return kinds
}

// DecodeFile reads the plan document at path.
func DecodeFile(path string) (planner.PlanNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOErrorf(err, "could not read plan document %s", path)
	}
	return decode(bytes.NewReader(data), path)
}

// DecodeBytes decodes a plan document held in memory.
func DecodeBytes(data []byte) (planner.PlanNode, error) {
	return decode(bytes.NewReader(data), "")
}

// Decode reads one plan document from r.
func Decode(r io.Reader) (planner.PlanNode, error) {
	return decode(r, "")
}

func decode(r io.Reader, path string) (planner.PlanNode, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc nodeDocument
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.InvalidPlanDocumentError(path, "empty plan document")
		}
		return nil, errors.Wrap(errors.InvalidPlanDocument, err, "malformed plan document").WithWhere(path)
	}

	c := &converter{path: path}
	return c.node(&doc, "root")
}

// converter turns node documents into plan nodes, tracking where in the
// document it is so errors can point at the offending node.
type converter struct {
	path string
}

func (c *converter) where(at string) string {
	if c.path == "" {
		return at
	}
	return c.path + ": " + at
}

func (c *converter) errorf(at string, format string, args ...interface{}) error {
	return errors.InvalidPlanDocumentError(c.where(at), format, args...)
}

func (c *converter) child(doc *nodeDocument, field string, at string) (planner.PlanNode, error) {
	var child *nodeDocument
	switch field {
	case "source":
		child = doc.Source
	case "left":
		child = doc.Left
	case "right":
		child = doc.Right
	case "filtering_source":
		child = doc.FilteringSource
	}
	if child == nil {
		return nil, errors.MissingPlanSourceError(doc.Kind, field, c.where(at))
	}
	return c.node(child, at+"."+field)
}

func (c *converter) node(doc *nodeDocument, at string) (planner.PlanNode, error) {
	if doc.Kind == "" {
		return nil, c.errorf(at, "node is missing %q", "kind")
	}
	if doc.ID == "" {
		return nil, c.errorf(at, "%s node is missing %q", doc.Kind, "id")
	}
	if !slices.Contains(Kinds(), doc.Kind) {
		return nil, errors.UnknownPlanNodeKindError(doc.Kind, c.where(at), Kinds())
	}
	if err := c.checkChildren(doc, at); err != nil {
		return nil, err
	}
	id := planner.PlanNodeID(doc.ID)

	switch doc.Kind {
	case KindExchange:
		exchangeType, err := parseExchangeType(doc.Type)
		if err != nil {
			return nil, c.errorf(at, "%v", err)
		}
		return planner.NewExchangeNode(id, exchangeType, doc.Fragments, symbols(doc.Outputs)), nil

	case KindTableScan:
		return c.tableScan(doc, id)

	case KindJoin:
		left, err := c.child(doc, "left", at)
		if err != nil {
			return nil, err
		}
		right, err := c.child(doc, "right", at)
		if err != nil {
			return nil, err
		}
		joinType, err := parseJoinType(doc.Type)
		if err != nil {
			return nil, c.errorf(at, "%v", err)
		}
		criteria := make([]planner.EquiJoinClause, len(doc.Criteria))
		for i, clause := range doc.Criteria {
			criteria[i] = planner.EquiJoinClause{Left: planner.NewSymbol(clause.Left), Right: planner.NewSymbol(clause.Right)}
		}
		return planner.NewJoinNode(id, joinType, left, right, criteria), nil

	case KindSemiJoin:
		source, err := c.child(doc, "source", at)
		if err != nil {
			return nil, err
		}
		filtering, err := c.child(doc, "filtering_source", at)
		if err != nil {
			return nil, err
		}
		if doc.Output == "" {
			return nil, c.errorf(at, "%s node is missing %q", doc.Kind, "output")
		}
		return planner.NewSemiJoinNode(id, source, filtering,
			planner.NewSymbol(doc.SourceJoinSymbol),
			planner.NewSymbol(doc.FilteringJoinSymbol),
			planner.NewSymbol(doc.Output)), nil

	case KindUnion:
		inputs := make([]planner.PlanNode, len(doc.Sources))
		for i, sourceDoc := range doc.Sources {
			if sourceDoc == nil {
				return nil, c.errorf(at, "%s input %d is empty", doc.Kind, i)
			}
			input, err := c.node(sourceDoc, fmt.Sprintf("%s.sources[%d]", at, i))
			if err != nil {
				return nil, err
			}
			inputs[i] = input
		}
		return planner.NewUnionNode(id, inputs), nil
	}

	// Remaining kinds all have exactly one source.
	source, err := c.child(doc, "source", at)
	if err != nil {
		return nil, err
	}
	return c.unary(doc, id, source, at)
}

// childFields returns the child fields a node kind takes.
func childFields(kind string) []string {
	switch kind {
	case KindExchange, KindTableScan:
		return nil
	case KindJoin:
		return []string{"left", "right"}
	case KindSemiJoin:
		return []string{"source", "filtering_source"}
	case KindUnion:
		return []string{"sources"}
	default:
		return []string{"source"}
	}
}

// checkChildren rejects child fields the node kind does not take, so no
// subtree of the document is silently left out of the plan.
func (c *converter) checkChildren(doc *nodeDocument, at string) error {
	present := []struct {
		field string
		set   bool
	}{
		{"source", doc.Source != nil},
		{"left", doc.Left != nil},
		{"right", doc.Right != nil},
		{"filtering_source", doc.FilteringSource != nil},
		{"sources", doc.Sources != nil},
	}

	allowed := childFields(doc.Kind)
	for _, p := range present {
		if p.set && !slices.Contains(allowed, p.field) {
			return c.errorf(at, "%s node does not take %q", doc.Kind, p.field)
		}
	}
	return nil
}

func (c *converter) unary(doc *nodeDocument, id planner.PlanNodeID, source planner.PlanNode, at string) (planner.PlanNode, error) {
	switch doc.Kind {
	case KindAggregation:
		step, err := parseAggregationStep(doc.Step)
		if err != nil {
			return nil, c.errorf(at, "%v", err)
		}
		return planner.NewAggregationNode(id, source, symbols(doc.GroupBy), functions(doc.Functions), step), nil

	case KindMarkDistinct:
		if doc.Marker == "" {
			return nil, c.errorf(at, "%s node is missing %q", doc.Kind, "marker")
		}
		return planner.NewMarkDistinctNode(id, source, planner.NewSymbol(doc.Marker), symbols(doc.Distinct)), nil

	case KindWindow:
		orderBy, err := sortItems(doc.OrderBy)
		if err != nil {
			return nil, c.errorf(at, "%v", err)
		}
		return planner.NewWindowNode(id, source, symbols(doc.PartitionBy), orderBy, functions(doc.Functions)), nil

	case KindFilter:
		return planner.NewFilterNode(id, source, doc.Predicate), nil

	case KindProject:
		assignments := make([]planner.Assignment, len(doc.Projections))
		for i, p := range doc.Projections {
			if p.Symbol == "" {
				return nil, c.errorf(at, "projection %d is missing %q", i, "symbol")
			}
			assignments[i] = planner.Assignment{Symbol: planner.NewSymbol(p.Symbol), Expression: p.Expression}
		}
		return planner.NewProjectNode(id, source, assignments), nil

	case KindTopN, KindSort:
		orderBy, err := sortItems(doc.OrderBy)
		if err != nil {
			return nil, c.errorf(at, "%v", err)
		}
		if doc.Kind == KindTopN {
			return planner.NewTopNNode(id, source, doc.Count, orderBy), nil
		}
		return planner.NewSortNode(id, source, orderBy), nil

	case KindOutput:
		return planner.NewOutputNode(id, source, doc.ColumnNames, symbols(doc.Outputs)), nil

	case KindLimit:
		return planner.NewLimitNode(id, source, doc.Count), nil

	case KindDistinctLimit:
		return planner.NewDistinctLimitNode(id, source, doc.Count), nil

	case KindSample:
		sampleType, err := parseSampleType(doc.Type)
		if err != nil {
			return nil, c.errorf(at, "%v", err)
		}
		return planner.NewSampleNode(id, source, doc.Ratio, sampleType), nil

	case KindTableWriter:
		return planner.NewTableWriterNode(id, source, doc.Table, symbols(doc.Columns), doc.ColumnNames, symbols(doc.Outputs)), nil

	case KindTableCommit:
		return planner.NewTableCommitNode(id, source, doc.Table, symbols(doc.Outputs)), nil

	case KindMaterializedViewWriter:
		return planner.NewMaterializedViewWriterNode(id, source, doc.Table, symbols(doc.Columns), symbols(doc.Outputs)), nil

	case KindSink:
		return planner.NewSinkNode(id, source), nil
	}

	return nil, errors.InternalErrorf("plan codec has no conversion for kind %q", doc.Kind)
}

func (c *converter) tableScan(doc *nodeDocument, id planner.PlanNodeID) (planner.PlanNode, error) {
	assignments := make(map[planner.Symbol]planner.ColumnHandle, len(doc.Assignments))
	for name, column := range doc.Assignments {
		if column == "" {
			column = name
		}
		assignments[planner.NewSymbol(name)] = planner.TableColumn{Table: doc.Table, Column: column}
	}

	outputs := symbols(doc.Outputs)
	if outputs == nil {
		// Without an explicit list every assigned symbol is produced, in name order.
		names := make([]string, 0, len(doc.Assignments))
		for name := range doc.Assignments {
			names = append(names, name)
		}
		slices.Sort(names)
		outputs = symbols(names)
	}
	return planner.NewTableScanNode(id, doc.Table, outputs, assignments), nil
}

func symbols(names []string) []planner.Symbol {
	if names == nil {
		return nil
	}
	result := make([]planner.Symbol, len(names))
	for i, name := range names {
		result[i] = planner.NewSymbol(name)
	}
	return result
}

func functions(docs map[string]functionDocument) map[planner.Symbol]planner.FunctionCall {
	result := make(map[planner.Symbol]planner.FunctionCall, len(docs))
	for name, fn := range docs {
		result[planner.NewSymbol(name)] = planner.FunctionCall{Name: fn.Name, Args: symbols(fn.Args)}
	}
	return result
}

func sortItems(docs []sortDocument) ([]planner.SortItem, error) {
	items := make([]planner.SortItem, len(docs))
	for i, d := range docs {
		if d.Symbol == "" {
			return nil, fmt.Errorf("order_by entry %d is missing %q", i, "symbol")
		}
		order, err := parseSortOrder(d.Order)
		if err != nil {
			return nil, err
		}
		items[i] = planner.SortItem{Symbol: planner.NewSymbol(d.Symbol), Order: order}
	}
	return items, nil
}

func parseSortOrder(s string) (planner.SortOrder, error) {
	switch strings.ToLower(s) {
	case "", "asc":
		return planner.Ascending, nil
	case "desc":
		return planner.Descending, nil
	default:
		return 0, fmt.Errorf("unknown sort order %q", s)
	}
}

func parseJoinType(s string) (planner.JoinType, error) {
	switch strings.ToLower(s) {
	case "", "inner":
		return planner.InnerJoin, nil
	case "left":
		return planner.LeftJoin, nil
	case "right":
		return planner.RightJoin, nil
	case "full":
		return planner.FullJoin, nil
	case "cross":
		return planner.CrossJoin, nil
	default:
		return 0, fmt.Errorf("unknown join type %q", s)
	}
}

func parseExchangeType(s string) (planner.ExchangeType, error) {
	switch strings.ToLower(s) {
	case "", "gather":
		return planner.GatherExchange, nil
	case "repartition":
		return planner.RepartitionExchange, nil
	case "replicate":
		return planner.ReplicateExchange, nil
	default:
		return 0, fmt.Errorf("unknown exchange type %q", s)
	}
}

func parseAggregationStep(s string) (planner.AggregationStep, error) {
	switch strings.ToLower(s) {
	case "", "single":
		return planner.SingleAggregation, nil
	case "partial":
		return planner.PartialAggregation, nil
	case "final":
		return planner.FinalAggregation, nil
	default:
		return 0, fmt.Errorf("unknown aggregation step %q", s)
	}
}

func parseSampleType(s string) (planner.SampleType, error) {
	switch strings.ToLower(s) {
	case "", "bernoulli":
		return planner.BernoulliSample, nil
	case "system":
		return planner.SystemSample, nil
	default:
		return 0, fmt.Errorf("unknown sample type %q", s)
	}
}
