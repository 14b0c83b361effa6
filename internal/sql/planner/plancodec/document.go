// Package plancodec reads serialized logical plans.
//
// A plan document is YAML (or JSON) describing one node per mapping. Every
// node names its kind and id; children sit under source, left/right,
// filtering_source or sources depending on the kind:
//
//	kind: output
//	id: "3"
//	column_names: [total]
//	outputs: [total]
//	source:
//	  kind: project
//	  id: "2"
//	  projections:
//	    - {symbol: total, expression: price * qty}
//	  source:
//	    kind: table_scan
//	    id: "1"
//	    table: orders
//	    assignments: {price: price, qty: quantity}
package plancodec

// nodeDocument is the union of the fields every node kind may carry.
type nodeDocument struct {
	Kind string `yaml:"kind"`
	ID   string `yaml:"id"`

	Source          *nodeDocument   `yaml:"source"`
	Left            *nodeDocument   `yaml:"left"`
	Right           *nodeDocument   `yaml:"right"`
	FilteringSource *nodeDocument   `yaml:"filtering_source"`
	Sources         []*nodeDocument `yaml:"sources"`

	Outputs     []string `yaml:"outputs"`
	ColumnNames []string `yaml:"column_names"`
	Columns     []string `yaml:"columns"`
	Table       string   `yaml:"table"`
	Type        string   `yaml:"type"`

	// table_scan: symbol -> column name
	Assignments map[string]string `yaml:"assignments"`
	// project
	Projections []projectionDocument `yaml:"projections"`

	Predicate   string                      `yaml:"predicate"`
	Count       int64                       `yaml:"count"`
	Ratio       float64                     `yaml:"ratio"`
	OrderBy     []sortDocument              `yaml:"order_by"`
	GroupBy     []string                    `yaml:"group_by"`
	PartitionBy []string                    `yaml:"partition_by"`
	Step        string                      `yaml:"step"`
	Functions   map[string]functionDocument `yaml:"functions"`
	Fragments   []string                    `yaml:"fragments"`

	Marker   string   `yaml:"marker"`
	Distinct []string `yaml:"distinct"`

	Criteria            []clauseDocument `yaml:"criteria"`
	SourceJoinSymbol    string           `yaml:"source_join_symbol"`
	FilteringJoinSymbol string           `yaml:"filtering_join_symbol"`
	Output              string           `yaml:"output"`
}

type projectionDocument struct {
	Symbol     string `yaml:"symbol"`
	Expression string `yaml:"expression"`
}

type sortDocument struct {
	Symbol string `yaml:"symbol"`
	Order  string `yaml:"order"`
}

type functionDocument struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

type clauseDocument struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}
