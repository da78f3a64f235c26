// Package descriptor decodes language-agnostic query descriptions (YAML, JSON or a
// generic map) into typed queries and mutations.
//
//	op: select
//	table: users
//	columns: [id, name, {aggr: count, col: id, as: cnt}]
//	where: {age: {">": 18}, status: [a, b], name: bob}
//	group_by: [type]
//	limit: 10
//
// In where, a scalar value is an equality, a sequence is a membership test and a
// mapping is a set of operator comparisons. Columns and operators are applied in
// sorted order so the same description always renders the same statement.
package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
	"github.com/reddwarf-io/reddwarf/validation"
)

// Operations a descriptor can describe.
const (
	OpSelect = "select"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Descriptor is a decoded query description.
type Descriptor struct {
	// Op defaults to select.
	Op      string         `yaml:"op" json:"op" validate:"omitempty,oneof=select insert update delete"`
	Dialect string         `yaml:"dialect" json:"dialect" validate:"sql_dialect"`
	Table   string         `yaml:"table" json:"table" validate:"required"`
	Columns []ColumnSpec   `yaml:"columns" json:"columns" validate:"dive"`
	Where   map[string]any `yaml:"where" json:"where"`
	GroupBy []string       `yaml:"group_by" json:"group_by" validate:"dive,required"`
	Limit   *int           `yaml:"limit" json:"limit" validate:"omitempty,min=0"`
	Offset  *int           `yaml:"offset" json:"offset" validate:"omitempty,min=0"`
	Rows    []dbtypes.Row  `yaml:"rows" json:"rows"`
	Data    map[string]any `yaml:"data" json:"data"`
}

// ColumnSpec is one projection entry: a bare column name or {aggr, col, as}.
type ColumnSpec struct {
	Name      string `yaml:"col" json:"col" validate:"required"`
	Aggregate string `yaml:"aggr" json:"aggr"`
	Alias     string `yaml:"as" json:"as"`
}

// UnmarshalYAML accepts a scalar column name or a mapping.
func (c *ColumnSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = ColumnSpec{Name: node.Value}
		return nil
	case yaml.MappingNode:
		type plain ColumnSpec
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*c = ColumnSpec(p)
		return nil
	default:
		return fmt.Errorf("line %d: column must be a name or a mapping", node.Line)
	}
}

// Column converts c into a projection item.
func (c ColumnSpec) Column() dbtypes.Column {
	if c.Aggregate == "" {
		return dbtypes.Col(c.Name)
	}
	return dbtypes.Aggr(c.Aggregate, c.Name).As(c.Alias)
}

// Parse decodes a YAML or JSON description. Unknown keys are rejected.
func Parse(data []byte) (*Descriptor, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Descriptor
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty query description")
		}
		return nil, fmt.Errorf("failed to decode query description: %w", err)
	}
	if d.Op == "" {
		d.Op = OpSelect
	}
	return &d, nil
}

// Load reads and parses the description file at path.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query description: %w", err)
	}
	return Parse(data)
}

// FromMap decodes an already parsed description, for example a JSON request body.
func FromMap(m map[string]any) (*Descriptor, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query description: %w", err)
	}
	return Parse(data)
}

// Validate checks struct constraints with v, then the fields each operation needs.
func (d *Descriptor) Validate(v *validation.Validator) error {
	if err := v.Validate(d); err != nil {
		return err
	}
	if err := d.validateOperators(v); err != nil {
		return err
	}
	switch d.Op {
	case OpUpdate:
		if len(d.Data) == 0 {
			return fmt.Errorf("%w: update description without data", dbtypes.ErrInvalidInstruction)
		}
		fallthrough
	case OpDelete:
		if len(d.Where) == 0 {
			return fmt.Errorf("%w: %w in %s description", dbtypes.ErrInvalidInstruction, dbtypes.ErrEmptyWhere, d.Op)
		}
	}
	return nil
}

func (d *Descriptor) validateOperators(v *validation.Validator) error {
	cols := make([]string, 0, len(d.Where))
	for col := range d.Where {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		ops, ok := d.Where[col].(map[string]any)
		if !ok {
			continue
		}
		for _, op := range sortedOps(ops) {
			if err := v.GetValidator().Var(op, "sql_operator"); err != nil {
				return fmt.Errorf("%w: where %s: operator %q must be one of %v",
					dbtypes.ErrInvalidInstruction, col, op, dbtypes.Operators())
			}
		}
	}
	return nil
}

// SelectQuery converts a select description.
func (d *Descriptor) SelectQuery() (dbtypes.SelectQuery, error) {
	where, err := d.Conditions()
	if err != nil {
		return dbtypes.SelectQuery{}, err
	}

	cols := make([]dbtypes.Column, len(d.Columns))
	for i, c := range d.Columns {
		cols[i] = c.Column()
	}

	var paging dbtypes.Paging
	if d.Limit != nil {
		paging = paging.WithLimit(*d.Limit)
	}
	if d.Offset != nil {
		paging = paging.WithOffset(*d.Offset)
	}

	return dbtypes.SelectQuery{
		Table:   d.Table,
		Columns: cols,
		Where:   where,
		Paging:  paging,
		GroupBy: d.GroupBy,
	}, nil
}

// Conditions converts the where mapping, ordered by column name.
func (d *Descriptor) Conditions() (dbtypes.Conditions, error) {
	if len(d.Where) == 0 {
		return nil, nil
	}

	cols := make([]string, 0, len(d.Where))
	for col := range d.Where {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	conds := make(dbtypes.Conditions, 0, len(cols))
	for _, col := range cols {
		cond, err := condition(col, d.Where[col])
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

func condition(col string, value any) (dbtypes.Condition, error) {
	switch v := value.(type) {
	case []any:
		return dbtypes.In(col, v...), nil
	case map[string]any:
		ops := sortedOps(v)
		terms := make([]dbtypes.Term, 0, len(ops))
		for _, raw := range ops {
			op, err := dbtypes.ParseOperator(raw)
			if err != nil {
				return nil, fmt.Errorf("where %s: %w", col, err)
			}
			terms = append(terms, dbtypes.Term{Op: op, Value: v[raw]})
		}
		return dbtypes.Compare(col, terms...), nil
	default:
		return dbtypes.Eq(col, v), nil
	}
}

func sortedOps(m map[string]any) []string {
	ops := make([]string, 0, len(m))
	for op := range m {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
