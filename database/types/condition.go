//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import (
	"fmt"
	"slices"
)

// Operator is a comparison operator accepted by Comparison conditions.
type Operator string

const (
	OpGt     Operator = ">"
	OpGte    Operator = ">="
	OpLt     Operator = "<"
	OpLte    Operator = "<="
	OpNotEq  Operator = "!="
	OpRegexp Operator = "regexp"
)

var allowedOperators = []Operator{OpGt, OpGte, OpLt, OpLte, OpNotEq, OpRegexp}

// Operators returns the recognized comparison operators.
func Operators() []Operator {
	return slices.Clone(allowedOperators)
}

// Valid reports whether op is a recognized comparison operator.
func (op Operator) Valid() bool {
	return slices.Contains(allowedOperators, op)
}

// ParseOperator validates a raw operator string.
func ParseOperator(raw string) (Operator, error) {
	op := Operator(raw)
	if !op.Valid() {
		return "", fmt.Errorf("%w: operator %q is not supported", ErrInvalidInstruction, raw)
	}
	return op, nil
}

// Condition is a filter predicate on one column. It is a closed set of three
// variants: Equality, Membership and Comparison.
type Condition interface {
	// Column returns the column the predicate applies to.
	Column() string
	isCondition()
}

// Equality renders column = value (column IS NULL for a nil value).
type Equality struct {
	Col   string
	Value any
}

// Membership renders column IN (v1, v2, ...).
type Membership struct {
	Col    string
	Values []any
}

// Comparison holds one or more operator/value pairs on a single column,
// rendered in order and joined with AND.
type Comparison struct {
	Col   string
	Terms []Term
}

// Term is one operator/value pair of a Comparison.
type Term struct {
	Op    Operator
	Value any
}

func (c Equality) Column() string   { return c.Col }
func (c Membership) Column() string { return c.Col }
func (c Comparison) Column() string { return c.Col }

func (Equality) isCondition()   {}
func (Membership) isCondition() {}
func (Comparison) isCondition() {}

// Eq creates an equality condition.
func Eq(column string, value any) Condition {
	return Equality{Col: column, Value: value}
}

// In creates a membership condition.
func In(column string, values ...any) Condition {
	return Membership{Col: column, Values: values}
}

// Compare creates a comparison condition from operator/value pairs.
func Compare(column string, terms ...Term) Condition {
	return Comparison{Col: column, Terms: terms}
}

// Gt creates column > value.
func Gt(column string, value any) Condition { return Compare(column, Term{OpGt, value}) }

// Gte creates column >= value.
func Gte(column string, value any) Condition { return Compare(column, Term{OpGte, value}) }

// Lt creates column < value.
func Lt(column string, value any) Condition { return Compare(column, Term{OpLt, value}) }

// Lte creates column <= value.
func Lte(column string, value any) Condition { return Compare(column, Term{OpLte, value}) }

// NotEq creates column != value.
func NotEq(column string, value any) Condition { return Compare(column, Term{OpNotEq, value}) }

// Regexp creates a regular expression match on column.
func Regexp(column, pattern string) Condition { return Compare(column, Term{OpRegexp, pattern}) }

// Conditions is an ordered list of predicates joined with AND.
type Conditions []Condition

// Where builds a Conditions list.
func Where(conds ...Condition) Conditions {
	return Conditions(conds)
}

// Empty reports whether no predicate is present.
func (c Conditions) Empty() bool {
	return len(c) == 0
}
