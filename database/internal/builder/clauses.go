package builder

import (
	"fmt"
	"strconv"

	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

const selectAll = "*"

// projection renders the SELECT list in input order. No columns selects "*".
// Aggregates render as fn(col) alias, the alias defaulting to the source column.
func projection(cols []dbtypes.Column, caps capabilities, dialect dbtypes.Dialect) ([]string, error) {
	if len(cols) == 0 {
		return []string{selectAll}, nil
	}

	out := make([]string, 0, len(cols))
	for _, col := range cols {
		if col.Name == "" {
			return nil, fmt.Errorf("%w: projection with empty column name", dbtypes.ErrInvalidInstruction)
		}
		if !col.IsAggregate() {
			out = append(out, col.Name)
			continue
		}
		if !caps.allowsAggregate(col.Aggregate) {
			return nil, unsupportedAggregate(col.Aggregate, dialect)
		}
		out = append(out, col.Aggregate+"("+col.Name+") "+col.OutputName())
	}
	return out, nil
}

func unsupportedAggregate(fn string, dialect dbtypes.Dialect) error {
	if knownAggregate(fn) {
		return fmt.Errorf("%w: %w: aggregate %s is not available in %s",
			dbtypes.ErrInvalidInstruction, dbtypes.ErrUnsupportedDialectFeature, fn, dialect)
	}
	return fmt.Errorf("%w: aggregate %s is not supported", dbtypes.ErrInvalidInstruction, fn)
}

// source validates the table of a FROM, INTO or UPDATE target.
func source(table string) (string, error) {
	if table == "" {
		return "", fmt.Errorf("%w: %w", dbtypes.ErrInvalidInstruction, dbtypes.ErrEmptyTableName)
	}
	return table, nil
}

// grouping returns the GROUP BY columns in caller order; nil means no clause.
func grouping(cols []string) ([]string, error) {
	for _, c := range cols {
		if c == "" {
			return nil, fmt.Errorf("%w: empty group by column", dbtypes.ErrInvalidInstruction)
		}
	}
	return cols, nil
}

// window renders the LIMIT/OFFSET fragment. Both absent yields an empty fragment.
func window(p dbtypes.Paging) (string, error) {
	switch {
	case p.Limit != nil && *p.Limit < 0, p.Offset != nil && *p.Offset < 0:
		return "", fmt.Errorf("%w: invalid limit and offset", dbtypes.ErrInvalidInstruction)
	case p.Limit != nil && p.Offset != nil:
		return "LIMIT " + strconv.Itoa(*p.Limit) + " OFFSET " + strconv.Itoa(*p.Offset), nil
	case p.Limit != nil:
		return "LIMIT " + strconv.Itoa(*p.Limit), nil
	case p.Offset != nil:
		return "OFFSET " + strconv.Itoa(*p.Offset), nil
	default:
		return "", nil
	}
}
