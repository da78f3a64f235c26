package builder

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

// compileConditions renders conds into one filter fragment joined with AND.
// It returns nil for an empty list so composers can skip the WHERE keyword.
// The fragment uses "?" placeholders; the statement builder applies the final
// placeholder format.
func compileConditions(conds dbtypes.Conditions, caps capabilities) (squirrel.Sqlizer, error) {
	if conds.Empty() {
		return nil, nil
	}

	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))

	for _, cond := range conds {
		if cond == nil {
			return nil, fmt.Errorf("%w: nil condition", dbtypes.ErrInvalidInstruction)
		}
		if cond.Column() == "" {
			return nil, fmt.Errorf("%w: condition without column", dbtypes.ErrInvalidInstruction)
		}

		switch c := cond.(type) {
		case dbtypes.Equality:
			if c.Value == nil {
				parts = append(parts, c.Col+" IS NULL")
				continue
			}
			parts = append(parts, c.Col+" = ?")
			args = append(args, c.Value)

		case dbtypes.Membership:
			if len(c.Values) == 0 {
				return nil, fmt.Errorf("%w: empty value list for %s IN", dbtypes.ErrInvalidInstruction, c.Col)
			}
			parts = append(parts, c.Col+" IN ("+squirrel.Placeholders(len(c.Values))+")")
			args = append(args, c.Values...)

		case dbtypes.Comparison:
			if len(c.Terms) == 0 {
				return nil, fmt.Errorf("%w: comparison on %s has no operators", dbtypes.ErrInvalidInstruction, c.Col)
			}
			for _, term := range c.Terms {
				frag, err := compileTerm(c.Col, term, caps)
				if err != nil {
					return nil, err
				}
				parts = append(parts, frag)
				args = append(args, term.Value)
			}

		default:
			return nil, fmt.Errorf("%w: unsupported condition %T", dbtypes.ErrInvalidInstruction, cond)
		}
	}

	return squirrel.Expr(strings.Join(parts, " AND "), args...), nil
}

func compileTerm(column string, term dbtypes.Term, caps capabilities) (string, error) {
	if term.Value == nil {
		return "", fmt.Errorf("%w: %s %s compared with NULL", dbtypes.ErrInvalidInstruction, column, term.Op)
	}
	switch term.Op {
	case dbtypes.OpRegexp:
		return caps.regexp(column), nil
	case dbtypes.OpGt, dbtypes.OpGte, dbtypes.OpLt, dbtypes.OpLte, dbtypes.OpNotEq:
		return column + " " + string(term.Op) + " ?", nil
	default:
		return "", fmt.Errorf("%w: operator %q is not supported", dbtypes.ErrInvalidInstruction, term.Op)
	}
}
