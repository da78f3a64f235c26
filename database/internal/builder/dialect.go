package builder

import (
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

var basicAggregates = []string{"count", "sum", "max", "min", "avg", "distinct"}

var clickHouseAggregates = []string{"argMax", "argMin"}

// capabilities is everything a statement composer needs to know about a dialect.
// It is looked up once per StatementBuilder instead of branching at each clause.
type capabilities struct {
	aggregates  map[string]struct{}
	placeholder squirrel.PlaceholderFormat
	// regexp renders a match of column against a single "?" placeholder.
	regexp func(column string) string
	// insertValues renders everything after "VALUES" for an INSERT of columns.
	insertValues func(columns []string) string
}

var registry = map[dbtypes.Dialect]capabilities{
	dbtypes.MySQL: {
		aggregates:   setOf(basicAggregates),
		placeholder:  squirrel.Question,
		regexp:       infixRegexp,
		insertValues: namedValues,
	},
	dbtypes.ClickHouse: {
		aggregates:  setOf(basicAggregates, clickHouseAggregates),
		placeholder: squirrel.Question,
		regexp: func(column string) string {
			return "match(" + column + ", ?)"
		},
		// The driver binds each row of the batch itself.
		insertValues: func(_ []string) string { return "" },
	},
}

// unknownDialect grants nothing: no aggregates, standard operator rendering.
var unknownDialect = capabilities{
	aggregates:   map[string]struct{}{},
	placeholder:  squirrel.Question,
	regexp:       infixRegexp,
	insertValues: namedValues,
}

func lookupDialect(d dbtypes.Dialect) capabilities {
	if caps, ok := registry[d]; ok {
		return caps
	}
	return unknownDialect
}

// AggregateFunctions returns the aggregate function names allowed in dialect d,
// sorted. An unknown dialect yields no entries.
func AggregateFunctions(d dbtypes.Dialect) []string {
	caps, ok := registry[d]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(caps.aggregates))
	for name := range caps.aggregates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c capabilities) allowsAggregate(fn string) bool {
	_, ok := c.aggregates[fn]
	return ok
}

// knownAggregate reports whether any registered dialect supports fn.
func knownAggregate(fn string) bool {
	for _, caps := range registry {
		if caps.allowsAggregate(fn) {
			return true
		}
	}
	return false
}

func infixRegexp(column string) string {
	return column + " REGEXP ?"
}

func namedValues(columns []string) string {
	named := make([]string, len(columns))
	for i, col := range columns {
		named[i] = ":" + col
	}
	return " (" + strings.Join(named, ", ") + ")"
}

func setOf(groups ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, g := range groups {
		for _, name := range g {
			set[name] = struct{}{}
		}
	}
	return set
}
