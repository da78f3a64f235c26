package builder

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

const literalTimeLayout = "2006-01-02 15:04:05.999999"

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`)

// RenderLiteral converts a value into inline SQL text. It is the only place
// values become statement text.
//
// Strings are single-quoted with embedded quotes doubled and backslashes escaped,
// which is safe for MySQL with or without NO_BACKSLASH_ESCAPES and for ClickHouse.
// Numbers render in canonical form, booleans as TRUE/FALSE and nil as NULL.
// Named types render by their underlying kind. NaN and infinities are rejected.
func RenderLiteral(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case []byte:
		return quote(string(val)), nil
	case time.Time:
		return quote(val.Format(literalTimeLayout)), nil
	case fmt.Stringer:
		return quote(val.String()), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return quote(rv.String()), nil
	case reflect.Bool:
		if rv.Bool() {
			return "TRUE", nil
		}
		return "FALSE", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: non-finite float %v has no sql literal", dbtypes.ErrInvalidInstruction, f)
		}
		return strconv.FormatFloat(f, 'g', -1, rv.Type().Bits()), nil
	case reflect.Ptr:
		if rv.IsNil() {
			return "NULL", nil
		}
		return RenderLiteral(rv.Elem().Interface())
	default:
		return "", fmt.Errorf("%w: cannot render %T as a sql literal", dbtypes.ErrInvalidInstruction, v)
	}
}

func quote(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}

// inlineArgs replaces each "?" placeholder of query with the literal form of the
// matching argument. Identifiers are trusted not to contain "?".
func inlineArgs(query string, args []any) (string, error) {
	if len(args) == 0 {
		return query, nil
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8*len(args))

	next := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			sb.WriteByte(query[i])
			continue
		}
		if next >= len(args) {
			return "", fmt.Errorf("%w: more placeholders than arguments", dbtypes.ErrInvalidInstruction)
		}
		lit, err := RenderLiteral(args[next])
		if err != nil {
			return "", err
		}
		sb.WriteString(lit)
		next++
	}

	if next != len(args) {
		return "", fmt.Errorf("%w: %d arguments for %d placeholders", dbtypes.ErrInvalidInstruction, len(args), next)
	}
	return sb.String(), nil
}
