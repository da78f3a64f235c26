package database

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Record is one result row. Columns keeps the order of the result set.
type Record struct {
	Columns []string
	Values  map[string]any
}

// Get returns the value of col, or nil when the column is absent.
func (r Record) Get(col string) any {
	return r.Values[col]
}

// MarshalJSON encodes the record as an object whose keys follow Columns.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[col])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// scanRecords reads every row of rows and closes it. Driver []byte values become
// strings.
func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := Record{Columns: cols, Values: make(map[string]any, len(cols))}
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec.Values[col] = string(b)
				continue
			}
			rec.Values[col] = vals[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
