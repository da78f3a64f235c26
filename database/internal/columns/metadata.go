package columns

import (
	"fmt"
	"reflect"
	"strings"

	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

// Column represents one database column extracted from a struct field.
type Column struct {
	// FieldName is the Go struct field name (e.g., "UserID")
	FieldName string

	// DBColumn is the column name from the db tag (e.g., "user_id")
	DBColumn string

	// FieldIndex is the index of the field in the struct
	FieldIndex int
}

// Metadata is the cached column layout of a struct type, built from `db:"column"` tags.
type Metadata struct {
	// TypeName is the name of the struct type (e.g., "User")
	TypeName string

	// Columns is the list of columns in declaration order
	Columns []Column

	byField map[string]*Column
}

// Get returns the column name for a struct field name.
func (m *Metadata) Get(fieldName string) (string, error) {
	col, ok := m.byField[fieldName]
	if !ok {
		return "", fmt.Errorf("column field %q not found in type %s (available fields: %s)",
			fieldName, m.TypeName, m.availableFields())
	}
	return col.DBColumn, nil
}

// Names returns every column name in declaration order.
func (m *Metadata) Names() []string {
	names := make([]string, len(m.Columns))
	for i, col := range m.Columns {
		names[i] = col.DBColumn
	}
	return names
}

// Row extracts the tagged field values of v, which must be a struct of this type.
func (m *Metadata) Row(v reflect.Value) dbtypes.Row {
	row := make(dbtypes.Row, len(m.Columns))
	for _, col := range m.Columns {
		row[col.DBColumn] = v.Field(col.FieldIndex).Interface()
	}
	return row
}

func (m *Metadata) availableFields() string {
	fields := make([]string, 0, len(m.Columns))
	for _, col := range m.Columns {
		fields = append(fields, col.FieldName)
	}
	return strings.Join(fields, ", ")
}
