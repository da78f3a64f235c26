package columns

import (
	"fmt"
	"reflect"
	"strings"
)

var dangerousTagParts = []string{";", "--", "/*", "*/", "?", `"`, "'", "`"}

// parseStruct extracts column metadata from a struct type.
// Unexported fields, untagged fields and db:"-" are skipped.
func parseStruct(rt reflect.Type) (*Metadata, error) {
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a struct, got %s", rt.Kind())
	}

	metadata := &Metadata{
		TypeName: rt.Name(),
		Columns:  make([]Column, 0, rt.NumField()),
		byField:  make(map[string]*Column),
	}

	seen := make(map[string]string)
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		if err := validateDBTag(tag, rt.Name(), field.Name); err != nil {
			return nil, err
		}
		if prev, ok := seen[tag]; ok {
			return nil, fmt.Errorf("db tag %q used by both %s.%s and %s.%s", tag, rt.Name(), prev, rt.Name(), field.Name)
		}
		seen[tag] = field.Name

		metadata.Columns = append(metadata.Columns, Column{
			FieldName:  field.Name,
			DBColumn:   tag,
			FieldIndex: i,
		})
	}

	if len(metadata.Columns) == 0 {
		return nil, fmt.Errorf("no fields with `db` tags found in struct %s", rt.Name())
	}
	for i := range metadata.Columns {
		metadata.byField[metadata.Columns[i].FieldName] = &metadata.Columns[i]
	}
	return metadata, nil
}

// validateDBTag rejects tags that could break out of an identifier position.
func validateDBTag(tag, structName, fieldName string) error {
	if strings.TrimSpace(tag) != tag || strings.ContainsAny(tag, " \t\n") {
		return fmt.Errorf("invalid db tag %q in field %s.%s: contains whitespace", tag, structName, fieldName)
	}
	for _, d := range dangerousTagParts {
		if strings.Contains(tag, d) {
			return fmt.Errorf("invalid db tag %q in field %s.%s: contains dangerous SQL characters %q",
				tag, structName, fieldName, d)
		}
	}
	return nil
}
