// Package columns maps `db` tagged structs onto insert rows.
package columns

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

// Registry caches struct column metadata per type. Types are parsed on first use.
type Registry struct {
	cache sync.Map // map[reflect.Type]*Metadata
}

var globalRegistry = &Registry{}

// Of returns the cached metadata for the struct (or pointer to struct) v.
func Of(v any) (*Metadata, error) {
	return globalRegistry.Get(v)
}

// Rows converts records into insert rows. records may be a struct, a pointer to a
// struct, or a slice of either. Nil pointers in a slice are rejected.
func Rows(records any) ([]dbtypes.Row, error) {
	return globalRegistry.Rows(records)
}

// Get returns metadata for the type of v, parsing it once.
func (r *Registry) Get(v any) (*Metadata, error) {
	if v == nil {
		return nil, errors.New("expected a struct, got nil")
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return r.lookup(t)
}

func (r *Registry) lookup(t reflect.Type) (*Metadata, error) {
	if cached, ok := r.cache.Load(t); ok {
		return cached.(*Metadata), nil
	}

	metadata, err := parseStruct(t)
	if err != nil {
		return nil, err
	}

	actual, _ := r.cache.LoadOrStore(t, metadata)
	return actual.(*Metadata), nil
}

// Rows converts records into insert rows using cached metadata.
func (r *Registry) Rows(records any) ([]dbtypes.Row, error) {
	if records == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(records)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		row, err := r.row(rv)
		if err != nil {
			return nil, err
		}
		return []dbtypes.Row{row}, nil
	}

	rows := make([]dbtypes.Row, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		row, err := r.row(rv.Index(i))
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Registry) row(v reflect.Value) (dbtypes.Row, error) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, errors.New("nil record")
		}
		v = v.Elem()
	}
	metadata, err := r.lookup(v.Type())
	if err != nil {
		return nil, err
	}
	return metadata.Row(v), nil
}

// Clear drops every cached entry. Tests only.
func (r *Registry) Clear() {
	r.cache.Range(func(key, _ any) bool {
		r.cache.Delete(key)
		return true
	})
}
