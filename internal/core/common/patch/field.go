// Package patch models the fields of a partial update, where "absent",
// "explicit null" and "value" are three different instructions.
package patch

import (
	"bytes"
	"encoding/json"
)

type Field[T any] struct {
	Set   bool
	Value *T
}

// Of returns a field that sets v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a field that clears the value.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// UnmarshalJSON is only invoked when the key is present, which is what marks
// the field as set; a JSON null leaves Value nil.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// Apply writes the field into dst when it is set.
func (f Field[T]) Apply(dst **T) {
	if !f.Set {
		return
	}
	if f.Value == nil {
		*dst = nil
		return
	}
	v := *f.Value
	*dst = &v
}

// ApplyValue writes a non-nullable destination; an explicit null is ignored.
func (f Field[T]) ApplyValue(dst *T) {
	if f.Set && f.Value != nil {
		*dst = *f.Value
	}
}

// Object collects set fields into a JSON object, skipping unset ones.
type Object map[string]any

func (o Object) Put(name string, f interface{ IsSet() bool }) Object {
	if f.IsSet() {
		o[name] = f
	}
	return o
}

func (f Field[T]) IsSet() bool {
	return f.Set
}
