// Package patch provides a three-state update field for partial updates:
// leave a column unchanged, clear it to NULL, or set it to a new value.
package patch

import (
	"bytes"
	"encoding/json"
)

type state int

const (
	keep state = iota
	clear
	set
)

// Field describes one optional field of a partial update. The zero value
// means Keep. When decoded from JSON, an absent key stays Keep, an explicit
// null becomes Clear, and any other value becomes Set.
type Field[T any] struct {
	state state
	value T
}

func Keep[T any]() Field[T] {
	return Field[T]{}
}

func Clear[T any]() Field[T] {
	return Field[T]{state: clear}
}

func Set[T any](value T) Field[T] {
	return Field[T]{state: set, value: value}
}

func (f Field[T]) IsKeep() bool {
	return f.state == keep
}

func (f Field[T]) IsClear() bool {
	return f.state == clear
}

// Value returns the new value and true when the field is Set.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.state == set
}

var jsonNull = []byte("null")

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*f = Clear[T]()
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*f = Set(value)
	return nil
}
