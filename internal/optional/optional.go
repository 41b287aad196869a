// Package optional distinguishes a field that was absent from a z/OSMF
// response from one that was present with an empty value.
package optional

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value holds either Some(v) or None. The zero Value is None.
type Value[T any] struct {
	v  T
	ok bool
}

func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

func None[T any]() Value[T] {
	return Value[T]{}
}

func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

func (o Value[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the held value, or def when None.
func (o Value[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}
	return o.v
}

// MustGet panics on None. Use only after IsPresent.
func (o Value[T]) MustGet() T {
	if !o.ok {
		panic("optional: MustGet called on None")
	}
	return o.v
}

// UnmarshalJSON treats JSON null like an absent key.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Value[T]{}
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

func (o Value[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.v)
}
