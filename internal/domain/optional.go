package domain

import (
	"encoding/json"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
)

// Optional is a patch field that distinguishes an omitted key from an explicit null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a set, non-null Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an explicit null Optional
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked when the key is present
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// MarshalJSON writes null for unset or null values
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Apply merges a non-nullable field; explicit null is rejected
func (o Optional[T]) Apply(field string, current T) (T, error) {
	if !o.Set {
		return current, nil
	}
	if o.Null {
		return current, fmt.Errorf("%w: %s cannot be null", common.ErrInvalidRequest, field)
	}
	return o.Value, nil
}

// ApplyNullable merges a nullable field; explicit null clears it
func (o Optional[T]) ApplyNullable(current *T) *T {
	if !o.Set {
		return current
	}
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}
