package models

import (
	"bytes"
	"encoding/json"
)

// Optional tracks whether a field was present in a partial update.
// A present zero value is distinct from an absent field; JSON null counts as absent.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Or returns the held value or fallback when the field was absent.
func (o Optional[T]) Or(fallback T) T {
	if o.Set {
		return o.Value
	}
	return fallback
}
