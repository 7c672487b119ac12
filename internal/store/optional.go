package store

import "encoding/json"

// Optional carries a tri-state patch value for a nullable column: absent
// (leave the stored value as is), null (clear it) or a concrete value.
// Plain pointer fields cannot express the difference between "omitted" and
// "clear", so update inputs use Optional for every column that may be set
// to NULL.
type Optional[T any] struct {
	present bool
	value   *T
}

// Set returns an Optional carrying a concrete value.
func Set[T any](value T) Optional[T] {
	return Optional[T]{present: true, value: &value}
}

// Clear returns an Optional that clears the column to NULL.
func Clear[T any]() Optional[T] {
	return Optional[T]{present: true}
}

// IsSet reports whether the patch touches the column at all.
func (o Optional[T]) IsSet() bool {
	return o.present
}

// Ptr returns the carried value, nil when clearing or absent.
func (o Optional[T]) Ptr() *T {
	return o.value
}

// UnmarshalJSON lets patch request bodies populate an Optional directly:
// a present key marks the field as set, and an explicit JSON null clears
// the column. encoding/json never calls this for absent keys, which keeps
// the zero value meaning "untouched".
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if string(data) == "null" {
		o.value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		// The `json:",string"` option does not reach custom unmarshalers,
		// so id-valued fields arrive as quoted numbers. Unquote and retry
		// before giving up.
		var quoted string
		if json.Unmarshal(data, &quoted) == nil {
			if json.Unmarshal([]byte(quoted), &value) == nil {
				o.value = &value
				return nil
			}
		}
		return err
	}
	o.value = &value
	return nil
}
