package domain

import (
	"bytes"
	"encoding/json"
)

// OptionalID is a nullable reference that also records whether it was
// present in a JSON document at all. Absent leaves a field unchanged, null
// clears it and a number sets it.
type OptionalID struct {
	Set   bool
	Valid bool
	Value int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		o.Value = 0
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns the referenced id or nil.
func (o OptionalID) Ptr() *int64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// SomeID returns a present, non-null OptionalID.
func SomeID(id int64) OptionalID {
	return OptionalID{Set: true, Valid: true, Value: id}
}

// NullID returns a present, null OptionalID.
func NullID() OptionalID {
	return OptionalID{Set: true}
}
