package models

import "encoding/json"

// NullableString is a patch field for a nullable column. Set tells an absent
// key apart from an explicit null, which clears the column
type NullableString struct {
	Set   bool
	Value *string
}

// SetString returns a present, non-null value
func SetString(v string) NullableString {
	return NullableString{Set: true, Value: &v}
}

// ClearString returns a present null
func ClearString() NullableString {
	return NullableString{Set: true}
}

// UnmarshalJSON runs only for keys present in the body, null included
func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func putNullable(set map[string]interface{}, column string, value NullableString) {
	if !value.Set {
		return
	}
	if value.Value == nil {
		set[column] = nil
		return
	}
	set[column] = *value.Value
}
