package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ToTree converts any JSON-marshalable value into a generic tree of
// map[string]any, []any and scalars. Numbers are kept as json.Number so that
// integers survive the round trip unchanged.
func ToTree(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling value: %w", err)
	}
	return Decode(data)
}

// Decode parses JSON data into a generic tree.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return out, nil
}

// Compact renders v as single-line JSON, falling back to fmt for values that
// cannot be marshaled.
func Compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// Indent renders v as indented JSON.
func Indent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
