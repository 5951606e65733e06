package resources

import (
	"bytes"
	"encoding/json"
)

// Field is one key of a Table.
type Field struct {
	Key   string
	Value any
}

// Table is a JSON object whose keys serialise in declaration order.
type Table []Field

// Keys returns the table keys in order.
func (t Table) Keys() []string {
	keys := make([]string, len(t))
	for i, f := range t {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value stored under key.
func (t Table) Get(key string) (any, bool) {
	for _, f := range t {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encode(f.Key, "")
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := encode(f.Value, "")
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Render returns the table as JSON indented with two spaces.
func (t Table) Render() (string, error) {
	out, err := encode(t, "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// encode marshals v without HTML escaping so URLs keep their literal form.
func encode(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
