package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LabelMap is a string-keyed map that remembers insertion order.
// Encoded hint maps are compared byte-for-byte downstream, so JSON output
// lists keys in the order they were first set, and decoding keeps document order.
type LabelMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewLabelMap creates an empty label map
func NewLabelMap[V any]() *LabelMap[V] {
	return &LabelMap[V]{values: make(map[string]V)}
}

// Set stores a value. An existing key keeps its position.
func (m *LabelMap[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key
func (m *LabelMap[V]) Get(key string) (V, bool) {
	var zero V
	if m == nil || m.values == nil {
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order
func (m *LabelMap[V]) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of keys
func (m *LabelMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns a copy of the map. Values are copied shallowly.
func (m *LabelMap[V]) Clone() *LabelMap[V] {
	out := NewLabelMap[V]()
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

// MarshalJSON implements json.Marshaler
func (m *LabelMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, k := range m.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := EncodeJSON(k)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := EncodeJSON(m.values[k])
			if err != nil {
				return nil, fmt.Errorf("marshal %q: %w", k, err)
			}
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (m *LabelMap[V]) UnmarshalJSON(data []byte) error {
	m.keys = nil
	m.values = make(map[string]V)

	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		m.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// EncodeJSON marshals v without escaping <, > and &, matching what
// JSON.stringify produces in the browser.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
