package mock

import "strings"

// Header is a case-insensitive string map that remembers insertion order.
// Keys are stored lower-cased.
type Header struct {
	keys   []string
	values map[string]string
}

// NewHeader creates a header set from m. Iteration order of m is not
// defined, so callers needing a stable order should use Set.
func NewHeader(m map[string]string) *Header {
	h := &Header{values: make(map[string]string)}
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

// Set stores value under the lower-cased name, replacing any previous value.
func (h *Header) Set(name, value string) {
	if h.values == nil {
		h.values = make(map[string]string)
	}
	key := strings.ToLower(name)
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Get returns the value stored for name in any case.
func (h *Header) Get(name string) (string, bool) {
	if h == nil || h.values == nil {
		return "", false
	}
	v, ok := h.values[strings.ToLower(name)]
	return v, ok
}

// Has reports whether name is present.
func (h *Header) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Keys returns the lower-cased names in insertion order.
func (h *Header) Keys() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.keys...)
}

// Len returns the number of headers.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.keys)
}

// Map returns a copy of the headers as a plain map.
func (h *Header) Map() map[string]string {
	m := make(map[string]string, h.Len())
	if h == nil {
		return m
	}
	for k, v := range h.values {
		m[k] = v
	}
	return m
}

// Clone returns a deep copy.
func (h *Header) Clone() *Header {
	c := &Header{values: make(map[string]string, h.Len())}
	if h == nil {
		return c
	}
	c.keys = append(c.keys, h.keys...)
	for k, v := range h.values {
		c.values[k] = v
	}
	return c
}
