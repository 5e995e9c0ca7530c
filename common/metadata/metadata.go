package metadata

import (
	"net/http"
	"strings"
)

// Metadata holds raw inbound key/values. NewMetadata and FromHTTPHeader store
// lowercase keys; lookups still match keys of any case in hand-built literals.
// It has the same shape as gRPC metadata.MD so either can be converted to the
// other directly.
type Metadata map[string][]string

func NewMetadata(m map[string]string) Metadata {
	md := make(Metadata, len(m))
	for k, val := range m {
		key := strings.ToLower(k)
		md[key] = append(md[key], val)
	}
	return md
}

// FromHTTPHeader copies h into a Metadata, lowercasing the canonical header names.
func FromHTTPHeader(h http.Header) Metadata {
	md := make(Metadata, len(h))
	for k, vals := range h {
		key := strings.ToLower(k)
		md[key] = append(md[key], vals...)
	}
	return md
}

func (md Metadata) Copy() Metadata {
	out := make(Metadata, len(md))
	for k, v := range md {
		out[k] = copyOf(v)
	}
	return out
}

// Get obtains the values for a given key, matched case-insensitively.
func (md Metadata) Get(k string) []string {
	k = strings.ToLower(k)
	if vals, ok := md[k]; ok {
		return vals
	}
	for key, vals := range md {
		if strings.EqualFold(key, k) {
			return vals
		}
	}
	return nil
}

// Lookup returns the first value stored at k and whether the key is present at all.
// A present key may hold an empty string.
func (md Metadata) Lookup(k string) (string, bool) {
	vals := md.Get(k)
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Set sets the value of a given key with a slice of values.
//
// k is converted to lowercase before storing in md.
func (md Metadata) Set(k string, vals ...string) {
	if len(vals) == 0 {
		return
	}
	k = strings.ToLower(k)
	md[k] = vals
}

// Append adds the values to key k, not overwriting what was already stored at
// that key.
//
// k is converted to lowercase before storing in md.
func (md Metadata) Append(k string, vals ...string) {
	if len(vals) == 0 {
		return
	}
	k = strings.ToLower(k)
	md[k] = append(md[k], vals...)
}

// Delete removes the values stored at k under any case.
func (md Metadata) Delete(k string) {
	for key := range md {
		if strings.EqualFold(key, k) {
			delete(md, key)
		}
	}
}

func (md Metadata) lookup(k string) optional {
	v, ok := md.Lookup(k)
	return optional{value: v, set: ok}
}

func copyOf(v []string) []string {
	vals := make([]string, len(v))
	copy(vals, v)
	return vals
}
