// Package request builds the immutable parameter and header sets attached to
// course API calls.
package request

import (
	"net/http"
	"net/url"
	"sort"
)

// Params is an immutable string to string mapping used as a query string.
// The zero value is an empty set. Set never mutates the receiver.
type Params struct {
	values map[string]string
}

// NewParams returns an empty parameter set
func NewParams() Params {
	return Params{}
}

// Set returns a new Params holding every entry of p plus key=value
func (p Params) Set(key, value string) Params {
	next := make(map[string]string, len(p.values)+1)
	for k, v := range p.values {
		next[k] = v
	}
	next[key] = value
	return Params{values: next}
}

// Get returns the value for key and whether it is present
func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Len returns the number of entries
func (p Params) Len() int {
	return len(p.values)
}

// Keys returns the keys in sorted order
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encode renders the set as a URL query string ("page=1&pageSize=10")
func (p Params) Encode() string {
	q := url.Values{}
	for k, v := range p.values {
		q.Set(k, v)
	}
	return q.Encode()
}

// Headers is an immutable header set keyed by canonical header name.
type Headers struct {
	values map[string]string
}

// NewHeaders returns an empty header set
func NewHeaders() Headers {
	return Headers{}
}

// Set returns a new Headers holding every entry of h plus name: value
func (h Headers) Set(name, value string) Headers {
	next := make(map[string]string, len(h.values)+1)
	for k, v := range h.values {
		next[k] = v
	}
	next[http.CanonicalHeaderKey(name)] = value
	return Headers{values: next}
}

// Get returns the value for name, matched case-insensitively
func (h Headers) Get(name string) (string, bool) {
	v, ok := h.values[http.CanonicalHeaderKey(name)]
	return v, ok
}

// Len returns the number of headers
func (h Headers) Len() int {
	return len(h.values)
}

// Apply copies the set onto dst, replacing existing values of the same name
func (h Headers) Apply(dst http.Header) {
	for k, v := range h.values {
		dst.Set(k, v)
	}
}
