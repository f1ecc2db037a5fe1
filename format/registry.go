// Package format implements the semantic-format validation subsystem: a
// registry of keyword-named validation functions over primitive values.
//
// A Registry supports concurrent lookups; Register must be confined to a
// single goroutine, typically during startup before the owning schema is
// shared.
package format

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"
)

// Func validates a primitive value against a semantic format. It returns nil
// on success and an error describing the violation otherwise; it never panics
// for ordinary validation failures.
type Func func(v any) error

var unsignedRe = regexp.MustCompile(`^u(\d+)$`)

// Registry maps format keywords to validation functions.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns a registry loaded with the default validator set:
// general purpose (email, regex, pointers, sized integers), network
// (hostname, addresses, EUI), RFC 3339 time, RFC 3986 URI, RFC 3987 IRI and
// the IDNA variants.
func NewRegistry() *Registry {
	r := &Registry{funcs: map[string]Func{}}
	for _, set := range []map[string]Func{
		generalFormats, networkFormats, rfc3339Formats, rfc3986Formats, rfc3987Formats, idnaFormats,
	} {
		for k, fn := range set {
			r.funcs[k] = fn
		}
	}
	return r
}

// Register adds a validation function under the given keyword. Re-registering
// an existing keyword is an error unless override is set.
func (r *Registry) Register(name string, fn Func, override bool) error {
	if fn == nil {
		return fmt.Errorf("format %s: nil validation function", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[name]; ok && !override {
		return fmt.Errorf("format %s is already defined, use override to replace it", name)
	}
	r.funcs[name] = fn
	return nil
}

// Lookup resolves a format keyword to its validation function, or nil when
// the keyword is unknown. The u<n> family resolves to a parametrized
// unsigned-integer validator.
func (r *Registry) Lookup(name string) Func {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	if ok {
		return fn
	}
	if m := unsignedRe.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return func(v any) error { return Unsigned(n, v) }
	}
	return nil
}

// Names reports the registered format keywords in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for k := range r.funcs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
