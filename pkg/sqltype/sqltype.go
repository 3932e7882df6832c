// Package sqltype defines the canonical type vocabulary shared by every
// catalog loader and by the statement generator.
//
// Types are interned by a Registry: two lookups of the same name return the
// same *Type, so consumers may compare types with ==.
package sqltype

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Canonical type names.
const (
	Integer   = "INTEGER"
	Double    = "DOUBLE"
	Varchar   = "VARCHAR"
	Timestamp = "TIMESTAMP"
	Bit       = "BIT"
	Binary    = "BINARY"
	Enum      = "ENUM"
	Set       = "SET"
	Internal  = "INTERNAL"
	Array     = "ARRAY"
	Boolean   = "BOOLEAN"
)

// vocabulary is the closed set of names a Registry will intern.
var vocabulary = map[string]struct{}{
	Integer: {}, Double: {}, Varchar: {}, Timestamp: {}, Bit: {}, Binary: {},
	Enum: {}, Set: {}, Internal: {}, Array: {}, Boolean: {},
}

// Names returns the canonical type names in sorted order.
func Names() []string {
	names := make([]string, 0, len(vocabulary))
	for name := range vocabulary {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Type is an interned canonical type.
type Type struct {
	name string
}

// Name returns the canonical upper-case name.
func (t *Type) Name() string {
	return t.name
}

func (t *Type) String() string {
	return t.name
}

// MarshalText renders the type by name in JSON and YAML exports.
func (t *Type) MarshalText() ([]byte, error) {
	return []byte(t.name), nil
}

// UnsupportedTypeError is returned when a type name has no canonical mapping.
type UnsupportedTypeError struct {
	Name string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported data type: %s", e.Name)
}

// Registry interns canonical types. The zero value is not usable; use
// NewRegistry. A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Get returns the interned type for name, creating it on first use.
// Names are case-insensitive. Names outside the canonical vocabulary fail
// with *UnsupportedTypeError.
func (r *Registry) Get(name string) (*Type, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if _, ok := vocabulary[key]; !ok {
		return nil, &UnsupportedTypeError{Name: name}
	}

	r.mu.RLock()
	t, ok := r.types[key]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.types[key]; ok {
		return t, nil
	}
	t = &Type{name: key}
	r.types[key] = t
	return t, nil
}

// MustGet is like Get but panics on an unknown name. It is intended for
// package-level tables of well-known names.
func (r *Registry) MustGet(name string) *Type {
	t, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Interned returns every type created so far, sorted by name.
func (r *Registry) Interned() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
