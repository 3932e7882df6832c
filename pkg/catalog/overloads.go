package catalog

import (
	"strings"

	"github.com/leapstack-labs/leapfuzz/pkg/sqltype"
)

// Operator is a binary operator with a fixed type signature.
type Operator struct {
	Name   string        `json:"name" yaml:"name"`
	Result *sqltype.Type `json:"result" yaml:"result"`
	Left   *sqltype.Type `json:"left" yaml:"left"`
	Right  *sqltype.Type `json:"right" yaml:"right"`
}

// Ident returns the overload-set key.
func (o *Operator) Ident() string { return o.Name }

func (o *Operator) String() string {
	return o.Left.Name() + " " + o.Name + " " + o.Right.Name() + " -> " + o.Result.Name()
}

// Routine is a scalar function or an aggregate. Name and Args together form
// the overload key.
type Routine struct {
	Name      string          `json:"name" yaml:"name"`
	Result    *sqltype.Type   `json:"result" yaml:"result"`
	Args      []*sqltype.Type `json:"args" yaml:"args"`
	Aggregate bool            `json:"aggregate" yaml:"aggregate"`
}

// Ident returns the overload-set key.
func (r *Routine) Ident() string { return r.Name }

func (r *Routine) String() string {
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = a.Name()
	}
	return r.Name + "(" + strings.Join(args, ", ") + ") -> " + r.Result.Name()
}

// Overloads stores entries that may share a name. It keeps registration order
// and never deduplicates; choosing among overloads is left to the caller.
type Overloads[T interface{ Ident() string }] struct {
	items  []T
	byName map[string][]T
}

// NewOverloads returns an empty overload store.
func NewOverloads[T interface{ Ident() string }]() *Overloads[T] {
	return &Overloads[T]{byName: make(map[string][]T)}
}

// Add appends an entry.
func (o *Overloads[T]) Add(item T) {
	o.items = append(o.items, item)
	name := item.Ident()
	o.byName[name] = append(o.byName[name], item)
}

// Lookup returns the overload set for name, in registration order.
func (o *Overloads[T]) Lookup(name string) []T {
	return o.byName[name]
}

// All returns every entry in registration order.
func (o *Overloads[T]) All() []T {
	return o.items
}

// Names returns the distinct names in first-registration order.
func (o *Overloads[T]) Names() []string {
	seen := make(map[string]struct{}, len(o.byName))
	names := make([]string, 0, len(o.byName))
	for _, item := range o.items {
		name := item.Ident()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Len returns the number of entries.
func (o *Overloads[T]) Len() int {
	return len(o.items)
}
