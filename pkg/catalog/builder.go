package catalog

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapfuzz/pkg/sqltype"
)

// Kind classifies a declared definition.
type Kind int

const (
	// KindOperator is a binary operator.
	KindOperator Kind = iota
	// KindScalar is a scalar function.
	KindScalar
	// KindAggregate is an aggregate function.
	KindAggregate
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindOperator:
		return "operator"
	case KindScalar:
		return "scalar"
	case KindAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// Def declares an operator or routine by type name. Backends describe their
// builtin surface as a []Def table which Builder.Define resolves.
type Def struct {
	Kind   Kind
	Name   string
	Result string
	Args   []string
}

// BinOp declares a binary operator whose operands and result share one type.
func BinOp(name, typ string) Def {
	return Def{Kind: KindOperator, Name: name, Result: typ, Args: []string{typ, typ}}
}

// Func declares a scalar function.
func Func(name, result string, args ...string) Def {
	return Def{Kind: KindScalar, Name: name, Result: result, Args: args}
}

// Agg declares a single-argument aggregate.
func Agg(name, result, arg string) Def {
	return Def{Kind: KindAggregate, Name: name, Result: result, Args: []string{arg}}
}

// ErrBuilt is returned when a Builder is used after Build.
var ErrBuilt = errors.New("catalog already built")

// Builder assembles a Catalog. It is not safe for concurrent use.
type Builder struct {
	cat   *Catalog
	built bool
}

// NewBuilder starts a catalog backed by types. A nil registry gets a fresh one.
func NewBuilder(types *sqltype.Registry) *Builder {
	if types == nil {
		types = sqltype.NewRegistry()
	}
	return &Builder{cat: &Catalog{
		types:      types,
		operators:  NewOverloads[*Operator](),
		routines:   NewOverloads[*Routine](),
		aggregates: NewOverloads[*Routine](),
	}}
}

// Types returns the registry the catalog is being built with.
func (b *Builder) Types() *sqltype.Registry {
	return b.cat.types
}

// AddTable appends a table.
func (b *Builder) AddTable(t *Table) {
	b.cat.tables = append(b.cat.tables, t)
}

// RegisterOperator appends an operator to its overload set.
func (b *Builder) RegisterOperator(op *Operator) {
	b.cat.operators.Add(op)
}

// RegisterRoutine appends a scalar routine to its overload set.
func (b *Builder) RegisterRoutine(r *Routine) {
	r.Aggregate = false
	b.cat.routines.Add(r)
}

// RegisterAggregate appends an aggregate to its overload set.
func (b *Builder) RegisterAggregate(r *Routine) {
	r.Aggregate = true
	b.cat.aggregates.Add(r)
}

// Define resolves and registers declared definitions in order. It stops at
// the first definition naming an unknown type or with a bad arity.
func (b *Builder) Define(defs ...Def) error {
	for _, d := range defs {
		if err := b.define(d); err != nil {
			return fmt.Errorf("define %s %s: %w", d.Kind, d.Name, err)
		}
	}
	return nil
}

func (b *Builder) define(d Def) error {
	result, err := b.cat.types.Get(d.Result)
	if err != nil {
		return err
	}
	args := make([]*sqltype.Type, len(d.Args))
	for i, name := range d.Args {
		if args[i], err = b.cat.types.Get(name); err != nil {
			return err
		}
	}

	switch d.Kind {
	case KindOperator:
		if len(args) != 2 {
			return fmt.Errorf("operator needs 2 operand types, got %d", len(args))
		}
		b.RegisterOperator(&Operator{Name: d.Name, Result: result, Left: args[0], Right: args[1]})
	case KindScalar:
		b.RegisterRoutine(&Routine{Name: d.Name, Result: result, Args: args})
	case KindAggregate:
		b.RegisterAggregate(&Routine{Name: d.Name, Result: result, Args: args})
	default:
		return fmt.Errorf("unknown definition kind %d", d.Kind)
	}
	return nil
}

// Aliases sets the well-known type aliases by name.
func (b *Builder) Aliases(boolType, intType, internalType, arrayType string) error {
	targets := []struct {
		dst  **sqltype.Type
		name string
	}{
		{&b.cat.BoolType, boolType},
		{&b.cat.IntType, intType},
		{&b.cat.InternalType, internalType},
		{&b.cat.ArrayType, arrayType},
	}
	for _, t := range targets {
		typ, err := b.cat.types.Get(t.name)
		if err != nil {
			return fmt.Errorf("type alias: %w", err)
		}
		*t.dst = typ
	}
	return nil
}

// Literals sets the spellings of true and false.
func (b *Builder) Literals(trueLit, falseLit string) {
	b.cat.TrueLiteral = trueLit
	b.cat.FalseLiteral = falseLit
}

// IdentifierQuote sets the quote character used by Catalog.QuoteName.
func (b *Builder) IdentifierQuote(q string) {
	b.cat.quote = q
}

// Build finalizes the catalog, computing its lookup indexes. The builder
// cannot be used afterwards.
func (b *Builder) Build() (*Catalog, error) {
	if b.built {
		return nil, ErrBuilt
	}
	c := b.cat
	if c.BoolType == nil || c.IntType == nil || c.InternalType == nil || c.ArrayType == nil {
		return nil, errors.New("catalog type aliases not set")
	}
	if c.TrueLiteral == "" || c.FalseLiteral == "" {
		return nil, errors.New("catalog boolean literals not set")
	}

	seen := make(map[*sqltype.Type]struct{})
	for _, t := range c.tables {
		if t.BaseTable {
			c.baseTables = append(c.baseTables, t)
		}
		for _, col := range t.Columns {
			if _, ok := seen[col.Type]; !ok {
				seen[col.Type] = struct{}{}
				c.columnTypes = append(c.columnTypes, col.Type)
			}
		}
	}

	c.operatorsByResult = make(map[*sqltype.Type][]*Operator)
	for _, op := range c.operators.All() {
		c.operatorsByResult[op.Result] = append(c.operatorsByResult[op.Result], op)
	}
	c.routinesByResult = groupByResult(c.routines.All())
	c.aggregatesByResult = groupByResult(c.aggregates.All())

	b.built = true
	b.cat = nil
	return c, nil
}

func groupByResult(rs []*Routine) map[*sqltype.Type][]*Routine {
	m := make(map[*sqltype.Type][]*Routine)
	for _, r := range rs {
		m[r.Result] = append(m[r.Result], r)
	}
	return m
}

// LoadError reports a failed catalog load. No partial catalog accompanies it.
type LoadError struct {
	Stage string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load failed while %s: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
