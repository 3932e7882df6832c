// Package catalog holds the in-memory model of a target database: its tables
// and columns, normalized to canonical types, and the operators, functions
// and aggregates a statement generator may use against it.
//
// A Catalog is assembled once with a Builder and is read-only afterwards.
// Loaders for concrete databases live under pkg/adapters.
package catalog

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapfuzz/pkg/sqltype"
)

// Column is a column of a table.
type Column struct {
	Name string        `json:"name" yaml:"name"`
	Type *sqltype.Type `json:"type" yaml:"type"`
}

// Table is a base table or view. Columns are kept in the order the database
// reported them; generated INSERT and SELECT lists rely on it.
type Table struct {
	Name       string   `json:"name" yaml:"name"`
	Schema     string   `json:"schema" yaml:"schema"`
	Insertable bool     `json:"insertable" yaml:"insertable"`
	BaseTable  bool     `json:"base_table" yaml:"base_table"`
	Columns    []Column `json:"columns" yaml:"columns"`
}

// NewTable returns a table with no columns. Base tables are insertable,
// views are not.
func NewTable(name, schema string, baseTable bool) *Table {
	return &Table{
		Name:       name,
		Schema:     schema,
		Insertable: baseTable,
		BaseTable:  baseTable,
	}
}

// AddColumn appends a column.
func (t *Table) AddColumn(name string, typ *sqltype.Type) {
	t.Columns = append(t.Columns, Column{Name: name, Type: typ})
}

// QualifiedName returns schema.name, or name when the schema is empty.
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Catalog is the read-only result of a catalog load.
type Catalog struct {
	types      *sqltype.Registry
	tables     []*Table
	operators  *Overloads[*Operator]
	routines   *Overloads[*Routine]
	aggregates *Overloads[*Routine]

	// Well-known type aliases used by the generator.
	BoolType     *sqltype.Type
	IntType      *sqltype.Type
	InternalType *sqltype.Type
	ArrayType    *sqltype.Type

	// Literal spellings of true and false in generated SQL.
	TrueLiteral  string
	FalseLiteral string

	quote string

	// indexes built once by the Builder
	baseTables         []*Table
	columnTypes        []*sqltype.Type
	operatorsByResult  map[*sqltype.Type][]*Operator
	routinesByResult   map[*sqltype.Type][]*Routine
	aggregatesByResult map[*sqltype.Type][]*Routine
}

// Types returns the type registry the catalog was built with.
func (c *Catalog) Types() *sqltype.Registry { return c.types }

// Tables returns all tables and views in load order.
func (c *Catalog) Tables() []*Table { return c.tables }

// BaseTables returns the insertable base tables in load order.
func (c *Catalog) BaseTables() []*Table { return c.baseTables }

// Table returns the table with the given name.
func (c *Catalog) Table(name string) (*Table, bool) {
	for _, t := range c.tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// ColumnTypes returns the distinct types used by table columns, in first-seen order.
func (c *Catalog) ColumnTypes() []*sqltype.Type { return c.columnTypes }

// Operators returns every registered operator.
func (c *Catalog) Operators() []*Operator { return c.operators.All() }

// Routines returns every registered scalar routine.
func (c *Catalog) Routines() []*Routine { return c.routines.All() }

// Aggregates returns every registered aggregate.
func (c *Catalog) Aggregates() []*Routine { return c.aggregates.All() }

// OperatorOverloads returns the operators registered under name.
func (c *Catalog) OperatorOverloads(name string) []*Operator { return c.operators.Lookup(name) }

// RoutineOverloads returns the scalar routines registered under name.
func (c *Catalog) RoutineOverloads(name string) []*Routine { return c.routines.Lookup(name) }

// AggregateOverloads returns the aggregates registered under name.
func (c *Catalog) AggregateOverloads(name string) []*Routine { return c.aggregates.Lookup(name) }

// OperatorsReturning returns the operators whose result type is t.
func (c *Catalog) OperatorsReturning(t *sqltype.Type) []*Operator { return c.operatorsByResult[t] }

// RoutinesReturning returns the scalar routines whose result type is t.
func (c *Catalog) RoutinesReturning(t *sqltype.Type) []*Routine { return c.routinesByResult[t] }

// AggregatesReturning returns the aggregates whose result type is t.
func (c *Catalog) AggregatesReturning(t *sqltype.Type) []*Routine { return c.aggregatesByResult[t] }

// QuoteName quotes an identifier for the target dialect.
func (c *Catalog) QuoteName(id string) string {
	if c.quote == "" {
		return id
	}
	return c.quote + strings.ReplaceAll(id, c.quote, c.quote+c.quote) + c.quote
}

// Summary returns a one-line description of the catalog size.
func (c *Catalog) Summary() string {
	return fmt.Sprintf("%d tables, %d operators, %d routines, %d aggregates",
		len(c.tables), c.operators.Len(), c.routines.Len(), c.aggregates.Len())
}
