package catalog

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/leapfuzz/pkg/sqltype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder(nil)
	require.NoError(t, b.Aliases(sqltype.Integer, sqltype.Integer, sqltype.Internal, sqltype.Array))
	b.Literals("1", "0")
	return b
}

func TestBuilder_Define(t *testing.T) {
	b := newTestBuilder(t)
	require.NoError(t, b.Define(
		BinOp("+", sqltype.Integer),
		BinOp("+", sqltype.Double),
		Func("last_insert_rowid", sqltype.Integer),
		Func("substr", sqltype.Varchar, sqltype.Varchar, sqltype.Integer),
		Func("substr", sqltype.Varchar, sqltype.Varchar, sqltype.Integer, sqltype.Integer),
		Agg("sum", sqltype.Integer, sqltype.Integer),
		Agg("sum", sqltype.Double, sqltype.Double),
	))

	cat, err := b.Build()
	require.NoError(t, err)

	plus := cat.OperatorOverloads("+")
	require.Len(t, plus, 2)
	assert.Equal(t, "INTEGER", plus[0].Result.Name())
	assert.Equal(t, "DOUBLE", plus[1].Left.Name())
	assert.Equal(t, "INTEGER + INTEGER -> INTEGER", plus[0].String())

	substr := cat.RoutineOverloads("substr")
	require.Len(t, substr, 2)
	assert.Len(t, substr[0].Args, 2)
	assert.Len(t, substr[1].Args, 3)
	assert.False(t, substr[0].Aggregate)
	assert.Equal(t, "substr(VARCHAR, INTEGER, INTEGER) -> VARCHAR", substr[1].String())

	noArgs := cat.RoutineOverloads("last_insert_rowid")
	require.Len(t, noArgs, 1)
	assert.Empty(t, noArgs[0].Args)

	sums := cat.AggregateOverloads("sum")
	require.Len(t, sums, 2)
	assert.True(t, sums[0].Aggregate)
	assert.Empty(t, cat.RoutineOverloads("sum"), "aggregates live in their own registry")

	assert.Len(t, cat.Operators(), 2)
	assert.Len(t, cat.Routines(), 3)
	assert.Len(t, cat.Aggregates(), 2)
}

func TestBuilder_DefineSharesInternedTypes(t *testing.T) {
	b := newTestBuilder(t)
	require.NoError(t, b.Define(BinOp("-", sqltype.Integer), Func("abs", sqltype.Integer, sqltype.Integer)))
	cat, err := b.Build()
	require.NoError(t, err)

	op := cat.OperatorOverloads("-")[0]
	fn := cat.RoutineOverloads("abs")[0]
	assert.Same(t, op.Result, fn.Result)
	assert.Same(t, cat.IntType, op.Left)
	assert.Same(t, cat.BoolType, cat.IntType)
}

func TestBuilder_DefineUnknownType(t *testing.T) {
	b := newTestBuilder(t)
	err := b.Define(Func("st_area", sqltype.Double, "GEOMETRY"))
	require.Error(t, err)

	var unsupported *sqltype.UnsupportedTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "GEOMETRY", unsupported.Name)
	assert.Contains(t, err.Error(), "st_area")
}

func TestBuilder_DefineBadOperatorArity(t *testing.T) {
	b := newTestBuilder(t)
	err := b.Define(Def{Kind: KindOperator, Name: "~", Result: sqltype.Integer, Args: []string{sqltype.Integer}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 operand types")
}

func TestBuilder_NoDeduplication(t *testing.T) {
	b := newTestBuilder(t)
	require.NoError(t, b.Define(
		Func("trim", sqltype.Varchar, sqltype.Varchar),
		Func("trim", sqltype.Varchar, sqltype.Varchar),
	))
	cat, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, cat.RoutineOverloads("trim"), 2)
}

func TestBuilder_BuildRequiresAliasesAndLiterals(t *testing.T) {
	_, err := NewBuilder(nil).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aliases")

	b := NewBuilder(nil)
	require.NoError(t, b.Aliases(sqltype.Integer, sqltype.Integer, sqltype.Internal, sqltype.Array))
	_, err = b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "literals")
}

func TestBuilder_AliasUnknownType(t *testing.T) {
	err := NewBuilder(nil).Aliases("BOOL", sqltype.Integer, sqltype.Internal, sqltype.Array)
	require.Error(t, err)
	var unsupported *sqltype.UnsupportedTypeError
	assert.True(t, errors.As(err, &unsupported))
}

func TestBuilder_BuildOnce(t *testing.T) {
	b := newTestBuilder(t)
	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrBuilt)
}

func TestCatalog_Indexes(t *testing.T) {
	b := newTestBuilder(t)
	types := b.Types()
	integer := types.MustGet(sqltype.Integer)
	varchar := types.MustGet(sqltype.Varchar)

	orders := NewTable("orders", "shop", true)
	orders.AddColumn("id", integer)
	orders.AddColumn("note", varchar)
	summary := NewTable("order_summary", "shop", false)
	summary.AddColumn("total", integer)
	b.AddTable(orders)
	b.AddTable(summary)

	require.NoError(t, b.Define(
		BinOp("<", sqltype.Integer),
		Func("lower", sqltype.Varchar, sqltype.Varchar),
		Func("length", sqltype.Integer, sqltype.Varchar),
		Agg("group_concat", sqltype.Varchar, sqltype.Varchar),
	))

	cat, err := b.Build()
	require.NoError(t, err)

	require.Len(t, cat.Tables(), 2)
	assert.Equal(t, []*Table{orders}, cat.BaseTables())
	assert.Equal(t, []*sqltype.Type{integer, varchar}, cat.ColumnTypes())

	got, ok := cat.Table("order_summary")
	require.True(t, ok)
	assert.False(t, got.Insertable)
	assert.False(t, got.BaseTable)
	_, ok = cat.Table("missing")
	assert.False(t, ok)

	assert.Len(t, cat.OperatorsReturning(integer), 1)
	assert.Empty(t, cat.OperatorsReturning(varchar))
	assert.Len(t, cat.RoutinesReturning(varchar), 1)
	assert.Len(t, cat.RoutinesReturning(integer), 1)
	assert.Len(t, cat.AggregatesReturning(varchar), 1)
	assert.Equal(t, "2 tables, 1 operators, 2 routines, 1 aggregates", cat.Summary())
}

func TestCatalog_QuoteName(t *testing.T) {
	b := newTestBuilder(t)
	b.IdentifierQuote("`")
	cat, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "`orders`", cat.QuoteName("orders"))
	assert.Equal(t, "`odd``name`", cat.QuoteName("odd`name"))

	plain, err := newTestBuilder(t).Build()
	require.NoError(t, err)
	assert.Equal(t, "orders", plain.QuoteName("orders"))
}

func TestTable_QualifiedName(t *testing.T) {
	assert.Equal(t, "shop.orders", NewTable("orders", "shop", true).QualifiedName())
	assert.Equal(t, "orders", NewTable("orders", "", true).QualifiedName())
}

func TestOverloads_Names(t *testing.T) {
	o := NewOverloads[*Routine]()
	o.Add(&Routine{Name: "b"})
	o.Add(&Routine{Name: "a"})
	o.Add(&Routine{Name: "b"})
	assert.Equal(t, []string{"b", "a"}, o.Names())
	assert.Equal(t, 3, o.Len())
	assert.Nil(t, o.Lookup("c"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "operator", KindOperator.String())
	assert.Equal(t, "scalar", KindScalar.String())
	assert.Equal(t, "aggregate", KindAggregate.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
