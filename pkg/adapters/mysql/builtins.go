package mysql

import (
	"github.com/leapstack-labs/leapfuzz/pkg/catalog"
	"github.com/leapstack-labs/leapfuzz/pkg/sqltype"
)

const (
	integer = sqltype.Integer
	double  = sqltype.Double
	varchar = sqltype.Varchar
)

// builtins is the operator and function surface the generator may use
// against MySQL. Overloads are listed as separate entries; repeats are kept.
var builtins = []catalog.Def{
	catalog.BinOp("*", integer),
	catalog.BinOp("/", integer),

	catalog.BinOp("+", integer),
	catalog.BinOp("-", integer),

	catalog.BinOp(">>", integer),
	catalog.BinOp("<<", integer),

	catalog.BinOp("&", integer),
	catalog.BinOp("|", integer),

	catalog.BinOp("<", integer),
	catalog.BinOp("<=", integer),
	catalog.BinOp(">", integer),
	catalog.BinOp(">=", integer),

	catalog.BinOp("=", integer),
	catalog.BinOp("<>", integer),
	catalog.BinOp("IS", integer),
	catalog.BinOp("IS NOT", integer),

	catalog.BinOp("AND", integer),
	catalog.BinOp("OR", integer),

	catalog.Func("last_insert_rowid", integer),

	catalog.Func("abs", integer, integer),
	catalog.Func("hex", varchar, varchar),
	catalog.Func("length", integer, varchar),
	catalog.Func("lower", varchar, varchar),
	catalog.Func("ltrim", varchar, varchar),
	catalog.Func("rtrim", varchar, varchar),
	catalog.Func("trim", varchar, varchar),
	catalog.Func("quote", varchar, varchar),
	catalog.Func("round", integer, double),
	catalog.Func("rtrim", varchar, varchar),
	catalog.Func("trim", varchar, varchar),
	catalog.Func("upper", varchar, varchar),

	catalog.Func("instr", integer, varchar, varchar),
	catalog.Func("substr", varchar, varchar, integer),

	catalog.Func("substr", varchar, varchar, integer, integer),
	catalog.Func("replace", varchar, varchar, varchar, varchar),

	catalog.Agg("avg", integer, integer),
	catalog.Agg("avg", double, double),
	catalog.Agg("count", integer, integer),
	catalog.Agg("group_concat", varchar, varchar),
	catalog.Agg("max", double, double),
	catalog.Agg("max", integer, integer),
	catalog.Agg("sum", double, double),
	catalog.Agg("sum", integer, integer),
}

// Builtins returns a copy of the MySQL operator and function table.
func Builtins() []catalog.Def {
	return append([]catalog.Def(nil), builtins...)
}

// defineDialect registers the builtin table and the dialect constants.
func defineDialect(b *catalog.Builder) error {
	if err := b.Define(builtins...); err != nil {
		return err
	}
	// MySQL has no boolean column type; comparisons yield 0/1 integers.
	if err := b.Aliases(sqltype.Integer, sqltype.Integer, sqltype.Internal, sqltype.Array); err != nil {
		return err
	}
	b.Literals("1", "0")
	b.IdentifierQuote("`")
	return nil
}
