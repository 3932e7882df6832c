package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapfuzz/pkg/catalog"
)

const (
	tablesQuery = `SELECT TABLE_NAME, TABLE_SCHEMA, TABLE_TYPE FROM information_schema.tables WHERE TABLE_SCHEMA = ?`

	columnsQuery = `SELECT COLUMN_NAME, UPPER(DATA_TYPE) FROM information_schema.columns WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
)

// TABLE_TYPE values. Other values (e.g. SYSTEM VIEW) are skipped.
const (
	tableTypeBase = "BASE TABLE"
	tableTypeView = "VIEW"
)

// LoadCatalog reads tables, views and columns of the connected schema from
// information_schema and adds the MySQL builtin operators and functions.
//
// All metadata queries run on one pooled connection which is released before
// returning. Any failure yields a *catalog.LoadError and no catalog.
func (a *Adapter) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	conn, err := a.DB.Conn(ctx)
	if err != nil {
		return nil, &catalog.LoadError{Stage: "acquiring connection", Err: err}
	}
	defer func() { _ = conn.Close() }()

	b := catalog.NewBuilder(nil)

	a.Logger.Info("loading tables", slog.String("schema", a.Target.Database))
	tables, err := loadTables(ctx, conn, a.Target.Database)
	if err != nil {
		return nil, err
	}

	a.Logger.Info("loading columns", slog.Int("tables", len(tables)))
	for _, t := range tables {
		if err := loadColumns(ctx, conn, b, t); err != nil {
			return nil, err
		}
		b.AddTable(t)
	}

	if err := defineDialect(b); err != nil {
		return nil, &catalog.LoadError{Stage: "registering builtins", Err: err}
	}

	cat, err := b.Build()
	if err != nil {
		return nil, &catalog.LoadError{Stage: "building catalog", Err: err}
	}
	a.Logger.Debug("catalog loaded", slog.String("summary", cat.Summary()))
	return cat, nil
}

func loadTables(ctx context.Context, conn *sql.Conn, schema string) ([]*catalog.Table, error) {
	rows, err := conn.QueryContext(ctx, tablesQuery, schema)
	if err != nil {
		return nil, &catalog.LoadError{Stage: "listing tables", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var tables []*catalog.Table
	for rows.Next() {
		var name, tableSchema, tableType string
		if err := rows.Scan(&name, &tableSchema, &tableType); err != nil {
			return nil, &catalog.LoadError{Stage: "scanning tables", Err: err}
		}
		switch tableType {
		case tableTypeBase:
			tables = append(tables, catalog.NewTable(name, tableSchema, true))
		case tableTypeView:
			tables = append(tables, catalog.NewTable(name, tableSchema, false))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &catalog.LoadError{Stage: "listing tables", Err: err}
	}
	return tables, nil
}

func loadColumns(ctx context.Context, conn *sql.Conn, b *catalog.Builder, t *catalog.Table) error {
	stage := fmt.Sprintf("loading columns of %s", t.QualifiedName())

	rows, err := conn.QueryContext(ctx, columnsQuery, t.Schema, t.Name)
	if err != nil {
		return &catalog.LoadError{Stage: stage, Err: err}
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return &catalog.LoadError{Stage: stage, Err: err}
		}
		canonical, err := NormalizeType(dataType)
		if err != nil {
			return &catalog.LoadError{Stage: fmt.Sprintf("%s (column %s)", stage, name), Err: err}
		}
		typ, err := b.Types().Get(canonical)
		if err != nil {
			return &catalog.LoadError{Stage: stage, Err: err}
		}
		t.AddColumn(name, typ)
	}
	if err := rows.Err(); err != nil {
		return &catalog.LoadError{Stage: stage, Err: err}
	}
	return nil
}
