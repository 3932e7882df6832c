package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapfuzz/pkg/catalog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// catalogExport is the serialized form of a catalog.
type catalogExport struct {
	Tables       []*catalog.Table    `json:"tables" yaml:"tables"`
	Operators    []*catalog.Operator `json:"operators" yaml:"operators"`
	Routines     []*catalog.Routine  `json:"routines" yaml:"routines"`
	Aggregates   []*catalog.Routine  `json:"aggregates" yaml:"aggregates"`
	Aliases      map[string]string   `json:"aliases" yaml:"aliases"`
	TrueLiteral  string              `json:"true_literal" yaml:"true_literal"`
	FalseLiteral string              `json:"false_literal" yaml:"false_literal"`
}

func exportCatalog(cat *catalog.Catalog) catalogExport {
	return catalogExport{
		Tables:     cat.Tables(),
		Operators:  cat.Operators(),
		Routines:   cat.Routines(),
		Aggregates: cat.Aggregates(),
		Aliases: map[string]string{
			"booltype":     cat.BoolType.Name(),
			"inttype":      cat.IntType.Name(),
			"internaltype": cat.InternalType.Name(),
			"arraytype":    cat.ArrayType.Name(),
		},
		TrueLiteral:  cat.TrueLiteral,
		FalseLiteral: cat.FalseLiteral,
	}
}

func validCatalogFormat(format string) bool {
	switch format {
	case "table", "json", "yaml":
		return true
	}
	return false
}

func renderCatalog(w io.Writer, cat *catalog.Catalog, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(exportCatalog(cat))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(exportCatalog(cat)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderCatalogTables(w, cat)
	}
}

func renderCatalogTables(w io.Writer, cat *catalog.Catalog) error {
	titleCaser := cases.Title(language.English)

	if len(cat.Tables()) == 0 {
		_, _ = fmt.Fprintln(w, "(0 tables)")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Table", "Kind", "Column", "Type"})
		for _, tbl := range cat.Tables() {
			kind := "view"
			if tbl.BaseTable {
				kind = "base table"
			}
			if len(tbl.Columns) == 0 {
				t.AppendRow(table.Row{tbl.QualifiedName(), titleCaser.String(kind), "", ""})
			}
			for i, col := range tbl.Columns {
				name, k := "", ""
				if i == 0 {
					name, k = tbl.QualifiedName(), titleCaser.String(kind)
				}
				t.AppendRow(table.Row{name, k, col.Name, col.Type.Name()})
			}
			t.AppendSeparator()
		}
		t.Render()
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Name", "Signature"})
	for _, op := range cat.Operators() {
		t.AppendRow(table.Row{titleCaser.String(catalog.KindOperator.String()), op.Name, op.String()})
	}
	for _, r := range cat.Routines() {
		t.AppendRow(table.Row{titleCaser.String(catalog.KindScalar.String()), r.Name, r.String()})
	}
	for _, r := range cat.Aggregates() {
		t.AppendRow(table.Row{titleCaser.String(catalog.KindAggregate.String()), r.Name, r.String()})
	}
	t.Render()

	_, _ = fmt.Fprintf(w, "(%s; true=%s false=%s)\n", cat.Summary(), cat.TrueLiteral, cat.FalseLiteral)
	return nil
}
