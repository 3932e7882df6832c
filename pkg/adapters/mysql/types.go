package mysql

import (
	"strings"

	"github.com/leapstack-labs/leapfuzz/pkg/sqltype"
)

// typeFamilies maps MySQL DATA_TYPE names onto canonical types.
var typeFamilies = map[string][]string{
	sqltype.Integer:   {"TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT"},
	sqltype.Double:    {"DOUBLE", "FLOAT", "NUMERIC", "DECIMAL"},
	sqltype.Varchar:   {"VARCHAR", "CHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT"},
	sqltype.Timestamp: {"DATE", "TIME", "DATETIME", "TIMESTAMP", "YEAR"},
	sqltype.Bit:       {"BIT"},
	sqltype.Binary:    {"BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB"},
	sqltype.Enum:      {"ENUM"},
	sqltype.Set:       {"SET"},
}

// vendorTypes is typeFamilies inverted.
var vendorTypes = func() map[string]string {
	m := make(map[string]string)
	for canonical, names := range typeFamilies {
		for _, name := range names {
			m[name] = canonical
		}
	}
	return m
}()

// NormalizeType returns the canonical type name for a MySQL data type name.
// Lookup is case-insensitive. Names outside the table fail with
// *sqltype.UnsupportedTypeError.
func NormalizeType(vendor string) (string, error) {
	if canonical, ok := vendorTypes[strings.ToUpper(vendor)]; ok {
		return canonical, nil
	}
	return "", &sqltype.UnsupportedTypeError{Name: vendor}
}

// SupportedTypes returns the vendor type names NormalizeType accepts, grouped
// by canonical type.
func SupportedTypes() map[string][]string {
	out := make(map[string][]string, len(typeFamilies))
	for canonical, names := range typeFamilies {
		out[canonical] = append([]string(nil), names...)
	}
	return out
}
