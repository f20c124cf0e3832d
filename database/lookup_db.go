package database

import (
	"database/sql"
	"fmt"
)

// LookupOption is one {id, label} row from a lookup table, used to populate
// correction dropdowns.
type LookupOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// lookupTables enumerates the queryable lookup tables. Requests for anything
// else are rejected rather than interpolated into SQL.
var lookupTables = map[string]bool{
	"regiments":          true,
	"ranks":              true,
	"engagements":        true,
	"nationalities":      true,
	"religions":          true,
	"industries":         true,
	"occupations":        true,
	"service_trades":     true,
	"marital_statuses":   true,
	"medical_categories": true,
	"places":             true,
}

// IsLookupTable reports whether the given name is a known lookup table.
func IsLookupTable(name string) bool {
	return lookupTables[name]
}

// ListLookupOptions retrieves all {id, label} rows of one lookup table,
// ordered by label.
func ListLookupOptions(db *sql.DB, table string) ([]LookupOption, error) {
	if !lookupTables[table] {
		return nil, fmt.Errorf("unknown lookup table: %s", table)
	}

	queryBuilder := psql.Select("id", "label").From(table).OrderBy("label ASC")
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListLookupOptions: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListLookupOptions query for %s: %w", table, err)
	}
	defer rows.Close()

	options := []LookupOption{}
	for rows.Next() {
		var o LookupOption
		if err := rows.Scan(&o.ID, &o.Label); err != nil {
			return nil, fmt.Errorf("failed to scan lookup option row: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lookup option rows: %w", err)
	}

	return options, nil
}
