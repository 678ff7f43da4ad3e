package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column describes one column of an existing table.
type Column struct {
	Name string
	Type string
}

// TableColumns lists the columns of table with lower-cased names and types.
func TableColumns(db *gorm.DB, table string) ([]Column, error) {
	if !db.Migrator().HasTable(table) {
		return nil, fmt.Errorf("table %s does not exist", table)
	}

	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}

	cols := make([]Column, 0, len(types))
	for _, ct := range types {
		cols = append(cols, Column{
			Name: strings.ToLower(ct.Name()),
			Type: strings.ToLower(ct.DatabaseTypeName()),
		})
	}
	return cols, nil
}

// MissingColumns returns the names in want that table lacks.
func MissingColumns(db *gorm.DB, table string, want []string) ([]string, error) {
	cols, err := TableColumns(db, table)
	if err != nil {
		return nil, err
	}

	have := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		have[c.Name] = struct{}{}
	}

	var missing []string
	for _, name := range want {
		if _, ok := have[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
