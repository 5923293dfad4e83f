package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // NULL default is possible
	Extra   string
}

// IsNumeric reports whether the column stores numbers.
func (c ColumnInfo) IsNumeric() bool {
	t := c.Type
	for _, prefix := range []string{"int", "tinyint", "smallint", "mediumint", "bigint", "integer", "decimal", "numeric", "float", "double", "real"} {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

// GetTableColumns retrieves the column definitions for a given table in declaration order.
// Field names keep their case; types are lowercased.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo

	if db.Dialector.Name() == DriverSQLite {
		// SQLite uses PRAGMA table_info
		type SQLiteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string `gorm:"column:dflt_value"`
			Pk         int
		}
		var sqliteCols []SQLiteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", strings.ReplaceAll(tableName, "'", "''"))).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			key := ""
			if col.Pk > 0 {
				key = "PRI"
			}
			columns = append(columns, ColumnInfo{
				Field:   col.Name,
				Type:    strings.ToLower(col.Type),
				Key:     key,
				Default: col.DefaultVal,
			})
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", strings.ReplaceAll(tableName, "`", "``"))).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns, nil
}

// PrimaryKeyColumns returns the names of columns flagged as primary key, in order.
func PrimaryKeyColumns(columns []ColumnInfo) []string {
	var keys []string
	for _, c := range columns {
		if c.Key == "PRI" {
			keys = append(keys, c.Field)
		}
	}
	return keys
}
