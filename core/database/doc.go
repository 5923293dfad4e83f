// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL or SQLite connections from the application's
// configuration. Database tables can be compared like files: the dataset package
// reads a table through this connection and uses the inspector to learn its
// column order and types.
//
// # Connect
//
// Connect opens the configured driver and verifies the connection with a ping.
// The database is optional; commands that do not compare tables never open it.
//
// # Schema Inspection
//
// GetTableColumns returns column definitions in declaration order (SHOW COLUMNS on
// MySQL, PRAGMA table_info on SQLite). PrimaryKeyColumns extracts the declared
// primary key, which table comparisons use when no key is given.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "customers")
package database
