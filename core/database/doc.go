// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either a MySQL connection or a SQLite database based
// on the application's configuration. SQLite is used for single-host setups
// and in tests with an in-memory database.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition so the
// validate command can report a registry table that drifted from the model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "registry_entries", []string{"unique_key"})
package database
