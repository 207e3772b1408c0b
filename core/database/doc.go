// Package database is the row store: imported OSM and reference extracts kept
// in MySQL or SQLite through GORM.
//
// # Connect
//
// Connect opens the driver named in the configuration. SQLite uses the pure-Go
// modernc.org/sqlite driver, so no cgo toolchain is needed; ":memory:" keeps
// the store in memory, which the tests rely on.
//
// # Import
//
// Importer copies the four per-area datasets from another inventory (normally
// the TSV extracts) into the tables, replacing the previous rows of the area in
// one transaction. After a successful commit it touches one stamp file per
// dataset. RowStore serves a dataset only once its stamp exists and reports the
// stamps as dependencies, so the result cache notices every import.
//
// # Schema Inspection
//
// CheckSchema compares the live tables with the row models and reports missing
// columns and type mismatches. It guards servers started against a database
// that was migrated by an older version.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	if err := database.Migrate(db); err != nil {
//	    return err
//	}
//	store := database.NewRowStore(db, fs, cfg.Files.WorkDir)
package database
