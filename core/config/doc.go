// Package config provides configuration management for the area reconciler.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section and are registered by reflection, so every key can be overridden as
// SECTION_KEY (e.g. RECONCILE_MAX_INTERVAL_WIDTH). The loaded struct is then
// checked against its `validate` tags.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, metrics path, request deadline
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Database: row store driver and connection details
//   - Files: local or object-storage backend and directory layout
//   - Inventory: read extracts directly or imported rows
//   - Reconcile: normalizer limits and street collation locale
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
