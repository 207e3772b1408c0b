// Package integrity provides workspace health checks.
//
// Unlike the 'relations' package which reconciles area content, this package
// validates the inputs reconciliation depends on.
//
// # Checks Provided
//
//   - Structure: Checks that relations.yaml exists and every area configuration resolves.
//   - Extracts: Lists areas whose extract files are missing, or newer than their last import.
//   - Database: Validates that the row store schema matches the row models (columns, types).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/extracts : Runs extracts check.
//   - GET /integrity/database : Runs schema check (supports ?fix=true to migrate).
package integrity
