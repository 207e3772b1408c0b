// Package area loads and resolves the per-area reconciliation policy.
//
// Policy lives in two YAML layers read through core/fsys:
//
//   - relations.yaml maps every area name to its shared settings
//     (osmrelation, refcounty, refsettlement, ...).
//   - relation-<name>.yaml carries the area-specific document: street
//     filters, aliases, allow and deny lists. It is optional.
//
// Each key of the area-specific document overrides the same key of the shared
// entry. Keys absent from both layers resolve to documented defaults. Maps and
// lists override as a whole; they are never merged.
//
// Documents are decoded strictly: an unknown key is an error. Errors that come
// from a document are returned as *ConfigError naming the area and the key.
package area
