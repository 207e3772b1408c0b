// Package reconcile compares an area's OSM inventory with the reference
// registry.
//
// # Normalization
//
// Normalizer turns a raw house-number value ("1;3", "2-10", "42 a") into
// canonical numbers under the area policy:
//
//   - values are split on ";" and ",";
//   - a "start-end" token is expanded when both bounds are plain numbers,
//     start is not zero, the interval is not too wide and, under default
//     interpolation, both bounds share parity (every second number is
//     emitted). Otherwise its bounds are kept as separate literals, and a
//     descending token keeps only its start;
//   - with housenumber-letters enabled "42a", "42 a" and "42/a" become "42/A",
//     otherwise any suffix is dropped. A trailing "*" is kept;
//   - a number listed as invalid is dropped, a number listed as valid is kept,
//     anything else must fall into the street's ranges.
//
// When a reference number is dropped but exists in OSM, a Lint records it.
//
// # Relation
//
// Relation runs the reconciliation operations for one area: missing and
// additional streets, missing and additional house numbers, lints and
// coverage. It memoizes per-street results and must be created per request.
//
// # Cache
//
// ResultCache stores rendered reports on a file system. An artifact is served
// while it is newer than every file it depends on; any dependency change
// invalidates it as a whole.
//
// # Usage
//
//	rel := reconcile.NewRelation(areaCfg, inv, reconcile.DefaultConfig(), logger, m)
//	ongoing, done, err := rel.GetMissingHousenumbers(ctx)
//	percent, err := rel.Coverage(ctx)
package reconcile
