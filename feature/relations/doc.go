// Package relations serves per-area reconciliation reports over HTTP.
//
// Reports are computed on demand by the reconcile engine and stored in the
// result cache, keyed by area, report kind and output format. A cached
// artifact is reused while it is newer than every area configuration file
// and inventory extract it was computed from.
package relations
