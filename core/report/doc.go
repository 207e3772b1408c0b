// Package report turns reconciliation results into the artifacts served to
// users: a plain-text table, a Markdown document and JSON.
//
// A Report is built once from a reconcile.Relation and can then be written in
// any Format. The bytes are what the result cache stores.
package report
