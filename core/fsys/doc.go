// Package fsys is the file abstraction behind area documents, extract files,
// import stamps and cached reports.
//
// Paths are logical, slash-separated and relative to the configured root. Two
// backends implement FileSystem: Local, rooted in a directory on disk, and
// Object, rooted in a bucket prefix of an S3 compatible store (core/storage).
//
// Writes are whole-file: OpenWrite returns a writer whose Close publishes the
// content in one step (rename on disk, a single PutObject in a bucket), so a
// reader never observes a partially written file. Abort drops the pending
// content instead; WriteAll aborts when a write fails.
//
// A missing path is reported with an error wrapping fs.ErrNotExist.
package fsys
