// Package box defines smart-pot device records, their sensor log, and the
// SQLite persistence for both.
//
// A box belongs to exactly one owner. Ownership is a plain column, not an
// enforced foreign key: the API contract accepts any caller-supplied owner
// id. The sensor log is append-only from the ingestion side; this package
// provides the insert primitive for that writer and the newest-first
// bounded query the API serves.
package box
