// Package user defines account records and their SQLite persistence.
//
// Duplicate accounts are prevented by UNIQUE constraints on email and
// username rather than a check-then-insert sequence, so two concurrent
// registrations for the same address cannot both succeed.
package user
