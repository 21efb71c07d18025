// Package database provides the SQLite connection and migration support
// for Fleet Core.
//
// The DB type wraps database/sql with an explicit open/close lifecycle:
// the connection is constructed once in cmd/fleetcore and passed by
// reference to every repository. There is no package-level singleton.
//
// Foreign key enforcement is always enabled on the connection string, so
// the store remains the authority for referential integrity between
// owners, cars and repairs. Schema changes are applied through embedded
// SQL migrations (see the migrations package at the repository root).
package database
