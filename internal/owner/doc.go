// Package owner manages fleet vehicle owners.
//
// It provides the Owner record type, fail-fast field validation in form
// order (name, phone, email), a Repository interface with a SQLite
// implementation, and a Registry that layers an in-memory lookup cache
// over the repository for name-to-id resolution.
//
// An owner cannot be deleted while a car still references it; the
// repository pre-checks the reference count so the caller gets a typed
// error instead of a raw foreign-key violation.
package owner
