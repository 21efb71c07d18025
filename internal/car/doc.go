// Package car manages the fleet's vehicles.
//
// It provides the Car record type, fail-fast field validation in form
// order (registration, brand, model, year, owner), a Repository with a
// SQLite implementation, and a Registry that layers the lookup caches on
// top: a case-insensitive registration-number index for O(1) duplicate
// detection and a label index mapping "Brand Model (RegNo)" picker text
// back to primary keys.
//
// Registration numbers are unique across the fleet. The registry
// pre-checks its index so duplicates fail before the store round trip,
// while the schema's COLLATE NOCASE UNIQUE constraint remains the
// authority; constraint violations map to the same typed error.
//
// Car rows denormalize the owner's name for table display, so the
// registry reloads when owners change (see the refresh package).
package car
