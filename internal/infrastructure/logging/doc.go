// Package logging provides structured logging for Fleet Core.
//
// It wraps log/slog with level-based filtering, configurable output
// format (JSON or text) and default service/version attributes. Domain
// packages depend on a narrow Logger interface rather than this package
// directly, so they can be tested with a noop logger.
package logging
