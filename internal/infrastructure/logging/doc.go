// Package logging provides structured logging for PlantBox Core.
//
// It wraps log/slog with configuration-driven level, format, and output
// selection, and stamps every record with the service name and version.
package logging
