// Package domain defines the core entities for the agenda tool.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Period: A named shorthand for a calendar date range
//   - DateRange: A concrete [Start, End] pair in local time
//   - Meeting: One appointment snapshot returned by a query
//   - FilterSet: Optional case-insensitive substring filters
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
