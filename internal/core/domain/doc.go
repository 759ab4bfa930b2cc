// Package domain defines the core business entities for docbridge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDocument: An authored document listed from the source store
//   - TargetDocument: A destination document made of ordered pages
//   - WorkItem: One source document moving through the migration states
//   - DocumentReport: The repair classification of one target document
//
// It also owns the content formatter, which must stay pure so that the
// migration and refill paths produce byte-identical page bodies.
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
