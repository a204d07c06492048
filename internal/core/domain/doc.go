// Package domain defines the core entities of the bmap engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AlignmentHit: One alignment of a query against a reference database
//   - GeneticMap: A curated map with its ordered database group
//   - MapPosition: The projected location of a query on one map
//   - Feature: A marker or gene placed on a map
//   - LocateReport: The per-map outcome of a locate run
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
