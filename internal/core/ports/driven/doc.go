// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - HitReader: Produces alignment hits per database (the aligner collaborator)
//   - MapCatalog: Genetic maps and the database registry
//   - ReferenceStore: Anchors, features and annotations per map
//   - ConfigStore: Application configuration
//
// # Run-Scoped Interfaces
//
// These are built from reference data before a run and are read-only
// while the engine executes:
//
//   - CoordinateLookup: (database, contig, position) to map coordinates
//   - AnnotationSource: gene id to annotation
//
// # Output
//
//   - ReportWriter: Renders a locate report
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
