// Package sqlite provides the SQLite implementation of driven.ReferenceStore.
//
// It uses modernc.org/sqlite, a pure Go SQLite build, so bmap cross-compiles
// without CGO. The store holds the imported reference data of every map:
//
//   - anchors: contig to chromosome/cM/bp placements per map
//   - features: markers and genes with their map coordinates
//   - annotations: gene descriptions, InterPro, Pfam and GO terms
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default the database is stored at ~/.bmap/data/reference.db.
package sqlite
