// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The locate pipeline is HitStore, SelectionFilter, HierarchicalResolver,
// MapProjector, then optional WindowedFeatureSearch and AnnotationMerger.
// Everything after hit loading is pure computation over materialised data.
//
// Services are pure Go with no CGO or external dependencies.
package services
