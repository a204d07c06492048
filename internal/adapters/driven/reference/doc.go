// Package reference parses reference tables for import into the reference
// store: anchors, markers, genes and annotations as tab-separated files,
// and genes from GFF3.
package reference
