package domain

// FeatureType distinguishes markers from genes.
type FeatureType string

// Feature types.
const (
	FeatureMarker FeatureType = "marker"
	FeatureGene   FeatureType = "gene"
)

// IsValid returns true if the feature type is recognised.
func (t FeatureType) IsValid() bool {
	return t == FeatureMarker || t == FeatureGene
}

// String returns the string representation.
func (t FeatureType) String() string {
	return string(t)
}

// Feature is a marker or gene placed on a map.
type Feature struct {
	// ID is the feature identifier.
	ID string

	// Type is marker or gene.
	Type FeatureType

	// Class is the free-form subtype, for example "HC_gene" or "SNP".
	Class string

	// Dataset is the marker dataset the feature comes from.
	Dataset string

	// Chromosome is the map chromosome.
	Chromosome string

	// CM is the centimorgan position, nil when absent.
	CM *float64

	// BP is the basepair position, nil when absent.
	BP *int64

	// Genes lists gene ids associated with a marker.
	Genes []string

	// GenesConfigured is set when gene associations exist for the marker's dataset.
	GenesConfigured bool

	// Annotation is attached by annotation merging. Nil means merging did not run.
	Annotation *Annotation
}

// Coordinate returns the feature's coordinate.
func (f Feature) Coordinate() Coordinate {
	return Coordinate{Chromosome: f.Chromosome, CM: f.CM, BP: f.BP}
}

// Annotation is the functional annotation of a gene.
type Annotation struct {
	// GeneID is the annotated gene.
	GeneID string

	// Description is a readable description.
	Description string

	// InterPro holds InterPro accessions.
	InterPro string

	// Pfam holds Pfam accessions.
	Pfam string

	// GOTerms holds Gene Ontology terms.
	GOTerms []string
}

// IsEmpty reports whether the annotation carries no information.
func (a Annotation) IsEmpty() bool {
	return a.Description == "" && a.InterPro == "" && a.Pfam == "" && len(a.GOTerms) == 0
}
