// Package tabular reads precomputed aligner output in BLAST tabular form.
//
// Each database has one file named <database>.tsv (or .m8) holding the
// 12 outfmt 6 columns followed by qcovs:
//
//	qseqid sseqid pident length mismatch gapopen qstart qend sstart send evalue bitscore qcovs
//
// Lines starting with '#' are ignored. The query list comes from a FASTA
// file when one is given, otherwise from the hit files themselves.
package tabular
