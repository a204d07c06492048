package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/reference"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

var (
	gffTypes       []string
	gffChromosomes map[string]string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load reference data into the reference store",
	Long: `Load curated reference data for the catalogued maps.

Tab separated files may start with '#' comment lines. Absent coordinates
are written as '-' or left empty.

  anchors      database  contig  chromosome  cm  bp
  markers      marker  chromosome  cm  bp  dataset  [class  [genes]]
  genes        gene  chromosome  cm  bp  [class]
  annotations  gene  description  interpro  pfam  go`,
}

var importAnchorsCmd = &cobra.Command{
	Use:   "anchors [map] [file]",
	Short: "Replace the contig anchors of a map",
	Args:  cobra.ExactArgs(2),
	RunE:  runImportAnchors,
}

var importMarkersCmd = &cobra.Command{
	Use:   "markers [map] [file]",
	Short: "Import markers of a map",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportFeatures(cmd, args, reference.ReadMarkers)
	},
}

var importGenesCmd = &cobra.Command{
	Use:   "genes [map] [file]",
	Short: "Import genes of a map from TSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportFeatures(cmd, args, reference.ReadGenes)
	},
}

var importGFFCmd = &cobra.Command{
	Use:   "gff [map] [file]",
	Short: "Import genes of a map from GFF3",
	Long: `Import genes of a map from a GFF3 file. Gene ids come from the ID
attribute, falling back to Name. Positions are basepairs of the feature start.

Example:
  bmap import gff morex genes.gff3 --type gene --chrom chr1H=1H,chr2H=2H`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		read := func(r io.Reader) ([]domain.Feature, error) {
			return reference.ReadGFFGenes(r, reference.GFFOptions{Types: gffTypes, Chromosomes: gffChromosomes})
		}
		return runImportFeatures(cmd, args, read)
	},
}

var importAnnotationsCmd = &cobra.Command{
	Use:   "annotations [file]",
	Short: "Import gene annotations",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportAnnotations,
}

func init() {
	importGFFCmd.Flags().StringSliceVar(&gffTypes, "type", []string{"gene"}, "GFF feature types to import")
	importGFFCmd.Flags().StringToStringVar(&gffChromosomes, "chrom", nil, "rename sequences to map chromosomes (seq=chr)")

	importCmd.AddCommand(importAnchorsCmd)
	importCmd.AddCommand(importMarkersCmd)
	importCmd.AddCommand(importGenesCmd)
	importCmd.AddCommand(importGFFCmd)
	importCmd.AddCommand(importAnnotationsCmd)
	rootCmd.AddCommand(importCmd)
}

// readFile opens path and parses it with read.
func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func runImportAnchors(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	anchors, err := readFile(args[1], reference.ReadAnchors)
	if err != nil {
		return fmt.Errorf("failed to read anchors: %w", err)
	}
	n, err := importService.ImportAnchors(cmd.Context(), args[0], anchors)
	if err != nil {
		return fmt.Errorf("failed to import anchors: %w", err)
	}

	cmd.Printf("Imported %d anchors into %s\n", n, args[0])
	return nil
}

func runImportFeatures(cmd *cobra.Command, args []string, read func(io.Reader) ([]domain.Feature, error)) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	features, err := readFile(args[1], read)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.Name(), err)
	}
	n, err := importService.ImportFeatures(cmd.Context(), args[0], features)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", cmd.Name(), err)
	}

	cmd.Printf("Imported %d features into %s\n", n, args[0])
	return nil
}

func runImportAnnotations(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	annotations, err := readFile(args[0], reference.ReadAnnotations)
	if err != nil {
		return fmt.Errorf("failed to read annotations: %w", err)
	}
	n, err := importService.ImportAnnotations(cmd.Context(), annotations)
	if err != nil {
		return fmt.Errorf("failed to import annotations: %w", err)
	}

	cmd.Printf("Imported %d annotations\n", n)
	return nil
}
