package reference

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// GFFOptions selects which GFF records become genes.
type GFFOptions struct {
	// Types are the feature types to import. Defaults to "gene".
	Types []string

	// Chromosomes renames sequence names to map chromosomes,
	// e.g. "chr1H" to "1H". Unlisted names are kept.
	Chromosomes map[string]string
}

// ReadGFFGenes reads genes from GFF3. Gene ids come from the ID attribute,
// falling back to Name. Coordinates are 1-based basepairs of the feature start.
func ReadGFFGenes(r io.Reader, opts GFFOptions) ([]domain.Feature, error) {
	types := opts.Types
	if len(types) == 0 {
		types = []string{"gene"}
	}

	body, err := featureLines(r)
	if err != nil {
		return nil, err
	}

	var genes []domain.Feature
	sc := featio.NewScanner(gff.NewReader(body))
	for sc.Next() {
		f, ok := sc.Feat().(*gff.Feature)
		if !ok || !slices.Contains(types, f.Feature) {
			continue
		}

		id := attribute(f.FeatAttributes, "ID")
		if id == "" {
			id = attribute(f.FeatAttributes, "Name")
		}
		if id == "" {
			return nil, fmt.Errorf("%w: %s feature at %s:%d has no ID", domain.ErrInvalidInput, f.Feature, f.SeqName, f.FeatStart+1)
		}

		chr := f.SeqName
		if renamed, ok := opts.Chromosomes[chr]; ok {
			chr = renamed
		}
		genes = append(genes, domain.Feature{
			ID:         id,
			Type:       domain.FeatureGene,
			Class:      f.Feature,
			Chromosome: chr,
			BP:         domain.BP(int64(f.FeatStart) + 1),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return genes, nil
}

// featureLines drops directive and comment lines, leaving only records for
// the GFF reader. Reading stops at a ##FASTA section. GFF3 attribute columns
// are rewritten to the GFF2 tag-value form the reader parses.
func featureLines(r io.Reader) (io.Reader, error) {
	var buf bytes.Buffer
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "##FASTA") {
			break
		}
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) > attributeColumn {
			fields[attributeColumn] = gff2Attributes(fields[attributeColumn])
		}
		buf.WriteString(strings.Join(fields, "\t"))
		buf.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &buf, nil
}

// attributeColumn is the zero-based index of the GFF attribute column.
const attributeColumn = 8

// gff2Attributes turns "ID=g1;Name=kinase" into `ID "g1"; Name "kinase"`.
// Values are percent-decoded unless that would yield a separator. Pairs
// already in tag-value form are kept. Tags the reader cannot hold, such as
// ones with digits or dashes, are dropped.
func gff2Attributes(col string) string {
	var out []string
	for _, pair := range strings.Split(col, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		tag, value, ok := strings.Cut(pair, "=")
		if !ok || strings.ContainsAny(tag, " \t") {
			if validTag(strings.Fields(pair)[0]) {
				out = append(out, pair)
			}
			continue
		}
		if !validTag(tag) {
			continue
		}
		if decoded, err := url.PathUnescape(value); err == nil && !strings.ContainsAny(decoded, ";\t\n") {
			value = decoded
		}
		out = append(out, tag+" "+strconv.Quote(value))
	}
	return strings.Join(out, "; ")
}

func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, c := range tag {
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// attribute reads a tag value, without the quotes of the tag-value form.
func attribute(attrs gff.Attributes, tag string) string {
	v := attrs.Get(tag)
	if unquoted, err := strconv.Unquote(v); err == nil {
		return unquoted
	}
	return strings.Trim(v, `"`)
}
