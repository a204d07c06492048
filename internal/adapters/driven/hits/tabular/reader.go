package tabular

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Ensure DirReader implements the interface.
var _ driven.HitReader = (*DirReader)(nil)

// Extensions are the recognised hit file extensions, in lookup order.
var Extensions = []string{".tsv", ".m8"}

// DirReader serves hit files from one directory.
type DirReader struct {
	dir       string
	queryFile string
}

// NewDirReader reads <database>.tsv files from dir. queryFile, when not
// empty, is the FASTA file of submitted queries.
func NewDirReader(dir, queryFile string) *DirReader {
	return &DirReader{dir: dir, queryFile: queryFile}
}

// Dir returns the hit directory.
func (r *DirReader) Dir() string {
	return r.dir
}

// Databases lists the databases with a hit file, sorted.
func (r *DirReader) Databases(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read hit directory: %w", err)
	}

	var dbs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if db, ok := DatabaseOf(e.Name()); ok && !slices.Contains(dbs, db) {
			dbs = append(dbs, db)
		}
	}
	slices.Sort(dbs)
	return dbs, nil
}

// DatabaseOf returns the database a hit file name belongs to.
func DatabaseOf(name string) (string, bool) {
	ext := filepath.Ext(name)
	if !slices.Contains(Extensions, ext) {
		return "", false
	}
	db := strings.TrimSuffix(name, ext)
	return db, db != ""
}

// ReadHits parses the hit file of databaseID.
func (r *DirReader) ReadHits(ctx context.Context, databaseID string) ([]domain.AlignmentHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, ext := range Extensions {
		f, err := os.Open(filepath.Join(r.dir, databaseID+ext))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()

		hits, err := ParseHits(f, databaseID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		return hits, nil
	}
	return nil, fmt.Errorf("%w: no hit file for %s in %s", domain.ErrNotFound, databaseID, r.dir)
}

// QueryIDs returns the FASTA record ids of the query file, or nil when no
// query file is set.
func (r *DirReader) QueryIDs(_ context.Context) ([]string, error) {
	if r.queryFile == "" {
		return nil, nil
	}
	return ReadFASTAIDs(r.queryFile)
}

// ReadFASTAIDs returns the record ids of a FASTA file in file order.
func ReadFASTAIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open queries: %w", err)
	}
	defer f.Close()

	sc := seqio.NewScanner(fasta.NewReader(f, linear.NewSeq("", nil, alphabet.DNAredundant)))
	var ids []string
	for sc.Next() {
		ids = append(ids, sc.Seq().Name())
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, path, err)
	}
	return ids, nil
}
