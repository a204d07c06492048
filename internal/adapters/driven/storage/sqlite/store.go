package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ReferenceStore = (*Store)(nil)

// DatabaseFile is the file name of the store inside its data directory.
const DatabaseFile = "reference.db"

// maxParams bounds the placeholders of one IN clause.
const maxParams = 500

// Store is a SQLite-backed reference store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the store in dataDir.
// If dataDir is empty, defaults to ~/.bmap/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".bmap", "data")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return Open(filepath.Join(dataDir, DatabaseFile))
}

// Open opens the store at an explicit database path.
func Open(dbPath string) (*Store, error) {
	// WAL lets concurrent map runs read while an import writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies pending NNN_name.up.sql files in version order.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return fmt.Errorf("listing migrations: %w", err)
	}
	slices.Sort(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== Anchors ====================

// SaveAnchors replaces the anchors of a map in one transaction.
func (s *Store) SaveAnchors(ctx context.Context, mapID string, anchors []domain.Anchor) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM anchors WHERE map_id = ?", mapID); err != nil {
			return fmt.Errorf("clearing anchors: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO anchors (map_id, database_id, contig, chromosome, cm, bp)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing statement: %w", err)
		}
		defer stmt.Close()

		for _, a := range anchors {
			c := a.Coordinate
			if _, err := stmt.ExecContext(ctx, mapID, a.DatabaseID, a.Contig, c.Chromosome,
				nullFloat(c.CM), nullInt(c.BP)); err != nil {
				return fmt.Errorf("saving anchor %s: %w", a.Contig, err)
			}
		}
		return nil
	})
}

// Anchors returns the anchors of a map in insertion order.
func (s *Store) Anchors(ctx context.Context, mapID string) ([]domain.Anchor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT database_id, contig, chromosome, cm, bp
		FROM anchors WHERE map_id = ? ORDER BY rowid
	`, mapID)
	if err != nil {
		return nil, fmt.Errorf("querying anchors: %w", err)
	}
	defer rows.Close()

	var anchors []domain.Anchor //nolint:prealloc // size unknown from query
	for rows.Next() {
		var a domain.Anchor
		var cm sql.NullFloat64
		var bp sql.NullInt64
		if err := rows.Scan(&a.DatabaseID, &a.Contig, &a.Coordinate.Chromosome, &cm, &bp); err != nil {
			return nil, fmt.Errorf("scanning anchor: %w", err)
		}
		a.Coordinate.CM, a.Coordinate.BP = floatPtr(cm), intPtr(bp)
		anchors = append(anchors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating anchors: %w", err)
	}
	return anchors, nil
}

// ==================== Features ====================

// SaveFeatures upserts markers and genes of a map.
func (s *Store) SaveFeatures(ctx context.Context, mapID string, features []domain.Feature) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO features (map_id, type, id, class, dataset, chromosome, cm, bp, genes, genes_configured)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(map_id, type, id) DO UPDATE SET
				class = excluded.class,
				dataset = excluded.dataset,
				chromosome = excluded.chromosome,
				cm = excluded.cm,
				bp = excluded.bp,
				genes = excluded.genes,
				genes_configured = excluded.genes_configured
		`)
		if err != nil {
			return fmt.Errorf("preparing statement: %w", err)
		}
		defer stmt.Close()

		for _, f := range features {
			genes, err := marshalStrings(f.Genes)
			if err != nil {
				return fmt.Errorf("marshalling genes of %s: %w", f.ID, err)
			}
			if _, err := stmt.ExecContext(ctx, mapID, f.Type, f.ID, f.Class, f.Dataset, f.Chromosome,
				nullFloat(f.CM), nullInt(f.BP), genes, f.GenesConfigured); err != nil {
				return fmt.Errorf("saving feature %s: %w", f.ID, err)
			}
		}
		return nil
	})
}

// Features returns features of one type that carry a coordinate in unit,
// ordered by chromosome, coordinate and id.
func (s *Store) Features(
	ctx context.Context,
	mapID string,
	kind domain.FeatureType,
	unit domain.SortUnit,
) ([]domain.Feature, error) {
	var column string
	switch unit {
	case domain.SortCM:
		column = "cm"
	case domain.SortBP:
		column = "bp"
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedUnit, unit)
	}

	// column is one of two fixed identifiers.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, class, dataset, chromosome, cm, bp, genes, genes_configured
		FROM features
		WHERE map_id = ? AND type = ? AND `+column+` IS NOT NULL
		ORDER BY chromosome, `+column+`, id
	`, mapID, kind)
	if err != nil {
		return nil, fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	var features []domain.Feature //nolint:prealloc // size unknown from query
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating features: %w", err)
	}
	return features, nil
}

func scanFeature(rows *sql.Rows) (domain.Feature, error) {
	var f domain.Feature
	var cm sql.NullFloat64
	var bp sql.NullInt64
	var genes string
	if err := rows.Scan(&f.ID, &f.Type, &f.Class, &f.Dataset, &f.Chromosome,
		&cm, &bp, &genes, &f.GenesConfigured); err != nil {
		return f, fmt.Errorf("scanning feature: %w", err)
	}
	f.CM, f.BP = floatPtr(cm), intPtr(bp)
	if err := json.Unmarshal([]byte(genes), &f.Genes); err != nil {
		return f, fmt.Errorf("%w: genes of %s: %v", domain.ErrDataIntegrity, f.ID, err)
	}
	if len(f.Genes) == 0 {
		f.Genes = nil
	}
	return f, nil
}

// ==================== Annotations ====================

// SaveAnnotations upserts gene annotations.
func (s *Store) SaveAnnotations(ctx context.Context, annotations []domain.Annotation) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO annotations (gene_id, description, interpro, pfam, go_terms)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(gene_id) DO UPDATE SET
				description = excluded.description,
				interpro = excluded.interpro,
				pfam = excluded.pfam,
				go_terms = excluded.go_terms
		`)
		if err != nil {
			return fmt.Errorf("preparing statement: %w", err)
		}
		defer stmt.Close()

		for _, a := range annotations {
			terms, err := marshalStrings(a.GOTerms)
			if err != nil {
				return fmt.Errorf("marshalling GO terms of %s: %w", a.GeneID, err)
			}
			if _, err := stmt.ExecContext(ctx, a.GeneID, a.Description, a.InterPro, a.Pfam, terms); err != nil {
				return fmt.Errorf("saving annotation %s: %w", a.GeneID, err)
			}
		}
		return nil
	})
}

// Annotations returns the annotations found for geneIDs. Unknown ids are
// absent from the result.
func (s *Store) Annotations(ctx context.Context, geneIDs []string) (map[string]domain.Annotation, error) {
	out := make(map[string]domain.Annotation, len(geneIDs))
	for chunk := range slices.Chunk(geneIDs, maxParams) {
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")

		rows, err := s.db.QueryContext(ctx, `
			SELECT gene_id, description, interpro, pfam, go_terms
			FROM annotations WHERE gene_id IN (`+placeholders+`)
		`, args...)
		if err != nil {
			return nil, fmt.Errorf("querying annotations: %w", err)
		}
		if err := scanAnnotations(rows, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scanAnnotations(rows *sql.Rows, out map[string]domain.Annotation) error {
	defer rows.Close()
	for rows.Next() {
		var a domain.Annotation
		var terms string
		if err := rows.Scan(&a.GeneID, &a.Description, &a.InterPro, &a.Pfam, &terms); err != nil {
			return fmt.Errorf("scanning annotation: %w", err)
		}
		if err := json.Unmarshal([]byte(terms), &a.GOTerms); err != nil {
			return fmt.Errorf("%w: GO terms of %s: %v", domain.ErrDataIntegrity, a.GeneID, err)
		}
		if len(a.GOTerms) == 0 {
			a.GOTerms = nil
		}
		out[a.GeneID] = a
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating annotations: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, ignoreDone(tx.Rollback()))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func marshalStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	data, err := json.Marshal(v)
	return string(data), err
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
