package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/output"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Hit is one alignment in a locate request.
type Hit struct {
	Query    string  `json:"query"`
	Database string  `json:"database"`
	Target   string  `json:"target"`
	Start    int64   `json:"start"`
	End      int64   `json:"end,omitempty"`
	Identity float64 `json:"identity"`
	Coverage float64 `json:"coverage"`
	Score    float64 `json:"score,omitempty"`
	Reverse  bool    `json:"reverse,omitempty"`
}

// LocateRequest is the body of POST /v1/locate.
type LocateRequest struct {
	Queries []string      `json:"queries,omitempty"`
	Hits    []Hit         `json:"hits"`
	Options LocateOptions `json:"options"`
}

// LocateOptions overrides the server defaults for one request.
type LocateOptions struct {
	Maps          []string `json:"maps,omitempty"`
	Databases     []string `json:"databases,omitempty"`
	MinIdentity   *float64 `json:"min_identity,omitempty"`
	MinCoverage   *float64 `json:"min_coverage,omitempty"`
	BestScore     string   `json:"best_score,omitempty"`
	Hierarchical  *bool    `json:"hierarchical,omitempty"`
	Sort          string   `json:"sort,omitempty"`
	ShowMultiples *bool    `json:"show_multiples,omitempty"`
	Genes         string   `json:"genes,omitempty"`
	Markers       bool     `json:"markers,omitempty"`
	Extend        bool     `json:"extend,omitempty"`
	Window        *float64 `json:"window,omitempty"`
	Annotate      bool     `json:"annotate,omitempty"`
	ShowUnmapped  *bool    `json:"show_unmapped,omitempty"`
}

// MapResponse describes a catalogued map.
type MapResponse struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	HasCM        bool               `json:"has_cm"`
	HasBP        bool               `json:"has_bp"`
	DefaultSort  string             `json:"default_sort"`
	Hierarchical bool               `json:"hierarchical"`
	Chromosomes  []string           `json:"chromosomes,omitempty"`
	Databases    []DatabaseResponse `json:"databases"`
}

// DatabaseResponse describes a database of a map's group.
type DatabaseResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Genomic bool   `json:"genomic"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) locate(w http.ResponseWriter, r *http.Request) {
	var req LocateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	opts, showUnmapped, err := req.Options.resolve(s.defaults())
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := s.ports.Locate.Locate(r.Context(), req.locateInput(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "plain" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		renderOpts := driven.RenderOptions{ShowUnmapped: showUnmapped, ShowHeaders: true}
		if err := output.NewPlain().Write(w, report, renderOpts); err != nil {
			s.logger.Sugar().Warnf("render plain report %s: %v", report.RunID, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, output.NewReport(report, showUnmapped))
}

func (s *Server) listMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := s.ports.Maps.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	registry, err := s.ports.Maps.Databases(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]MapResponse, len(maps))
	for i := range maps {
		out[i] = newMapResponse(maps[i], registry)
	}
	writeJSON(w, http.StatusOK, map[string]any{"maps": out, "count": len(out)})
}

func (s *Server) getMap(w http.ResponseWriter, r *http.Request) {
	m, err := s.ports.Maps.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	registry, err := s.ports.Maps.Databases(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMapResponse(*m, registry))
}

func (s *Server) defaults() domain.LocateSettings {
	if s.ports.Defaults != nil {
		return *s.ports.Defaults
	}
	return domain.DefaultAppSettings().Locate
}

// resolve applies the request options over the defaults. It also returns
// whether unmapped and unaligned queries are rendered.
func (o LocateOptions) resolve(defaults domain.LocateSettings) (domain.LocateOptions, bool, error) {
	opts := defaults.Options()
	opts.Maps = o.Maps
	opts.Databases = o.Databases
	opts.Hierarchical = o.Hierarchical
	opts.Extend = o.Extend
	opts.Annotate = o.Annotate

	showUnmapped := defaults.ShowUnmapped
	if o.ShowUnmapped != nil {
		showUnmapped = *o.ShowUnmapped
	}
	if o.ShowMultiples != nil {
		opts.ShowMultiples = *o.ShowMultiples
	}
	if o.MinIdentity != nil {
		opts.Threshold.MinIdentity = *o.MinIdentity
	}
	if o.MinCoverage != nil {
		opts.Threshold.MinCoverage = *o.MinCoverage
	}
	if o.Window != nil {
		opts.Window = *o.Window
	}
	if o.BestScore != "" {
		mode, err := domain.ParseSelectionMode(o.BestScore)
		if err != nil {
			return opts, false, err
		}
		opts.Selection = mode
	}
	if o.Sort != "" {
		unit, err := domain.ParseSortUnit(o.Sort)
		if err != nil {
			return opts, false, err
		}
		opts.Sort = unit
	}

	enrich, mode, err := domain.ParseEnrichment(o.Genes, o.Markers)
	if err != nil {
		return opts, false, err
	}
	opts.Enrichment = enrich
	opts.WindowMode = mode

	return opts, showUnmapped, opts.Validate()
}

func (req LocateRequest) locateInput() domain.LocateInput {
	hits := make([]domain.AlignmentHit, len(req.Hits))
	for i, h := range req.Hits {
		end := h.End
		if end == 0 {
			end = h.Start
		}
		strand := domain.StrandForward
		if h.Reverse {
			strand = domain.StrandReverse
		}
		hits[i] = domain.AlignmentHit{
			QueryID:          h.Query,
			DatabaseID:       h.Database,
			TargetChromosome: h.Target,
			TargetStart:      h.Start,
			TargetEnd:        end,
			Identity:         h.Identity,
			Coverage:         h.Coverage,
			Score:            h.Score,
			Strand:           strand,
		}
	}
	return domain.LocateInput{Queries: req.Queries, Hits: hits}
}

func newMapResponse(m domain.GeneticMap, registry []domain.Database) MapResponse {
	byID := make(map[string]domain.Database, len(registry))
	for _, db := range registry {
		byID[db.ID] = db
	}

	resp := MapResponse{
		ID:           m.ID,
		Name:         m.Name,
		HasCM:        m.HasCM,
		HasBP:        m.HasBP,
		DefaultSort:  m.DefaultSort.String(),
		Hierarchical: m.Group.Hierarchical,
		Chromosomes:  m.Chromosomes,
		Databases:    make([]DatabaseResponse, 0, len(m.Group.Databases)),
	}
	for _, id := range m.Group.Databases {
		db, ok := byID[id]
		if !ok {
			db = domain.Database{ID: id, Name: id}
		}
		resp.Databases = append(resp.Databases, DatabaseResponse{ID: db.ID, Name: db.Name, Genomic: db.Genomic})
	}
	return resp
}
