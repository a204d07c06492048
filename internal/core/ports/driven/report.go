package driven

import (
	"io"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// RenderOptions controls which optional sections and columns are rendered.
type RenderOptions struct {
	// ShowUnmapped renders the unmapped and unaligned sections.
	ShowUnmapped bool

	// ShowHeaders renders column headers.
	ShowHeaders bool
}

// ReportWriter renders a locate report.
type ReportWriter interface {
	// Write renders the report to w.
	Write(w io.Writer, report *domain.LocateReport, opts RenderOptions) error
}
