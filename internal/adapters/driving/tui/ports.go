// Package tui provides an interactive browser for locate reports.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Locate re-runs the pipeline when the user changes options.
	Locate driving.LocateService
}

// NewPorts creates a Ports aggregate.
func NewPorts(locate driving.LocateService) *Ports {
	return &Ports{Locate: locate}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Locate == nil {
		return ErrMissingLocateService
	}
	return nil
}

// Session is the run being browsed: the loaded hits, the options that
// produced the report, and the report itself.
type Session struct {
	Input   domain.LocateInput
	Options domain.LocateOptions
	Report  *domain.LocateReport
}
