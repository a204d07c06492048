package mcp

import (
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Locate places queries on genetic maps.
	Locate driving.LocateService

	// Maps exposes the map catalog.
	Maps driving.MapService

	// Defaults seeds options the caller leaves unset. Zero means the
	// built-in defaults.
	Defaults *domain.LocateSettings
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Locate == nil {
		return ErrMissingLocateService
	}
	if p.Maps == nil {
		return ErrMissingMapService
	}
	return nil
}
