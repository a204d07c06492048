// Package mcp provides an MCP (Model Context Protocol) server adapter for bmap.
// It lets assistants place aligned sequences on genetic maps and browse the
// map catalog.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

var (
	// ErrMissingLocateService is returned when the locate service is not provided.
	ErrMissingLocateService = errors.New("mcp: locate service is required")

	// ErrMissingMapService is returned when the map service is not provided.
	ErrMissingMapService = errors.New("mcp: map service is required")
)

// userError rewrites an engine error into the message a tool caller sees.
func userError(err error) error {
	if err == nil {
		return nil
	}
	switch domain.ErrorKind(err) {
	case domain.ErrConfiguration:
		return fmt.Errorf("check the map and database identifiers: %w", err)
	case domain.ErrPolicy:
		return fmt.Errorf("check the locate options: %w", err)
	case domain.ErrDataIntegrity:
		return fmt.Errorf("reference data is inconsistent, re-import the map: %w", err)
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return fmt.Errorf("malformed input: %w", err)
	}
	return err
}
