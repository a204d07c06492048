package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// SelectionMode governs which valid hits survive selection.
type SelectionMode string

// Available selection modes.
const (
	// SelectionNone keeps every valid hit.
	SelectionNone SelectionMode = "none"

	// SelectionBestPerDatabase keeps the top scoring hits of each query in each database.
	SelectionBestPerDatabase SelectionMode = "best_per_database"

	// SelectionBestGlobal keeps the top scoring hits of each query across all databases.
	SelectionBestGlobal SelectionMode = "best_global"
)

// IsValid returns true if the selection mode is recognised.
func (m SelectionMode) IsValid() bool {
	switch m {
	case SelectionNone, SelectionBestPerDatabase, SelectionBestGlobal:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m SelectionMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SelectionMode) Description() string {
	switch m {
	case SelectionNone:
		return "None (keep secondary hits)"
	case SelectionBestPerDatabase:
		return "Best per database"
	case SelectionBestGlobal:
		return "Best overall"
	default:
		return unknownDescription
	}
}

// ParseSelectionMode accepts the canonical names and the short forms
// "no", "db" and "yes" used by --best-score.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "no":
		return SelectionNone, nil
	case "best_per_database", "db":
		return SelectionBestPerDatabase, nil
	case "best_global", "yes", "":
		return SelectionBestGlobal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSelectionMode, s)
	}
}
