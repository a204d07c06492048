// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewReport is the per-map report browser.
	ViewReport ViewType = iota
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewReport:
		return "report"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// LocateRequested asks the app to re-run locate with new options.
type LocateRequested struct {
	Options domain.LocateOptions
}

// LocateCompleted carries the report of a re-run.
type LocateCompleted struct {
	Report *domain.LocateReport
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
