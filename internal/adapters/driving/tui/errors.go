package tui

import "errors"

// ErrMissingLocateService is returned when the locate service is not provided.
var ErrMissingLocateService = errors.New("tui: locate service is required")

// ErrMissingReport is returned when the app is started without a report.
var ErrMissingReport = errors.New("tui: a report is required")
