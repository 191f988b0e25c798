package tui

import (
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/report"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/scan"
)

// Screen identifies one of the app's screens.
type Screen int

const (
	ScreenScanner Screen = iota
	ScreenResults
)

// String returns the string representation of the screen.
func (s Screen) String() string {
	switch s {
	case ScreenScanner:
		return "scanner"
	case ScreenResults:
		return "results"
	default:
		return "unknown"
	}
}

// NavigateMsg opens a screen for a patient. Image, when set, is the
// radiograph handed over by the previous screen.
type NavigateMsg struct {
	Patient model.Patient
	Image   model.ImageRef
	Screen  Screen
}

// Async operation messages. Each carries the controller that started it so
// results of a screen that is no longer shown are applied to, and
// discarded by, their own session.
type imageAcquiredMsg struct {
	err        error
	controller *scan.Controller
	image      model.ImageRef
}

type scanFinishedMsg struct {
	controller *scan.Controller
	result     scan.Result
}

type resultsLoadedMsg struct {
	err     error
	loader  *report.Loader
	records []model.ClassificationRecord
}

type reportFinishedMsg struct {
	controller *report.Controller
	result     report.Result
}
