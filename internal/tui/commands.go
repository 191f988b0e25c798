package tui

import (
	"context"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/acquisition"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/report"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/scan"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// navigate returns a command that opens another screen.
func navigate(screen Screen, patient model.Patient, image model.ImageRef) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen, Patient: patient, Image: image}
	}
}

// captureImage hands off to the camera and reports what came back.
func captureImage(ctx context.Context, camera service.CameraSource, ctrl *scan.Controller) tea.Cmd {
	patient := ctrl.Session().Patient()
	return func() tea.Msg {
		ref, err := camera.AcquireFromCamera(ctx, patient)
		return imageAcquiredMsg{controller: ctrl, image: ref, err: err}
	}
}

// validatePicked checks the file chosen in the embedded picker.
func validatePicked(ctrl *scan.Controller, path string) tea.Cmd {
	return func() tea.Msg {
		ref, err := acquisition.FromPath(path, model.SourceGallery)
		return imageAcquiredMsg{controller: ctrl, image: ref, err: err}
	}
}

// submitScan runs one classification attempt in the background.
func submitScan(ctx context.Context, svc service.ClassificationService, ctrl *scan.Controller, attempt scan.Attempt) tea.Cmd {
	return func() tea.Msg {
		return scanFinishedMsg{controller: ctrl, result: attempt.Run(ctx, svc)}
	}
}

// loadResults fetches the patient's listing once.
func loadResults(ctx context.Context, loader *report.Loader) tea.Cmd {
	return func() tea.Msg {
		records, err := loader.Load(ctx)
		return resultsLoadedMsg{loader: loader, records: records, err: err}
	}
}

// sendReport runs one report attempt in the background.
func sendReport(ctx context.Context, svc service.ReportService, ctrl *report.Controller, attempt report.Attempt) tea.Cmd {
	return func() tea.Msg {
		return reportFinishedMsg{controller: ctrl, result: attempt.Run(ctx, svc)}
	}
}
