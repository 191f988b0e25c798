package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/acquisition"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/cli"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/scan"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/session"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ScannerScreen lets the user pick or capture a radiograph and submit it.
type ScannerScreen struct {
	ctx        context.Context
	theme      themes.Theme
	classifier service.ClassificationService
	camera     service.CameraSource
	gallery    Gallery
	controller *scan.Controller
	picker     *huh.Form
	help       help.Model
	keymap     KeyMap
	prompt     string
	alert      string
	pickedPath string
	spinner    spinner.Model
	pickerRows int
	width      int
	height     int
	capturing  bool
}

// NewScannerScreen opens a scanner session for the patient. A non-zero
// image is adopted as the session's radiograph.
func NewScannerScreen(ctx context.Context, cfg Config, patient model.Patient, image model.ImageRef) *ScannerScreen {
	sess := session.New(patient)

	var opts []scan.Option
	if cfg.Activity != nil {
		opts = append(opts, scan.WithActivityLog(cfg.Activity))
	}

	s := &ScannerScreen{
		ctx:        ctx,
		theme:      cfg.Theme,
		classifier: cfg.Classifier,
		camera:     cfg.Camera,
		gallery:    cfg.Gallery,
		controller: scan.NewController(sess, cfg.Classifier, opts...),
		help:       help.New(),
		keymap:     DefaultKeyMap(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(cfg.Theme.Spinner)),
		pickerRows: cfg.PickerRows,
		width:      cfg.Width,
		height:     cfg.Height,
	}

	if !image.IsZero() {
		if err := s.controller.SetImage(image); err != nil {
			slog.Warn("Ignoring handed over image", "error", err)
		}
	}
	return s
}

// Controller returns the screen's scan controller.
func (s *ScannerScreen) Controller() *scan.Controller {
	return s.controller
}

// Close ends the screen's session. Requests still in flight are discarded
// when they return.
func (s *ScannerScreen) Close() {
	s.controller.Session().End()
}

// Init implements tea.Model.
func (s *ScannerScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (s *ScannerScreen) Update(msg tea.Msg) (*ScannerScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.help.Width = msg.Width

	case imageAcquiredMsg:
		if msg.controller == s.controller {
			s.handleAcquired(msg)
		}
		return s, nil

	case scanFinishedMsg:
		msg.controller.Apply(s.ctx, msg.result)
		return s, nil

	case spinner.TickMsg:
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	if s.picker != nil {
		return s, s.updatePicker(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *ScannerScreen) busy() bool {
	return s.capturing || s.controller.State() == scan.StateSubmitting
}

func (s *ScannerScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	patient := s.controller.Session().Patient()

	if s.alert != "" {
		if key.Matches(msg, s.keymap.Dismiss) {
			s.alert = ""
		}
		return nil
	}

	switch s.controller.State() {
	case scan.StatePendingConfirmation:
		switch {
		case key.Matches(msg, s.keymap.Confirm):
			return s.confirm()
		case key.Matches(msg, s.keymap.Cancel):
			s.prompt = ""
			s.controller.CancelConfirmation()
		}
		return nil

	case scan.StateSubmitting:
		switch {
		case key.Matches(msg, s.keymap.Results):
			return navigate(ScreenResults, patient, model.ImageRef{})
		case key.Matches(msg, s.keymap.Quit):
			return tea.Quit
		}
		return nil

	case scan.StateClassified, scan.StateRejected, scan.StateTransportFailure:
		if key.Matches(msg, s.keymap.Dismiss) {
			s.controller.Dismiss()
		}
		return nil
	}

	if s.capturing {
		if key.Matches(msg, s.keymap.Quit) {
			return tea.Quit
		}
		return nil
	}

	switch {
	case key.Matches(msg, s.keymap.Gallery):
		return s.openPicker()
	case key.Matches(msg, s.keymap.Camera):
		return s.capture()
	case key.Matches(msg, s.keymap.Scan):
		prompt, err := s.controller.RequestConfirmation()
		if err != nil {
			s.alert = common.NoticeFor(err)
			return nil
		}
		s.prompt = prompt
	case key.Matches(msg, s.keymap.Results):
		return navigate(ScreenResults, patient, model.ImageRef{})
	case key.Matches(msg, s.keymap.Help):
		s.help.ShowAll = !s.help.ShowAll
	case key.Matches(msg, s.keymap.Quit):
		return tea.Quit
	}
	return nil
}

func (s *ScannerScreen) confirm() tea.Cmd {
	s.prompt = ""
	attempt, ok := s.controller.Begin()
	if !ok {
		return nil
	}
	return tea.Batch(s.spinner.Tick, submitScan(s.ctx, s.classifier, s.controller, attempt))
}

func (s *ScannerScreen) capture() tea.Cmd {
	if s.camera == nil {
		slog.Warn("No camera available")
		return nil
	}
	s.capturing = true
	return tea.Batch(s.spinner.Tick, captureImage(s.ctx, s.camera, s.controller))
}

func (s *ScannerScreen) openPicker() tea.Cmd {
	if s.gallery == nil {
		slog.Warn("No gallery configured")
		return nil
	}
	if err := s.gallery.CheckGalleryAccess(); err != nil {
		s.alert = common.NoticeFor(err)
		return nil
	}

	s.pickedPath = ""
	field := acquisition.NewFilePickerField(s.gallery.GalleryDir(), &s.pickedPath)
	if s.pickerRows > 0 {
		field = field.Height(s.pickerRows)
	}
	s.picker = huh.NewForm(huh.NewGroup(field)).WithShowHelp(true)
	return s.picker.Init()
}

func (s *ScannerScreen) updatePicker(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		s.picker = nil
		return nil
	}

	form, cmd := s.picker.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.picker = f
	}

	switch s.picker.State {
	case huh.StateCompleted:
		s.picker = nil
		if s.pickedPath == "" {
			return nil
		}
		return validatePicked(s.controller, s.pickedPath)
	case huh.StateAborted:
		s.picker = nil
		return nil
	}
	return cmd
}

func (s *ScannerScreen) handleAcquired(msg imageAcquiredMsg) {
	s.capturing = false
	if msg.err != nil {
		if errors.Is(msg.err, common.ErrCancelled) {
			slog.Debug("Acquisition cancelled", "error", msg.err)
			return
		}
		s.alert = common.NoticeFor(msg.err)
		return
	}
	if err := s.controller.SetImage(msg.image); err != nil {
		s.alert = common.NoticeFor(err)
	}
}

// View implements tea.Model.
func (s *ScannerScreen) View() string {
	patient := s.controller.Session().Patient()

	sections := []string{
		s.theme.Title.Render(cli.LungsIcon + " Escáner de radiografías"),
		s.theme.Subtitle.Render(fmt.Sprintf("%s · %s", patient.DisplayName(), patient.Email)),
		"",
		s.renderImage(),
		"",
		s.renderBody(),
	}
	if s.picker == nil {
		sections = append(sections, s.theme.Help.Render(s.help.View(scannerHelp{s.keymap})))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (s *ScannerScreen) renderImage() string {
	img := s.controller.Image()
	if img.IsZero() {
		return s.theme.StatusPending.Render("Sin radiografía")
	}
	detail := string(img.Source)
	if img.Width > 0 && img.Height > 0 {
		detail = fmt.Sprintf("%s, %dx%d %s", detail, img.Width, img.Height, img.Format)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.theme.Label.Render(cli.XRayIcon+" Radiografía"),
		s.theme.Value.Render(img.Name()),
		s.theme.Subtitle.Render(" ("+detail+")"),
	)
}

func (s *ScannerScreen) renderBody() string {
	switch {
	case s.picker != nil:
		return s.picker.View()
	case s.alert != "":
		return s.theme.Modal.Render(s.theme.StatusWarning.Render(cli.WarningIcon + " " + s.alert))
	case s.capturing:
		return s.spinner.View() + " " + s.theme.StatusPending.Render("Esperando la cámara...")
	}

	switch s.controller.State() {
	case scan.StatePendingConfirmation:
		return s.theme.Modal.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.theme.Bold.Render(s.prompt),
			"",
			s.theme.Subtitle.Render("[y] Sí   [n] No"),
		))
	case scan.StateSubmitting:
		return s.spinner.View() + " " + s.theme.StatusPending.Render("Enviando radiografía...")
	case scan.StateClassified:
		resp, _ := s.controller.Response()
		return s.theme.Modal.Render(s.renderResponse(resp))
	case scan.StateRejected:
		return s.theme.Modal.Render(s.theme.StatusWarning.Render(cli.WarningIcon + " " + s.controller.Notice()))
	case scan.StateTransportFailure:
		return s.theme.Modal.Render(s.theme.StatusError.Render(cli.ErrorIcon + " " + s.controller.Notice()))
	}
	return ""
}

func (s *ScannerScreen) renderResponse(resp model.ClassificationResponse) string {
	lines := []string{s.theme.Title.Render(cli.ChartIcon + " Resultados")}
	for _, pct := range resp.Percentages() {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.theme.Label.Render(pct.Label+":"),
			s.theme.Value.Render(pct.Value+"%"),
		))
	}
	lines = append(lines, "", s.theme.Subtitle.Render("[Enter] Cerrar"))
	return strings.Join(lines, "\n")
}
