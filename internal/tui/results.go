package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/cli"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/report"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/selection"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/session"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ResultsScreen lists the patient's past results and emails a selection.
type ResultsScreen struct {
	ctx        context.Context
	theme      themes.Theme
	reports    service.ReportService
	loader     *report.Loader
	controller *report.Controller
	store      *selection.Store
	help       help.Model
	keymap     KeyMap
	prompt     string
	alert      string
	records    []model.ClassificationRecord
	spinner    spinner.Model
	cursor     int
	width      int
	height     int
	loading    bool
}

// NewResultsScreen opens a results session for the patient.
func NewResultsScreen(ctx context.Context, cfg Config, patient model.Patient) *ResultsScreen {
	sess := session.New(patient)
	store := selection.New()

	opts := []report.Option{report.WithMaxResults(cfg.MaxResults)}
	if cfg.Activity != nil {
		opts = append(opts, report.WithActivityLog(cfg.Activity))
	}

	return &ResultsScreen{
		ctx:        ctx,
		theme:      cfg.Theme,
		reports:    cfg.Reports,
		loader:     report.NewLoader(sess, store, cfg.Results),
		controller: report.NewController(sess, store, cfg.Reports, opts...),
		store:      store,
		help:       help.New(),
		keymap:     DefaultKeyMap(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(cfg.Theme.Spinner)),
		width:      cfg.Width,
		height:     cfg.Height,
		loading:    true,
	}
}

// Controller returns the screen's report controller.
func (s *ResultsScreen) Controller() *report.Controller {
	return s.controller
}

// Close ends the screen's session.
func (s *ResultsScreen) Close() {
	s.controller.Session().End()
}

// Init starts loading the listing.
func (s *ResultsScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, loadResults(s.ctx, s.loader))
}

// Update implements tea.Model.
func (s *ResultsScreen) Update(msg tea.Msg) (*ResultsScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.help.Width = msg.Width

	case resultsLoadedMsg:
		if msg.loader == s.loader {
			s.loading = false
			s.records = msg.records
			s.cursor = 0
			if msg.err != nil {
				s.alert = s.loader.Notice()
			}
		}
		return s, nil

	case reportFinishedMsg:
		msg.controller.Apply(s.ctx, msg.result)
		return s, nil

	case spinner.TickMsg:
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *ResultsScreen) busy() bool {
	return s.loading || s.controller.State() == report.StateSending
}

func (s *ResultsScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	patient := s.controller.Session().Patient()

	if s.alert != "" {
		if key.Matches(msg, s.keymap.Dismiss) {
			s.alert = ""
		}
		return nil
	}

	switch s.controller.State() {
	case report.StatePendingConfirmation:
		switch {
		case key.Matches(msg, s.keymap.Confirm):
			return s.confirm()
		case key.Matches(msg, s.keymap.Cancel):
			s.prompt = ""
			s.controller.CancelConfirmation()
		}
		return nil

	case report.StateSent, report.StateFailed:
		if key.Matches(msg, s.keymap.Dismiss) {
			s.controller.Dismiss()
		}
		return nil
	}

	switch {
	case key.Matches(msg, s.keymap.Back):
		return navigate(ScreenScanner, patient, model.ImageRef{})
	case key.Matches(msg, s.keymap.Quit):
		return tea.Quit
	}

	if s.busy() {
		return nil
	}

	switch {
	case key.Matches(msg, s.keymap.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, s.keymap.Down):
		if s.cursor < len(s.records)-1 {
			s.cursor++
		}
	case key.Matches(msg, s.keymap.Toggle):
		if len(s.records) == 0 {
			return nil
		}
		if _, err := s.store.Toggle(s.records[s.cursor].ID); err != nil {
			s.alert = common.NoticeFor(err)
		}
	case key.Matches(msg, s.keymap.Send):
		prompt, err := s.controller.RequestConfirmation()
		if err != nil {
			s.alert = common.NoticeFor(err)
			return nil
		}
		s.prompt = prompt
	case key.Matches(msg, s.keymap.Help):
		s.help.ShowAll = !s.help.ShowAll
	}
	return nil
}

func (s *ResultsScreen) confirm() tea.Cmd {
	s.prompt = ""
	attempt, ok := s.controller.Begin()
	if !ok {
		return nil
	}
	return tea.Batch(s.spinner.Tick, sendReport(s.ctx, s.reports, s.controller, attempt))
}

// View implements tea.Model.
func (s *ResultsScreen) View() string {
	patient := s.controller.Session().Patient()

	return lipgloss.JoinVertical(lipgloss.Left,
		s.theme.Title.Render(cli.ChartIcon+" Resultados"),
		s.theme.Subtitle.Render(fmt.Sprintf("%s · %s", patient.DisplayName(), patient.Email)),
		"",
		s.renderList(),
		"",
		s.renderStatus(),
		s.theme.Help.Render(s.help.View(resultsHelp{s.keymap})),
	)
}

func (s *ResultsScreen) renderList() string {
	if s.loading {
		return s.spinner.View() + " " + s.theme.StatusPending.Render("Cargando resultados...")
	}
	if len(s.records) == 0 {
		return s.theme.StatusPending.Render("No hay resultados para este paciente.")
	}

	header := fmt.Sprintf("   %-14s%-12s%12s%17s%9s", "ID", "Fecha", "Tuberculosis", "No Tuberculosis", "Normal")
	rows := []string{s.theme.Subtitle.Render(header)}
	for i, r := range s.records {
		row := cli.FormatRecordRow(r, s.store.IsSelected(r.ID))
		if i == s.cursor {
			row = s.theme.Cursor.Render("›") + " " + row
		} else {
			row = "  " + row
		}
		rows = append(rows, row)
	}
	rows = append(rows, "", s.theme.Subtitle.Render(fmt.Sprintf("%d seleccionados", s.store.Len())))
	return strings.Join(rows, "\n")
}

func (s *ResultsScreen) renderStatus() string {
	if s.alert != "" {
		return s.theme.Modal.Render(s.theme.StatusWarning.Render(cli.WarningIcon + " " + s.alert))
	}

	switch s.controller.State() {
	case report.StatePendingConfirmation:
		return s.theme.Modal.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.theme.Bold.Render(s.prompt),
			"",
			s.theme.Subtitle.Render("[y] Sí   [n] No"),
		))
	case report.StateSending:
		return s.spinner.View() + " " + s.theme.StatusPending.Render("Enviando resultados...")
	case report.StateSent:
		return s.theme.Modal.Render(s.theme.StatusSuccess.Render(cli.SuccessIcon + " " + s.controller.Notice()))
	case report.StateFailed:
		return s.theme.Modal.Render(s.theme.StatusError.Render(cli.ErrorIcon + " " + s.controller.Notice()))
	}
	return ""
}
