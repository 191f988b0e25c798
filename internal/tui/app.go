package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// App routes between the scanner and results screens. Only one screen,
// and so one session, is alive at a time.
type App struct {
	ctx      context.Context
	scanner  *ScannerScreen
	results  *ResultsScreen
	config   Config
	screen   Screen
	quitting bool
}

// NewApp creates the app showing the screen named by start.
func NewApp(ctx context.Context, start NavigateMsg, opts ...Option) App {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	a := App{ctx: ctx, config: cfg}
	a.open(start)
	return a
}

// Screen returns the screen on display.
func (a App) Screen() Screen {
	return a.screen
}

// Scanner returns the scanner screen, or nil when it is not on display.
func (a App) Scanner() *ScannerScreen {
	return a.scanner
}

// Results returns the results screen, or nil when it is not on display.
func (a App) Results() *ResultsScreen {
	return a.results
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.initScreen()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.Close()
			a.quitting = true
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.config.Width = msg.Width
		a.config.Height = msg.Height

	case NavigateMsg:
		a.Close()
		a.open(msg)
		return a, a.initScreen()

	case scanFinishedMsg:
		if a.scanner == nil || msg.controller != a.scanner.Controller() {
			msg.controller.Apply(a.ctx, msg.result)
			return a, nil
		}

	case reportFinishedMsg:
		if a.results == nil || msg.controller != a.results.Controller() {
			msg.controller.Apply(a.ctx, msg.result)
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.screen {
	case ScreenScanner:
		a.scanner, cmd = a.scanner.Update(msg)
	case ScreenResults:
		a.results, cmd = a.results.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	if a.quitting {
		return ""
	}
	switch a.screen {
	case ScreenResults:
		return a.results.View()
	default:
		return a.scanner.View()
	}
}

// Close ends the session of the screen on display.
func (a App) Close() {
	switch a.screen {
	case ScreenScanner:
		if a.scanner != nil {
			a.scanner.Close()
		}
	case ScreenResults:
		if a.results != nil {
			a.results.Close()
		}
	}
}

func (a *App) open(msg NavigateMsg) {
	slog.Debug("Opening screen",
		"screen", msg.Screen.String(),
		"patient_id", msg.Patient.ID)

	a.scanner = nil
	a.results = nil
	a.screen = msg.Screen
	switch msg.Screen {
	case ScreenResults:
		a.results = NewResultsScreen(a.ctx, a.config, msg.Patient)
	default:
		a.screen = ScreenScanner
		a.scanner = NewScannerScreen(a.ctx, a.config, msg.Patient, msg.Image)
	}
}

func (a App) initScreen() tea.Cmd {
	switch a.screen {
	case ScreenResults:
		return a.results.Init()
	default:
		return a.scanner.Init()
	}
}
