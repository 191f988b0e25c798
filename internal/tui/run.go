package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the app until the user quits or ctx is cancelled.
func Run(ctx context.Context, start NavigateMsg, opts ...Option) error {
	if err := start.Patient.Validate(); err != nil {
		return fmt.Errorf("cannot open %s screen: %w", start.Screen, err)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Classifier == nil || cfg.Results == nil || cfg.Reports == nil {
		return errors.New("remote services are not configured")
	}

	// Restore the terminal even if the program is killed mid-frame.
	// Errors are ignored as this is best-effort cleanup.
	defer func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
	}()

	app := NewApp(ctx, start, opts...)
	program := tea.NewProgram(app,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if m, ok := final.(App); ok {
		m.Close()
	}
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
