package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/acquisition"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/api"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/cli"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/config"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/storage"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/tui"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/tui/themes"
	"github.com/spf13/cobra"
)

// patientFlags carries the patient context handed over by the caller.
type patientFlags struct {
	id        string
	physician string
	email     string
	name      string
}

func (f *patientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "patient-id", "", "patient identifier")
	cmd.Flags().StringVar(&f.physician, "physician-id", "", "physician identifier")
	cmd.Flags().StringVar(&f.email, "email", "", "patient email address for reports")
	cmd.Flags().StringVar(&f.name, "name", "", "patient name shown in reports")

	_ = cmd.MarkFlagRequired("patient-id")
	_ = cmd.MarkFlagRequired("physician-id")
	_ = cmd.MarkFlagRequired("email")
}

func (f patientFlags) patient() (model.Patient, error) {
	p := model.Patient{
		ID:          f.id,
		PhysicianID: f.physician,
		Email:       f.email,
		Name:        f.name,
	}
	if err := p.Validate(); err != nil {
		return model.Patient{}, err
	}
	return p, nil
}

// initStorage opens the activity log with proper path expansion.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.Open(ctx, config.ExpandPath(cfg.Storage.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open activity log: %w", err)
	}
	slog.Debug("Activity log opened", "path", store.Path())
	return store, nil
}

// openActivityLog opens the activity log, logging and carrying on without
// one when it cannot be opened. The returned func closes it.
func openActivityLog(ctx context.Context, cfg *config.Config) (service.ActivityLog, func()) {
	store, err := initStorage(ctx, cfg)
	if err != nil {
		common.LogError(err, "Activity will not be recorded", common.Fields{"path": cfg.Storage.Path})
		return nil, func() {}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close activity log", "error", err)
		}
	}
}

// buildClient creates the API client from configuration.
func buildClient(cfg *config.Config, progress func(size int64) io.Writer) (*api.Client, error) {
	opts := []api.Option{
		api.WithTimeout(cfg.API.Timeout),
		api.WithReportLimit(cfg.Report.PerMinute),
	}
	if cfg.API.BreakerEnabled {
		opts = append(opts, api.WithBreaker(cfg.API.BreakerFailures, cfg.API.BreakerCooldown))
	}
	if progress != nil {
		opts = append(opts, api.WithUploadProgress(progress))
	}

	client, err := api.New(api.Config{
		BaseAdd:        cfg.API.BaseAdd,
		BaseResultados: cfg.API.BaseResultados,
		BaseReporte:    cfg.API.BaseReporte,
		Timeout:        cfg.API.Timeout,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// buildAdapter wires the gallery picker and the camera command.
func buildAdapter(cfg *config.Config, picker acquisition.Picker, stdout, stderr io.Writer) *acquisition.Adapter {
	opts := []acquisition.Option{
		acquisition.WithGalleryDir(cfg.Gallery.Dir),
	}
	if picker != nil {
		opts = append(opts, acquisition.WithPicker(picker))
	}
	if cfg.Camera.Command != "" {
		opts = append(opts, acquisition.WithCapturer(acquisition.CommandCapturer{
			Command: cfg.Camera.Command,
			Stdout:  stdout,
			Stderr:  stderr,
		}))
	}
	if cfg.Camera.CaptureDir != "" {
		opts = append(opts, acquisition.WithCaptureDir(cfg.Camera.CaptureDir))
	}
	return acquisition.NewAdapter(opts...)
}

// tuiOptions configures the screens from the shared services.
func tuiOptions(cfg *config.Config, client *api.Client, adapter *acquisition.Adapter, activity service.ActivityLog) []tui.Option {
	opts := []tui.Option{
		tui.WithServices(client, client, client),
		tui.WithCamera(adapter),
		tui.WithGallery(adapter),
		tui.WithMaxResults(cfg.Report.MaxResults),
		tui.WithTheme(themes.GetTheme(cfg.UI.Theme)),
	}
	if activity != nil {
		opts = append(opts, tui.WithActivityLog(activity))
	}
	return opts
}

// redirectLogs sends logs to the configured file while the TUI owns the
// terminal. The returned func restores logging to stderr.
func redirectLogs(cfg *config.Config) (func(), error) {
	level, err := common.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	path := config.ExpandPath(cfg.Logging.File)
	if path == "" {
		if err := common.SetupLogger(io.Discard, level, cfg.Logging.Format); err != nil {
			return nil, err
		}
		return func() { _ = common.SetupLogger(os.Stderr, level, cfg.Logging.Format) }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // Path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if err := common.SetupLogger(f, level, cfg.Logging.Format); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() {
		_ = common.SetupLogger(os.Stderr, level, cfg.Logging.Format)
		_ = f.Close()
	}, nil
}

// confirmer picks how a line-mode run asks for confirmation.
func confirmer(in io.Reader, out io.Writer, assumeYes bool) cli.Confirmer {
	if assumeYes {
		return cli.NewPrompter(in, out).WithAssumeYes(true)
	}
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return cli.FormConfirmer{}
	}
	return cli.NewPrompter(in, out)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
