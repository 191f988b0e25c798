package tui

import (
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/tui/themes"
)

// Gallery is the directory the embedded file picker browses.
type Gallery interface {
	GalleryDir() string
	CheckGalleryAccess() error
}

// Config holds TUI configuration.
type Config struct {
	Theme      themes.Theme
	Classifier service.ClassificationService
	Results    service.ResultsService
	Reports    service.ReportService
	Camera     service.CameraSource
	Gallery    Gallery
	Activity   service.ActivityLog
	Width      int
	Height     int
	MaxResults int
	PickerRows int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:      themes.Default,
		Width:      80,
		Height:     24,
		PickerRows: 12,
	}
}

// WithServices sets the remote endpoints.
func WithServices(classifier service.ClassificationService, results service.ResultsService, reports service.ReportService) Option {
	return func(c *Config) {
		c.Classifier = classifier
		c.Results = results
		c.Reports = reports
	}
}

// WithCamera sets the camera hand-off.
func WithCamera(camera service.CameraSource) Option {
	return func(c *Config) {
		c.Camera = camera
	}
}

// WithGallery sets the gallery the file picker browses.
func WithGallery(gallery Gallery) Option {
	return func(c *Config) {
		c.Gallery = gallery
	}
}

// WithActivityLog records scan and report outcomes locally.
func WithActivityLog(log service.ActivityLog) Option {
	return func(c *Config) {
		c.Activity = log
	}
}

// WithMaxResults caps how many results one report may carry.
func WithMaxResults(n int) Option {
	return func(c *Config) {
		c.MaxResults = n
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
