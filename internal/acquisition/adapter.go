// Package acquisition normalizes the gallery picker and the camera hand-off
// into one image reference.
package acquisition

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
)

var _ service.ImageSource = (*Adapter)(nil)

// Adapter acquires radiographs from the gallery or the camera.
type Adapter struct {
	picker     Picker
	capturer   Capturer
	galleryDir string
	captureDir string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithPicker sets the gallery picker.
func WithPicker(p Picker) Option {
	return func(a *Adapter) { a.picker = p }
}

// WithCapturer sets the camera capture tool.
func WithCapturer(c Capturer) Option {
	return func(a *Adapter) { a.capturer = c }
}

// WithGalleryDir sets the directory the picker starts in.
func WithGalleryDir(dir string) Option {
	return func(a *Adapter) { a.galleryDir = dir }
}

// WithCaptureDir sets where camera captures are written.
func WithCaptureDir(dir string) Option {
	return func(a *Adapter) { a.captureDir = dir }
}

// NewAdapter creates an adapter. Captures go to the system temp directory
// unless WithCaptureDir is given.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{captureDir: os.TempDir()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GalleryDir returns the directory the picker starts in.
func (a *Adapter) GalleryDir() string {
	return a.galleryDir
}

// CheckGalleryAccess returns ErrPermissionDenied when the gallery directory
// cannot be read.
func (a *Adapter) CheckGalleryAccess() error {
	if a.galleryDir == "" {
		return nil
	}
	f, err := os.Open(a.galleryDir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %w", common.ErrPermissionDenied, err)
		}
		return nil
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Readdirnames(1); err != nil && errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", common.ErrPermissionDenied, err)
	}
	return nil
}

// AcquireFromGallery asks the picker for a file and validates it.
func (a *Adapter) AcquireFromGallery(ctx context.Context) (model.ImageRef, error) {
	if a.picker == nil {
		return model.ImageRef{}, common.ErrCancelled
	}
	if err := a.CheckGalleryAccess(); err != nil {
		slog.Warn("Gallery is not readable", "dir", a.galleryDir, "error", err)
		return model.ImageRef{}, err
	}

	path, err := a.picker.Pick(ctx, a.galleryDir)
	if err != nil {
		if errors.Is(err, common.ErrCancelled) || errors.Is(err, common.ErrPermissionDenied) {
			return model.ImageRef{}, err
		}
		return model.ImageRef{}, fmt.Errorf("%w: %w", common.ErrCancelled, err)
	}
	if path == "" {
		return model.ImageRef{}, common.ErrCancelled
	}

	return FromPath(path, model.SourceGallery)
}

// AcquireFromCamera runs the capture tool for the patient and validates what
// it produced. Any capture failure is a cancellation.
func (a *Adapter) AcquireFromCamera(ctx context.Context, patient model.Patient) (model.ImageRef, error) {
	if a.capturer == nil {
		slog.Warn("No camera capture command configured")
		return model.ImageRef{}, common.ErrCancelled
	}

	if err := os.MkdirAll(a.captureDir, 0o750); err != nil {
		return model.ImageRef{}, fmt.Errorf("%w: create capture dir: %w", common.ErrCancelled, err)
	}
	output := filepath.Join(a.captureDir, captureName(patient, time.Now()))

	if err := a.capturer.Capture(ctx, output); err != nil {
		slog.Info("Camera capture cancelled", "patient_id", patient.ID, "error", err)
		return model.ImageRef{}, fmt.Errorf("%w: %w", common.ErrCancelled, err)
	}

	return FromPath(output, model.SourceCamera)
}

func captureName(patient model.Patient, now time.Time) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, patient.ID)
	if id == "" {
		id = "paciente"
	}
	return fmt.Sprintf("captura-%s-%s.jpg", id, now.Format("20060102-150405.000000000"))
}
