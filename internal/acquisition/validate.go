package acquisition

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	// Decoders accepted for radiographs.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
)

// ImageExtensions lists the file types offered by the gallery picker.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// FromPath checks that path is a readable image and returns its reference.
// The file is not modified.
func FromPath(path string, source model.SourceKind) (model.ImageRef, error) {
	if path == "" {
		return model.ImageRef{}, common.ErrMissingImage
	}
	if !source.Valid() {
		return model.ImageRef{}, fmt.Errorf("unknown image source %q", source)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return model.ImageRef{}, fmt.Errorf("%w: %w", common.ErrInvalidImage, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return model.ImageRef{}, fmt.Errorf("%w: %w", common.ErrPermissionDenied, err)
		}
		return model.ImageRef{}, fmt.Errorf("%w: %w", common.ErrInvalidImage, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return model.ImageRef{}, fmt.Errorf("%w: %w", common.ErrInvalidImage, err)
	}
	if info.IsDir() {
		return model.ImageRef{}, fmt.Errorf("%w: %s is a directory", common.ErrInvalidImage, abs)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return model.ImageRef{}, fmt.Errorf("%w: %s: %w", common.ErrInvalidImage, filepath.Base(abs), err)
	}

	return model.ImageRef{
		URI:    abs,
		Source: source,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
