package acquisition

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/charmbracelet/huh"
)

// Picker chooses one file from the gallery directory. It returns
// common.ErrCancelled when the user backs out.
type Picker interface {
	Pick(ctx context.Context, dir string) (string, error)
}

// StaticPicker returns a path chosen ahead of time, such as from a flag.
type StaticPicker struct {
	Path string
}

// Pick returns the preset path, or ErrCancelled when there is none.
func (p StaticPicker) Pick(_ context.Context, _ string) (string, error) {
	if p.Path == "" {
		return "", common.ErrCancelled
	}
	return p.Path, nil
}

// FormPicker asks for a file with an interactive huh file picker.
type FormPicker struct {
	Title  string
	Height int
}

// NewFilePickerField builds the picker field shared by the line-mode form
// and the embedded scanner-screen picker.
func NewFilePickerField(dir string, value *string) *huh.FilePicker {
	return huh.NewFilePicker().
		Key("image").
		Title("Seleccione una radiografía").
		Description("Imágenes JPG, PNG, BMP, TIFF o WEBP").
		CurrentDirectory(dir).
		AllowedTypes(ImageExtensions).
		FileAllowed(true).
		DirAllowed(false).
		ShowHidden(false).
		Picking(true).
		Value(value)
}

// Pick runs the form until a file is chosen or the user aborts.
func (p FormPicker) Pick(ctx context.Context, dir string) (string, error) {
	var path string

	field := NewFilePickerField(dir, &path)
	if p.Title != "" {
		field = field.Title(p.Title)
	}
	if p.Height > 0 {
		field = field.Height(p.Height)
	}

	form := huh.NewForm(huh.NewGroup(field)).WithShowHelp(true)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return "", common.ErrCancelled
		}
		return "", fmt.Errorf("gallery picker failed: %w", err)
	}

	if path == "" {
		return "", common.ErrCancelled
	}
	return path, nil
}
