package model

import "path/filepath"

// SourceKind identifies where an image came from.
type SourceKind string

// Image sources.
const (
	SourceCamera  SourceKind = "camera"
	SourceGallery SourceKind = "gallery"
)

// Valid reports whether the kind is one of the known sources.
func (k SourceKind) Valid() bool {
	return k == SourceCamera || k == SourceGallery
}

// ImageRef points at the radiograph chosen for the current session.
// At most one is live per session; a new acquisition replaces it.
type ImageRef struct {
	URI    string
	Source SourceKind
	Format string // decoder name reported by image.DecodeConfig
	Width  int
	Height int
}

// IsZero returns true when no image has been acquired.
func (r ImageRef) IsZero() bool {
	return r.URI == ""
}

// Name returns the base file name of the image.
func (r ImageRef) Name() string {
	if r.URI == "" {
		return ""
	}
	return filepath.Base(r.URI)
}
