// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors block an action locally; no request is made.
var (
	ErrMissingImage      = errors.New("missing radiograph")
	ErrInvalidImage      = errors.New("file is not a readable image")
	ErrEmptySelection    = errors.New("no results selected")
	ErrSelectionTooLarge = errors.New("too many results selected")
	ErrUnknownRecord     = errors.New("record is not in the loaded results")
)

// Acquisition outcomes.
var (
	ErrCancelled        = errors.New("acquisition cancelled")
	ErrPermissionDenied = errors.New("gallery permission denied")
)

// Remote outcomes.
var (
	// ErrRemoteRejection means the classification endpoint refused the image
	// as not being a lung radiograph.
	ErrRemoteRejection = errors.New("image rejected by classification service")
	// ErrTransport covers timeouts, connection failures and malformed payloads.
	ErrTransport = errors.New("transport failure")
)

// Configuration errors.
var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Notices shown to the user, kept in the product's language.
const (
	NoticeMissingImage      = "Debe agregar una radiografía"
	NoticeInvalidImage      = "El archivo seleccionado no es una imagen válida."
	NoticeRejected          = "La imagen seleccionada no es una radiografía pulmonar."
	NoticeSubmitFailed      = "Error al enviar la imagen. Inténtalo de nuevo más tarde."
	NoticePermissionDenied  = "Se necesita permiso para acceder a la galería de imágenes."
	NoticeEmptySelection    = "Debe seleccionar al menos un resultado"
	NoticeSelectionTooLarge = "Demasiados resultados seleccionados para un solo reporte"
	NoticeUnknownRecord     = "El resultado ya no está disponible"
	NoticeReportFailed      = "Error al enviar los resultados. Inténtalo de nuevo más tarde."
	NoticeListFailed        = "No se pudieron cargar los resultados."
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// NoticeFor returns the text the user should see for err.
// An explicit UserError message wins over the taxonomy default.
func NoticeFor(err error) string {
	if err == nil {
		return ""
	}

	var userErr *UserError
	if errors.As(err, &userErr) && strings.TrimSpace(userErr.UserMessage) != "" {
		return userErr.UserMessage
	}

	switch {
	case errors.Is(err, ErrMissingImage):
		return NoticeMissingImage
	case errors.Is(err, ErrInvalidImage):
		return NoticeInvalidImage
	case errors.Is(err, ErrPermissionDenied):
		return NoticePermissionDenied
	case errors.Is(err, ErrEmptySelection):
		return NoticeEmptySelection
	case errors.Is(err, ErrSelectionTooLarge):
		return NoticeSelectionTooLarge
	case errors.Is(err, ErrUnknownRecord):
		return NoticeUnknownRecord
	case errors.Is(err, ErrRemoteRejection):
		return NoticeRejected
	default:
		return NoticeSubmitFailed
	}
}

// IsValidation reports whether err blocks an action before any request is made.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingImage) ||
		errors.Is(err, ErrInvalidImage) ||
		errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrSelectionTooLarge) ||
		errors.Is(err, ErrUnknownRecord)
}

// IsRetryable reports whether the user can simply confirm again.
// Nothing retries automatically.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRemoteRejection) {
		return false
	}
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Transport wraps err as a transport failure.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}

// Prompts and confirmations shown by the workflows.
const (
	PromptScan   = "¿Está seguro de escanear?"
	PromptReport = "¿Está seguro de enviar los datos a %s?"
	NoticeSent   = "Resultados enviados con éxito a %s"
)
