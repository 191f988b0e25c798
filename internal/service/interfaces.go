// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
)

// Submission is everything the classification endpoint needs for one image.
type Submission struct {
	PatientID   string
	PhysicianID string
	Image       model.ImageRef
}

// ClassificationService submits a radiograph for classification.
// A non-2xx answer is returned as an error wrapping common.ErrRemoteRejection;
// any other failure wraps common.ErrTransport.
type ClassificationService interface {
	Classify(ctx context.Context, submission Submission) (model.ClassificationResponse, error)
}

// ResultsService lists a patient's historical classification records.
type ResultsService interface {
	ListResults(ctx context.Context, patientID string) ([]model.ClassificationRecord, error)
}

// ReportService sends a compiled report to the patient's email.
type ReportService interface {
	SendReport(ctx context.Context, report model.ReportRequest) error
}

// GallerySource picks an existing image. Implementations return
// common.ErrCancelled or common.ErrPermissionDenied when no image is chosen.
type GallerySource interface {
	AcquireFromGallery(ctx context.Context) (model.ImageRef, error)
}

// CameraSource hands off to the capture screen and returns what it produced,
// or common.ErrCancelled.
type CameraSource interface {
	AcquireFromCamera(ctx context.Context, patient model.Patient) (model.ImageRef, error)
}

// ImageSource combines both acquisition paths.
type ImageSource interface {
	GallerySource
	CameraSource
}

// ActivityKind identifies which workflow produced an activity entry.
type ActivityKind string

// Activity kinds.
const (
	ActivitySubmission ActivityKind = "submission"
	ActivityReport     ActivityKind = "report"
)

// Activity is a local record of one finished attempt. It never carries
// classification values.
type Activity struct {
	CreatedAt time.Time
	SessionID string
	PatientID string
	Kind      ActivityKind
	Outcome   string
	Detail    string
	ID        int64
}

// ActivityFilter narrows activity queries.
type ActivityFilter struct {
	PatientID string
	Kind      ActivityKind
	Limit     int
}

// ActivityLog persists finished attempts.
type ActivityLog interface {
	RecordActivity(ctx context.Context, activity Activity) error
	ListActivity(ctx context.Context, filter ActivityFilter) ([]Activity, error)
}
