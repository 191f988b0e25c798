package report

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/selection"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/session"
)

// Loader fetches the patient's listing once per session into a store.
type Loader struct {
	svc     service.ResultsService
	session *session.Session
	store   *selection.Store
	err     error
	notice  string
	loaded  bool
	mu      sync.Mutex
}

// NewLoader creates a loader for the session's store.
func NewLoader(sess *session.Session, store *selection.Store, svc service.ResultsService) *Loader {
	return &Loader{session: sess, store: store, svc: svc}
}

// Load fetches the listing on first call and returns the loaded records.
// Later calls return what the first one loaded. A failure leaves the list
// empty and sets a notice.
func (l *Loader) Load(ctx context.Context) ([]model.ClassificationRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.store.Records(), l.err
	}

	patient := l.session.Patient()
	records, err := l.svc.ListResults(ctx, patient.ID)
	if !l.session.Active() {
		return nil, context.Canceled
	}

	l.loaded = true
	if err != nil {
		l.err = err
		l.notice = common.NoticeListFailed
		l.store.Load(nil)
		slog.Warn("Failed to load results",
			"session_id", l.session.ID(),
			"patient_id", patient.ID,
			"error", err)
		return nil, err
	}

	l.store.Load(records)
	common.LogDebug("Results loaded", common.Fields{
		"session_id": l.session.ID(),
		"patient_id": patient.ID,
		"count":      len(records),
	})
	return l.store.Records(), nil
}

// Loaded reports whether the listing has been fetched.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Notice returns the listing failure notice, if any.
func (l *Loader) Notice() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.notice
}
