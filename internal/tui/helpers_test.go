package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	tuitesting "github.com/Lenin1999/app-proyecto-pulmones/internal/tui/testing"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

var testPatient = model.Patient{
	ID:          "42",
	PhysicianID: "7",
	Email:       "ana@example.com",
	Name:        "Ana Pérez",
}

type stubClassifier struct {
	err   error
	resp  model.ClassificationResponse
	calls []service.Submission
	mu    sync.Mutex
}

func (s *stubClassifier) Classify(_ context.Context, sub service.Submission) (model.ClassificationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sub)
	return s.resp, s.err
}

func (s *stubClassifier) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type stubResults struct {
	err     error
	records []model.ClassificationRecord
	calls   int
	mu      sync.Mutex
}

func (s *stubResults) ListResults(_ context.Context, _ string) ([]model.ClassificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.records, s.err
}

type stubReports struct {
	err  error
	sent []model.ReportRequest
	mu   sync.Mutex
}

func (s *stubReports) SendReport(_ context.Context, req model.ReportRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, req)
	return s.err
}

type stubCamera struct {
	err error
	ref model.ImageRef
}

func (s stubCamera) AcquireFromCamera(_ context.Context, _ model.Patient) (model.ImageRef, error) {
	return s.ref, s.err
}

type stubGallery struct {
	err error
	dir string
}

func (s stubGallery) GalleryDir() string        { return s.dir }
func (s stubGallery) CheckGalleryAccess() error { return s.err }

type fixture struct {
	classifier *stubClassifier
	results    *stubResults
	reports    *stubReports
}

func newFixture() *fixture {
	return &fixture{
		classifier: &stubClassifier{},
		results:    &stubResults{},
		reports:    &stubReports{},
	}
}

func (f *fixture) options(extra ...Option) []Option {
	return append([]Option{WithServices(f.classifier, f.results, f.reports)}, extra...)
}

func testRecord(id, date string, tb, nonTB, normal float64) model.ClassificationRecord {
	d, err := model.ParseExamDate(date)
	if err != nil {
		panic(err)
	}
	return model.ClassificationRecord{ID: model.RecordID(id), ExamDate: d, TB: tb, NonTB: nonTB, Normal: normal}
}

func notTick(msg tea.Msg) bool {
	_, tick := msg.(spinner.TickMsg)
	return !tick
}

// press feeds keys to the app one at a time and settles every command
// they produce.
func press(t *testing.T, r *tuitesting.TestRenderer, m tea.Model, keys ...tea.KeyMsg) App {
	t.Helper()
	for _, k := range keys {
		m, _ = r.Update(m, k)
		m = r.Settle(m, notTick)
	}
	app, ok := m.(App)
	require.True(t, ok)
	return app
}

// start creates an app and settles its init commands.
func start(t *testing.T, r *tuitesting.TestRenderer, nav NavigateMsg, opts ...Option) App {
	t.Helper()
	app := NewApp(context.Background(), nav, opts...)
	if cmd := app.Init(); cmd != nil {
		r.Commands = append(r.Commands, cmd)
	}
	m := r.Settle(app, notTick)
	r.Output = m.View()
	out, ok := m.(App)
	require.True(t, ok)
	return out
}
