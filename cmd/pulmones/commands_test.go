package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/cli"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/config"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	err     error
	records []model.ClassificationRecord
	sent    []model.ReportRequest
}

func (f *fakeBackend) ListResults(_ context.Context, _ string) ([]model.ClassificationRecord, error) {
	return f.records, nil
}

func (f *fakeBackend) SendReport(_ context.Context, report model.ReportRequest) error {
	f.sent = append(f.sent, report)
	return f.err
}

type fakeClassifier struct {
	err   error
	resp  model.ClassificationResponse
	calls []service.Submission
}

func (f *fakeClassifier) Classify(_ context.Context, sub service.Submission) (model.ClassificationResponse, error) {
	f.calls = append(f.calls, sub)
	return f.resp, f.err
}

func record(id, date string, tb float64) model.ClassificationRecord {
	d, err := model.ParseExamDate(date)
	if err != nil {
		panic(err)
	}
	return model.ClassificationRecord{ID: model.RecordID(id), ExamDate: d, TB: tb, NonTB: 100 - tb}
}

var linePatient = model.Patient{ID: "42", PhysicianID: "7", Email: "ana@example.com", Name: "Ana Pérez"}

func TestPatientFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   patientFlags
		wantErr bool
	}{
		{name: "complete", flags: patientFlags{id: "42", physician: "7", email: "ana@example.com"}},
		{name: "missing physician", flags: patientFlags{id: "42", email: "ana@example.com"}, wantErr: true},
		{name: "bad email", flags: patientFlags{id: "42", physician: "7", email: "ana"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.flags.patient()
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidPatient)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "42", p.ID)
		})
	}
}

func TestConfirmerAssumeYes(t *testing.T) {
	var out bytes.Buffer
	ok, err := confirmer(strings.NewReader(""), &out, true).Confirm(context.Background(), "¿Enviar?")
	require.NoError(t, err)
	assert.True(t, ok)

	_, isPrompter := confirmer(strings.NewReader(""), &out, false).(*cli.Prompter)
	assert.True(t, isPrompter)
}

func TestResultsLineModeSendsSelection(t *testing.T) {
	backend := &fakeBackend{records: []model.ClassificationRecord{
		record("101", "2024-03-05", 12.5),
		record("102", "2024-04-10", 80),
	}}
	var out bytes.Buffer

	err := resultsLineMode(context.Background(), &config.Config{}, linePatient, backend, backend, nil,
		[]model.RecordID{"102", "101"}, true, strings.NewReader(""), &out)
	require.NoError(t, err)

	require.Len(t, backend.sent, 1)
	require.Len(t, backend.sent[0].Results, 2)
	assert.Equal(t, "2024-04-10", backend.sent[0].Results[0].Date)
	assert.Contains(t, out.String(), fmt.Sprintf(common.NoticeSent, linePatient.Email))
}

func TestResultsLineModeListOnly(t *testing.T) {
	backend := &fakeBackend{records: []model.ClassificationRecord{record("101", "2024-03-05", 12.5)}}
	var out bytes.Buffer

	err := resultsLineMode(context.Background(), &config.Config{}, linePatient, backend, backend, nil,
		nil, true, strings.NewReader(""), &out)
	require.NoError(t, err)

	assert.Empty(t, backend.sent)
	assert.Contains(t, out.String(), "101")
}

func TestResultsLineModeUnknownRecord(t *testing.T) {
	backend := &fakeBackend{records: []model.ClassificationRecord{record("101", "2024-03-05", 12.5)}}
	var out bytes.Buffer

	err := resultsLineMode(context.Background(), &config.Config{}, linePatient, backend, backend, nil,
		[]model.RecordID{"999"}, true, strings.NewReader(""), &out)

	require.ErrorIs(t, err, common.ErrUnknownRecord)
	assert.Empty(t, backend.sent)
}

func TestResultsLineModeDeclined(t *testing.T) {
	backend := &fakeBackend{records: []model.ClassificationRecord{record("101", "2024-03-05", 12.5)}}
	var out bytes.Buffer

	err := resultsLineMode(context.Background(), &config.Config{}, linePatient, backend, backend, nil,
		[]model.RecordID{"101"}, false, strings.NewReader("n\n"), &out)
	require.NoError(t, err)

	assert.Empty(t, backend.sent)
	assert.Contains(t, out.String(), "Envío cancelado.")
}

func TestResultsLineModeSendFailure(t *testing.T) {
	backend := &fakeBackend{
		records: []model.ClassificationRecord{record("101", "2024-03-05", 12.5)},
		err:     fmt.Errorf("%w: status 502", common.ErrTransport),
	}
	var out bytes.Buffer

	err := resultsLineMode(context.Background(), &config.Config{}, linePatient, backend, backend, nil,
		[]model.RecordID{"101"}, true, strings.NewReader(""), &out)

	assert.True(t, errors.Is(err, common.ErrTransport))
	assert.Contains(t, out.String(), common.NoticeReportFailed)
}

var lineImage = model.ImageRef{URI: "/tmp/torax.jpg", Source: model.SourceGallery}

func TestScanLineModeOutcomes(t *testing.T) {
	tests := []struct {
		err      error
		name     string
		want     []string
		wantErr  error
		response model.ClassificationResponse
	}{
		{
			name:     "classified",
			response: model.ClassificationResponse{TB: 0.82, NonTB: 0.1, Normal: 0.08},
			want:     []string{"82.00", "10.00", "8.00"},
		},
		{
			name:    "rejected",
			err:     fmt.Errorf("%w: status 400", common.ErrRemoteRejection),
			want:    []string{common.NoticeRejected},
			wantErr: common.ErrRemoteRejection,
		},
		{
			name:    "transport failure",
			err:     fmt.Errorf("%w: connection refused", common.ErrTransport),
			want:    []string{common.NoticeSubmitFailed},
			wantErr: common.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &fakeClassifier{resp: tt.response, err: tt.err}
			var out bytes.Buffer

			err := scanLineMode(context.Background(), &config.Config{}, linePatient, lineImage,
				model.SourceGallery, classifier, nil, true, strings.NewReader(""), &out, io.Discard)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Len(t, classifier.calls, 1)
			assert.Equal(t, "42", classifier.calls[0].PatientID)
			assert.Equal(t, "7", classifier.calls[0].PhysicianID)
			assert.Equal(t, lineImage, classifier.calls[0].Image)

			text := out.String()
			assert.Contains(t, text, "torax.jpg")
			for _, want := range tt.want {
				assert.Contains(t, text, want)
			}
		})
	}
}

func TestScanLineModeDeclined(t *testing.T) {
	classifier := &fakeClassifier{}
	var out bytes.Buffer

	err := scanLineMode(context.Background(), &config.Config{}, linePatient, lineImage,
		model.SourceGallery, classifier, nil, false, strings.NewReader("n\n"), &out, io.Discard)
	require.NoError(t, err)

	assert.Empty(t, classifier.calls)
	assert.Contains(t, out.String(), "Envío cancelado.")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitValidation, exitCode(common.ErrEmptySelection))
	assert.Equal(t, exitValidation, exitCode(fmt.Errorf("wrap: %w", common.ErrMissingImage)))
	assert.Equal(t, exitRetryable, exitCode(common.Transport("send report", errors.New("status 502"))))
	assert.Equal(t, exitFailure, exitCode(fmt.Errorf("%w: status 400", common.ErrRemoteRejection)))
	assert.Equal(t, exitFailure, exitCode(errors.New("boom")))
}
