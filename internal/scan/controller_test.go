package scan

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, sub service.Submission) (model.ClassificationResponse, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(model.ClassificationResponse), args.Error(1)
}

type mockActivityLog struct {
	mock.Mock
}

func (m *mockActivityLog) RecordActivity(ctx context.Context, a service.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockActivityLog) ListActivity(ctx context.Context, f service.ActivityFilter) ([]service.Activity, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]service.Activity), args.Error(1)
}

var testPatient = model.Patient{ID: "p-1", PhysicianID: "m-9", Email: "ana@example.com", Name: "Ana"}

var testImage = model.ImageRef{URI: "/tmp/chest.jpg", Source: model.SourceGallery}

func newTestController(t *testing.T, svc service.ClassificationService, opts ...Option) *Controller {
	t.Helper()
	return NewController(session.New(testPatient), svc, opts...)
}

func TestRequestConfirmation_WithoutImage(t *testing.T) {
	svc := &mockClassifier{}
	c := newTestController(t, svc)

	prompt, err := c.RequestConfirmation()
	require.ErrorIs(t, err, common.ErrMissingImage)
	assert.Empty(t, prompt)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, "Debe agregar una radiografía", c.Notice())

	_, ok := c.Submit(context.Background())
	assert.False(t, ok)
	assert.Equal(t, StateIdle, c.State())
	svc.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
}

func TestSubmit_Classified(t *testing.T) {
	svc := &mockClassifier{}
	svc.On("Classify", mock.Anything, service.Submission{
		PatientID:   "p-1",
		PhysicianID: "m-9",
		Image:       testImage,
	}).Return(model.ClassificationResponse{TB: 0.82, NonTB: 0.1, Normal: 0.08}, nil).Once()

	c := newTestController(t, svc)
	require.NoError(t, c.SetImage(testImage))

	prompt, err := c.RequestConfirmation()
	require.NoError(t, err)
	assert.Equal(t, "¿Está seguro de escanear?", prompt)
	assert.Equal(t, StatePendingConfirmation, c.State())

	res, ok := c.Submit(context.Background())
	require.True(t, ok)
	assert.Equal(t, ResultClassified, res.Kind)
	assert.Equal(t, StateClassified, c.State())
	assert.Empty(t, c.Notice())

	resp, ok := c.Response()
	require.True(t, ok)
	assert.Equal(t, []model.Percentage{
		{Label: "Tuberculosis", Value: "82.00"},
		{Label: "No Tuberculosis", Value: "10.00"},
		{Label: "Normal", Value: "8.00"},
	}, resp.Percentages())

	svc.AssertExpectations(t)
}

func TestSubmit_Rejected(t *testing.T) {
	svc := &mockClassifier{}
	rejection := fmt.Errorf("status 422: %w", common.ErrRemoteRejection)
	svc.On("Classify", mock.Anything, mock.Anything).
		Return(model.ClassificationResponse{}, rejection).Once()

	c := newTestController(t, svc)
	require.NoError(t, c.SetImage(testImage))
	_, err := c.RequestConfirmation()
	require.NoError(t, err)

	res, ok := c.Submit(context.Background())
	require.True(t, ok)
	assert.Equal(t, ResultRejected, res.Kind)
	assert.Equal(t, StateRejected, c.State())
	assert.Equal(t, "La imagen seleccionada no es una radiografía pulmonar.", c.Notice())
	_, hasResponse := c.Response()
	assert.False(t, hasResponse)
}

func TestSubmit_TransportFailureThenReconfirm(t *testing.T) {
	svc := &mockClassifier{}
	svc.On("Classify", mock.Anything, mock.Anything).
		Return(model.ClassificationResponse{}, common.Transport("send", errors.New("connection refused"))).Once()
	svc.On("Classify", mock.Anything, mock.Anything).
		Return(model.ClassificationResponse{TB: 0.1}, nil).Once()

	c := newTestController(t, svc)
	require.NoError(t, c.SetImage(testImage))
	_, err := c.RequestConfirmation()
	require.NoError(t, err)

	res, ok := c.Submit(context.Background())
	require.True(t, ok)
	assert.Equal(t, ResultTransportFailure, res.Kind)
	assert.Equal(t, StateTransportFailure, c.State())
	assert.Equal(t, "Error al enviar la imagen. Inténtalo de nuevo más tarde.", c.Notice())
	svc.AssertNumberOfCalls(t, "Classify", 1)

	c.Dismiss()
	assert.Equal(t, StateIdle, c.State())
	_, err = c.RequestConfirmation()
	require.NoError(t, err)
	_, ok = c.Submit(context.Background())
	require.True(t, ok)
	assert.Equal(t, StateClassified, c.State())
	svc.AssertNumberOfCalls(t, "Classify", 2)
}

func TestBegin_SecondConfirmIsNoop(t *testing.T) {
	c := newTestController(t, &mockClassifier{})
	require.NoError(t, c.SetImage(testImage))
	_, err := c.RequestConfirmation()
	require.NoError(t, err)

	attempt, ok := c.Begin()
	require.True(t, ok)
	assert.Equal(t, StateSubmitting, c.State())

	_, again := c.Begin()
	assert.False(t, again)

	prompt, err := c.RequestConfirmation()
	assert.NoError(t, err)
	assert.Empty(t, prompt)
	assert.Equal(t, StateSubmitting, c.State())

	assert.True(t, c.Apply(context.Background(), Result{AttemptID: attempt.ID, Kind: ResultClassified}))
	assert.Equal(t, StateClassified, c.State())
}

func TestApply_DiscardsStaleResults(t *testing.T) {
	t.Run("ended session", func(t *testing.T) {
		c := newTestController(t, &mockClassifier{})
		require.NoError(t, c.SetImage(testImage))
		_, err := c.RequestConfirmation()
		require.NoError(t, err)
		attempt, ok := c.Begin()
		require.True(t, ok)

		c.Session().End()
		applied := c.Apply(context.Background(), Result{AttemptID: attempt.ID, Kind: ResultClassified})
		assert.False(t, applied)
		_, hasResponse := c.Response()
		assert.False(t, hasResponse)
		assert.Equal(t, StateSubmitting, c.State())
	})

	t.Run("unknown attempt", func(t *testing.T) {
		c := newTestController(t, &mockClassifier{})
		require.NoError(t, c.SetImage(testImage))
		_, err := c.RequestConfirmation()
		require.NoError(t, err)
		attempt, ok := c.Begin()
		require.True(t, ok)

		assert.False(t, c.Apply(context.Background(), Result{AttemptID: attempt.ID + 1, Kind: ResultRejected}))
		assert.Equal(t, StateSubmitting, c.State())
	})

	t.Run("not submitting", func(t *testing.T) {
		c := newTestController(t, &mockClassifier{})
		assert.False(t, c.Apply(context.Background(), Result{AttemptID: 0, Kind: ResultClassified}))
		assert.Equal(t, StateIdle, c.State())
	})
}

func TestDismiss_KeepsImage(t *testing.T) {
	svc := &mockClassifier{}
	svc.On("Classify", mock.Anything, mock.Anything).
		Return(model.ClassificationResponse{TB: 0.5, NonTB: 0.25, Normal: 0.25}, nil)

	c := newTestController(t, svc)
	require.NoError(t, c.SetImage(testImage))
	_, err := c.RequestConfirmation()
	require.NoError(t, err)
	_, ok := c.Submit(context.Background())
	require.True(t, ok)

	c.Dismiss()
	assert.Equal(t, StateIdle, c.State())
	_, hasResponse := c.Response()
	assert.False(t, hasResponse)
	assert.Equal(t, testImage, c.Image())

	c.Dismiss()
	assert.Equal(t, StateIdle, c.State())
}

func TestCancelConfirmation(t *testing.T) {
	svc := &mockClassifier{}
	c := newTestController(t, svc)
	require.NoError(t, c.SetImage(testImage))
	_, err := c.RequestConfirmation()
	require.NoError(t, err)

	c.CancelConfirmation()
	assert.Equal(t, StateIdle, c.State())

	_, ok := c.Begin()
	assert.False(t, ok)
	svc.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
}

func TestSetImage_ReplacesPrior(t *testing.T) {
	c := newTestController(t, &mockClassifier{})
	require.NoError(t, c.SetImage(testImage))

	camera := model.ImageRef{URI: "/tmp/capture.jpg", Source: model.SourceCamera}
	require.NoError(t, c.SetImage(camera))
	assert.Equal(t, camera, c.Image())
	assert.Equal(t, StateIdle, c.State())

	assert.ErrorIs(t, c.SetImage(model.ImageRef{}), common.ErrMissingImage)
	assert.Equal(t, camera, c.Image())
}

func TestSetImage_ClearsMissingImageNotice(t *testing.T) {
	c := newTestController(t, &mockClassifier{})
	_, err := c.RequestConfirmation()
	require.Error(t, err)
	require.NotEmpty(t, c.Notice())

	require.NoError(t, c.SetImage(testImage))
	assert.Empty(t, c.Notice())
}

func TestActivityLog_RecordsOutcomeOnly(t *testing.T) {
	svc := &mockClassifier{}
	svc.On("Classify", mock.Anything, mock.Anything).
		Return(model.ClassificationResponse{TB: 0.82, NonTB: 0.1, Normal: 0.08}, nil)

	log := &mockActivityLog{}
	log.On("RecordActivity", mock.Anything, mock.MatchedBy(func(a service.Activity) bool {
		return a.Kind == service.ActivitySubmission &&
			a.Outcome == "classified" &&
			a.PatientID == "p-1" &&
			a.Detail == "chest.jpg" &&
			a.SessionID != ""
	})).Return(nil).Once()

	c := newTestController(t, svc, WithActivityLog(log))
	require.NoError(t, c.SetImage(testImage))
	_, err := c.RequestConfirmation()
	require.NoError(t, err)
	_, ok := c.Submit(context.Background())
	require.True(t, ok)

	log.AssertExpectations(t)
}

func TestActivityLog_FailureDoesNotAffectState(t *testing.T) {
	svc := &mockClassifier{}
	svc.On("Classify", mock.Anything, mock.Anything).
		Return(model.ClassificationResponse{}, common.ErrRemoteRejection)

	log := &mockActivityLog{}
	log.On("RecordActivity", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	c := newTestController(t, svc, WithActivityLog(log))
	require.NoError(t, c.SetImage(testImage))
	_, err := c.RequestConfirmation()
	require.NoError(t, err)
	_, ok := c.Submit(context.Background())
	require.True(t, ok)
	assert.Equal(t, StateRejected, c.State())
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StatePendingConfirmation, "pending_confirmation"},
		{StateSubmitting, "submitting"},
		{StateClassified, "classified"},
		{StateRejected, "rejected"},
		{StateTransportFailure, "transport_failure"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}
