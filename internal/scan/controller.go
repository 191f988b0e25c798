// Package scan drives the confirm, submit and classify-or-reject workflow
// for a single radiograph.
package scan

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/session"
)

// Attempt is one submission that has left PendingConfirmation.
type Attempt struct {
	Session    *session.Session
	Submission service.Submission
	ID         uint64
}

// Result is what an attempt produced.
type Result struct {
	Err       error
	Response  model.ClassificationResponse
	AttemptID uint64
	Kind      ResultKind
}

// Run issues the attempt's single classification request.
func (a Attempt) Run(ctx context.Context, svc service.ClassificationService) Result {
	resp, err := svc.Classify(ctx, a.Submission)
	switch {
	case err == nil:
		return Result{AttemptID: a.ID, Kind: ResultClassified, Response: resp}
	case errors.Is(err, common.ErrRemoteRejection):
		return Result{AttemptID: a.ID, Kind: ResultRejected, Err: err}
	default:
		return Result{AttemptID: a.ID, Kind: ResultTransportFailure, Err: err}
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithActivityLog records every applied outcome.
func WithActivityLog(log service.ActivityLog) Option {
	return func(c *Controller) {
		c.activity = log
	}
}

// Controller owns the scan state machine of one scanner-screen session.
// Only one request is in flight at a time: confirming again while
// Submitting is a no-op.
type Controller struct {
	svc      service.ClassificationService
	activity service.ActivityLog
	session  *session.Session
	response *model.ClassificationResponse
	image    model.ImageRef
	notice   string
	inflight uint64
	nextID   uint64
	state    State
	mu       sync.Mutex
}

// NewController creates a controller bound to sess.
func NewController(sess *session.Session, svc service.ClassificationService, opts ...Option) *Controller {
	c := &Controller{
		session: sess,
		svc:     svc,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the controller belongs to.
func (c *Controller) Session() *session.Session {
	return c.session
}

// SetImage adopts ref as the session's radiograph, replacing any prior one
// without confirmation. An attempt already in flight keeps its own copy.
func (c *Controller) SetImage(ref model.ImageRef) error {
	if ref.IsZero() {
		return common.ErrMissingImage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.image = ref
	if !c.state.Terminal() {
		c.notice = ""
	}
	slog.Debug("Radiograph set",
		"session_id", c.session.ID(),
		"source", string(ref.Source),
		"image", ref.Name())
	return nil
}

// Image returns the current radiograph, which may be zero.
func (c *Controller) Image() model.ImageRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.image
}

// RequestConfirmation moves Idle to PendingConfirmation and returns the
// prompt to show. Without an image it fails with ErrMissingImage and stays
// Idle. In any other state it does nothing.
func (c *Controller) RequestConfirmation() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return "", nil
	}
	if c.image.IsZero() {
		c.notice = common.NoticeMissingImage
		return "", common.ErrMissingImage
	}

	c.notice = ""
	c.transition(StatePendingConfirmation)
	return common.PromptScan, nil
}

// CancelConfirmation returns PendingConfirmation to Idle.
func (c *Controller) CancelConfirmation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePendingConfirmation {
		c.transition(StateIdle)
	}
}

// Begin confirms the pending submission and returns the attempt to run.
// It returns false when there is nothing to confirm, including while a
// request is already in flight.
func (c *Controller) Begin() (Attempt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePendingConfirmation || !c.session.Active() {
		return Attempt{}, false
	}

	patient := c.session.Patient()
	c.nextID++
	c.inflight = c.nextID
	c.response = nil
	c.transition(StateSubmitting)

	return Attempt{
		ID:      c.inflight,
		Session: c.session,
		Submission: service.Submission{
			PatientID:   patient.ID,
			PhysicianID: patient.PhysicianID,
			Image:       c.image,
		},
	}, true
}

// Apply moves Submitting to the terminal state matching res. Results of an
// ended session or of an attempt that is not in flight are discarded and
// Apply returns false.
func (c *Controller) Apply(ctx context.Context, res Result) bool {
	c.mu.Lock()
	if !c.session.Active() || c.state != StateSubmitting || res.AttemptID != c.inflight {
		c.mu.Unlock()
		slog.Debug("Discarding stale classification result",
			"session_id", c.session.ID(),
			"attempt", res.AttemptID)
		return false
	}

	c.inflight = 0
	switch res.Kind {
	case ResultClassified:
		resp := res.Response
		c.response = &resp
		c.notice = ""
	case ResultRejected:
		c.notice = common.NoticeRejected
	default:
		c.notice = common.NoticeSubmitFailed
	}
	c.transition(res.Kind.state())
	image := c.image
	c.mu.Unlock()

	fields := common.Fields{
		"session_id": c.session.ID(),
		"patient_id": c.session.Patient().ID,
		"outcome":    res.Kind.String(),
		"elapsed":    time.Since(c.session.Started()).Round(time.Millisecond),
	}
	if res.Err != nil {
		fields["error"] = res.Err
	}
	common.LogInfo("Scan finished", fields)

	c.record(ctx, res, image)
	return true
}

// Submit confirms, runs and applies one attempt with the controller's
// service. It returns false when there was nothing to submit.
func (c *Controller) Submit(ctx context.Context) (Result, bool) {
	attempt, ok := c.Begin()
	if !ok {
		return Result{}, false
	}
	res := attempt.Run(ctx, c.svc)
	if !c.Apply(ctx, res) {
		return res, false
	}
	return res, true
}

// Dismiss returns a terminal state to Idle, dropping the response and
// keeping the image.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Terminal() {
		return
	}
	c.response = nil
	c.notice = ""
	c.transition(StateIdle)
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Response returns the classification on display, if any.
func (c *Controller) Response() (model.ClassificationResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.response == nil {
		return model.ClassificationResponse{}, false
	}
	return *c.response, true
}

// Notice returns the message to show the user, if any.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// transition must be called with mu held.
func (c *Controller) transition(to State) {
	common.LogDebug("Scan state changed", common.Fields{
		"session_id": c.session.ID(),
		"patient_id": c.session.Patient().ID,
		"from":       c.state.String(),
		"state":      to.String(),
	})
	c.state = to
}

func (c *Controller) record(ctx context.Context, res Result, image model.ImageRef) {
	if c.activity == nil {
		return
	}

	detail := image.Name()
	if res.Err != nil {
		detail = res.Err.Error()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := c.activity.RecordActivity(ctx, service.Activity{
		SessionID: c.session.ID(),
		PatientID: c.session.Patient().ID,
		Kind:      service.ActivitySubmission,
		Outcome:   res.Kind.String(),
		Detail:    detail,
		CreatedAt: time.Now(),
	}); err != nil {
		slog.Warn("Failed to record scan activity", "error", err)
	}
}
