// Package report compiles selected historical results into one emailed
// report and drives its confirm, send and outcome workflow.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/selection"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/session"
)

// Attempt is one report that has left PendingConfirmation.
type Attempt struct {
	Session *session.Session
	Report  model.ReportRequest
	ID      uint64
}

// Result is what an attempt produced.
type Result struct {
	Err       error
	AttemptID uint64
}

// Run issues the attempt's single report request.
func (a Attempt) Run(ctx context.Context, svc service.ReportService) Result {
	return Result{AttemptID: a.ID, Err: svc.SendReport(ctx, a.Report)}
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxResults caps how many results one report may carry. Zero means
// no cap.
func WithMaxResults(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithActivityLog records every applied outcome.
func WithActivityLog(log service.ActivityLog) Option {
	return func(c *Controller) {
		c.activity = log
	}
}

// Controller owns the report state machine of one results-screen session.
type Controller struct {
	svc        service.ReportService
	activity   service.ActivityLog
	session    *session.Session
	store      *selection.Store
	notice     string
	inflight   uint64
	nextID     uint64
	sending    int
	maxResults int
	state      State
	mu         sync.Mutex
}

// NewController creates a controller over the session's selection store.
func NewController(sess *session.Session, store *selection.Store, svc service.ReportService, opts ...Option) *Controller {
	c := &Controller{
		session: sess,
		store:   store,
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

// Store returns the selection the controller dispatches.
func (c *Controller) Store() *selection.Store {
	return c.store
}

// RequestConfirmation moves Idle to PendingConfirmation and returns the
// prompt naming the destination email. An empty or oversize selection
// fails and stays Idle. In any other state it does nothing.
func (c *Controller) RequestConfirmation() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return "", nil
	}

	n := c.store.Len()
	if n == 0 {
		c.notice = common.NoticeEmptySelection
		return "", common.ErrEmptySelection
	}
	if c.maxResults > 0 && n > c.maxResults {
		c.notice = common.NoticeSelectionTooLarge
		return "", fmt.Errorf("%w: %d selected, at most %d allowed", common.ErrSelectionTooLarge, n, c.maxResults)
	}

	c.notice = ""
	c.transition(StatePendingConfirmation)
	return fmt.Sprintf(common.PromptReport, c.session.Patient().Email), nil
}

// CancelConfirmation returns PendingConfirmation to Idle.
func (c *Controller) CancelConfirmation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePendingConfirmation {
		c.transition(StateIdle)
	}
}

// Begin builds the single report from the current selection, in selection
// order, and returns the attempt to run. It returns false when there is
// nothing to confirm, including while a report is already sending.
func (c *Controller) Begin() (Attempt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePendingConfirmation || !c.session.Active() {
		return Attempt{}, false
	}

	records := c.store.SelectedRecords()
	if len(records) == 0 {
		c.notice = common.NoticeEmptySelection
		c.transition(StateIdle)
		return Attempt{}, false
	}

	c.nextID++
	c.inflight = c.nextID
	c.sending = len(records)
	c.transition(StateSending)

	return Attempt{
		ID:      c.inflight,
		Session: c.session,
		Report:  model.NewReportRequest(c.session.Patient(), records),
	}, true
}

// Apply moves Sending to Sent or Failed. A successful send clears the
// selection; a failed one leaves it untouched. Results of an ended session
// or of an attempt that is not in flight are discarded and Apply returns
// false.
func (c *Controller) Apply(ctx context.Context, res Result) bool {
	c.mu.Lock()
	if !c.session.Active() || c.state != StateSending || res.AttemptID != c.inflight {
		c.mu.Unlock()
		slog.Debug("Discarding stale report result",
			"session_id", c.session.ID(),
			"attempt", res.AttemptID)
		return false
	}

	email := c.session.Patient().Email
	count := c.sending
	c.inflight = 0
	c.sending = 0

	outcome := "sent"
	if res.Err == nil {
		c.store.Clear()
		c.notice = fmt.Sprintf(common.NoticeSent, email)
		c.transition(StateSent)
	} else {
		outcome = "failed"
		c.notice = common.NoticeReportFailed
		c.transition(StateFailed)
	}
	c.mu.Unlock()

	fields := common.Fields{
		"session_id": c.session.ID(),
		"patient_id": c.session.Patient().ID,
		"outcome":    outcome,
		"results":    count,
		"elapsed":    time.Since(c.session.Started()).Round(time.Millisecond),
	}
	if res.Err != nil {
		fields["error"] = res.Err
	}
	common.LogInfo("Report finished", fields)

	c.record(ctx, outcome, count, email, res.Err)
	return true
}

// Send confirms, runs and applies one attempt with the controller's
// service. It returns false when there was nothing to send.
func (c *Controller) Send(ctx context.Context) (Result, bool) {
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

// Dismiss returns a terminal state to Idle.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Terminal() {
		return
	}
	c.notice = ""
	c.transition(StateIdle)
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Notice returns the message to show the user, if any.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// transition must be called with mu held.
func (c *Controller) transition(to State) {
	common.LogDebug("Report state changed", common.Fields{
		"session_id": c.session.ID(),
		"patient_id": c.session.Patient().ID,
		"from":       c.state.String(),
		"state":      to.String(),
	})
	c.state = to
}

func (c *Controller) record(ctx context.Context, outcome string, count int, email string, sendErr error) {
	if c.activity == nil {
		return
	}

	detail := strconv.Itoa(count) + " resultados a " + email
	if sendErr != nil {
		detail = sendErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := c.activity.RecordActivity(ctx, service.Activity{
		SessionID: c.session.ID(),
		PatientID: c.session.Patient().ID,
		Kind:      service.ActivityReport,
		Outcome:   outcome,
		Detail:    detail,
		CreatedAt: time.Now(),
	}); err != nil {
		slog.Warn("Failed to record report activity", "error", err)
	}
}
