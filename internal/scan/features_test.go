package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/session"
	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// stubClassifier answers with a fixed outcome and counts requests.
type stubClassifier struct {
	err   error
	resp  model.ClassificationResponse
	calls int
	mu    sync.Mutex
}

func (s *stubClassifier) Classify(_ context.Context, _ service.Submission) (model.ClassificationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.resp, s.err
}

func (s *stubClassifier) set(resp model.ClassificationResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resp, s.err = resp, err
}

func (s *stubClassifier) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type scanContext struct {
	svc        *stubClassifier
	controller *Controller
	attempt    Attempt
	prompt     string
}

func InitializeScenario(sc *godog.ScenarioContext) {
	tc := &scanContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*tc = scanContext{svc: &stubClassifier{}}
		return ctx, nil
	})

	sc.Step(`^a scanner session for patient "([^"]*)" and physician "([^"]*)"$`, tc.aScannerSession)
	sc.Step(`^the classification service answers ([\d.]+), ([\d.]+) and ([\d.]+)$`, tc.serviceAnswers)
	sc.Step(`^the classification service rejects every image$`, tc.serviceRejects)
	sc.Step(`^the classification service is unreachable$`, tc.serviceUnreachable)
	sc.Step(`^I picked "([^"]*)" from the gallery$`, tc.pickedFromGallery)
	sc.Step(`^I capture "([^"]*)" with the camera$`, tc.capturedWithCamera)
	sc.Step(`^I ask to scan$`, tc.askToScan)
	sc.Step(`^I confirm$`, tc.confirm)
	sc.Step(`^I dismiss the notice$`, tc.dismiss)
	sc.Step(`^the request starts$`, tc.requestStarts)
	sc.Step(`^I leave the screen$`, tc.leaveScreen)
	sc.Step(`^the request finishes$`, tc.requestFinishes)
	sc.Step(`^I should be asked "([^"]*)"$`, tc.shouldBeAsked)
	sc.Step(`^the scan state should be "([^"]*)"$`, tc.stateShouldBe)
	sc.Step(`^the notice should be "([^"]*)"$`, tc.noticeShouldBe)
	sc.Step(`^the result should show "([^"]*)" at "([^"]*)"$`, tc.resultShouldShow)
	sc.Step(`^no classification request should have been made$`, tc.noRequests)
	sc.Step(`^exactly (\d+) classification requests? should have been made$`, tc.exactlyRequests)
	sc.Step(`^the current image should be "([^"]*)"$`, tc.currentImageShouldBe)
	sc.Step(`^no classification should be shown$`, tc.noClassificationShown)
}

func (tc *scanContext) aScannerSession(patientID, physicianID string) error {
	patient := model.Patient{ID: patientID, PhysicianID: physicianID, Email: "ana@example.com", Name: "Ana"}
	tc.controller = NewController(session.New(patient), tc.svc)
	return nil
}

func (tc *scanContext) serviceAnswers(tb, nonTB, normal float64) error {
	tc.svc.set(model.ClassificationResponse{TB: tb, NonTB: nonTB, Normal: normal}, nil)
	return nil
}

func (tc *scanContext) serviceRejects() error {
	tc.svc.set(model.ClassificationResponse{}, fmt.Errorf("status 400: %w", common.ErrRemoteRejection))
	return nil
}

func (tc *scanContext) serviceUnreachable() error {
	tc.svc.set(model.ClassificationResponse{}, common.Transport("send", fmt.Errorf("connection refused")))
	return nil
}

func (tc *scanContext) pickedFromGallery(name string) error {
	return tc.controller.SetImage(model.ImageRef{URI: filepath.Join("/gallery", name), Source: model.SourceGallery})
}

func (tc *scanContext) capturedWithCamera(name string) error {
	return tc.controller.SetImage(model.ImageRef{URI: filepath.Join("/camera", name), Source: model.SourceCamera})
}

func (tc *scanContext) askToScan() error {
	prompt, err := tc.controller.RequestConfirmation()
	if err != nil && !common.IsValidation(err) {
		return err
	}
	tc.prompt = prompt
	return nil
}

func (tc *scanContext) confirm() error {
	if _, ok := tc.controller.Submit(context.Background()); !ok {
		return fmt.Errorf("confirmation was not accepted in state %s", tc.controller.State())
	}
	return nil
}

func (tc *scanContext) dismiss() error {
	tc.controller.Dismiss()
	return nil
}

func (tc *scanContext) requestStarts() error {
	attempt, ok := tc.controller.Begin()
	if !ok {
		return fmt.Errorf("request did not start in state %s", tc.controller.State())
	}
	tc.attempt = attempt
	return nil
}

func (tc *scanContext) leaveScreen() error {
	tc.controller.Session().End()
	return nil
}

func (tc *scanContext) requestFinishes() error {
	res := tc.attempt.Run(context.Background(), tc.svc)
	if tc.controller.Apply(context.Background(), res) {
		return fmt.Errorf("late result was applied")
	}
	return nil
}

func (tc *scanContext) shouldBeAsked(prompt string) error {
	if tc.prompt != prompt {
		return fmt.Errorf("expected prompt %q, got %q", prompt, tc.prompt)
	}
	return nil
}

func (tc *scanContext) stateShouldBe(state string) error {
	if got := tc.controller.State().String(); got != state {
		return fmt.Errorf("expected state %q, got %q", state, got)
	}
	return nil
}

func (tc *scanContext) noticeShouldBe(notice string) error {
	if got := tc.controller.Notice(); got != notice {
		return fmt.Errorf("expected notice %q, got %q", notice, got)
	}
	return nil
}

func (tc *scanContext) resultShouldShow(label, value string) error {
	resp, ok := tc.controller.Response()
	if !ok {
		return fmt.Errorf("no classification on display")
	}
	for _, p := range resp.Percentages() {
		if p.Label == label {
			if p.Value != value {
				return fmt.Errorf("expected %s at %s, got %s", label, value, p.Value)
			}
			return nil
		}
	}
	return fmt.Errorf("label %q not shown", label)
}

func (tc *scanContext) noRequests() error {
	return tc.exactlyRequests(0)
}

func (tc *scanContext) exactlyRequests(n int) error {
	if got := tc.svc.count(); got != n {
		return fmt.Errorf("expected %d requests, got %d", n, got)
	}
	return nil
}

func (tc *scanContext) currentImageShouldBe(name string) error {
	if got := tc.controller.Image().Name(); got != name {
		return fmt.Errorf("expected image %q, got %q", name, got)
	}
	return nil
}

func (tc *scanContext) noClassificationShown() error {
	if _, ok := tc.controller.Response(); ok {
		return fmt.Errorf("a classification is on display")
	}
	return nil
}
