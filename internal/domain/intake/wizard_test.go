package intake

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingClassifier struct {
	calls int32
	delay time.Duration
}

func (c *countingClassifier) Classify(ctx context.Context, symptoms string) (Assessment, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return Classify(symptoms), nil
}

func TestWizard_RequiresSymptomsToLeaveDescribe(t *testing.T) {
	w := NewWizard(nil)

	step, err := w.Next(context.Background())
	if step != StepDescribe {
		t.Errorf("step = %s, want describe", step)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	w.SetSymptoms("   ")
	if _, err := w.Next(context.Background()); err == nil {
		t.Fatal("whitespace-only symptoms must not advance")
	}

	w.SetSymptoms("sore throat")
	step, err = w.Next(context.Background())
	if err != nil || step != StepUpload {
		t.Fatalf("expected upload step, got %s err %v", step, err)
	}
}

func TestWizard_BackRetainsData(t *testing.T) {
	w := NewWizard(nil)
	w.SetSymptoms("headache")
	if err := w.SetSeverity(6); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Next(context.Background()); err != nil {
		t.Fatal(err)
	}

	if step := w.Back(); step != StepDescribe {
		t.Errorf("step = %s, want describe", step)
	}
	state := w.State()
	if state.Symptoms != "headache" || state.Severity == nil || *state.Severity != 6 {
		t.Errorf("data lost on back navigation: %+v", state)
	}

	// back from the first step stays put
	if step := w.Back(); step != StepDescribe {
		t.Errorf("step = %s, want describe", step)
	}
}

func TestWizard_ReviewEntryClassifiesOnce(t *testing.T) {
	cl := &countingClassifier{delay: 50 * time.Millisecond}
	w := NewWizard(cl)
	w.SetSymptoms("severe headache")
	if _, err := w.Next(context.Background()); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Next(context.Background())
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&cl.calls); got != 1 {
		t.Errorf("classifier invoked %d times, want 1", got)
	}
	state := w.State()
	if state.Step != StepReview {
		t.Errorf("step = %s, want review", state.Step)
	}
	if state.Assessment == nil || state.Assessment.RiskLabel != RiskNeedsReview {
		t.Errorf("assessment not recorded: %+v", state.Assessment)
	}
}

func TestWizard_FieldValidation(t *testing.T) {
	w := NewWizard(nil)
	if err := w.SetSeverity(0); err == nil {
		t.Error("severity 0 accepted")
	}
	if err := w.SetSeverity(11); err == nil {
		t.Error("severity 11 accepted")
	}
	if err := w.SetDuration("forever"); err == nil {
		t.Error("bogus duration accepted")
	}
	if err := w.SetDuration(Duration1To3Days); err != nil {
		t.Errorf("valid duration rejected: %v", err)
	}
	if err := w.SetOnsetDate(time.Now().Add(48 * time.Hour)); err == nil {
		t.Error("future onset date accepted")
	}
}

func TestWizard_RejectsUnsupportedFileTypes(t *testing.T) {
	w := NewWizard(nil)
	if err := w.AddFile("report.pdf", "application/pdf", []byte("x")); err == nil {
		t.Error("pdf accepted")
	}
	if err := w.AddFile("rash.png", "image/png", []byte("x")); err != nil {
		t.Errorf("png rejected: %v", err)
	}
	if err := w.AddFile("clip.mp4", "video/mp4", []byte("x")); err != nil {
		t.Errorf("mp4 rejected: %v", err)
	}
}

func TestWizard_SubmitGuard(t *testing.T) {
	w := NewWizard(nil)
	if !w.BeginSubmit() {
		t.Fatal("first submit should proceed")
	}
	if w.BeginSubmit() {
		t.Fatal("second submit must be a no-op while one is in flight")
	}
	w.EndSubmit()
	if !w.BeginSubmit() {
		t.Fatal("submit should be possible again after a failed attempt")
	}
}

func TestWizard_NextStepsIsTerminal(t *testing.T) {
	w := NewWizard(&countingClassifier{})
	w.SetSymptoms("cough")
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := w.Next(ctx); err != nil {
			t.Fatal(err)
		}
	}
	step, err := w.Next(ctx)
	if err != nil || step != StepNextSteps {
		t.Errorf("expected to stay at next_steps, got %s err %v", step, err)
	}
}
