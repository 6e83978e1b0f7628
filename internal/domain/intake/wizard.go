package intake

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Step identifies a wizard screen. Steps are strictly linear going forward;
// backward navigation is always permitted and loses no entered data.
type Step int

const (
	StepDescribe Step = iota
	StepUpload
	StepReview
	StepNextSteps
)

func (s Step) String() string {
	switch s {
	case StepDescribe:
		return "describe"
	case StepUpload:
		return "upload"
	case StepReview:
		return "review"
	case StepNextSteps:
		return "next_steps"
	default:
		return "unknown"
	}
}

// Attachment types accepted by the wizard.
var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"video/mp4":  true,
}

// AllowedUploadType reports whether a MIME type is accepted for attachments.
func AllowedUploadType(contentType string) bool {
	return allowedUploadTypes[contentType]
}

// FileInput is an attachment staged in the wizard before submission.
type FileInput struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

// State is the serializable snapshot of a wizard session.
type State struct {
	SessionID  string      `json:"session_id"`
	Step       Step        `json:"step"`
	Symptoms   string      `json:"symptoms"`
	Duration   *string     `json:"duration,omitempty"`
	Severity   *int        `json:"severity,omitempty"`
	OnsetDate  *time.Time  `json:"onset_date,omitempty"`
	Files      []FileInput `json:"files"`
	Assessment *Assessment `json:"assessment,omitempty"`
}

// Wizard drives the four-step intake flow. All methods are safe for
// concurrent use.
type Wizard struct {
	mu          sync.Mutex
	state       State
	classifying bool
	submitting  bool
	classifier  Classifier
}

func NewWizard(classifier Classifier) *Wizard {
	if classifier == nil {
		classifier = RuleClassifier{}
	}
	return &Wizard{
		state:      State{SessionID: NewSessionID(), Step: StepDescribe},
		classifier: classifier,
	}
}

// State returns a snapshot of the current wizard state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.state
	s.Files = append([]FileInput(nil), w.state.Files...)
	return s
}

func (w *Wizard) SetSymptoms(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Symptoms = text
}

func (w *Wizard) SetSeverity(severity int) error {
	if severity < 1 || severity > 10 {
		return newValidationError("severity", "must be between 1 and 10")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Severity = &severity
	return nil
}

func (w *Wizard) SetDuration(duration string) error {
	if !validDurations[duration] {
		return newValidationError("duration", "unrecognized duration category")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Duration = &duration
	return nil
}

func (w *Wizard) SetOnsetDate(onset time.Time) error {
	if onset.After(time.Now()) {
		return newValidationError("onset_date", "cannot be in the future")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.OnsetDate = &onset
	return nil
}

// AddFile stages an attachment. Unsupported types are rejected at this
// boundary so they never reach storage.
func (w *Wizard) AddFile(name, contentType string, content []byte) error {
	if !AllowedUploadType(contentType) {
		return newValidationError("file", "unsupported file type "+contentType)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Files = append(w.state.Files, FileInput{Name: name, ContentType: contentType, Content: content})
	return nil
}

// Back moves one step backward. Entered data is retained.
func (w *Wizard) Back() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Step > StepDescribe {
		w.state.Step--
	}
	return w.state.Step
}

// Next advances the wizard one step. Leaving Describe requires a non-empty
// symptom description. Entering Review runs the classifier; while a
// classification is already in flight the call is a no-op so the classifier
// is never invoked twice for one entry.
func (w *Wizard) Next(ctx context.Context) (Step, error) {
	w.mu.Lock()

	switch w.state.Step {
	case StepDescribe:
		if strings.TrimSpace(w.state.Symptoms) == "" {
			w.mu.Unlock()
			return StepDescribe, newValidationError("symptoms", "description is required")
		}
		w.state.Step = StepUpload
		w.mu.Unlock()
		return StepUpload, nil

	case StepUpload:
		if w.classifying {
			w.mu.Unlock()
			return StepUpload, nil
		}
		w.classifying = true
		symptoms := w.state.Symptoms
		w.mu.Unlock()

		assessment, err := w.classifier.Classify(ctx, symptoms)

		w.mu.Lock()
		w.classifying = false
		if err != nil {
			w.mu.Unlock()
			return StepUpload, err
		}
		w.state.Assessment = &assessment
		w.state.Step = StepReview
		w.mu.Unlock()
		return StepReview, nil

	case StepReview:
		w.state.Step = StepNextSteps
		w.mu.Unlock()
		return StepNextSteps, nil

	default:
		step := w.state.Step
		w.mu.Unlock()
		return step, nil
	}
}

// BeginSubmit marks the session as submitting. It returns false when a submit
// is already in flight, which callers must treat as "do nothing".
func (w *Wizard) BeginSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting {
		return false
	}
	w.submitting = true
	return true
}

// EndSubmit clears the in-flight submit marker after a failed attempt so the
// member can retry. Successful submissions leave the marker set.
func (w *Wizard) EndSubmit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
}
