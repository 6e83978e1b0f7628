package intake

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/concierge/concierge/internal/platform/blobstore"
)

// Service coordinates validation, triage classification, persistence and
// attachment storage for the intake flow.
// TxRunner executes fn atomically. The default runs fn directly; the server
// installs a database transaction runner at wiring time.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	subs       SubmissionRepository
	files      FileRepository
	blobs      blobstore.Store
	classifier Classifier
	logger     zerolog.Logger
	tx         TxRunner
}

func NewService(subs SubmissionRepository, files FileRepository, blobs blobstore.Store, classifier Classifier, logger zerolog.Logger) *Service {
	if classifier == nil {
		classifier = RuleClassifier{}
	}
	return &Service{
		subs:       subs,
		files:      files,
		blobs:      blobs,
		classifier: classifier,
		logger:     logger.With().Str("component", "intake").Logger(),
		tx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

// SetTxRunner attaches a transaction runner so read-then-write operations run
// atomically against the database.
func (s *Service) SetTxRunner(run TxRunner) {
	s.tx = run
}

// Preview runs the classifier without persisting anything. Used by the Review
// step to show the member their assessment before they commit.
func (s *Service) Preview(ctx context.Context, symptoms string) (Assessment, error) {
	if strings.TrimSpace(symptoms) == "" {
		return Assessment{}, newValidationError("symptoms", "description is required")
	}
	return s.classifier.Classify(ctx, symptoms)
}

func validateSubmitInput(state State) error {
	if strings.TrimSpace(state.Symptoms) == "" {
		return newValidationError("symptoms", "description is required")
	}
	if state.Severity != nil && (*state.Severity < 1 || *state.Severity > 10) {
		return newValidationError("severity", "must be between 1 and 10")
	}
	if state.Duration != nil && !validDurations[*state.Duration] {
		return newValidationError("duration", "unrecognized duration category")
	}
	if state.OnsetDate != nil && state.OnsetDate.After(time.Now()) {
		return newValidationError("onset_date", "cannot be in the future")
	}
	for _, f := range state.Files {
		if !AllowedUploadType(f.ContentType) {
			return newValidationError("file", "unsupported file type "+f.ContentType)
		}
	}
	return nil
}

// Submit validates the wizard state, classifies it, persists the submission
// row and then stores attachments one at a time. The row is created before any
// upload is attempted; attachment failures never roll it back. When some
// uploads fail the submission is flagged and a PartialUploadError is returned
// alongside the persisted submission.
func (s *Service) Submit(ctx context.Context, memberID uuid.UUID, state State) (*Submission, error) {
	if memberID == uuid.Nil {
		return nil, newValidationError("member_id", "is required")
	}
	if err := validateSubmitInput(state); err != nil {
		return nil, err
	}

	assessment := state.Assessment
	if assessment == nil {
		a, err := s.classifier.Classify(ctx, state.Symptoms)
		if err != nil {
			return nil, fmt.Errorf("classify: %w", err)
		}
		assessment = &a
	}

	sub := &Submission{
		MemberID:   memberID,
		Symptoms:   state.Symptoms,
		Duration:   state.Duration,
		Severity:   state.Severity,
		OnsetDate:  state.OnsetDate,
		Urgency:    UrgencyFor(state.Symptoms, state.Severity),
		Status:     StatusSubmitted,
		Assessment: assessment.Text,
		RiskLabel:  assessment.RiskLabel,
		Confidence: assessment.Confidence,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}

	var failed []string
	for _, f := range state.Files {
		path := fmt.Sprintf("%s/%s/%s", memberID, sub.ID, f.Name)
		url, err := s.blobs.Upload(ctx, path, f.ContentType, bytes.NewReader(f.Content))
		if err != nil {
			s.logger.Error().Err(err).Str("submission_id", sub.ID.String()).Str("file", f.Name).
				Msg("attachment upload failed")
			failed = append(failed, f.Name)
			continue
		}
		file := &SubmissionFile{
			SubmissionID: sub.ID,
			FileName:     f.Name,
			ContentType:  f.ContentType,
			URL:          url,
		}
		if err := s.files.Create(ctx, file); err != nil {
			s.logger.Error().Err(err).Str("submission_id", sub.ID.String()).Str("file", f.Name).
				Msg("attachment record failed")
			failed = append(failed, f.Name)
		}
	}

	if len(failed) > 0 {
		sub.AttachmentsIncomplete = true
		if err := s.subs.MarkAttachmentsIncomplete(ctx, sub.ID); err != nil {
			s.logger.Error().Err(err).Str("submission_id", sub.ID.String()).
				Msg("failed to flag incomplete attachments")
		}
		return sub, &PartialUploadError{SubmissionID: sub.ID, FailedFiles: failed}
	}

	s.logger.Info().Str("submission_id", sub.ID.String()).Str("urgency", string(sub.Urgency)).
		Int("files", len(state.Files)).Msg("submission created")
	return sub, nil
}

// History returns the member's submissions, newest first.
func (s *Service) History(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*Submission, int, error) {
	return s.subs.ListByMember(ctx, memberID, limit, offset)
}

// Detail is a submission together with its attachments. FilesUnavailable is
// set when attachment metadata could not be loaded; the submission is still
// returned so the detail view degrades instead of failing.
type Detail struct {
	Submission       *Submission       `json:"submission"`
	Files            []*SubmissionFile `json:"files"`
	FilesUnavailable bool              `json:"files_unavailable,omitempty"`
}

func (s *Service) Detail(ctx context.Context, memberID, id uuid.UUID) (*Detail, error) {
	sub, err := s.subs.GetByID(ctx, memberID, id)
	if err != nil {
		return nil, err
	}

	files, err := s.files.ListBySubmission(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("submission_id", id.String()).
			Msg("attachments unavailable for detail view")
		return &Detail{Submission: sub, FilesUnavailable: true}, nil
	}
	return &Detail{Submission: sub, Files: files}, nil
}

// Files returns attachment metadata for a submission after verifying
// ownership.
func (s *Service) Files(ctx context.Context, memberID, id uuid.UUID) ([]*SubmissionFile, error) {
	if _, err := s.subs.GetByID(ctx, memberID, id); err != nil {
		return nil, err
	}
	return s.files.ListBySubmission(ctx, id)
}

// AdvanceStatus moves a submission through its lifecycle. Reserved for staff
// tooling; member-facing handlers never call it.
func (s *Service) AdvanceStatus(ctx context.Context, id uuid.UUID, next Status) (*Submission, error) {
	var sub *Submission
	err := s.tx(ctx, func(ctx context.Context) error {
		var err error
		sub, err = s.subs.GetAnyByID(ctx, id)
		if err != nil {
			return err
		}
		if !sub.Status.CanTransition(next) {
			return newValidationError("status", fmt.Sprintf("cannot move from %s to %s", sub.Status, next))
		}
		return s.subs.UpdateStatus(ctx, id, next)
	})
	if err != nil {
		return nil, err
	}
	sub.Status = next
	return sub, nil
}

// SummaryText renders the shareable plain-text summary for a submission. Pure
// function of its inputs: identical arguments always yield identical output.
func SummaryText(sessionID string, generatedAt time.Time, sub *Submission, files []*SubmissionFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Symptom Intake Summary\n")
	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))

	fmt.Fprintf(&b, "Symptoms: %s\n", sub.Symptoms)
	if sub.Duration != nil {
		fmt.Fprintf(&b, "Duration: %s\n", *sub.Duration)
	}
	if sub.Severity != nil {
		fmt.Fprintf(&b, "Severity: %d/10\n", *sub.Severity)
	}
	if sub.OnsetDate != nil {
		fmt.Fprintf(&b, "Onset: %s\n", sub.OnsetDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "Urgency: %s\n", sub.Urgency)
	fmt.Fprintf(&b, "Risk: %s (confidence %.2f)\n\n", sub.RiskLabel, sub.Confidence)

	fmt.Fprintf(&b, "Assessment:\n%s\n", sub.Assessment)

	if len(files) > 0 {
		fmt.Fprintf(&b, "\nAttachments:\n")
		for _, f := range files {
			fmt.Fprintf(&b, "  - %s (%s)\n", f.FileName, f.ContentType)
		}
	}
	return b.String()
}
