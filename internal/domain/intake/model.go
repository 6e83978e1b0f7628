package intake

import (
	"time"

	"github.com/google/uuid"
)

// Urgency is the coarse triage category computed once at submit time.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// RiskLabel is the advisory category computed from symptom text alone. It is
// deliberately a second, independently-evaluated classification and is not
// required to agree with the urgency flag.
type RiskLabel string

const (
	RiskMild        RiskLabel = "mild"
	RiskModerate    RiskLabel = "moderate"
	RiskNeedsReview RiskLabel = "needs_review"
)

// Status is the lifecycle state of a submission. Progression is monotonic:
// submitted → under_review → reviewed → scheduled. Escalation is a terminal
// branch reachable from any non-terminal state. Only back-office tooling
// mutates status after creation.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusReviewed    Status = "reviewed"
	StatusScheduled   Status = "scheduled"
	StatusEscalated   Status = "escalated"
)

var statusRank = map[Status]int{
	StatusSubmitted:   0,
	StatusUnderReview: 1,
	StatusReviewed:    2,
	StatusScheduled:   3,
}

// CanTransition reports whether moving from s to next respects the forward-only
// lifecycle.
func (s Status) CanTransition(next Status) bool {
	if s == StatusEscalated || s == StatusScheduled {
		return false
	}
	if next == StatusEscalated {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Duration categories accepted for how long symptoms have been present.
const (
	DurationUnderDay  = "<1 day"
	Duration1To3Days  = "1-3 days"
	Duration4To7Days  = "4-7 days"
	Duration1To2Weeks = "1-2 weeks"
	DurationOver2Wks  = ">2 weeks"
)

var validDurations = map[string]bool{
	DurationUnderDay:  true,
	Duration1To3Days:  true,
	Duration4To7Days:  true,
	Duration1To2Weeks: true,
	DurationOver2Wks:  true,
}

// Submission maps to the symptom_submission table. Urgency, assessment, risk
// label and confidence are set exactly once at creation and never recomputed.
type Submission struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	MemberID              uuid.UUID  `db:"member_id" json:"member_id"`
	Symptoms              string     `db:"symptoms" json:"symptoms"`
	Duration              *string    `db:"duration" json:"duration,omitempty"`
	Severity              *int       `db:"severity" json:"severity,omitempty"`
	OnsetDate             *time.Time `db:"onset_date" json:"onset_date,omitempty"`
	Urgency               Urgency    `db:"urgency" json:"urgency"`
	Status                Status     `db:"status" json:"status"`
	Assessment            string     `db:"assessment" json:"assessment"`
	RiskLabel             RiskLabel  `db:"risk_label" json:"risk_label"`
	Confidence            float64    `db:"confidence" json:"confidence"`
	AttachmentsIncomplete bool       `db:"attachments_incomplete" json:"attachments_incomplete"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
}

// SubmissionFile maps to the submission_file table. A row exists only after
// its bytes are durably stored; files are immutable after creation.
type SubmissionFile struct {
	ID           uuid.UUID `db:"id" json:"id"`
	SubmissionID uuid.UUID `db:"submission_id" json:"submission_id"`
	FileName     string    `db:"file_name" json:"file_name"`
	ContentType  string    `db:"content_type" json:"content_type"`
	URL          string    `db:"url" json:"url"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
