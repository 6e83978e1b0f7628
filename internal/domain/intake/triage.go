package intake

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Disclaimer is appended verbatim to every generated assessment.
const Disclaimer = "This is not a diagnosis. Your care team will review and follow up."

// DefaultSeverity is assumed when the member leaves the severity slider unset.
const DefaultSeverity = 5

// Assessment is the output of the rule-based classifier. Risk label and
// confidence are derived from symptom text only; they do not consider the
// severity score and may disagree with the urgency flag.
type Assessment struct {
	Text       string    `json:"text"`
	RiskLabel  RiskLabel `json:"risk_label"`
	Confidence float64   `json:"confidence"`
}

// UrgencyFor computes the triage urgency. Rules are evaluated first-match-wins:
// high when severity is 8+ or the text mentions severe symptoms or chest pain,
// medium when severity is 5+ or the text mentions pain or fever, low otherwise.
func UrgencyFor(symptoms string, severity *int) Urgency {
	text := strings.ToLower(symptoms)
	sev := DefaultSeverity
	if severity != nil {
		sev = *severity
	}

	if sev >= 8 || strings.Contains(text, "severe") || strings.Contains(text, "chest pain") {
		return UrgencyHigh
	}
	if sev >= 5 || strings.Contains(text, "pain") || strings.Contains(text, "fever") {
		return UrgencyMedium
	}
	return UrgencyLow
}

// riskFor classifies symptom text into an advisory risk label.
func riskFor(symptoms string) (RiskLabel, float64) {
	text := strings.ToLower(symptoms)
	switch {
	case strings.Contains(text, "severe"):
		return RiskNeedsReview, 0.55
	case strings.Contains(text, "pain"):
		return RiskModerate, 0.70
	default:
		return RiskMild, 0.85
	}
}

// Classify produces the advisory assessment for a symptom description. The
// output is deterministic for identical input.
func Classify(symptoms string) Assessment {
	risk, confidence := riskFor(symptoms)
	text := strings.ToLower(symptoms)

	var b strings.Builder
	switch {
	case strings.Contains(text, "headache"):
		b.WriteString("Your symptoms are consistent with a tension headache or migraine. Rest, hydration and over-the-counter pain relief may help in the meantime.")
	case strings.Contains(text, "throat"):
		b.WriteString("Your symptoms are consistent with viral pharyngitis. Warm fluids and rest are advisable while your care team reviews.")
	case strings.Contains(text, "cough"):
		b.WriteString("Your symptoms may indicate an upper respiratory infection. Monitor for fever or shortness of breath.")
	default:
		b.WriteString("Your symptoms suggest a common condition and have been recorded for review.")
	}

	switch risk {
	case RiskNeedsReview:
		b.WriteString(" Based on the severity described, a clinician will prioritize this submission.")
	case RiskModerate:
		b.WriteString(" A member of your care team will follow up within one business day.")
	}

	b.WriteString(" ")
	b.WriteString(Disclaimer)

	return Assessment{Text: b.String(), RiskLabel: risk, Confidence: confidence}
}

// NewSessionID returns an opaque identifier shown on the wizard summary. It is
// display-only and never used as a persistence key.
func NewSessionID() string {
	return uuid.New().String()
}

// Classifier produces an assessment for a symptom description. Implementations
// may suspend, so calls carry a context.
type Classifier interface {
	Classify(ctx context.Context, symptoms string) (Assessment, error)
}

// RuleClassifier wraps Classify behind the Classifier interface. Delay, when
// set, simulates model latency and respects context cancellation.
type RuleClassifier struct {
	Delay time.Duration
}

func (r RuleClassifier) Classify(ctx context.Context, symptoms string) (Assessment, error) {
	if r.Delay > 0 {
		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return Assessment{}, ctx.Err()
		}
	}
	return Classify(symptoms), nil
}
