package intake

import (
	"context"

	"github.com/google/uuid"
)

// SubmissionRepository persists symptom submissions. Read operations are
// owner-scoped: a memberID that does not own the row behaves as if the row
// does not exist.
type SubmissionRepository interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, memberID, id uuid.UUID) (*Submission, error)
	ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*Submission, int, error)
	MarkAttachmentsIncomplete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	GetAnyByID(ctx context.Context, id uuid.UUID) (*Submission, error)
}

// FileRepository persists attachment metadata.
type FileRepository interface {
	Create(ctx context.Context, f *SubmissionFile) error
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*SubmissionFile, error)
}
