package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxBodyLength = 10000

type Service struct {
	notes Repository
}

func NewService(notes Repository) *Service {
	return &Service{notes: notes}
}

func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("body is required")
	}
	if len(body) > maxBodyLength {
		return fmt.Errorf("body exceeds %d characters", maxBodyLength)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, memberID uuid.UUID, title *string, body string, pinned bool) (*Note, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}
	n := &Note{MemberID: memberID, Title: title, Body: body, Pinned: pinned}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Get(ctx context.Context, memberID, id uuid.UUID) (*Note, error) {
	return s.notes.GetByID(ctx, memberID, id)
}

func (s *Service) List(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	return s.notes.ListByMember(ctx, memberID, limit, offset)
}

func (s *Service) Update(ctx context.Context, memberID, id uuid.UUID, title *string, body string, pinned bool) (*Note, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}
	n, err := s.notes.GetByID(ctx, memberID, id)
	if err != nil {
		return nil, err
	}
	n.Title = title
	n.Body = body
	n.Pinned = pinned
	if err := s.notes.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, memberID, id uuid.UUID) error {
	return s.notes.Delete(ctx, memberID, id)
}
