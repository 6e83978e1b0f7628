package member

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	members Repository
}

func NewService(members Repository) *Service {
	return &Service{members: members}
}

// Register creates a member account. Email addresses are normalized to lower
// case before the uniqueness check.
func (s *Service) Register(ctx context.Context, m *Member) error {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return fmt.Errorf("invalid email address")
	}
	if strings.TrimSpace(m.FullName) == "" {
		return fmt.Errorf("full_name is required")
	}
	if m.PlanTier == "" {
		m.PlanTier = TierEssential
	}
	if !validTiers[m.PlanTier] {
		return fmt.Errorf("unknown plan tier %q", m.PlanTier)
	}
	if m.Status == "" {
		m.Status = StatusActive
	}
	return s.members.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.members.GetByID(ctx, id)
}

// UpdateProfile applies the member-editable subset of fields.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, fullName string, phone, language *string) (*Member, error) {
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(fullName) != "" {
		m.FullName = fullName
	}
	if phone != nil {
		m.Phone = phone
	}
	if language != nil {
		m.PreferredLanguage = language
	}
	if err := s.members.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CompleteOnboarding marks the member as having finished the onboarding flow.
// Idempotent.
func (s *Service) CompleteOnboarding(ctx context.Context, id uuid.UUID) (*Member, error) {
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Onboarded {
		return m, nil
	}
	m.Onboarded = true
	if err := s.members.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ChangeTier moves a member to another plan. Staff only.
func (s *Service) ChangeTier(ctx context.Context, id uuid.UUID, tier string) (*Member, error) {
	if !validTiers[tier] {
		return nil, fmt.Errorf("unknown plan tier %q", tier)
	}
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.PlanTier = tier
	if err := s.members.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	return s.members.List(ctx, limit, offset)
}

func (s *Service) RecordLogin(ctx context.Context, id uuid.UUID) error {
	return s.members.TouchLastLogin(ctx, id)
}
