package member

import (
	"time"

	"github.com/google/uuid"
)

// Member maps to the member table.
type Member struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	FullName          string     `db:"full_name" json:"full_name"`
	Phone             *string    `db:"phone" json:"phone,omitempty"`
	PlanTier          string     `db:"plan_tier" json:"plan_tier"`
	Status            string     `db:"status" json:"status"`
	Onboarded         bool       `db:"onboarded" json:"onboarded"`
	PreferredLanguage *string    `db:"preferred_language" json:"preferred_language,omitempty"`
	LastLoginAt       *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Membership plan tiers.
const (
	TierEssential = "essential"
	TierPremier   = "premier"
	TierFamily    = "family"
)

var validTiers = map[string]bool{
	TierEssential: true,
	TierPremier:   true,
	TierFamily:    true,
}

// Account statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusClosed    = "closed"
)
